package repository

import (
	"context"
	"time"

	"storefront-core/internal/domain/coupon"
	"storefront-core/internal/infra"
	"storefront-core/internal/infra/db"

	"github.com/google/uuid"
)

const (
	selectCouponByCodeSQL = `
SELECT id, code, discount_type, discount_value, max_discount, min_subtotal,
	usage_limit, per_user_limit, valid_from, valid_to, is_active,
	applicable_product_ids, applicable_seller_ids
FROM coupons WHERE code = $1`

	countActiveUsagesSQL = `
SELECT
	COUNT(*),
	COUNT(*) FILTER (WHERE user_id = $2)
FROM coupon_usages WHERE coupon_id = $1 AND status = 'active'`

	insertCouponUsageSQL = `
INSERT INTO coupon_usages (id, coupon_id, user_id, order_id, discount_amount, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	selectCouponUsageSQL = `
SELECT id, coupon_id, user_id, order_id, discount_amount, status, created_at, reversed_at
FROM coupon_usages WHERE coupon_id = $1 AND user_id = $2 AND order_id = $3`

	// Only an active usage flips, so a second reversal affects no row.
	reverseCouponUsageSQL = `
UPDATE coupon_usages SET status = 'reversed', reversed_at = $4
WHERE coupon_id = $1 AND user_id = $2 AND order_id = $3 AND status = 'active'`
)

type CouponRepository struct {
	db db.DBTX
}

func NewCouponRepository(dbtx db.DBTX) *CouponRepository {
	return &CouponRepository{db: dbtx}
}

func (r *CouponRepository) FindByCode(ctx context.Context, code coupon.Code) (*coupon.Coupon, error) {
	var (
		p            coupon.Params
		discountType string
	)
	err := r.db.QueryRow(ctx, selectCouponByCodeSQL, code.String()).Scan(
		&p.ID, &p.Code, &discountType, &p.DiscountValue, &p.MaxDiscount, &p.MinSubtotal,
		&p.UsageLimit, &p.PerUserLimit, &p.ValidFrom, &p.ValidTo, &p.IsActive,
		&p.ApplicableProductIDs, &p.ApplicableSellerIDs,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find coupon by code", err)
	}
	p.DiscountType = coupon.DiscountType(discountType)

	c, err := coupon.NewCoupon(p)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to convert coupon row", err, infra.KindDBFailure)
	}
	return c, nil
}

func (r *CouponRepository) CountActiveUsages(ctx context.Context, couponID, userID uuid.UUID) (coupon.UsageCounts, error) {
	var total, forUser int
	if err := r.db.QueryRow(ctx, countActiveUsagesSQL, couponID, userID).Scan(&total, &forUser); err != nil {
		return coupon.UsageCounts{}, infra.WrapRepoErr("failed to count coupon usages", err)
	}
	return coupon.UsageCounts{Total: total, ForUser: forUser}, nil
}

func (r *CouponRepository) InsertUsage(ctx context.Context, u coupon.Usage) error {
	_, err := r.db.Exec(ctx, insertCouponUsageSQL,
		u.ID, u.CouponID, u.UserID, u.OrderID, u.DiscountAmount, string(u.Status), u.CreatedAt)
	if err != nil {
		return infra.WrapRepoErr("failed to insert coupon usage", err)
	}
	return nil
}

func (r *CouponRepository) FindUsage(ctx context.Context, couponID, userID, orderID uuid.UUID) (*coupon.Usage, error) {
	var (
		u      coupon.Usage
		status string
	)
	err := r.db.QueryRow(ctx, selectCouponUsageSQL, couponID, userID, orderID).Scan(
		&u.ID, &u.CouponID, &u.UserID, &u.OrderID, &u.DiscountAmount, &status, &u.CreatedAt, &u.ReversedAt,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find coupon usage", err)
	}
	u.Status = coupon.UsageStatus(status)
	return &u, nil
}

func (r *CouponRepository) MarkUsageReversed(ctx context.Context, couponID, userID, orderID uuid.UUID, at time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, reverseCouponUsageSQL, couponID, userID, orderID, at)
	if err != nil {
		return false, infra.WrapRepoErr("failed to reverse coupon usage", err)
	}
	return tag.RowsAffected() == 1, nil
}
