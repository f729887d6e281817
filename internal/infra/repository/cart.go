package repository

import (
	"context"

	"storefront-core/internal/domain/cart"
	"storefront-core/internal/infra"
	"storefront-core/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	selectCartItemsSQL = `
SELECT product_id, variant_id, quantity, base_price, sale_price, currency, added_at
FROM cart_items WHERE user_id = $1 ORDER BY added_at, product_id`

	insertCartItemSQL = `
INSERT INTO cart_items (user_id, product_id, variant_id, quantity, base_price, sale_price, currency, added_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	clearCartSQL = `DELETE FROM cart_items WHERE user_id = $1`
)

type CartRepository struct {
	db db.DBTX
}

func NewCartRepository(dbtx db.DBTX) *CartRepository {
	return &CartRepository{db: dbtx}
}

// Load returns an empty cart for users without stored lines.
func (r *CartRepository) Load(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	rows, err := r.db.Query(ctx, selectCartItemsSQL, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load cart", err)
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (cart.Item, error) {
		var it cart.Item
		err := row.Scan(
			&it.ProductID, &it.VariantID, &it.Quantity,
			&it.Price.BasePrice, &it.Price.SalePrice, &it.Price.Currency, &it.AddedAt,
		)
		return it, err
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan cart items", err)
	}
	return cart.NewCart(userID, items), nil
}

// Save replaces every stored line of the cart owner with the cart's lines.
func (r *CartRepository) Save(ctx context.Context, c *cart.Cart) error {
	if err := r.Clear(ctx, c.UserID()); err != nil {
		return err
	}
	for _, it := range c.Items() {
		_, err := r.db.Exec(ctx, insertCartItemSQL,
			c.UserID(), it.ProductID, it.VariantID, it.Quantity,
			it.Price.BasePrice, it.Price.SalePrice, it.Price.Currency, it.AddedAt,
		)
		if err != nil {
			return infra.WrapRepoErr("failed to save cart item", err)
		}
	}
	return nil
}

func (r *CartRepository) Clear(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, clearCartSQL, userID); err != nil {
		return infra.WrapRepoErr("failed to clear cart", err)
	}
	return nil
}
