package repository

import (
	"context"

	"storefront-core/internal/infra"
	"storefront-core/internal/infra/db"
	"storefront-core/internal/pkg/errs"
	"storefront-core/internal/usecase/shared"
)

const (
	incrementProductStockSQL = `UPDATE products SET stock = stock + $2, updated_at = now() WHERE id = $1`
	incrementVariantStockSQL = `UPDATE product_variants SET stock = stock + $2, updated_at = now() WHERE id = $1`

	// The guard makes a decrement fail instead of driving stock negative.
	decrementProductStockSQL = `UPDATE products SET stock = stock - $2, updated_at = now() WHERE id = $1 AND stock >= $2`
	decrementVariantStockSQL = `UPDATE product_variants SET stock = stock - $2, updated_at = now() WHERE id = $1 AND stock >= $2`

	setProductStockSQL = `UPDATE products SET stock = $2, updated_at = now() WHERE id = $1`
	setVariantStockSQL = `UPDATE product_variants SET stock = $2, updated_at = now() WHERE id = $1`
)

var errUnknownStockOperation = errs.New("unknown stock operation")

// StockRepository updates product or variant stock one row at a time, outside
// any unit of work.
type StockRepository struct {
	db db.DBTX
}

func NewStockRepository(dbtx db.DBTX) *StockRepository {
	return &StockRepository{db: dbtx}
}

func (r *StockRepository) UpdateStock(ctx context.Context, u shared.StockUpdate) error {
	if u.Quantity < 0 {
		return infra.WrapRepoErr("stock quantity cannot be negative", nil, infra.KindCheckViolated)
	}
	query, err := stockQuery(u)
	if err != nil {
		return infra.WrapRepoErr("unsupported stock operation", err, infra.KindCheckViolated)
	}
	id := u.ProductID
	if u.VariantID != nil {
		id = *u.VariantID
	}

	tag, err := r.db.Exec(ctx, query, id, u.Quantity)
	if err != nil {
		return infra.WrapRepoErr("failed to update stock", err)
	}
	if tag.RowsAffected() == 0 {
		if u.Operation == shared.StockDecrement {
			return infra.WrapRepoErr("insufficient stock or product missing", shared.ErrInsufficientStock, infra.KindCheckViolated)
		}
		return infra.WrapRepoErr("product not found", nil, infra.KindNotFound)
	}
	return nil
}

func stockQuery(u shared.StockUpdate) (string, error) {
	variant := u.VariantID != nil
	switch u.Operation {
	case shared.StockIncrement:
		if variant {
			return incrementVariantStockSQL, nil
		}
		return incrementProductStockSQL, nil
	case shared.StockDecrement:
		if variant {
			return decrementVariantStockSQL, nil
		}
		return decrementProductStockSQL, nil
	case shared.StockSet:
		if variant {
			return setVariantStockSQL, nil
		}
		return setProductStockSQL, nil
	default:
		return "", errs.Wrapf(errUnknownStockOperation, "operation %q", u.Operation)
	}
}
