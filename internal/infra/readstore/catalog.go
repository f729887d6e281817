package readstore

import (
	"context"

	"storefront-core/internal/domain/cart"
	"storefront-core/internal/infra"
	"storefront-core/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// A requested variant that does not belong to the product yields no row.
const catalogLookupSQL = `
SELECT p.id, v.id, p.seller_id,
	CASE WHEN v.id IS NULL THEN p.title ELSE p.title || ' - ' || v.title END,
	p.thumbnail,
	p.is_active AND COALESCE(v.is_active, TRUE),
	COALESCE(v.stock, p.stock),
	COALESCE(v.base_price, p.base_price),
	CASE WHEN v.id IS NULL THEN p.sale_price ELSE v.sale_price END,
	p.currency
FROM unnest($1::uuid[], $2::uuid[]) AS k(product_id, variant_id)
JOIN products p ON p.id = k.product_id
LEFT JOIN product_variants v ON v.id = k.variant_id AND v.product_id = p.id
WHERE k.variant_id = '00000000-0000-0000-0000-000000000000'::uuid OR v.id IS NOT NULL`

type CatalogReadStore struct {
	db db.DBTX
}

func NewCatalogReadStore(dbtx db.DBTX) *CatalogReadStore {
	return &CatalogReadStore{db: dbtx}
}

func (r *CatalogReadStore) Lookup(ctx context.Context, keys []cart.LineKey) (map[cart.LineKey]cart.CurrentProduct, error) {
	out := make(map[cart.LineKey]cart.CurrentProduct, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	productIDs := make([]uuid.UUID, len(keys))
	variantIDs := make([]uuid.UUID, len(keys))
	for i, k := range keys {
		productIDs[i] = k.ProductID
		variantIDs[i] = k.VariantID
	}

	rows, err := r.db.Query(ctx, catalogLookupSQL, productIDs, variantIDs)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to look up catalog", err)
	}
	products, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (cart.CurrentProduct, error) {
		var cp cart.CurrentProduct
		err := row.Scan(
			&cp.ProductID, &cp.VariantID, &cp.SellerID, &cp.Title, &cp.Thumbnail,
			&cp.Active, &cp.Stock, &cp.Price.BasePrice, &cp.Price.SalePrice, &cp.Price.Currency,
		)
		return cp, err
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan catalog rows", err)
	}
	for _, cp := range products {
		k := cart.LineKey{ProductID: cp.ProductID}
		if cp.VariantID != nil {
			k.VariantID = *cp.VariantID
		}
		out[k] = cp
	}
	return out, nil
}
