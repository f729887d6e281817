package readstore

import (
	"context"

	"storefront-core/internal/infra"
	"storefront-core/internal/infra/db"
	"storefront-core/internal/usecase/shared"

	"github.com/google/uuid"
)

const addressByIDSQL = `
SELECT id, user_id, line1, city, state, postal_code, country
FROM addresses WHERE id = $1`

type AddressReadStore struct {
	db db.DBTX
}

func NewAddressReadStore(dbtx db.DBTX) *AddressReadStore {
	return &AddressReadStore{db: dbtx}
}

func (r *AddressReadStore) FindAddress(ctx context.Context, addressID uuid.UUID) (*shared.Address, error) {
	var a shared.Address
	err := r.db.QueryRow(ctx, addressByIDSQL, addressID).Scan(
		&a.ID, &a.UserID, &a.Line1, &a.City, &a.State, &a.PostalCode, &a.Country,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find address", err)
	}
	return &a, nil
}
