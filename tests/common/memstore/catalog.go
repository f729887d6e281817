//go:build unit

package memstore

import (
	"context"
	"sync"

	"storefront-core/internal/domain/cart"
	"storefront-core/internal/pkg/errs"
	"storefront-core/internal/usecase/shared"

	"github.com/google/uuid"
)

// Catalog serves live product state and owns the stock levels it reports, so
// stock decrements show up in later lookups.
type Catalog struct {
	mu       sync.Mutex
	products map[cart.LineKey]cart.CurrentProduct
	failAt   map[uuid.UUID]error
	calls    []shared.StockUpdate
}

var (
	_ shared.Catalog      = (*Catalog)(nil)
	_ shared.StockMutator = (*Catalog)(nil)
)

func NewCatalog(products ...cart.CurrentProduct) *Catalog {
	c := &Catalog{
		products: map[cart.LineKey]cart.CurrentProduct{},
		failAt:   map[uuid.UUID]error{},
	}
	for _, p := range products {
		c.Put(p)
	}
	return c
}

func keyOf(productID uuid.UUID, variantID *uuid.UUID) cart.LineKey {
	k := cart.LineKey{ProductID: productID}
	if variantID != nil {
		k.VariantID = *variantID
	}
	return k
}

func (c *Catalog) Put(p cart.CurrentProduct) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products[keyOf(p.ProductID, p.VariantID)] = p
}

// FailStock makes every stock update of productID return err.
func (c *Catalog) FailStock(productID uuid.UUID, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failAt[productID] = err
}

func (c *Catalog) Lookup(_ context.Context, keys []cart.LineKey) (map[cart.LineKey]cart.CurrentProduct, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[cart.LineKey]cart.CurrentProduct, len(keys))
	for _, k := range keys {
		if p, ok := c.products[k]; ok {
			out[k] = p
		}
	}
	return out, nil
}

func (c *Catalog) UpdateStock(_ context.Context, u shared.StockUpdate) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, u)
	if err := c.failAt[u.ProductID]; err != nil {
		return err
	}
	k := keyOf(u.ProductID, u.VariantID)
	p, ok := c.products[k]
	if !ok {
		return errs.NotFound(nil, "product not found")
	}
	switch u.Operation {
	case shared.StockDecrement:
		if p.Stock < u.Quantity {
			return errs.Wrap(shared.ErrInsufficientStock, "decrement stock")
		}
		p.Stock -= u.Quantity
	case shared.StockIncrement:
		p.Stock += u.Quantity
	case shared.StockSet:
		p.Stock = u.Quantity
	}
	c.products[k] = p
	return nil
}

func (c *Catalog) Stock(productID uuid.UUID, variantID *uuid.UUID) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.products[keyOf(productID, variantID)].Stock
}

func (c *Catalog) StockCalls() []shared.StockUpdate {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]shared.StockUpdate(nil), c.calls...)
}

type AddressBook map[uuid.UUID]shared.Address

func (b AddressBook) FindAddress(_ context.Context, addressID uuid.UUID) (*shared.Address, error) {
	a, ok := b[addressID]
	if !ok {
		return nil, errs.NotFound(nil, "address not found")
	}
	return &a, nil
}
