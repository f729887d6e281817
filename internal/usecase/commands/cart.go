package commands

import (
	"context"
	"log/slog"

	"storefront-core/internal/domain/cart"
	"storefront-core/internal/pkg/clock"
	"storefront-core/internal/pkg/config"
	"storefront-core/internal/pkg/errs"
	"storefront-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AddCartItemInput struct {
	ProductID uuid.UUID
	VariantID *uuid.UUID
	Quantity  int
}

type PriceChange struct {
	ProductID uuid.UUID
	VariantID *uuid.UUID
	OldPrice  decimal.Decimal
	NewPrice  decimal.Decimal
}

type SyncResult struct {
	Cart        *cart.Cart
	Changes     []PriceChange
	Unavailable []cart.LineKey
}

type CheckoutValidation struct {
	Cart    *cart.Cart
	Current map[cart.LineKey]cart.CurrentProduct
	Report  cart.Report
}

type CartCommands interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*cart.Cart, error)
	AddItem(ctx context.Context, userID uuid.UUID, in AddCartItemInput) (*cart.Cart, error)
	UpdateItemQuantity(ctx context.Context, userID uuid.UUID, key cart.LineKey, quantity int) (*cart.Cart, error)
	RemoveItem(ctx context.Context, userID uuid.UUID, key cart.LineKey) (*cart.Cart, error)
	ClearCart(ctx context.Context, userID uuid.UUID) error
	SyncCartPrices(ctx context.Context, userID uuid.UUID) (*SyncResult, error)
	ValidateCartForCheckout(ctx context.Context, userID uuid.UUID) (*CheckoutValidation, error)
}

type cartCommandsImpl struct {
	uow       shared.UnitOfWork
	catalog   shared.Catalog
	clock     clock.Clock
	threshold decimal.Decimal
	logger    *slog.Logger
}

func NewCartCommands(uow shared.UnitOfWork, catalog shared.Catalog, clk clock.Clock, cfg config.Config, logger *slog.Logger) CartCommands {
	return &cartCommandsImpl{uow: uow, catalog: catalog, clock: clk, threshold: cfg.Checkout.PriceDriftThreshold, logger: logger}
}

func (uc *cartCommandsImpl) GetCart(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	var c *cart.Cart
	err := uc.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		c, err = tx.Carts().Load(ctx, userID)
		return err
	})
	if err != nil {
		return nil, errs.Fatal(err, "Failed to load cart")
	}
	return c, nil
}

func (uc *cartCommandsImpl) AddItem(ctx context.Context, userID uuid.UUID, in AddCartItemInput) (*cart.Cart, error) {
	if in.Quantity < 1 {
		return nil, errs.Validation(cart.ErrInvalidQuantity, "Quantity must be at least 1")
	}
	key := lineKey(in.ProductID, in.VariantID)
	current, err := uc.catalog.Lookup(ctx, []cart.LineKey{key})
	if err != nil {
		return nil, errs.Fatal(err, "Failed to load product")
	}
	cp, ok := current[key]
	if !ok {
		return nil, errs.NotFound(nil, "Product not found")
	}
	if !cp.Active {
		return nil, errs.BusinessRule(nil, "Product is not available")
	}

	return shared.WithinResult(ctx, uc.uow, func(ctx context.Context, tx shared.Tx) (*cart.Cart, error) {
		c, err := tx.Carts().Load(ctx, userID)
		if err != nil {
			return nil, err
		}
		requested := in.Quantity
		if existing, found := c.Item(key); found {
			requested += existing.Quantity
		}
		if requested > cp.Stock {
			return nil, errs.BusinessRule(nil, "Requested quantity exceeds available stock").
				WithDetail(map[string]int{"requested": requested, "available": cp.Stock})
		}
		err = c.AddItem(cart.Item{
			ProductID: in.ProductID,
			VariantID: in.VariantID,
			Quantity:  in.Quantity,
			Price:     cp.Price,
			AddedAt:   uc.clock.Now(),
		})
		if err != nil {
			return nil, errs.Validation(err, "Invalid cart item")
		}
		if err = tx.Carts().Save(ctx, c); err != nil {
			return nil, err
		}
		return c, nil
	})
}

func (uc *cartCommandsImpl) UpdateItemQuantity(ctx context.Context, userID uuid.UUID, key cart.LineKey, quantity int) (*cart.Cart, error) {
	return uc.mutate(ctx, userID, func(c *cart.Cart) error {
		return c.UpdateQuantity(key, quantity)
	})
}

func (uc *cartCommandsImpl) RemoveItem(ctx context.Context, userID uuid.UUID, key cart.LineKey) (*cart.Cart, error) {
	return uc.mutate(ctx, userID, func(c *cart.Cart) error {
		return c.RemoveItem(key)
	})
}

func (uc *cartCommandsImpl) ClearCart(ctx context.Context, userID uuid.UUID) error {
	return uc.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Carts().Clear(ctx, userID)
	})
}

func (uc *cartCommandsImpl) mutate(ctx context.Context, userID uuid.UUID, fn func(c *cart.Cart) error) (*cart.Cart, error) {
	return shared.WithinResult(ctx, uc.uow, func(ctx context.Context, tx shared.Tx) (*cart.Cart, error) {
		c, err := tx.Carts().Load(ctx, userID)
		if err != nil {
			return nil, err
		}
		if err = fn(c); err != nil {
			switch {
			case errs.Is(err, cart.ErrItemNotInCart):
				return nil, errs.NotFound(err, "Item not in cart")
			default:
				return nil, errs.Validation(err, "Invalid cart update")
			}
		}
		if err = tx.Carts().Save(ctx, c); err != nil {
			return nil, err
		}
		return c, nil
	})
}

// SyncCartPrices refreshes every snapshot to the current catalog price. Lines
// whose product disappeared are reported and left untouched.
func (uc *cartCommandsImpl) SyncCartPrices(ctx context.Context, userID uuid.UUID) (*SyncResult, error) {
	return shared.WithinResult(ctx, uc.uow, func(ctx context.Context, tx shared.Tx) (*SyncResult, error) {
		c, err := tx.Carts().Load(ctx, userID)
		if err != nil {
			return nil, err
		}
		current, err := uc.catalog.Lookup(ctx, keysOf(c))
		if err != nil {
			return nil, errs.Fatal(err, "Failed to load products")
		}

		result := &SyncResult{Cart: c}
		for _, it := range c.Items() {
			cp, ok := current[it.Key()]
			if !ok {
				result.Unavailable = append(result.Unavailable, it.Key())
				continue
			}
			if c.ReplaceSnapshot(it.Key(), cp.Price) {
				result.Changes = append(result.Changes, PriceChange{
					ProductID: it.ProductID,
					VariantID: it.VariantID,
					OldPrice:  it.Price.EffectivePrice(),
					NewPrice:  cp.Price.EffectivePrice(),
				})
			}
		}
		if len(result.Changes) > 0 {
			if err = tx.Carts().Save(ctx, c); err != nil {
				return nil, err
			}
			uc.logger.InfoContext(ctx, "cart prices synced",
				slog.String("user_id", userID.String()),
				slog.Int("changed_lines", len(result.Changes)))
		}
		return result, nil
	})
}

func (uc *cartCommandsImpl) ValidateCartForCheckout(ctx context.Context, userID uuid.UUID) (*CheckoutValidation, error) {
	c, err := uc.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	current := map[cart.LineKey]cart.CurrentProduct{}
	if !c.IsEmpty() {
		current, err = uc.catalog.Lookup(ctx, keysOf(c))
		if err != nil {
			return nil, errs.Fatal(err, "Failed to load products")
		}
	}
	return &CheckoutValidation{
		Cart:    c,
		Current: current,
		Report:  cart.ValidateForCheckout(c, current, uc.threshold),
	}, nil
}

func keysOf(c *cart.Cart) []cart.LineKey {
	items := c.Items()
	keys := make([]cart.LineKey, 0, len(items))
	for _, it := range items {
		keys = append(keys, it.Key())
	}
	return keys
}

func lineKey(productID uuid.UUID, variantID *uuid.UUID) cart.LineKey {
	k := cart.LineKey{ProductID: productID}
	if variantID != nil {
		k.VariantID = *variantID
	}
	return k
}
