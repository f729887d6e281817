//go:build unit

package commands_test

import (
	"testing"

	"storefront-core/internal/domain/cart"
	"storefront-core/internal/pkg/config"
	"storefront-core/internal/pkg/errs"
	"storefront-core/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartCommands_AddItem(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	p := f.product(uuid.New(), "250", 3)

	c, err := f.carts.AddItem(ctx, f.buyer, commands.AddCartItemInput{ProductID: p.ProductID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, c.TotalItems())
	assert.True(t, dec("500").Equal(c.TotalAmount()))

	t.Run("merges into the existing line up to stock", func(t *testing.T) {
		_, err := f.carts.AddItem(ctx, f.buyer, commands.AddCartItemInput{ProductID: p.ProductID, Quantity: 2})
		require.Equal(t, errs.KindBusinessRule, errs.KindOf(err))
		appErr, _ := errs.AsError(err)
		assert.Equal(t, map[string]int{"requested": 4, "available": 3}, appErr.Detail)

		c, err := f.carts.AddItem(ctx, f.buyer, commands.AddCartItemInput{ProductID: p.ProductID, Quantity: 1})
		require.NoError(t, err)
		require.Len(t, c.Items(), 1)
		assert.Equal(t, 3, c.Items()[0].Quantity)
	})

	t.Run("rejections", func(t *testing.T) {
		inactive := f.product(uuid.New(), "10", 5)
		inactive.Active = false
		f.catalog.Put(inactive)

		cases := []struct {
			name string
			in   commands.AddCartItemInput
			kind errs.Kind
		}{
			{name: "zero quantity", in: commands.AddCartItemInput{ProductID: p.ProductID, Quantity: 0}, kind: errs.KindValidation},
			{name: "unknown product", in: commands.AddCartItemInput{ProductID: uuid.New(), Quantity: 1}, kind: errs.KindNotFound},
			{name: "inactive product", in: commands.AddCartItemInput{ProductID: inactive.ProductID, Quantity: 1}, kind: errs.KindBusinessRule},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := f.carts.AddItem(ctx, f.buyer, tc.in)
				assert.Equal(t, tc.kind, errs.KindOf(err))
			})
		}
	})
}

func TestCartCommands_Mutations(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	variant := uuid.New()
	p := f.product(uuid.New(), "40", 10)
	p.VariantID = &variant
	f.catalog.Put(p)
	f.addToCart(t, p, 1)
	key := cart.LineKey{ProductID: p.ProductID, VariantID: variant}

	c, err := f.carts.UpdateItemQuantity(ctx, f.buyer, key, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, c.TotalItems())

	_, err = f.carts.UpdateItemQuantity(ctx, f.buyer, key, 0)
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))

	_, err = f.carts.UpdateItemQuantity(ctx, f.buyer, cart.LineKey{ProductID: p.ProductID}, 2)
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err), "the variant is part of the line key")

	c, err = f.carts.RemoveItem(ctx, f.buyer, key)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())

	_, err = f.carts.RemoveItem(ctx, f.buyer, key)
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))

	f.addToCart(t, p, 2)
	require.NoError(t, f.carts.ClearCart(ctx, f.buyer))
	c, err = f.carts.GetCart(ctx, f.buyer)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestCartCommands_SyncAndValidate(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	stable := f.product(uuid.New(), "100", 10)
	drifting := f.product(uuid.New(), "100", 10)
	gone := f.product(uuid.New(), "30", 10)
	f.addToCart(t, stable, 1)
	f.addToCart(t, drifting, 2)
	f.addToCart(t, gone, 1)

	sale := dec("80")
	drifting.Price.SalePrice = &sale
	f.catalog.Put(drifting)
	gone.Active = false
	gone.Stock = 0
	f.catalog.Put(gone)

	v, err := f.carts.ValidateCartForCheckout(ctx, f.buyer)
	require.NoError(t, err)
	assert.False(t, v.Report.IsValid())
	types := map[cart.IssueType]int{}
	for _, is := range v.Report.Issues {
		types[is.Type]++
	}
	assert.Equal(t, map[cart.IssueType]int{cart.IssuePriceChanged: 1, cart.IssueProductUnavailable: 1}, types)

	res, err := f.carts.SyncCartPrices(ctx, f.buyer)
	require.NoError(t, err)
	require.Len(t, res.Changes, 1)
	assert.Equal(t, drifting.ProductID, res.Changes[0].ProductID)
	assert.True(t, dec("100").Equal(res.Changes[0].OldPrice))
	assert.True(t, dec("80").Equal(res.Changes[0].NewPrice))
	assert.Empty(t, res.Unavailable, "inactive products are still known to the catalog")
	assert.True(t, dec("290").Equal(res.Cart.TotalAmount()))

	_, err = f.carts.RemoveItem(ctx, f.buyer, cart.LineKey{ProductID: gone.ProductID})
	require.NoError(t, err)
	v, err = f.carts.ValidateCartForCheckout(ctx, f.buyer)
	require.NoError(t, err)
	assert.True(t, v.Report.IsValid())

	lines, subtotal := commands.CartCouponLines(v)
	assert.Len(t, lines, 2)
	assert.True(t, dec("260").Equal(subtotal))
}

func TestCartCommands_ZeroDriftThresholdFlagsAnyChange(t *testing.T) {
	f := newFixture(t, func(cfg *config.Config) { cfg.Checkout.PriceDriftThreshold = decimal.Zero })
	p := f.product(uuid.New(), "100", 10)
	f.addToCart(t, p, 1)

	p.Price.BasePrice = dec("101")
	f.catalog.Put(p)

	v, err := f.carts.ValidateCartForCheckout(t.Context(), f.buyer)
	require.NoError(t, err)
	require.Len(t, v.Report.Issues, 1)
	assert.Equal(t, cart.IssuePriceChanged, v.Report.Issues[0].Type)
}
