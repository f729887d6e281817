//go:build unit

package marketplace

import (
	"context"
	"regexp"
	"testing"
	"time"

	"storefront-core/internal/domain/order"
	"storefront-core/internal/pkg/clock"
	"storefront-core/internal/pkg/config"
	"storefront-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testPolicy() FlatRatePolicy {
	return NewFlatRatePolicy(config.NewTestConfig().Checkout)
}

func TestFlatRateShipping_CalculateShippingFee(t *testing.T) {
	sellerA, sellerB := uuid.New(), uuid.New()
	shipping := NewFlatRateShipping(testPolicy())

	cases := []struct {
		name  string
		lines []shared.ShippingLine
		want  string
	}{
		{name: "empty order", lines: nil, want: "0"},
		{
			name: "one seller below threshold",
			lines: []shared.ShippingLine{
				{SellerID: sellerA, Quantity: 1, LineTotal: dec("100")},
				{SellerID: sellerA, Quantity: 2, LineTotal: dec("50")},
			},
			want: "40",
		},
		{
			name: "fee per distinct seller",
			lines: []shared.ShippingLine{
				{SellerID: sellerA, Quantity: 1, LineTotal: dec("100")},
				{SellerID: sellerB, Quantity: 1, LineTotal: dec("100")},
			},
			want: "80",
		},
		{
			name: "free at threshold",
			lines: []shared.ShippingLine{
				{SellerID: sellerA, Quantity: 1, LineTotal: dec("300")},
				{SellerID: sellerB, Quantity: 1, LineTotal: dec("200")},
			},
			want: "0",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fee, err := shipping.CalculateShippingFee(context.Background(), tc.lines, shared.Address{})
			require.NoError(t, err)
			assert.True(t, dec(tc.want).Equal(fee), "got %s", fee)
		})
	}
}

func TestBreakdownCalculator_Calculate(t *testing.T) {
	sellerA, sellerB := uuid.New(), uuid.New()
	calc := NewBreakdownCalculator(testPolicy(), config.NewTestConfig().Checkout)
	item := func(seller uuid.UUID, total string) order.Item {
		return order.Item{SellerID: seller, Quantity: 1, TotalPrice: dec(total)}
	}

	t.Run("groups by seller in first-seen order", func(t *testing.T) {
		got := calc.Calculate([]order.Item{
			item(sellerA, "100.05"),
			item(sellerB, "50"),
			item(sellerA, "20"),
		})

		require.Len(t, got, 2)
		assert.Equal(t, sellerA, got[0].SellerID)
		assert.True(t, dec("120.05").Equal(got[0].Subtotal))
		assert.True(t, dec("40").Equal(got[0].ShippingFee))
		assert.True(t, dec("12.01").Equal(got[0].CommissionAmount), "got %s", got[0].CommissionAmount)
		assert.True(t, dec("148.04").Equal(got[0].SellerEarnings), "got %s", got[0].SellerEarnings)

		assert.Equal(t, sellerB, got[1].SellerID)
		assert.True(t, dec("5").Equal(got[1].CommissionAmount))
		assert.True(t, dec("85").Equal(got[1].SellerEarnings))
	})

	t.Run("shipping is zero for every seller above threshold", func(t *testing.T) {
		got := calc.Calculate([]order.Item{item(sellerA, "400"), item(sellerB, "100")})

		for _, b := range got {
			assert.True(t, b.ShippingFee.IsZero())
			assert.True(t, b.Subtotal.Sub(b.CommissionAmount).Equal(b.SellerEarnings))
		}
	})

	t.Run("no items", func(t *testing.T) {
		assert.Empty(t, calc.Calculate(nil))
	})
}

func TestOrderNumberGenerator(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2026, 3, 7, 23, 30, 0, 0, time.UTC))
	gen := NewOrderNumberGenerator(clk)
	pattern := regexp.MustCompile(`^ORD-20260307-[A-Z2-7]{10}$`)

	seen := make(map[string]struct{})
	for range 200 {
		n, err := gen.GenerateOrderNumber()
		require.NoError(t, err)
		assert.Regexp(t, pattern, n)
		seen[n] = struct{}{}
	}
	assert.Len(t, seen, 200)
}
