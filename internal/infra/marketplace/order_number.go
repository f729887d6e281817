package marketplace

import (
	"crypto/rand"
	"encoding/base32"

	"storefront-core/internal/pkg/clock"
	"storefront-core/internal/pkg/errs"
)

const orderNumberSuffixLen = 10

var orderNumberEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

type OrderNumberGenerator struct {
	clock clock.Clock
}

func NewOrderNumberGenerator(clk clock.Clock) *OrderNumberGenerator {
	return &OrderNumberGenerator{clock: clk}
}

// GenerateOrderNumber returns ORD-YYYYMMDD-XXXXXXXXXX. The suffix carries 50
// random bits; collisions are caught by the unique index on order_number.
func (g *OrderNumberGenerator) GenerateOrderNumber() (string, error) {
	var buf [7]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", errs.Wrap(err, "failed to read random bytes for order number")
	}
	suffix := orderNumberEncoding.EncodeToString(buf[:])[:orderNumberSuffixLen]
	return "ORD-" + g.clock.Now().UTC().Format("20060102") + "-" + suffix, nil
}
