package coupon

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidCouponCode      = errors.New("invalid coupon code format")
	ErrInvalidDiscountAmount  = errors.New("discount amount must be positive")
	ErrInvalidDiscountPercent = errors.New("percentage discount must be between 0 and 100")
	ErrUnknownDiscountType    = errors.New("unknown discount type")
)

var couponCodeRegex = regexp.MustCompile(`^[A-Z0-9]{3,20}$`)

var hundred = decimal.NewFromInt(100)

type Code string

func NewCouponCode(code string) (Code, error) {
	code = strings.TrimSpace(strings.ToUpper(code))
	if !couponCodeRegex.MatchString(code) {
		return Code(""), ErrInvalidCouponCode
	}
	return Code(code), nil
}

func (c Code) String() string {
	return string(c)
}

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Discount is either a percentage of the applicable subtotal (optionally
// capped) or a fixed amount.
type Discount struct {
	typ         DiscountType
	value       decimal.Decimal
	maxDiscount *decimal.Decimal
}

func NewDiscount(typ DiscountType, value decimal.Decimal, maxDiscount *decimal.Decimal) (Discount, error) {
	switch typ {
	case DiscountPercentage:
		if !value.IsPositive() || value.GreaterThan(hundred) {
			return Discount{}, ErrInvalidDiscountPercent
		}
	case DiscountFixed:
		if !value.IsPositive() {
			return Discount{}, ErrInvalidDiscountAmount
		}
	default:
		return Discount{}, ErrUnknownDiscountType
	}
	if maxDiscount != nil && !maxDiscount.IsPositive() {
		return Discount{}, ErrInvalidDiscountAmount
	}
	return Discount{typ: typ, value: value, maxDiscount: maxDiscount}, nil
}

func (d Discount) Type() DiscountType            { return d.typ }
func (d Discount) Value() decimal.Decimal        { return d.value }
func (d Discount) MaxDiscount() *decimal.Decimal { return d.maxDiscount }
func (d Discount) IsPercentage() bool            { return d.typ == DiscountPercentage }

// CalculateDiscountAmount never exceeds the applicable amount.
func (d Discount) CalculateDiscountAmount(applicable decimal.Decimal) decimal.Decimal {
	if !applicable.IsPositive() {
		return decimal.Zero
	}
	var amount decimal.Decimal
	if d.IsPercentage() {
		amount = applicable.Mul(d.value).Div(hundred)
		if d.maxDiscount != nil && amount.GreaterThan(*d.maxDiscount) {
			amount = *d.maxDiscount
		}
	} else {
		amount = d.value
	}
	if amount.GreaterThan(applicable) {
		amount = applicable
	}
	return amount.Round(2)
}
