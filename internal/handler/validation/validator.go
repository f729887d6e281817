package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)
	registerOnce    sync.Once
)

// RegisterGinValidators installs the custom rules on gin's binding engine.
func RegisterGinValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validatorv10.Validate); ok {
			Register(v)
		}
	})
}

// Register adds the money and currency rules. Decimal fields are validated
// through their string form.
func Register(v *validatorv10.Validate) {
	v.RegisterTagNameFunc(jsonFieldName)
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{}, decimal.NullDecimal{})
	_ = v.RegisterValidation("money", validateMoney)
	_ = v.RegisterValidation("currency", validateCurrency)
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

func decimalValue(field reflect.Value) any {
	switch d := field.Interface().(type) {
	case decimal.Decimal:
		return d.String()
	case decimal.NullDecimal:
		if !d.Valid {
			return nil
		}
		return d.Decimal.String()
	}
	return nil
}

// validateMoney accepts positive amounts with at most two decimal places.
func validateMoney(fl validatorv10.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return d.IsPositive() && d.Equal(d.Round(2))
}

func validateCurrency(fl validatorv10.FieldLevel) bool {
	return currencyPattern.MatchString(fl.Field().String())
}

// FieldErrors flattens validation failures into field -> rule.
func FieldErrors(err error) map[string]string {
	var ve validatorv10.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}
	out := make(map[string]string, len(ve))
	for _, fe := range ve {
		out[fe.Field()] = fe.Tag()
	}
	return out
}
