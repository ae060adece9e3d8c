package validators

import (
	"github.com/shopspring/decimal"

	pkgerrors "github.com/avoronov/catalog-backend/pkg/errors"
)

const (
	maxIntegerDigits    = 10
	maxFractionalDigits = 2
)

// ValidateMoney checks a monetary value against the schema bounds shared by
// prices and discount values: a lower bound, at most 10 integer digits, and
// at most 2 fractional digits.
func ValidateMoney(field string, value decimal.Decimal, min decimal.Decimal) *pkgerrors.Error {
	if value.LessThan(min) {
		return FieldError(field, "must be at least "+min.String())
	}
	if fractionalDigits(value) > maxFractionalDigits {
		return FieldError(field, "must have at most 2 fractional digits")
	}
	if integerDigits(value) > maxIntegerDigits {
		return FieldError(field, "must have at most 10 integer digits")
	}
	return nil
}

func fractionalDigits(value decimal.Decimal) int {
	if exp := value.Exponent(); exp < 0 {
		return int(-exp)
	}
	return 0
}

func integerDigits(value decimal.Decimal) int {
	whole := value.Abs().Truncate(0)
	if whole.IsZero() {
		return 1
	}
	return len(whole.String())
}
