package discountprocessing

import (
	"github.com/shopspring/decimal"

	"github.com/avoronov/catalog-backend/pkg/enums"
	pkgerrors "github.com/avoronov/catalog-backend/pkg/errors"
)

var hundred = decimal.NewFromInt(100)

// discountFor dispatches to the per-type strategy. The switch is exhaustive
// over the closed DiscountType set; the default branch guards against rows
// that bypassed enum validation.
func discountFor(discountType enums.DiscountType, basePrice, value decimal.Decimal) (decimal.Decimal, error) {
	switch discountType {
	case enums.DiscountTypeAmount:
		return amountDiscount(value), nil
	case enums.DiscountTypePercentage:
		return percentageDiscount(basePrice, value), nil
	default:
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeUnsupportedDiscount, "unsupported discount type: "+discountType.String())
	}
}

// amountDiscount returns the configured value verbatim. Negative values
// contribute nothing. The base price is ignored.
func amountDiscount(value decimal.Decimal) decimal.Decimal {
	if value.IsNegative() {
		return decimal.Zero
	}
	return value
}

// percentageDiscount returns basePrice * value / 100 rounded to two digits,
// half to even. Values outside [0, 100] contribute nothing.
func percentageDiscount(basePrice, value decimal.Decimal) decimal.Decimal {
	if value.IsNegative() || value.GreaterThan(hundred) {
		return decimal.Zero
	}
	return basePrice.Mul(value).Div(hundred).RoundBank(2)
}
