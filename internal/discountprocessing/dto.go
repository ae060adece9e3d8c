package discountprocessing

import "github.com/shopspring/decimal"

// CalculationResult is the priced order line returned by Calculate.
type CalculationResult struct {
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Discount   decimal.Decimal `json:"discount"`
	FinalPrice decimal.Decimal `json:"finalPrice"`
}
