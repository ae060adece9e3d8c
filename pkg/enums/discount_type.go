package enums

import "fmt"

// DiscountType represents the closed set of supported discount strategies.
type DiscountType string

const (
	DiscountTypeAmount     DiscountType = "AMOUNT"
	DiscountTypePercentage DiscountType = "PERCENTAGE"
)

var validDiscountTypes = []DiscountType{
	DiscountTypeAmount,
	DiscountTypePercentage,
}

// String implements fmt.Stringer.
func (t DiscountType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known DiscountType.
func (t DiscountType) IsValid() bool {
	for _, candidate := range validDiscountTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseDiscountType converts raw input into a DiscountType.
func ParseDiscountType(value string) (DiscountType, error) {
	for _, candidate := range validDiscountTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid discount type %q", value)
}
