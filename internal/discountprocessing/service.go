package discountprocessing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/avoronov/catalog-backend/pkg/db/models"
	"github.com/avoronov/catalog-backend/pkg/enums"
	pkgerrors "github.com/avoronov/catalog-backend/pkg/errors"
)

// Service prices an order line against the product's discount policies.
type Service interface {
	Calculate(ctx context.Context, productID uuid.UUID, quantity int) (*CalculationResult, error)
}

type productLoader interface {
	FindByIDWithPolicies(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	products productLoader
}

// NewService constructs a discount processing service instance.
func NewService(products productLoader) (Service, error) {
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{products: products}, nil
}

// Calculate computes total, discount, and final price for the given quantity.
// Reads only; repeated calls over unchanged state yield identical results.
func (s *service) Calculate(ctx context.Context, productID uuid.UUID, quantity int) (*CalculationResult, error) {
	product, err := s.products.FindByIDWithPolicies(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeProductNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}

	winners := resolvePolicies(product.DiscountPolicies, quantity)

	totalPrice := product.Price.Mul(decimal.NewFromInt(int64(quantity)))

	discount := decimal.Zero
	for _, policy := range winners {
		amount, err := discountFor(policy.Type, totalPrice, policy.Value)
		if err != nil {
			return nil, err
		}
		discount = discount.Add(amount)
	}

	finalPrice := totalPrice.Sub(discount)
	if finalPrice.IsNegative() {
		finalPrice = decimal.Zero
	}
	finalPrice = finalPrice.RoundBank(2)

	return &CalculationResult{
		TotalPrice: totalPrice,
		Discount:   discount,
		FinalPrice: finalPrice,
	}, nil
}

// resolvePolicies keeps one winner per discount type among the applicable
// policies: a strictly greater threshold replaces the current selection, an
// equal threshold keeps it.
func resolvePolicies(policies []models.DiscountPolicy, quantity int) map[enums.DiscountType]models.DiscountPolicy {
	winners := make(map[enums.DiscountType]models.DiscountPolicy)
	for _, policy := range policies {
		if quantity < policy.Threshold {
			continue
		}
		current, ok := winners[policy.Type]
		if !ok || policy.Threshold > current.Threshold {
			winners[policy.Type] = policy
		}
	}
	return winners
}
