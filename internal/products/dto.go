package product

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	discountpolicy "github.com/avoronov/catalog-backend/internal/discountpolicies"
	"github.com/avoronov/catalog-backend/pkg/db/models"
)

// ProductDTO represents the catalog product payload returned to clients,
// including the attached discount policies.
type ProductDTO struct {
	ID               uuid.UUID                  `json:"id"`
	Name             string                     `json:"name"`
	Price            decimal.Decimal            `json:"price"`
	DiscountPolicies []discountpolicy.PolicyDTO `json:"discountPolicies"`
	CreatedAt        time.Time                  `json:"createdAt"`
	UpdatedAt        time.Time                  `json:"updatedAt"`
}

// ProductListResult is an offset-paginated page of products.
type ProductListResult struct {
	Items      []ProductDTO `json:"items"`
	PageNumber int          `json:"pageNumber"`
	PageSize   int          `json:"pageSize"`
	TotalItems int64        `json:"totalItems"`
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(product *models.Product) *ProductDTO {
	policies := make([]discountpolicy.PolicyDTO, len(product.DiscountPolicies))
	for i := range product.DiscountPolicies {
		policies[i] = *discountpolicy.NewPolicyDTO(&product.DiscountPolicies[i])
	}
	return &ProductDTO{
		ID:               product.ID,
		Name:             product.Name,
		Price:            product.Price,
		DiscountPolicies: policies,
		CreatedAt:        product.CreatedAt,
		UpdatedAt:        product.UpdatedAt,
	}
}
