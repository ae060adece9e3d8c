package discountpolicy

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avoronov/catalog-backend/pkg/db/models"
	"github.com/avoronov/catalog-backend/pkg/enums"
)

// PolicyDTO represents the discount policy payload returned to clients.
type PolicyDTO struct {
	ID        uuid.UUID          `json:"id"`
	Type      enums.DiscountType `json:"type"`
	Threshold int                `json:"threshold"`
	Value     decimal.Decimal    `json:"value"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// PolicyListResult is an offset-paginated page of policies.
type PolicyListResult struct {
	Items      []PolicyDTO `json:"items"`
	PageNumber int         `json:"pageNumber"`
	PageSize   int         `json:"pageSize"`
	TotalItems int64       `json:"totalItems"`
}

// NewPolicyDTO builds a DTO from the persisted model.
func NewPolicyDTO(policy *models.DiscountPolicy) *PolicyDTO {
	return &PolicyDTO{
		ID:        policy.ID,
		Type:      policy.Type,
		Threshold: policy.Threshold,
		Value:     policy.Value,
		CreatedAt: policy.CreatedAt,
		UpdatedAt: policy.UpdatedAt,
	}
}
