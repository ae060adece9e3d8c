package discountpolicy

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avoronov/catalog-backend/internal/repo"
	"github.com/avoronov/catalog-backend/pkg/db/models"
	"github.com/avoronov/catalog-backend/pkg/enums"
	"github.com/avoronov/catalog-backend/pkg/pagination"
)

// Repository persists discount policies and their product associations.
type Repository struct {
	base repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{base: repo.NewBase(tx)}
}

// Create inserts a new policy row.
func (r *Repository) Create(ctx context.Context, policy *models.DiscountPolicy) (*models.DiscountPolicy, error) {
	if err := r.base.DB(ctx).Create(policy).Error; err != nil {
		return nil, err
	}
	return policy, nil
}

// FindByID loads a policy by its id.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.DiscountPolicy, error) {
	var policy models.DiscountPolicy
	if err := r.base.DB(ctx).First(&policy, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &policy, nil
}

// Save updates an existing policy row.
func (r *Repository) Save(ctx context.Context, policy *models.DiscountPolicy) (*models.DiscountPolicy, error) {
	if err := r.base.DB(ctx).Save(policy).Error; err != nil {
		return nil, err
	}
	return policy, nil
}

// List returns one page of policies with the total row count.
func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.DiscountPolicy, int64, error) {
	tx := r.base.DB(ctx).Model(&models.DiscountPolicy{})

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var policies []models.DiscountPolicy
	err := tx.
		Order("created_at ASC, id ASC").
		Offset(params.Offset()).
		Limit(params.Limit()).
		Find(&policies).Error
	if err != nil {
		return nil, 0, err
	}
	return policies, total, nil
}

// FindByTypeAndThreshold returns all policies sharing the given type and
// threshold. Value equality is decided by the caller (decimal comparison).
func (r *Repository) FindByTypeAndThreshold(ctx context.Context, discountType enums.DiscountType, threshold int) ([]models.DiscountPolicy, error) {
	var policies []models.DiscountPolicy
	err := r.base.DB(ctx).
		Where("type = ? AND threshold = ?", discountType, threshold).
		Find(&policies).Error
	if err != nil {
		return nil, err
	}
	return policies, nil
}

// DeleteByID removes a policy row. Missing rows are not an error.
func (r *Repository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return r.base.DB(ctx).Where("id = ?", id).Delete(&models.DiscountPolicy{}).Error
}

// DeleteProductAssociations removes every join row referencing the policy.
func (r *Repository) DeleteProductAssociations(ctx context.Context, policyID uuid.UUID) error {
	return r.base.DB(ctx).
		Where("discount_policy_id = ?", policyID).
		Delete(&models.ProductDiscountPolicy{}).Error
}
