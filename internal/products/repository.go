package product

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avoronov/catalog-backend/internal/repo"
	"github.com/avoronov/catalog-backend/pkg/db/models"
	"github.com/avoronov/catalog-backend/pkg/pagination"
)

// Repository persists products and the product↔policy association set.
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

func policyOrder(db *gorm.DB) *gorm.DB {
	return db.Order("discount_policies.created_at ASC, discount_policies.id ASC")
}

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.base.DB(ctx).Omit("DiscountPolicies").Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// FindByID loads the product without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.base.DB(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDWithPolicies loads the product with its policy set in stable order.
func (r *Repository) FindByIDWithPolicies(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.base.DB(ctx).
		Preload("DiscountPolicies", policyOrder).
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Save updates an existing product row without touching associations.
func (r *Repository) Save(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.base.DB(ctx).Omit("DiscountPolicies").Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// List returns one page of products (policies preloaded) with the total count.
func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.Product, int64, error) {
	var total int64
	if err := r.base.DB(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	err := r.base.DB(ctx).
		Preload("DiscountPolicies", policyOrder).
		Order("created_at ASC, id ASC").
		Offset(params.Offset()).
		Limit(params.Limit()).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// DeleteByID removes a product row.
func (r *Repository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return r.base.DB(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}

// ReplacePolicyAssociations replaces the product's join rows as a whole set.
func (r *Repository) ReplacePolicyAssociations(ctx context.Context, productID uuid.UUID, policyIDs []uuid.UUID) error {
	tx := r.base.DB(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductDiscountPolicy{}).Error; err != nil {
		return err
	}
	if len(policyIDs) == 0 {
		return nil
	}
	rows := make([]models.ProductDiscountPolicy, len(policyIDs))
	for i, policyID := range policyIDs {
		rows[i] = models.ProductDiscountPolicy{
			ProductID:        productID,
			DiscountPolicyID: policyID,
		}
	}
	return tx.Create(&rows).Error
}

// DeletePolicyAssociations removes every join row owned by the product.
func (r *Repository) DeletePolicyAssociations(ctx context.Context, productID uuid.UUID) error {
	return r.base.DB(ctx).
		Where("product_id = ?", productID).
		Delete(&models.ProductDiscountPolicy{}).Error
}
