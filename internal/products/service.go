package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/avoronov/catalog-backend/pkg/db"
	"github.com/avoronov/catalog-backend/pkg/db/models"
	pkgerrors "github.com/avoronov/catalog-backend/pkg/errors"
	"github.com/avoronov/catalog-backend/pkg/pagination"
)

// Service exposes catalog product management operations.
type Service interface {
	AddProduct(ctx context.Context, input AddProductInput) (*ProductDTO, error)
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	ListProducts(ctx context.Context, params pagination.Params) (*ProductListResult, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	AttachPolicy(ctx context.Context, productID, policyID uuid.UUID) (*ProductDTO, error)
	DetachPolicy(ctx context.Context, productID, policyID uuid.UUID) (*ProductDTO, error)
}

// AddProductInput holds the validated payload to create a product.
type AddProductInput struct {
	Name  string
	Price decimal.Decimal
}

// UpdateProductInput holds the full replacement payload for a product.
type UpdateProductInput struct {
	Name  string
	Price decimal.Decimal
}

type policyLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.DiscountPolicy, error)
}

type service struct {
	repo       *Repository
	dbClient   *db.Client
	policyRepo policyLoader
}

// NewService constructs a product service instance.
func NewService(repo *Repository, dbClient *db.Client, policyRepo policyLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if policyRepo == nil {
		return nil, fmt.Errorf("discount policy repository required")
	}
	return &service{repo: repo, dbClient: dbClient, policyRepo: policyRepo}, nil
}

// AddProduct creates a product with an empty policy set.
func (s *service) AddProduct(ctx context.Context, input AddProductInput) (*ProductDTO, error) {
	product := &models.Product{
		Name:  strings.TrimSpace(input.Name),
		Price: input.Price,
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}
	return NewProductDTO(created), nil
}

// GetProduct loads a product with its policy set.
func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.loadWithPolicies(ctx, productID)
	if err != nil {
		return nil, err
	}
	return NewProductDTO(product), nil
}

// ListProducts returns one page of products.
func (s *service) ListProducts(ctx context.Context, params pagination.Params) (*ProductListResult, error) {
	params = params.Normalize()

	products, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}

	items := make([]ProductDTO, len(products))
	for i := range products {
		items[i] = *NewProductDTO(&products[i])
	}
	return &ProductListResult{
		Items:      items,
		PageNumber: params.PageNumber,
		PageSize:   params.PageSize,
		TotalItems: total,
	}, nil
}

// UpdateProduct replaces name and price, leaving the policy set untouched.
func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.loadWithPolicies(ctx, productID)
	if err != nil {
		return nil, err
	}

	product.Name = strings.TrimSpace(input.Name)
	product.Price = input.Price

	if _, err := s.repo.Save(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}
	return NewProductDTO(product), nil
}

// DeleteProduct removes the product and its policy associations.
func (s *service) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeProductNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.DeletePolicyAssociations(ctx, productID); err != nil {
			return err
		}
		return txRepo.DeleteByID(ctx, productID)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	return nil
}

// AttachPolicy adds a policy to the product's set. A policy whose
// (type, threshold, value) combination is already present is rejected.
func (s *service) AttachPolicy(ctx context.Context, productID, policyID uuid.UUID) (*ProductDTO, error) {
	product, err := s.loadWithPolicies(ctx, productID)
	if err != nil {
		return nil, err
	}

	policy, err := s.policyRepo.FindByID(ctx, policyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodePolicyNotFound, "discount policy not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load discount policy")
	}

	for _, attached := range product.DiscountPolicies {
		if attached.SameFields(*policy) {
			return nil, pkgerrors.New(pkgerrors.CodeProductContainsPolicy, "product already contains an equivalent discount policy")
		}
	}

	nextSet := associationIDs(product.DiscountPolicies)
	nextSet = append(nextSet, policy.ID)
	if err := s.replaceAssociations(ctx, productID, nextSet); err != nil {
		return nil, err
	}

	return s.GetProduct(ctx, productID)
}

// DetachPolicy removes a policy from the product's set by id. Detaching an
// unattached policy is a no-op.
func (s *service) DetachPolicy(ctx context.Context, productID, policyID uuid.UUID) (*ProductDTO, error) {
	product, err := s.loadWithPolicies(ctx, productID)
	if err != nil {
		return nil, err
	}

	nextSet := make([]uuid.UUID, 0, len(product.DiscountPolicies))
	removed := false
	for _, attached := range product.DiscountPolicies {
		if attached.ID == policyID {
			removed = true
			continue
		}
		nextSet = append(nextSet, attached.ID)
	}
	if !removed {
		return NewProductDTO(product), nil
	}

	if err := s.replaceAssociations(ctx, productID, nextSet); err != nil {
		return nil, err
	}
	return s.GetProduct(ctx, productID)
}

func (s *service) loadWithPolicies(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByIDWithPolicies(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeProductNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	return product, nil
}

func (s *service) replaceAssociations(ctx context.Context, productID uuid.UUID, policyIDs []uuid.UUID) error {
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).ReplacePolicyAssociations(ctx, productID, policyIDs)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace policy associations")
	}
	return nil
}

func associationIDs(policies []models.DiscountPolicy) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(policies))
	for _, policy := range policies {
		ids = append(ids, policy.ID)
	}
	return ids
}
