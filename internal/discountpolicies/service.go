package discountpolicy

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/avoronov/catalog-backend/pkg/db"
	"github.com/avoronov/catalog-backend/pkg/db/models"
	"github.com/avoronov/catalog-backend/pkg/enums"
	pkgerrors "github.com/avoronov/catalog-backend/pkg/errors"
	"github.com/avoronov/catalog-backend/pkg/pagination"
)

// Service exposes discount policy administration operations.
type Service interface {
	AddPolicy(ctx context.Context, input AddPolicyInput) (*PolicyDTO, error)
	GetPolicy(ctx context.Context, policyID uuid.UUID) (*PolicyDTO, error)
	ListPolicies(ctx context.Context, params pagination.Params) (*PolicyListResult, error)
	UpdatePolicy(ctx context.Context, policyID uuid.UUID, input UpdatePolicyInput) (*PolicyDTO, error)
	DeletePolicy(ctx context.Context, policyID uuid.UUID) error
}

// AddPolicyInput holds the validated payload to create a policy.
type AddPolicyInput struct {
	Type      enums.DiscountType
	Threshold int
	Value     decimal.Decimal
}

// UpdatePolicyInput holds the mutable policy fields. Type is immutable.
type UpdatePolicyInput struct {
	Threshold int
	Value     decimal.Decimal
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a discount policy service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("discount policy repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

// AddPolicy creates a policy after rejecting field-level duplicates.
func (s *service) AddPolicy(ctx context.Context, input AddPolicyInput) (*PolicyDTO, error) {
	policy := &models.DiscountPolicy{
		Type:      input.Type,
		Threshold: input.Threshold,
		Value:     input.Value,
	}

	if err := s.ensureUniqueFields(ctx, policy, uuid.Nil); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, policy)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert discount policy")
	}
	return NewPolicyDTO(created), nil
}

// GetPolicy loads a single policy by id.
func (s *service) GetPolicy(ctx context.Context, policyID uuid.UUID) (*PolicyDTO, error) {
	policy, err := s.repo.FindByID(ctx, policyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodePolicyNotFound, "discount policy not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load discount policy")
	}
	return NewPolicyDTO(policy), nil
}

// ListPolicies returns one page of policies.
func (s *service) ListPolicies(ctx context.Context, params pagination.Params) (*PolicyListResult, error) {
	params = params.Normalize()

	policies, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list discount policies")
	}

	items := make([]PolicyDTO, len(policies))
	for i := range policies {
		items[i] = *NewPolicyDTO(&policies[i])
	}
	return &PolicyListResult{
		Items:      items,
		PageNumber: params.PageNumber,
		PageSize:   params.PageSize,
		TotalItems: total,
	}, nil
}

// UpdatePolicy mutates threshold and value. The duplicate check skips the
// policy itself, so saving unchanged fields is accepted.
func (s *service) UpdatePolicy(ctx context.Context, policyID uuid.UUID, input UpdatePolicyInput) (*PolicyDTO, error) {
	policy, err := s.repo.FindByID(ctx, policyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodePolicyNotFound, "discount policy not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load discount policy")
	}

	policy.Threshold = input.Threshold
	policy.Value = input.Value

	if err := s.ensureUniqueFields(ctx, policy, policy.ID); err != nil {
		return nil, err
	}

	updated, err := s.repo.Save(ctx, policy)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update discount policy")
	}
	return NewPolicyDTO(updated), nil
}

// DeletePolicy removes the policy and any product associations referencing it.
// Deleting an unknown id is a no-op.
func (s *service) DeletePolicy(ctx context.Context, policyID uuid.UUID) error {
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.DeleteProductAssociations(ctx, policyID); err != nil {
			return err
		}
		return txRepo.DeleteByID(ctx, policyID)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete discount policy")
	}
	return nil
}

// ensureUniqueFields rejects a (type, threshold, value) combination already
// held by a different policy.
func (s *service) ensureUniqueFields(ctx context.Context, probe *models.DiscountPolicy, excludeID uuid.UUID) error {
	candidates, err := s.repo.FindByTypeAndThreshold(ctx, probe.Type, probe.Threshold)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check duplicate discount policy")
	}
	for _, candidate := range candidates {
		if candidate.ID == excludeID {
			continue
		}
		if candidate.SameFields(*probe) {
			return pkgerrors.New(pkgerrors.CodePolicyExists, "discount policy with the same fields already exists")
		}
	}
	return nil
}
