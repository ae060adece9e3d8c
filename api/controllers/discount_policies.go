package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/avoronov/catalog-backend/api/responses"
	"github.com/avoronov/catalog-backend/api/validators"
	discountpolicy "github.com/avoronov/catalog-backend/internal/discountpolicies"
	"github.com/avoronov/catalog-backend/pkg/enums"
	pkgerrors "github.com/avoronov/catalog-backend/pkg/errors"
	"github.com/avoronov/catalog-backend/pkg/logger"
)

var minPolicyValue = decimal.RequireFromString("0.01")

type createPolicyRequest struct {
	Type      string          `json:"type" validate:"required"`
	Threshold int             `json:"threshold" validate:"required,min=1"`
	Value     decimal.Decimal `json:"value"`
}

func (req createPolicyRequest) toInput() (discountpolicy.AddPolicyInput, error) {
	discountType, err := enums.ParseDiscountType(strings.TrimSpace(req.Type))
	if err != nil {
		return discountpolicy.AddPolicyInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "type:must be one of AMOUNT, PERCENTAGE")
	}
	if err := validators.ValidateMoney("value", req.Value, minPolicyValue); err != nil {
		return discountpolicy.AddPolicyInput{}, err
	}
	return discountpolicy.AddPolicyInput{
		Type:      discountType,
		Threshold: req.Threshold,
		Value:     req.Value,
	}, nil
}

type updatePolicyRequest struct {
	Threshold int             `json:"threshold" validate:"required,min=1"`
	Value     decimal.Decimal `json:"value"`
}

func (req updatePolicyRequest) toInput() (discountpolicy.UpdatePolicyInput, error) {
	if err := validators.ValidateMoney("value", req.Value, minPolicyValue); err != nil {
		return discountpolicy.UpdatePolicyInput{}, err
	}
	return discountpolicy.UpdatePolicyInput{
		Threshold: req.Threshold,
		Value:     req.Value,
	}, nil
}

// GetDiscountPolicy handles GET /api/v1/discount-policies/{discountPolicyId}.
func GetDiscountPolicy(svc discountpolicy.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		policyID, err := pathUUID(r, "discountPolicyId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		policy, err := svc.GetPolicy(r.Context(), policyID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, policy)
	}
}

// ListDiscountPolicies handles GET /api/v1/discount-policies.
func ListDiscountPolicies(svc discountpolicy.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListPolicies(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// CreateDiscountPolicy handles POST /api/v1/discount-policies.
func CreateDiscountPolicy(svc discountpolicy.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createPolicyRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		policy, err := svc.AddPolicy(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithPolicyID(ctx, policy.ID.String())
			logg.Info(ctx, "discount_policy.created")
		}
		responses.WriteSuccess(w, policy)
	}
}

// UpdateDiscountPolicy handles PUT /api/v1/discount-policies/{discountPolicyId}.
func UpdateDiscountPolicy(svc discountpolicy.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		policyID, err := pathUUID(r, "discountPolicyId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updatePolicyRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		policy, err := svc.UpdatePolicy(r.Context(), policyID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, policy)
	}
}

// DeleteDiscountPolicy handles DELETE /api/v1/discount-policies/{discountPolicyId}.
func DeleteDiscountPolicy(svc discountpolicy.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		policyID, err := pathUUID(r, "discountPolicyId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeletePolicy(r.Context(), policyID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
