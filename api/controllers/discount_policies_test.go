package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	discountpolicy "github.com/avoronov/catalog-backend/internal/discountpolicies"
	pkgerrors "github.com/avoronov/catalog-backend/pkg/errors"
	"github.com/avoronov/catalog-backend/pkg/pagination"
)

type stubPolicyService struct {
	policy *discountpolicy.PolicyDTO
	list   *discountpolicy.PolicyListResult
	err    error
	called string
}

func (s *stubPolicyService) AddPolicy(ctx context.Context, input discountpolicy.AddPolicyInput) (*discountpolicy.PolicyDTO, error) {
	s.called = "add"
	return s.policy, s.err
}

func (s *stubPolicyService) GetPolicy(ctx context.Context, policyID uuid.UUID) (*discountpolicy.PolicyDTO, error) {
	s.called = "get"
	return s.policy, s.err
}

func (s *stubPolicyService) ListPolicies(ctx context.Context, params pagination.Params) (*discountpolicy.PolicyListResult, error) {
	s.called = "list"
	return s.list, s.err
}

func (s *stubPolicyService) UpdatePolicy(ctx context.Context, policyID uuid.UUID, input discountpolicy.UpdatePolicyInput) (*discountpolicy.PolicyDTO, error) {
	s.called = "update"
	return s.policy, s.err
}

func (s *stubPolicyService) DeletePolicy(ctx context.Context, policyID uuid.UUID) error {
	s.called = "delete"
	return s.err
}

func TestCreateDiscountPolicy(t *testing.T) {
	logg := testLogger()

	t.Run("success", func(t *testing.T) {
		stub := &stubPolicyService{policy: &discountpolicy.PolicyDTO{ID: uuid.New(), Threshold: 5, Value: decimal.RequireFromString("10.00")}}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/discount-policies", strings.NewReader(`{"type":"PERCENTAGE","threshold":5,"value":10.00}`))
		rec := httptest.NewRecorder()

		CreateDiscountPolicy(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if stub.called != "add" {
			t.Fatalf("expected AddPolicy call, got %q", stub.called)
		}
	})

	t.Run("unknownType", func(t *testing.T) {
		stub := &stubPolicyService{}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/discount-policies", strings.NewReader(`{"type":"BOGOF","threshold":5,"value":10.00}`))
		rec := httptest.NewRecorder()

		CreateDiscountPolicy(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if stub.called != "" {
			t.Fatalf("service should not be called, got %q", stub.called)
		}
	})

	t.Run("zeroThreshold", func(t *testing.T) {
		stub := &stubPolicyService{}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/discount-policies", strings.NewReader(`{"type":"AMOUNT","threshold":0,"value":10.00}`))
		rec := httptest.NewRecorder()

		CreateDiscountPolicy(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("valueBelowMinimum", func(t *testing.T) {
		stub := &stubPolicyService{}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/discount-policies", strings.NewReader(`{"type":"AMOUNT","threshold":1,"value":0}`))
		rec := httptest.NewRecorder()

		CreateDiscountPolicy(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("duplicate", func(t *testing.T) {
		stub := &stubPolicyService{err: pkgerrors.New(pkgerrors.CodePolicyExists, "discount policy with the same fields already exists")}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/discount-policies", strings.NewReader(`{"type":"AMOUNT","threshold":1,"value":5.00}`))
		rec := httptest.NewRecorder()

		CreateDiscountPolicy(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusNotAcceptable {
			t.Fatalf("expected 406, got %d", rec.Code)
		}
	})
}

func TestUpdateDiscountPolicy(t *testing.T) {
	logg := testLogger()
	policyID := uuid.New()

	t.Run("success", func(t *testing.T) {
		stub := &stubPolicyService{policy: &discountpolicy.PolicyDTO{ID: policyID, Threshold: 7}}
		req := httptest.NewRequest(http.MethodPut, "/api/v1/discount-policies/"+policyID.String(), strings.NewReader(`{"threshold":7,"value":12.50}`))
		req = withURLParams(req, map[string]string{"discountPolicyId": policyID.String()})
		rec := httptest.NewRecorder()

		UpdateDiscountPolicy(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if stub.called != "update" {
			t.Fatalf("expected UpdatePolicy call, got %q", stub.called)
		}
	})

	t.Run("notFound", func(t *testing.T) {
		stub := &stubPolicyService{err: pkgerrors.New(pkgerrors.CodePolicyNotFound, "discount policy not found")}
		req := httptest.NewRequest(http.MethodPut, "/api/v1/discount-policies/"+policyID.String(), strings.NewReader(`{"threshold":7,"value":12.50}`))
		req = withURLParams(req, map[string]string{"discountPolicyId": policyID.String()})
		rec := httptest.NewRecorder()

		UpdateDiscountPolicy(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("typeNotAccepted", func(t *testing.T) {
		stub := &stubPolicyService{}
		req := httptest.NewRequest(http.MethodPut, "/api/v1/discount-policies/"+policyID.String(), strings.NewReader(`{"type":"AMOUNT","threshold":7,"value":12.50}`))
		req = withURLParams(req, map[string]string{"discountPolicyId": policyID.String()})
		rec := httptest.NewRecorder()

		UpdateDiscountPolicy(stub, logg).ServeHTTP(rec, req)

		// Unknown fields are rejected; type is immutable after creation.
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestDeleteDiscountPolicy(t *testing.T) {
	logg := testLogger()
	policyID := uuid.New()

	stub := &stubPolicyService{}
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/discount-policies/"+policyID.String(), nil)
	req = withURLParams(req, map[string]string{"discountPolicyId": policyID.String()})
	rec := httptest.NewRecorder()

	DeleteDiscountPolicy(stub, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.called != "delete" {
		t.Fatalf("expected DeletePolicy call, got %q", stub.called)
	}
}
