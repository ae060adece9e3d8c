package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	discountpolicy "github.com/avoronov/catalog-backend/internal/discountpolicies"
	"github.com/avoronov/catalog-backend/internal/discountprocessing"
	productsvc "github.com/avoronov/catalog-backend/internal/products"
	"github.com/avoronov/catalog-backend/pkg/config"
	pkgerrors "github.com/avoronov/catalog-backend/pkg/errors"
	"github.com/avoronov/catalog-backend/pkg/logger"
	"github.com/avoronov/catalog-backend/pkg/metrics"
	"github.com/avoronov/catalog-backend/pkg/pagination"
	"github.com/avoronov/catalog-backend/pkg/types"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubProductService struct{}

func (stubProductService) AddProduct(context.Context, productsvc.AddProductInput) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{ID: uuid.New()}, nil
}

func (stubProductService) GetProduct(context.Context, uuid.UUID) (*productsvc.ProductDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeProductNotFound, "product not found")
}

func (stubProductService) ListProducts(context.Context, pagination.Params) (*productsvc.ProductListResult, error) {
	return &productsvc.ProductListResult{Items: []productsvc.ProductDTO{}}, nil
}

func (stubProductService) UpdateProduct(context.Context, uuid.UUID, productsvc.UpdateProductInput) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{}, nil
}

func (stubProductService) DeleteProduct(context.Context, uuid.UUID) error { return nil }

func (stubProductService) AttachPolicy(context.Context, uuid.UUID, uuid.UUID) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{}, nil
}

func (stubProductService) DetachPolicy(context.Context, uuid.UUID, uuid.UUID) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{}, nil
}

type stubPolicyService struct{}

func (stubPolicyService) AddPolicy(context.Context, discountpolicy.AddPolicyInput) (*discountpolicy.PolicyDTO, error) {
	return &discountpolicy.PolicyDTO{ID: uuid.New()}, nil
}

func (stubPolicyService) GetPolicy(context.Context, uuid.UUID) (*discountpolicy.PolicyDTO, error) {
	return &discountpolicy.PolicyDTO{}, nil
}

func (stubPolicyService) ListPolicies(context.Context, pagination.Params) (*discountpolicy.PolicyListResult, error) {
	return &discountpolicy.PolicyListResult{Items: []discountpolicy.PolicyDTO{}}, nil
}

func (stubPolicyService) UpdatePolicy(context.Context, uuid.UUID, discountpolicy.UpdatePolicyInput) (*discountpolicy.PolicyDTO, error) {
	return &discountpolicy.PolicyDTO{}, nil
}

func (stubPolicyService) DeletePolicy(context.Context, uuid.UUID) error { return nil }

type stubProcessingService struct{}

func (stubProcessingService) Calculate(context.Context, uuid.UUID, int) (*discountprocessing.CalculationResult, error) {
	return &discountprocessing.CalculationResult{
		TotalPrice: decimal.RequireFromString("100.00"),
		Discount:   decimal.Zero,
		FinalPrice: decimal.RequireFromString("100.00"),
	}, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	registry := prometheus.NewRegistry()
	return NewRouter(Dependencies{
		Config:            &config.Config{App: config.AppConfig{Env: "test"}},
		Logger:            logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		DBPinger:          stubPinger{},
		HTTPMetrics:       metrics.NewHTTPMetrics(registry),
		MetricsGatherer:   registry,
		ProductService:    stubProductService{},
		PolicyService:     stubPolicyService{},
		ProcessingService: stubProcessingService{},
	})
}

func TestRouterHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestRouterMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouterDispatch(t *testing.T) {
	router := newTestRouter(t)
	productID := uuid.New()
	policyID := uuid.New()

	cases := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{http.MethodGet, "/api/v1/products", "", http.StatusOK},
		{http.MethodPost, "/api/v1/products", `{"name":"Widget","price":1.00}`, http.StatusOK},
		{http.MethodGet, "/api/v1/products/" + productID.String(), "", http.StatusNotFound},
		{http.MethodPut, "/api/v1/products/" + productID.String(), `{"name":"Widget","price":1.00}`, http.StatusOK},
		{http.MethodDelete, "/api/v1/products/" + productID.String(), "", http.StatusOK},
		{http.MethodPost, "/api/v1/products/" + productID.String() + "/discount-policies/" + policyID.String(), "", http.StatusOK},
		{http.MethodDelete, "/api/v1/products/" + productID.String() + "/discount-policies/" + policyID.String(), "", http.StatusOK},
		{http.MethodGet, "/api/v1/discount-policies", "", http.StatusOK},
		{http.MethodPost, "/api/v1/discount-policies", `{"type":"AMOUNT","threshold":1,"value":5.00}`, http.StatusOK},
		{http.MethodGet, "/api/v1/discount-policies/" + policyID.String(), "", http.StatusOK},
		{http.MethodPut, "/api/v1/discount-policies/" + policyID.String(), `{"threshold":2,"value":6.00}`, http.StatusOK},
		{http.MethodDelete, "/api/v1/discount-policies/" + policyID.String(), "", http.StatusOK},
		{http.MethodPost, "/api/v1/discount-processing/calculate", `{"productId":"` + productID.String() + `","quantity":2}`, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			var body io.Reader
			if tc.body != "" {
				body = strings.NewReader(tc.body)
			}
			req := httptest.NewRequest(tc.method, tc.path, body)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d (body %s)", tc.status, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRouterErrorBodyShape(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	var body types.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.ErrorCode != "product_not_found" || body.Timestamp == 0 {
		t.Fatalf("unexpected error body: %+v", body)
	}
}
