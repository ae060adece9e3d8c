package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	productsvc "github.com/avoronov/catalog-backend/internal/products"
	pkgerrors "github.com/avoronov/catalog-backend/pkg/errors"
	"github.com/avoronov/catalog-backend/pkg/logger"
	"github.com/avoronov/catalog-backend/pkg/pagination"
	"github.com/avoronov/catalog-backend/pkg/types"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

type stubProductService struct {
	product *productsvc.ProductDTO
	list    *productsvc.ProductListResult
	err     error
	called  string
}

func (s *stubProductService) AddProduct(ctx context.Context, input productsvc.AddProductInput) (*productsvc.ProductDTO, error) {
	s.called = "add"
	return s.product, s.err
}

func (s *stubProductService) GetProduct(ctx context.Context, productID uuid.UUID) (*productsvc.ProductDTO, error) {
	s.called = "get"
	return s.product, s.err
}

func (s *stubProductService) ListProducts(ctx context.Context, params pagination.Params) (*productsvc.ProductListResult, error) {
	s.called = "list"
	return s.list, s.err
}

func (s *stubProductService) UpdateProduct(ctx context.Context, productID uuid.UUID, input productsvc.UpdateProductInput) (*productsvc.ProductDTO, error) {
	s.called = "update"
	return s.product, s.err
}

func (s *stubProductService) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	s.called = "delete"
	return s.err
}

func (s *stubProductService) AttachPolicy(ctx context.Context, productID, policyID uuid.UUID) (*productsvc.ProductDTO, error) {
	s.called = "attach"
	return s.product, s.err
}

func (s *stubProductService) DetachPolicy(ctx context.Context, productID, policyID uuid.UUID) (*productsvc.ProductDTO, error) {
	s.called = "detach"
	return s.product, s.err
}

func withURLParams(req *http.Request, params map[string]string) *http.Request {
	routeCtx := chi.NewRouteContext()
	for key, value := range params {
		routeCtx.URLParams.Add(key, value)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx)
	return req.WithContext(ctx)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) types.ErrorResponse {
	t.Helper()
	var body types.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body
}

func TestCreateProduct(t *testing.T) {
	logg := testLogger()

	t.Run("success", func(t *testing.T) {
		stub := &stubProductService{product: &productsvc.ProductDTO{ID: uuid.New(), Name: "Widget", Price: decimal.RequireFromString("9.99")}}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(`{"name":"Widget","price":9.99}`))
		rec := httptest.NewRecorder()

		CreateProduct(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if stub.called != "add" {
			t.Fatalf("expected AddProduct call, got %q", stub.called)
		}
	})

	t.Run("missingName", func(t *testing.T) {
		stub := &stubProductService{}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(`{"price":9.99}`))
		rec := httptest.NewRecorder()

		CreateProduct(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		body := decodeError(t, rec)
		if body.ErrorCode != string(pkgerrors.CodeValidation) {
			t.Fatalf("expected field_validation, got %q", body.ErrorCode)
		}
		if !strings.Contains(body.ErrorMessage, "name:is required") {
			t.Fatalf("unexpected message: %q", body.ErrorMessage)
		}
		if stub.called != "" {
			t.Fatalf("service should not be called, got %q", stub.called)
		}
	})

	t.Run("blankName", func(t *testing.T) {
		stub := &stubProductService{}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(`{"name":"   ","price":9.99}`))
		rec := httptest.NewRecorder()

		CreateProduct(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		body := decodeError(t, rec)
		if body.ErrorCode != string(pkgerrors.CodeValidation) {
			t.Fatalf("expected field_validation, got %q", body.ErrorCode)
		}
		if !strings.Contains(body.ErrorMessage, "name:must not be blank") {
			t.Fatalf("unexpected message: %q", body.ErrorMessage)
		}
		if stub.called != "" {
			t.Fatalf("service should not be called, got %q", stub.called)
		}
	})

	t.Run("negativePrice", func(t *testing.T) {
		stub := &stubProductService{}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(`{"name":"Widget","price":-1}`))
		rec := httptest.NewRecorder()

		CreateProduct(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestGetProduct(t *testing.T) {
	logg := testLogger()
	productID := uuid.New()

	t.Run("success", func(t *testing.T) {
		stub := &stubProductService{product: &productsvc.ProductDTO{ID: productID, Name: "Widget"}}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+productID.String(), nil)
		req = withURLParams(req, map[string]string{"productId": productID.String()})
		rec := httptest.NewRecorder()

		GetProduct(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("invalidID", func(t *testing.T) {
		stub := &stubProductService{}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products/nope", nil)
		req = withURLParams(req, map[string]string{"productId": "nope"})
		rec := httptest.NewRecorder()

		GetProduct(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("notFound", func(t *testing.T) {
		stub := &stubProductService{err: pkgerrors.New(pkgerrors.CodeProductNotFound, "product not found")}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+productID.String(), nil)
		req = withURLParams(req, map[string]string{"productId": productID.String()})
		rec := httptest.NewRecorder()

		GetProduct(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		body := decodeError(t, rec)
		if body.ErrorCode != string(pkgerrors.CodeProductNotFound) {
			t.Fatalf("expected product_not_found, got %q", body.ErrorCode)
		}
	})
}

func TestAttachProductPolicy(t *testing.T) {
	logg := testLogger()
	productID := uuid.New()
	policyID := uuid.New()

	makeRequest := func(stub *stubProductService) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/products/"+productID.String()+"/discount-policies/"+policyID.String(), nil)
		req = withURLParams(req, map[string]string{
			"productId": productID.String(),
			"policyId":  policyID.String(),
		})
		rec := httptest.NewRecorder()
		AttachProductPolicy(stub, logg).ServeHTTP(rec, req)
		return rec
	}

	t.Run("success", func(t *testing.T) {
		stub := &stubProductService{product: &productsvc.ProductDTO{ID: productID}}
		rec := makeRequest(stub)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if stub.called != "attach" {
			t.Fatalf("expected AttachPolicy call, got %q", stub.called)
		}
	})

	t.Run("duplicateByFields", func(t *testing.T) {
		stub := &stubProductService{err: pkgerrors.New(pkgerrors.CodeProductContainsPolicy, "product already contains an equivalent discount policy")}
		rec := makeRequest(stub)
		if rec.Code != http.StatusNotAcceptable {
			t.Fatalf("expected 406, got %d", rec.Code)
		}
	})
}

func TestListProductsPagination(t *testing.T) {
	logg := testLogger()

	t.Run("invalidPageSize", func(t *testing.T) {
		stub := &stubProductService{}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products?pageSize=0", nil)
		rec := httptest.NewRecorder()

		ListProducts(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("defaults", func(t *testing.T) {
		stub := &stubProductService{list: &productsvc.ProductListResult{Items: []productsvc.ProductDTO{}, PageSize: pagination.DefaultPageSize}}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
		rec := httptest.NewRecorder()

		ListProducts(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})
}
