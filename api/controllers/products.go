package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avoronov/catalog-backend/api/responses"
	"github.com/avoronov/catalog-backend/api/validators"
	productsvc "github.com/avoronov/catalog-backend/internal/products"
	pkgerrors "github.com/avoronov/catalog-backend/pkg/errors"
	"github.com/avoronov/catalog-backend/pkg/logger"
	"github.com/avoronov/catalog-backend/pkg/pagination"
)

var minProductPrice = decimal.Zero

type productRequest struct {
	Name  string          `json:"name" validate:"required,max=255"`
	Price decimal.Decimal `json:"price"`
}

func (req productRequest) toInput() (productsvc.AddProductInput, error) {
	if strings.TrimSpace(req.Name) == "" {
		return productsvc.AddProductInput{}, validators.FieldError("name", "must not be blank")
	}
	if err := validators.ValidateMoney("price", req.Price, minProductPrice); err != nil {
		return productsvc.AddProductInput{}, err
	}
	return productsvc.AddProductInput{Name: req.Name, Price: req.Price}, nil
}

// GetProduct handles GET /api/v1/products/{productId}.
func GetProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ListProducts handles GET /api/v1/products with pageNumber/pageSize.
func ListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListProducts(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// CreateProduct handles POST /api/v1/products.
func CreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload productRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.AddProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithProductID(ctx, product.ID.String())
			logg.Info(ctx, "product.created")
		}
		responses.WriteSuccess(w, product)
	}
}

// UpdateProduct handles PUT /api/v1/products/{productId}.
func UpdateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload productRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), productID, productsvc.UpdateProductInput(input))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// DeleteProduct handles DELETE /api/v1/products/{productId}.
func DeleteProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// AttachProductPolicy handles POST /api/v1/products/{productId}/discount-policies/{policyId}.
func AttachProductPolicy(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, policyID, err := productPolicyIDs(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.AttachPolicy(r.Context(), productID, policyID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// DetachProductPolicy handles DELETE /api/v1/products/{productId}/discount-policies/{policyId}.
func DetachProductPolicy(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, policyID, err := productPolicyIDs(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.DetachPolicy(r.Context(), productID, policyID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func productPolicyIDs(r *http.Request) (uuid.UUID, uuid.UUID, error) {
	productID, err := pathUUID(r, "productId")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	policyID, err := pathUUID(r, "policyId")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return productID, policyID, nil
}

func pathUUID(r *http.Request, key string) (uuid.UUID, error) {
	value, err := uuid.Parse(chi.URLParam(r, key))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, key+":must be a valid uuid")
	}
	return value, nil
}

func pageParams(r *http.Request) (pagination.Params, error) {
	pageNumber, err := validators.ParseQueryInt(r, "pageNumber", 0, 0, 1<<30)
	if err != nil {
		return pagination.Params{}, err
	}
	pageSize, err := validators.ParseQueryInt(r, "pageSize", pagination.DefaultPageSize, 1, pagination.MaxPageSize)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{PageNumber: pageNumber, PageSize: pageSize}, nil
}
