package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/avoronov/catalog-backend/api/responses"
	"github.com/avoronov/catalog-backend/api/validators"
	"github.com/avoronov/catalog-backend/internal/discountprocessing"
	"github.com/avoronov/catalog-backend/pkg/logger"
)

type calculateRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

// CalculateDiscount handles POST /api/v1/discount-processing/calculate.
func CalculateDiscount(svc discountprocessing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload calculateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Calculate(r.Context(), payload.ProductID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
