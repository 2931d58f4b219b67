package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/toffycaluga/tienda-backend/internal/auth"
	"github.com/toffycaluga/tienda-backend/internal/catalog"
)

type CreateProductRequest struct {
	Name  string          `json:"name" validate:"required"`
	SKU   string          `json:"sku" validate:"required"`
	Price decimal.Decimal `json:"price"`
}

type UpdateProductRequest struct {
	Name  string          `json:"name" validate:"required"`
	SKU   string          `json:"sku" validate:"required"`
	Price decimal.Decimal `json:"price"`
}

type ProductResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	Price     decimal.Decimal `json:"price"`
	IsActive  bool            `json:"is_active"`
	CreatedBy *uuid.UUID      `json:"created_by,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

func toProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		SKU:       p.SKU,
		Price:     p.Price,
		IsActive:  p.IsActive,
		CreatedBy: p.CreatedBy,
		CreatedAt: p.CreatedAt,
	}
}

type ProductHandler struct {
	service  catalog.Service
	validate *validator.Validate
}

func NewProductHandler(service catalog.Service) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *ProductHandler) RegisterRoutes(router chi.Router) {
	router.Get("/products", h.handleListProducts)
	router.Post("/products", h.handleCreateProduct)
	router.Get("/products/{id}", h.handleGetProduct)
	router.Put("/products/{id}", h.handleUpdateProduct)
	router.Delete("/products/{id}", h.handleDeleteProduct)
	router.Post("/products/{id}/mark-inactive", h.handleMarkInactive)
}

func (h *ProductHandler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	actor := auth.FromContext(r.Context())

	products, err := h.service.List(r.Context(), actor)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list products via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to list products")
		return
	}

	responsePayload := make([]ProductResponse, 0, len(products))
	for i := range products {
		responsePayload = append(responsePayload, toProductResponse(&products[i]))
	}

	respondWithJSON(w, http.StatusOK, responsePayload)
}

func (h *ProductHandler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var requestPayload CreateProductRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&requestPayload); err != nil {
		log.Error().Err(err).Msg("Failed to decode request body")
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request payload %v", err))
		return
	}

	if err := h.validate.Struct(requestPayload); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if ok {
			respondWithJSON(w, http.StatusBadRequest, ValidationErrorResponse{
				Error:   "Validation failed",
				Details: formatValidationErrors(validationErrors),
			})
		} else {
			log.Error().Err(err).Msg("Unexpected error type during validation")
			respondWithError(w, http.StatusInternalServerError, "Internal validation error")
		}
		return
	}

	actor := auth.FromContext(r.Context())
	product, err := h.service.Create(r.Context(), actor, catalog.CreateInput{
		Name:  requestPayload.Name,
		SKU:   requestPayload.SKU,
		Price: requestPayload.Price,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to create product via service")

		var clientMessage string
		switch {
		case errors.Is(err, catalog.ErrSKUExists):
			clientMessage = "SKU already exists"
		case errors.Is(err, catalog.ErrValidation):
			clientMessage = err.Error()
		default:
			clientMessage = "Failed to create product"
		}

		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	respondWithJSON(w, http.StatusCreated, toProductResponse(product))
}

func (h *ProductHandler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	product, err := h.service.GetByID(r.Context(), productID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get product via service")

		clientMessage := "Failed to get product"
		if errors.Is(err, catalog.ErrNotFound) {
			clientMessage = "Product not found"
		}

		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	respondWithJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *ProductHandler) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var requestPayload UpdateProductRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&requestPayload); err != nil {
		log.Error().Err(err).Msg("Failed to decode request body")
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(requestPayload); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if ok {
			respondWithJSON(w, http.StatusBadRequest, ValidationErrorResponse{
				Error:   "Validation failed",
				Details: formatValidationErrors(validationErrors),
			})
		} else {
			log.Error().Err(err).Msg("Unexpected error type during validation")
			respondWithError(w, http.StatusInternalServerError, "Internal validation error")
		}
		return
	}

	actor := auth.FromContext(r.Context())
	product, err := h.service.Update(r.Context(), actor, productID, catalog.UpdateInput{
		Name:  requestPayload.Name,
		SKU:   requestPayload.SKU,
		Price: requestPayload.Price,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to update product via service")

		var clientMessage string
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			clientMessage = "Product not found"
		case errors.Is(err, catalog.ErrSKUExists):
			clientMessage = "SKU already exists"
		case errors.Is(err, catalog.ErrValidation):
			clientMessage = err.Error()
		default:
			clientMessage = "Failed to update product"
		}

		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	respondWithJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *ProductHandler) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	actor := auth.FromContext(r.Context())
	if err := h.service.Delete(r.Context(), actor, productID); err != nil {
		log.Error().Err(err).Msg("Failed to delete product via service")

		var clientMessage string
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			clientMessage = "Product not found"
		case errors.Is(err, catalog.ErrReferencedByOrder):
			// Referential integrity rejection, not a validation error.
			clientMessage = "Product is referenced by an order and cannot be deleted"
		default:
			clientMessage = "Failed to delete product"
		}

		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductHandler) handleMarkInactive(w http.ResponseWriter, r *http.Request) {
	productID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	actor := auth.FromContext(r.Context())
	product, err := h.service.MarkInactive(r.Context(), actor, productID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to mark product inactive via service")

		var clientMessage string
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			clientMessage = "Product not found"
		case errors.Is(err, auth.ErrPermissionDenied):
			clientMessage = "Actor cannot mark products inactive"
		default:
			clientMessage = "Failed to mark product inactive"
		}

		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	respondWithJSON(w, http.StatusOK, toProductResponse(product))
}

func parseIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idParam := chi.URLParam(r, "id")
	id, err := uuid.FromString(idParam)
	if err != nil {
		log.Warn().Err(err).Str("id", idParam).Msg("Failed to parse id parameter from URL")
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return uuid.Nil, false
	}
	return id, true
}
