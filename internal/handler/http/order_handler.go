package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/toffycaluga/tienda-backend/internal/auth"
	"github.com/toffycaluga/tienda-backend/internal/order"
)

type CreateOrderRequest struct {
	CustomerID uuid.UUID `json:"customer_id" validate:"required"`
	Notes      string    `json:"notes"`
}

type AddItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" validate:"required"`
	Quantity  int             `json:"quantity" validate:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type OrderResponse struct {
	ID         uuid.UUID       `json:"id"`
	CustomerID uuid.UUID       `json:"customer_id"`
	Notes      string          `json:"notes"`
	CreatedAt  time.Time       `json:"created_at"`
	Items      []order.Item    `json:"items"`
	Total      decimal.Decimal `json:"total"`
}

type OrderSummaryResponse struct {
	ID         uuid.UUID       `json:"id"`
	CustomerID uuid.UUID       `json:"customer_id"`
	Notes      string          `json:"notes"`
	CreatedAt  time.Time       `json:"created_at"`
	Total      decimal.Decimal `json:"total"`
}

func toOrderResponse(o *order.Order) OrderResponse {
	return OrderResponse{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		Notes:      o.Notes,
		CreatedAt:  o.CreatedAt,
		Items:      o.Items,
		Total:      o.Total(),
	}
}

type OrderHandler struct {
	service  order.Service
	validate *validator.Validate
}

func NewOrderHandler(service order.Service) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *OrderHandler) RegisterRoutes(router chi.Router) {
	router.Get("/orders", h.handleListOrders)
	router.Post("/orders", h.handleCreateOrder)
	router.Get("/orders/{id}", h.handleGetOrder)
	router.Delete("/orders/{id}", h.handleDeleteOrder)
	router.Post("/orders/{id}/items", h.handleAddItem)
}

// handleListOrders returns every order with its total, computed by one
// aggregate query.
func (h *OrderHandler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	actor := auth.FromContext(r.Context())

	summaries, err := h.service.ListOrders(r.Context(), actor)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list orders via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to list orders")
		return
	}

	responsePayload := make([]OrderSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		responsePayload = append(responsePayload, OrderSummaryResponse{
			ID:         s.Order.ID,
			CustomerID: s.Order.CustomerID,
			Notes:      s.Order.Notes,
			CreatedAt:  s.Order.CreatedAt,
			Total:      s.Total,
		})
	}

	respondWithJSON(w, http.StatusOK, responsePayload)
}

func (h *OrderHandler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var requestPayload CreateOrderRequest

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
	created, err := h.service.CreateOrder(r.Context(), actor, requestPayload.CustomerID, requestPayload.Notes)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create order via service")

		clientMessage := "Failed to create order"
		if errors.Is(err, order.ErrCustomerNotFound) {
			clientMessage = "Customer not found"
		}

		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	respondWithJSON(w, http.StatusCreated, toOrderResponse(created))
}

func (h *OrderHandler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	actor := auth.FromContext(r.Context())
	found, err := h.service.GetOrder(r.Context(), actor, orderID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get order via service")

		clientMessage := "Failed to get order"
		if errors.Is(err, order.ErrNotFound) {
			clientMessage = "Order not found"
		}

		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	respondWithJSON(w, http.StatusOK, toOrderResponse(found))
}

func (h *OrderHandler) handleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	actor := auth.FromContext(r.Context())
	if err := h.service.DeleteOrder(r.Context(), actor, orderID); err != nil {
		log.Error().Err(err).Msg("Failed to delete order via service")

		clientMessage := "Failed to delete order"
		if errors.Is(err, order.ErrNotFound) {
			clientMessage = "Order not found"
		}

		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *OrderHandler) handleAddItem(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var requestPayload AddItemRequest

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
	item, err := h.service.AddItem(r.Context(), actor, orderID, requestPayload.ProductID, requestPayload.Quantity, requestPayload.UnitPrice)
	if err != nil {
		log.Error().Err(err).Msg("Failed to add item via service")

		var clientMessage string
		switch {
		case errors.Is(err, order.ErrNotFound):
			clientMessage = "Order not found"
		case errors.Is(err, order.ErrProductNotFound):
			clientMessage = "Product not found"
		case errors.Is(err, order.ErrDuplicateItem):
			clientMessage = "Order already has an item for this product"
		case errors.Is(err, order.ErrInvalidQuantity), errors.Is(err, order.ErrInvalidPrice):
			clientMessage = err.Error()
		default:
			clientMessage = "Failed to add item"
		}

		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	respondWithJSON(w, http.StatusCreated, item)
}
