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

	"github.com/toffycaluga/tienda-backend/internal/auth"
	"github.com/toffycaluga/tienda-backend/internal/customer"
)

type CreateCustomerRequest struct {
	FullName string `json:"full_name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
}

type UpdateCustomerRequest struct {
	FullName string `json:"full_name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
}

type AttachProfileRequest struct {
	DocumentID string `json:"document_id" validate:"required"`
	Phone      string `json:"phone"`
}

type CustomerResponse struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func toCustomerResponse(c *customer.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		FullName:  c.FullName,
		Email:     c.Email,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
	}
}

type CustomerHandler struct {
	service  customer.Service
	validate *validator.Validate
}

func NewCustomerHandler(service customer.Service) *CustomerHandler {
	return &CustomerHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *CustomerHandler) RegisterRoutes(router chi.Router) {
	router.Get("/customers", h.handleListCustomers)
	router.Post("/customers", h.handleCreateCustomer)
	router.Get("/customers/{id}", h.handleGetCustomer)
	router.Put("/customers/{id}", h.handleUpdateCustomer)
	router.Delete("/customers/{id}", h.handleDeleteCustomer)
	router.Post("/customers/{id}/profile", h.handleAttachProfile)
}

func (h *CustomerHandler) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	actor := auth.FromContext(r.Context())

	customers, err := h.service.List(r.Context(), actor)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list customers via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to list customers")
		return
	}

	responsePayload := make([]CustomerResponse, 0, len(customers))
	for i := range customers {
		responsePayload = append(responsePayload, toCustomerResponse(&customers[i]))
	}

	respondWithJSON(w, http.StatusOK, responsePayload)
}

func (h *CustomerHandler) handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var requestPayload CreateCustomerRequest

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
	created, err := h.service.Create(r.Context(), actor, requestPayload.FullName, requestPayload.Email)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create customer via service")

		clientMessage := "Failed to create customer"
		if errors.Is(err, customer.ErrEmailExists) {
			clientMessage = "Email already exists"
		}

		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	respondWithJSON(w, http.StatusCreated, toCustomerResponse(created))
}

func (h *CustomerHandler) handleGetCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	found, err := h.service.GetByID(r.Context(), customerID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get customer via service")

		clientMessage := "Failed to get customer"
		if errors.Is(err, customer.ErrNotFound) {
			clientMessage = "Customer not found"
		}

		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	respondWithJSON(w, http.StatusOK, toCustomerResponse(found))
}

func (h *CustomerHandler) handleUpdateCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var requestPayload UpdateCustomerRequest

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
	updated, err := h.service.Update(r.Context(), actor, customerID, requestPayload.FullName, requestPayload.Email)
	if err != nil {
		log.Error().Err(err).Msg("Failed to update customer via service")

		var clientMessage string
		switch {
		case errors.Is(err, customer.ErrNotFound):
			clientMessage = "Customer not found"
		case errors.Is(err, customer.ErrEmailExists):
			clientMessage = "Email already exists"
		default:
			clientMessage = "Failed to update customer"
		}

		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	respondWithJSON(w, http.StatusOK, toCustomerResponse(updated))
}

func (h *CustomerHandler) handleDeleteCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	actor := auth.FromContext(r.Context())
	if err := h.service.Delete(r.Context(), actor, customerID); err != nil {
		log.Error().Err(err).Msg("Failed to delete customer via service")

		var clientMessage string
		switch {
		case errors.Is(err, customer.ErrNotFound):
			clientMessage = "Customer not found"
		case errors.Is(err, customer.ErrReferencedByOrder):
			clientMessage = "Customer is referenced by an order and cannot be deleted"
		default:
			clientMessage = "Failed to delete customer"
		}

		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CustomerHandler) handleAttachProfile(w http.ResponseWriter, r *http.Request) {
	customerID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var requestPayload AttachProfileRequest

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
	profile, err := h.service.AttachProfile(r.Context(), actor, customerID, requestPayload.DocumentID, requestPayload.Phone)
	if err != nil {
		log.Error().Err(err).Msg("Failed to attach profile via service")

		var clientMessage string
		switch {
		case errors.Is(err, customer.ErrNotFound):
			clientMessage = "Customer not found"
		case errors.Is(err, customer.ErrProfileExists):
			clientMessage = "Customer already has a profile"
		case errors.Is(err, customer.ErrDocumentIDExists):
			clientMessage = "Document id already exists"
		default:
			clientMessage = "Failed to attach profile"
		}

		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	respondWithJSON(w, http.StatusCreated, profile)
}
