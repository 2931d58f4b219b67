package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/toffycaluga/tienda-backend/internal/auth"
	"github.com/toffycaluga/tienda-backend/internal/catalog"
	"github.com/toffycaluga/tienda-backend/internal/customer"
	"github.com/toffycaluga/tienda-backend/internal/order"
	"github.com/toffycaluga/tienda-backend/internal/tag"
)

type ValidationErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details"`
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		log.Error().Err(err).Msg("Failed to write JSON response")
	}
}

func formatValidationErrors(validationErrors validator.ValidationErrors) map[string]string {
	details := make(map[string]string, len(validationErrors))
	for _, fieldErr := range validationErrors {
		details[fieldErr.Field()] = fieldErr.Tag()
	}
	return details
}

// mapErrorToStatusCode translates the core's typed failures to HTTP
// statuses. The core never retries and never overwrites; every conflict
// surfaces here as 409.
func mapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, customer.ErrNotFound),
		errors.Is(err, tag.ErrNotFound),
		errors.Is(err, tag.ErrProductNotFound),
		errors.Is(err, order.ErrNotFound),
		errors.Is(err, order.ErrCustomerNotFound),
		errors.Is(err, order.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, catalog.ErrSKUExists),
		errors.Is(err, catalog.ErrReferencedByOrder),
		errors.Is(err, customer.ErrEmailExists),
		errors.Is(err, customer.ErrReferencedByOrder),
		errors.Is(err, customer.ErrProfileExists),
		errors.Is(err, customer.ErrDocumentIDExists),
		errors.Is(err, tag.ErrNameExists),
		errors.Is(err, tag.ErrSlugExists),
		errors.Is(err, order.ErrDuplicateItem):
		return http.StatusConflict
	case errors.Is(err, catalog.ErrValidation),
		errors.Is(err, customer.ErrValidation),
		errors.Is(err, tag.ErrValidation),
		errors.Is(err, order.ErrInvalidQuantity),
		errors.Is(err, order.ErrInvalidPrice):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
