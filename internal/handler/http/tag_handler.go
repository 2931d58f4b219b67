package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/toffycaluga/tienda-backend/internal/auth"
	"github.com/toffycaluga/tienda-backend/internal/tag"
)

type CreateTagRequest struct {
	Name string `json:"name" validate:"required"`
}

type TagHandler struct {
	service  tag.Service
	validate *validator.Validate
}

func NewTagHandler(service tag.Service) *TagHandler {
	return &TagHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *TagHandler) RegisterRoutes(router chi.Router) {
	router.Get("/tags", h.handleListTags)
	router.Post("/tags", h.handleCreateTag)
	router.Get("/tags/{id}/products", h.handleListTagProducts)
	router.Put("/tags/{id}/products/{productID}", h.handleAttach)
	router.Delete("/tags/{id}/products/{productID}", h.handleDetach)
}

func (h *TagHandler) handleListTags(w http.ResponseWriter, r *http.Request) {
	actor := auth.FromContext(r.Context())

	tags, err := h.service.List(r.Context(), actor)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list tags via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to list tags")
		return
	}

	respondWithJSON(w, http.StatusOK, tags)
}

func (h *TagHandler) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	var requestPayload CreateTagRequest

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
	created, err := h.service.Create(r.Context(), actor, requestPayload.Name)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create tag via service")

		var clientMessage string
		switch {
		case errors.Is(err, tag.ErrNameExists):
			clientMessage = "Tag name already exists"
		case errors.Is(err, tag.ErrSlugExists):
			clientMessage = "Tag slug already exists"
		default:
			clientMessage = "Failed to create tag"
		}

		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

func (h *TagHandler) handleListTagProducts(w http.ResponseWriter, r *http.Request) {
	tagID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	actor := auth.FromContext(r.Context())
	ids, err := h.service.ProductIDsByTag(r.Context(), actor, tagID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list tag products via service")

		clientMessage := "Failed to list tag products"
		if errors.Is(err, tag.ErrNotFound) {
			clientMessage = "Tag not found"
		}

		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	respondWithJSON(w, http.StatusOK, ids)
}

func (h *TagHandler) handleAttach(w http.ResponseWriter, r *http.Request) {
	tagID, productID, ok := parseTagProductParams(w, r)
	if !ok {
		return
	}

	actor := auth.FromContext(r.Context())
	if err := h.service.Attach(r.Context(), actor, tagID, productID); err != nil {
		log.Error().Err(err).Msg("Failed to attach tag via service")

		var clientMessage string
		switch {
		case errors.Is(err, tag.ErrNotFound):
			clientMessage = "Tag not found"
		case errors.Is(err, tag.ErrProductNotFound):
			clientMessage = "Product not found"
		default:
			clientMessage = "Failed to attach tag"
		}

		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TagHandler) handleDetach(w http.ResponseWriter, r *http.Request) {
	tagID, productID, ok := parseTagProductParams(w, r)
	if !ok {
		return
	}

	actor := auth.FromContext(r.Context())
	if err := h.service.Detach(r.Context(), actor, tagID, productID); err != nil {
		log.Error().Err(err).Msg("Failed to detach tag via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to detach tag")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseTagProductParams(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	tagID, ok := parseIDParam(w, r)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}

	productParam := chi.URLParam(r, "productID")
	productID, err := uuid.FromString(productParam)
	if err != nil {
		log.Warn().Err(err).Str("product_id", productParam).Msg("Failed to parse productID parameter from URL")
		respondWithError(w, http.StatusBadRequest, "Invalid productID parameter")
		return uuid.Nil, uuid.Nil, false
	}

	return tagID, productID, true
}
