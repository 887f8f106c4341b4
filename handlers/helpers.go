package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"profitdesk/logger"
	"profitdesk/models"

	"github.com/go-chi/chi/v5"
)

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// respondError maps a store or validation error to its HTTP status.
// notFound is the message used for models.ErrNotFound.
func respondError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		writeError(w, http.StatusNotFound, notFound)
	case errors.Is(err, models.ErrDuplicateEmail):
		writeError(w, http.StatusBadRequest, "Email already registered")
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrInvalidMonth):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrConflict):
		writeError(w, http.StatusConflict, "Record is still referenced by other records")
	default:
		logger.FromContext(r.Context()).Error("Request failed", logger.FieldPath, r.URL.Path, logger.FieldError, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, models.ErrValidation) {
			return err
		}
		return fmt.Errorf("%w: invalid request body", models.ErrValidation)
	}
	return nil
}

func parseID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid id", models.ErrValidation)
	}
	return uint(id), nil
}

func parseQueryID(r *http.Request, key string) (uint, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s", models.ErrValidation, key)
	}
	return uint(id), nil
}

// requireMonth parses the mandatory month=YYYY-MM query parameter.
func requireMonth(r *http.Request) (models.Month, error) {
	raw := r.URL.Query().Get("month")
	if raw == "" {
		return models.Month{}, fmt.Errorf("%w: month is required", models.ErrValidation)
	}
	return models.ParseMonth(raw)
}
