package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/taskforge/taskforge/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// respondServiceError maps service sentinels to HTTP statuses. Anything
// unrecognized is logged and reported as a generic 500 so internals never
// leak to clients.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrPolicyViolation):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrStorageUnavailable):
		slog.Error("object storage failure", "error", err, "path", r.URL.Path)
		respondError(w, http.StatusBadGateway, "object storage unavailable")
	default:
		slog.Error("request failed", "error", err, "path", r.URL.Path)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return id, nil
}

func decodeJSON(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
