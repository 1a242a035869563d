package handler

import (
	"net/http"
	"time"
)

type HealthHandler struct {
	serviceName string
}

func NewHealthHandler(serviceName string) *HealthHandler {
	return &HealthHandler{serviceName: serviceName}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"service": h.serviceName,
		"ts":      time.Now().UTC().Format(time.RFC3339),
	})
}
