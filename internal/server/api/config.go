// Package api provides HTTP API handlers for the Triggerhand trigger detection system.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/renderix/triggerhand/internal/gesture"
)

// ThresholdService provides read and update access to the live detection
// thresholds. Updates are applied atomically: either every parameter in
// the request is accepted or none are.
type ThresholdService interface {
	Thresholds() gesture.ThresholdConfig
	SetThresholds(params map[string]float64) error
}

// ConfigHandler handles HTTP requests for the detection configuration.
type ConfigHandler struct {
	service ThresholdService
}

// NewConfigHandler creates a new ConfigHandler backed by the given service.
func NewConfigHandler(service ThresholdService) *ConfigHandler {
	return &ConfigHandler{service: service}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// ServeHTTP implements the http.Handler interface.
func (h *ConfigHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPut:
		h.update(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// get handles GET /api/config and returns the current thresholds.
func (h *ConfigHandler) get(w http.ResponseWriter, r *http.Request) {
	cfg := h.service.Thresholds()
	writeJSON(w, http.StatusOK, cfg)
}

// update handles PUT /api/config. The body is a map of parameter names to
// new values; unknown names and out-of-range values reject the whole
// request with 400 and leave the configuration untouched.
func (h *ConfigHandler) update(w http.ResponseWriter, r *http.Request) {
	var params map[string]float64
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if len(params) == 0 {
		writeError(w, http.StatusBadRequest, "No parameters provided")
		return
	}

	if err := h.service.SetThresholds(params); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cfg := h.service.Thresholds()
	writeJSON(w, http.StatusOK, cfg)
}
