package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/renderix/triggerhand/internal/store"
)

// DefaultEventLimit is the number of events returned when the request
// does not specify a limit.
const DefaultEventLimit = 50

// EventsHandler handles HTTP requests for the trigger event log.
type EventsHandler struct {
	store *store.Store
}

// NewEventsHandler creates a new EventsHandler with the given store.
func NewEventsHandler(s *store.Store) *EventsHandler {
	return &EventsHandler{store: s}
}

type eventResponse struct {
	ID        string  `json:"id"`
	Kind      string  `json:"kind"`
	FrameTS   float64 `json:"frame_ts"`
	CreatedAt string  `json:"created_at"`
}

type listEventsResponse struct {
	Events []eventResponse `json:"events"`
}

type eventStatsResponse struct {
	Counts map[string]int `json:"counts"`
}

// toEventResponse converts a store.TriggerEvent to an eventResponse.
func toEventResponse(e *store.TriggerEvent) eventResponse {
	return eventResponse{
		ID:        e.ID,
		Kind:      e.Kind,
		FrameTS:   e.FrameTS,
		CreatedAt: e.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// ServeHTTP implements the http.Handler interface.
// Expected paths: /api/events, /api/events/stats, /api/events/{id}
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/events")
	path = strings.TrimPrefix(path, "/")

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	switch path {
	case "":
		h.list(w, r)
	case "stats":
		h.stats(w, r)
	default:
		h.get(w, r, path)
	}
}

// list handles GET /api/events and returns recent events, newest first.
// An optional limit query parameter caps the result size.
func (h *EventsHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := DefaultEventLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	events, err := h.store.Events().ListRecent(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list events")
		return
	}

	response := listEventsResponse{
		Events: make([]eventResponse, 0, len(events)),
	}
	for _, e := range events {
		response.Events = append(response.Events, toEventResponse(e))
	}

	writeJSON(w, http.StatusOK, response)
}

// stats handles GET /api/events/stats and returns per-kind event counts.
func (h *EventsHandler) stats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.store.Events().CountByKind()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to count events")
		return
	}

	writeJSON(w, http.StatusOK, eventStatsResponse{Counts: counts})
}

// get handles GET /api/events/{id} and returns a single event.
func (h *EventsHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	event, err := h.store.Events().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Event not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get event")
		return
	}

	writeJSON(w, http.StatusOK, toEventResponse(event))
}
