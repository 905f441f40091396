package http

import (
	"encoding/json"
	"net/http"

	"github.com/hookforge/hookforge/internal/domain"
	"github.com/hookforge/hookforge/internal/http/middleware"
	"github.com/hookforge/hookforge/pkg/logger"
)

// EventHandler serves the /api/webhooks/events surface: the producer entry
// point, test emission and the event catalog.
type EventHandler struct {
	emitter      domain.EventEmitter
	logger       logger.Logger
	getJWTSecret func() ([]byte, error)
}

// NewEventHandler creates a new event handler
func NewEventHandler(
	emitter domain.EventEmitter,
	getJWTSecret func() ([]byte, error),
	logger logger.Logger,
) *EventHandler {
	return &EventHandler{
		emitter:      emitter,
		logger:       logger,
		getJWTSecret: getJWTSecret,
	}
}

// RegisterRoutes registers the event routes
func (h *EventHandler) RegisterRoutes(mux *http.ServeMux) {
	authMiddleware := middleware.NewAuthMiddleware(h.getJWTSecret)
	requireAuth := authMiddleware.RequireAuth()

	mux.Handle("POST /api/webhooks/events/emit", requireAuth(http.HandlerFunc(h.handleEmit)))
	mux.Handle("POST /api/webhooks/events/test", requireAuth(http.HandlerFunc(h.handleTest)))
	mux.Handle("GET /api/webhooks/events/types", requireAuth(http.HandlerFunc(h.handleTypes)))
}

// handleEmit handles POST /api/webhooks/events/emit. The owner is always the
// authenticated caller; events cannot be emitted on someone else's behalf.
func (h *EventHandler) handleEmit(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	var req struct {
		EventType string                 `json:"eventType"`
		Payload   map[string]interface{} `json:"payload"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.EventType == "" {
		WriteJSONError(w, "eventType is required", http.StatusBadRequest)
		return
	}

	if err := h.emitter.Emit(r.Context(), userID, domain.EventKind(req.EventType), req.Payload); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeData(w, http.StatusOK, map[string]interface{}{
		"emitted": true,
	})
}

// handleTest handles POST /api/webhooks/events/test: emits a contract-shaped
// sample payload for the kind to every matching subscription of the caller
func (h *EventHandler) handleTest(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	var req struct {
		EventType string `json:"eventType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	kind := domain.EventKind(req.EventType)
	if !domain.IsValidEventKind(kind) {
		WriteJSONError(w, "Unknown event type", http.StatusBadRequest)
		return
	}

	if err := h.emitter.Emit(r.Context(), userID, kind, domain.SampleEventPayload(kind, userID)); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeData(w, http.StatusOK, map[string]interface{}{
		"emitted": true,
	})
}

// handleTypes handles GET /api/webhooks/events/types
func (h *EventHandler) handleTypes(w http.ResponseWriter, r *http.Request) {
	if _, ok := authenticatedUser(w, r); !ok {
		return
	}

	writeData(w, http.StatusOK, map[string]interface{}{
		"types": domain.EventCatalog(),
	})
}
