package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/hookforge/hookforge/internal/domain"
	"github.com/hookforge/hookforge/internal/http/middleware"
	"github.com/hookforge/hookforge/pkg/logger"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// WebhookHandler serves the /api/webhooks surface
type WebhookHandler struct {
	service      domain.WebhookService
	logger       logger.Logger
	getJWTSecret func() ([]byte, error)
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(
	service domain.WebhookService,
	getJWTSecret func() ([]byte, error),
	logger logger.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		service:      service,
		logger:       logger,
		getJWTSecret: getJWTSecret,
	}
}

// RegisterRoutes registers the webhook routes
func (h *WebhookHandler) RegisterRoutes(mux *http.ServeMux) {
	authMiddleware := middleware.NewAuthMiddleware(h.getJWTSecret)
	requireAuth := authMiddleware.RequireAuth()

	mux.Handle("POST /api/webhooks", requireAuth(http.HandlerFunc(h.handleCreate)))
	mux.Handle("GET /api/webhooks", requireAuth(http.HandlerFunc(h.handleList)))
	mux.Handle("GET /api/webhooks/{id}", requireAuth(http.HandlerFunc(h.handleGet)))
	mux.Handle("PUT /api/webhooks/{id}", requireAuth(http.HandlerFunc(h.handleUpdate)))
	mux.Handle("DELETE /api/webhooks/{id}", requireAuth(http.HandlerFunc(h.handleDelete)))
	mux.Handle("POST /api/webhooks/{id}/test", requireAuth(http.HandlerFunc(h.handleTest)))
	mux.Handle("POST /api/webhooks/{id}/regenerate-secret", requireAuth(http.HandlerFunc(h.handleRotateSecret)))
	mux.Handle("GET /api/webhooks/{id}/logs", requireAuth(http.HandlerFunc(h.handleListLogs)))
}

// handleCreate handles POST /api/webhooks. The full signing secret appears on
// this response and on secret rotation only.
func (h *WebhookHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	var req domain.CreateWebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	webhook, err := h.service.CreateWebhook(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeData(w, http.StatusCreated, map[string]interface{}{
		"webhook": webhook,
	})
}

// handleList handles GET /api/webhooks?isActive=
func (h *WebhookHandler) handleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	var activeOnly *bool
	if raw := r.URL.Query().Get("isActive"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			WriteJSONError(w, "isActive must be true or false", http.StatusBadRequest)
			return
		}
		activeOnly = &active
	}

	webhooks, err := h.service.ListWebhooks(r.Context(), userID, activeOnly)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	masked := make([]*domain.Webhook, len(webhooks))
	for i, webhook := range webhooks {
		masked[i] = maskSecret(webhook)
	}

	writeData(w, http.StatusOK, map[string]interface{}{
		"webhooks": masked,
	})
}

// handleGet handles GET /api/webhooks/{id}
func (h *WebhookHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	webhook, err := h.service.GetWebhook(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeData(w, http.StatusOK, map[string]interface{}{
		"webhook": maskSecret(webhook),
	})
}

// handleUpdate handles PUT /api/webhooks/{id}
func (h *WebhookHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	var req domain.UpdateWebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	webhook, err := h.service.UpdateWebhook(r.Context(), userID, r.PathValue("id"), &req)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeData(w, http.StatusOK, map[string]interface{}{
		"webhook": maskSecret(webhook),
	})
}

// handleDelete handles DELETE /api/webhooks/{id}
func (h *WebhookHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteWebhook(r.Context(), userID, r.PathValue("id")); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeData(w, http.StatusOK, map[string]interface{}{
		"deleted": true,
	})
}

// handleTest handles POST /api/webhooks/{id}/test
func (h *WebhookHandler) handleTest(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	var req struct {
		EventType string `json:"eventType"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}

	jobID, err := h.service.TestWebhook(r.Context(), userID, r.PathValue("id"), domain.EventKind(req.EventType))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeData(w, http.StatusOK, map[string]interface{}{
		"job_id": jobID,
	})
}

// handleRotateSecret handles POST /api/webhooks/{id}/regenerate-secret.
// The response carries the new secret in full.
func (h *WebhookHandler) handleRotateSecret(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	webhook, err := h.service.RotateSecret(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeData(w, http.StatusOK, map[string]interface{}{
		"webhook": webhook,
	})
}

// handleListLogs handles GET /api/webhooks/{id}/logs?limit=&offset=&success=
func (h *WebhookHandler) handleListLogs(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	limit, offset, err := parsePagination(r)
	if err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var successFilter *bool
	if raw := r.URL.Query().Get("success"); raw != "" {
		success, parseErr := strconv.ParseBool(raw)
		if parseErr != nil {
			WriteJSONError(w, "success must be true or false", http.StatusBadRequest)
			return
		}
		successFilter = &success
	}

	logs, total, err := h.service.ListLogs(r.Context(), userID, r.PathValue("id"), limit, offset, successFilter)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeData(w, http.StatusOK, map[string]interface{}{
		"logs":   logs,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// parsePagination reads limit and offset query params, clamping the limit to
// maxPageLimit and rejecting negative values
func parsePagination(r *http.Request) (limit, offset int, err error) {
	limit = defaultPageLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return 0, 0, &paramError{"limit must be a positive integer"}
		}
		if limit > maxPageLimit {
			limit = maxPageLimit
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return 0, 0, &paramError{"offset must be a non-negative integer"}
		}
	}
	return limit, offset, nil
}

type paramError struct {
	msg string
}

func (e *paramError) Error() string { return e.msg }

// maskSecret returns a copy of the webhook with the signing secret redacted
// down to its last four characters
func maskSecret(webhook *domain.Webhook) *domain.Webhook {
	masked := *webhook
	if len(masked.Secret) > 4 {
		masked.Secret = strings.Repeat("*", 8) + masked.Secret[len(masked.Secret)-4:]
	}
	return &masked
}
