package http

import (
	"net/http"

	"github.com/hookforge/hookforge/internal/domain"
	"github.com/hookforge/hookforge/internal/http/middleware"
	"github.com/hookforge/hookforge/pkg/logger"
)

// WorkflowHandler serves the /api/workflows surface: the execution mirror of
// the delivery queue, manual replays and aggregate stats.
type WorkflowHandler struct {
	queue        domain.QueueService
	jobs         domain.QueueJobRepository
	webhooks     domain.WebhookService
	logger       logger.Logger
	getJWTSecret func() ([]byte, error)
}

// NewWorkflowHandler creates a new workflow handler
func NewWorkflowHandler(
	queue domain.QueueService,
	jobs domain.QueueJobRepository,
	webhooks domain.WebhookService,
	getJWTSecret func() ([]byte, error),
	logger logger.Logger,
) *WorkflowHandler {
	return &WorkflowHandler{
		queue:        queue,
		jobs:         jobs,
		webhooks:     webhooks,
		logger:       logger,
		getJWTSecret: getJWTSecret,
	}
}

// RegisterRoutes registers the workflow routes
func (h *WorkflowHandler) RegisterRoutes(mux *http.ServeMux) {
	authMiddleware := middleware.NewAuthMiddleware(h.getJWTSecret)
	requireAuth := authMiddleware.RequireAuth()

	mux.Handle("GET /api/workflows/executions", requireAuth(http.HandlerFunc(h.handleListExecutions)))
	mux.Handle("GET /api/workflows/executions/{id}", requireAuth(http.HandlerFunc(h.handleGetExecution)))
	mux.Handle("POST /api/workflows/executions/retry-failed", requireAuth(http.HandlerFunc(h.handleRetryFailed)))
	mux.Handle("POST /api/workflows/deliveries/{id}/retry", requireAuth(http.HandlerFunc(h.handleRetryDelivery)))
	mux.Handle("GET /api/workflows/stats", requireAuth(http.HandlerFunc(h.handleStats)))
}

// handleListExecutions handles GET /api/workflows/executions?status=&limit=
func (h *WorkflowHandler) handleListExecutions(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	limit, offset, err := parsePagination(r)
	if err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	jobsPage, total, err := h.queue.ListJobs(r.Context(), userID, limit, offset)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	// Status narrowing applies to the fetched page; total stays the
	// owner-wide count
	if status := r.URL.Query().Get("status"); status != "" {
		filtered := make([]*domain.QueueJob, 0, len(jobsPage))
		for _, job := range jobsPage {
			if string(job.Status) == status {
				filtered = append(filtered, job)
			}
		}
		jobsPage = filtered
	}

	writeData(w, http.StatusOK, map[string]interface{}{
		"executions": jobsPage,
		"total":      total,
		"limit":      limit,
		"offset":     offset,
	})
}

// handleGetExecution handles GET /api/workflows/executions/{id}
func (h *WorkflowHandler) handleGetExecution(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	job, err := h.jobs.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if job.UserID != userID {
		WriteJSONError(w, "Execution does not belong to the authenticated user", http.StatusForbidden)
		return
	}

	writeData(w, http.StatusOK, map[string]interface{}{
		"execution": job,
	})
}

// handleRetryFailed handles POST /api/workflows/executions/retry-failed
func (h *WorkflowHandler) handleRetryFailed(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	count, err := h.queue.RetryAllFailed(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeData(w, http.StatusOK, map[string]interface{}{
		"retried": count,
	})
}

// handleRetryDelivery handles POST /api/workflows/deliveries/{id}/retry: the
// logged payload is replayed as a fresh job, the original row stays untouched
func (h *WorkflowHandler) handleRetryDelivery(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	jobID, err := h.webhooks.RetryDelivery(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeData(w, http.StatusOK, map[string]interface{}{
		"job_id": jobID,
	})
}

// handleStats handles GET /api/workflows/stats: queue counts by status plus
// the caller's webhook delivery totals
func (h *WorkflowHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	queueStats, err := h.queue.Stats(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	webhooks, err := h.webhooks.ListWebhooks(r.Context(), userID, nil)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	var totals struct {
		Webhooks             int   `json:"webhooks"`
		TotalDeliveries      int64 `json:"total_deliveries"`
		SuccessfulDeliveries int64 `json:"successful_deliveries"`
		FailedDeliveries     int64 `json:"failed_deliveries"`
		AtRisk               int   `json:"at_risk"`
	}
	totals.Webhooks = len(webhooks)
	for _, webhook := range webhooks {
		totals.TotalDeliveries += webhook.TotalDeliveries
		totals.SuccessfulDeliveries += webhook.SuccessfulDeliveries
		totals.FailedDeliveries += webhook.FailedDeliveries
		if webhook.AtRisk() {
			totals.AtRisk++
		}
	}

	writeData(w, http.StatusOK, map[string]interface{}{
		"queue":      queueStats,
		"deliveries": totals,
	})
}
