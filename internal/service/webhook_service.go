package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hookforge/hookforge/internal/domain"
	"github.com/hookforge/hookforge/pkg/logger"
	"github.com/hookforge/hookforge/pkg/signer"
)

// WebhookServiceImpl implements domain.WebhookService. Every operation is
// owner-scoped: a webhook belonging to another user surfaces as an ownership
// error, never as someone else's data.
type WebhookServiceImpl struct {
	repo              domain.WebhookRepository
	logRepo           domain.DeliveryLogRepository
	queue             domain.QueueService
	emitter           domain.EventEmitter
	logger            logger.Logger
	defaultMaxRetries int
}

// NewWebhookService creates a new webhook service. defaultMaxRetries applies
// to webhooks created without an explicit retry ceiling.
func NewWebhookService(
	repo domain.WebhookRepository,
	logRepo domain.DeliveryLogRepository,
	queue domain.QueueService,
	emitter domain.EventEmitter,
	logger logger.Logger,
	defaultMaxRetries int,
) *WebhookServiceImpl {
	if defaultMaxRetries < 1 {
		defaultMaxRetries = domain.DefaultMaxRetries
	}
	return &WebhookServiceImpl{
		repo:              repo,
		logRepo:           logRepo,
		queue:             queue,
		emitter:           emitter,
		logger:            logger,
		defaultMaxRetries: defaultMaxRetries,
	}
}

// rejectedTargetError hides the reason a URL was refused from the response.
// Echoing which addresses are private would turn the create endpoint into a
// network scanner; the specifics go to the log instead.
func (s *WebhookServiceImpl) rejectedTargetError(userID, rawURL string, cause error) error {
	s.logger.WithFields(map[string]interface{}{
		"user_id": userID,
		"url":     rawURL,
		"reason":  cause.Error(),
	}).Warn("Webhook target rejected")
	return domain.ValidationError{Field: "url", Message: "Invalid webhook URL"}
}

// getOwned loads the webhook and verifies the caller owns it
func (s *WebhookServiceImpl) getOwned(ctx context.Context, userID, id string) (*domain.Webhook, error) {
	webhook, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if webhook.UserID != userID {
		return nil, &domain.ErrOwnership{WebhookID: id, UserID: userID}
	}
	return webhook, nil
}

// CreateWebhook registers a webhook with a freshly generated signing secret.
// The secret is returned exactly once, on this response.
func (s *WebhookServiceImpl) CreateWebhook(ctx context.Context, userID string, req *domain.CreateWebhookRequest) (*domain.Webhook, error) {
	if err := req.Validate(); err != nil {
		return nil, domain.NewValidationError(err.Error())
	}
	if err := signer.ValidateTargetURL(req.URL); err != nil {
		return nil, s.rejectedTargetError(userID, req.URL, err)
	}

	secret, err := signer.GenerateSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to generate webhook secret: %w", err)
	}

	retryEnabled := true
	if req.RetryEnabled != nil {
		retryEnabled = *req.RetryEnabled
	}
	maxRetries := req.MaxRetries
	if maxRetries == 0 {
		maxRetries = s.defaultMaxRetries
	}

	webhook := &domain.Webhook{
		ID:           uuid.New().String(),
		UserID:       userID,
		Name:         req.Name,
		URL:          req.URL,
		Secret:       secret,
		Events:       req.Events,
		Filters:      req.Filters,
		Headers:      req.Headers,
		TimeoutMs:    req.TimeoutMs,
		RetryEnabled: retryEnabled,
		MaxRetries:   maxRetries,
		IsActive:     true,
	}
	if err := webhook.Validate(); err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	if err := s.repo.Create(ctx, webhook); err != nil {
		return nil, fmt.Errorf("failed to create webhook: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"webhook_id": webhook.ID,
		"user_id":    userID,
		"url":        webhook.URL,
	}).Info("Webhook created")

	return webhook, nil
}

// GetWebhook retrieves one webhook owned by the caller
func (s *WebhookServiceImpl) GetWebhook(ctx context.Context, userID, id string) (*domain.Webhook, error) {
	return s.getOwned(ctx, userID, id)
}

// ListWebhooks retrieves the caller's webhooks
func (s *WebhookServiceImpl) ListWebhooks(ctx context.Context, userID string, activeOnly *bool) ([]*domain.Webhook, error) {
	return s.repo.List(ctx, userID, activeOnly)
}

// UpdateWebhook merges the partial update into the stored webhook. A changed
// URL goes through the target guard again before it is persisted.
func (s *WebhookServiceImpl) UpdateWebhook(ctx context.Context, userID, id string, req *domain.UpdateWebhookRequest) (*domain.Webhook, error) {
	if err := req.Validate(); err != nil {
		return nil, domain.NewValidationError(err.Error())
	}
	if req.URL != nil {
		if err := signer.ValidateTargetURL(*req.URL); err != nil {
			return nil, s.rejectedTargetError(userID, *req.URL, err)
		}
	}

	webhook, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	req.Apply(webhook)
	if err := webhook.Validate(); err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	if err := s.repo.Update(ctx, webhook); err != nil {
		return nil, fmt.Errorf("failed to update webhook: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"webhook_id": id,
		"user_id":    userID,
	}).Info("Webhook updated")

	return webhook, nil
}

// DeleteWebhook removes the webhook and its queue jobs. Delivery logs stay
// for the audit trail.
func (s *WebhookServiceImpl) DeleteWebhook(ctx context.Context, userID, id string) error {
	if _, err := s.getOwned(ctx, userID, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"webhook_id": id,
		"user_id":    userID,
	}).Info("Webhook deleted")

	return nil
}

// TestWebhook enqueues a sample delivery, bypassing subscription matching.
// An empty kind defaults to the webhook's first concrete subscription.
func (s *WebhookServiceImpl) TestWebhook(ctx context.Context, userID, id string, kind domain.EventKind) (string, error) {
	webhook, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return "", err
	}

	if kind == "" {
		kind = domain.EventAppDeployed
		for _, e := range webhook.Events {
			if e != domain.WildcardEvent {
				kind = domain.EventKind(e)
				break
			}
		}
	}
	if !domain.IsValidEventKind(kind) {
		return "", domain.ValidationError{Field: "event_kind", Message: fmt.Sprintf("unknown event kind: %s", kind)}
	}

	return s.emitter.EmitToOne(ctx, webhook.ID, kind, domain.SampleEventPayload(kind, userID))
}

// RotateSecret replaces the signing secret. Deliveries already enqueued pick
// up the new secret at send time: the shard loads the webhook row fresh for
// every attempt.
func (s *WebhookServiceImpl) RotateSecret(ctx context.Context, userID, id string) (*domain.Webhook, error) {
	webhook, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	secret, err := signer.GenerateSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to generate webhook secret: %w", err)
	}
	webhook.Secret = secret

	if err := s.repo.Update(ctx, webhook); err != nil {
		return nil, fmt.Errorf("failed to rotate webhook secret: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"webhook_id": id,
		"user_id":    userID,
	}).Info("Webhook secret rotated")

	return webhook, nil
}

// ListLogs returns a page of the webhook's delivery logs plus the total
func (s *WebhookServiceImpl) ListLogs(ctx context.Context, userID, webhookID string, limit, offset int, successFilter *bool) ([]*domain.DeliveryLog, int, error) {
	if _, err := s.getOwned(ctx, userID, webhookID); err != nil {
		return nil, 0, err
	}
	return s.logRepo.ListByWebhook(ctx, webhookID, limit, offset, successFilter)
}

// RetryDelivery replays a logged payload as a fresh job. The log row is the
// source of truth for the bytes: the replayed delivery signs and sends the
// exact payload of the original attempt. The original row stays untouched.
func (s *WebhookServiceImpl) RetryDelivery(ctx context.Context, userID, logID string) (string, error) {
	logRow, err := s.logRepo.GetByID(ctx, logID)
	if err != nil {
		return "", err
	}

	webhook, err := s.getOwned(ctx, userID, logRow.WebhookID)
	if err != nil {
		return "", err
	}

	jobID, err := s.queue.Enqueue(ctx, webhook, logRow.EventKind, logRow.Payload)
	if err != nil {
		return "", fmt.Errorf("failed to enqueue replay job: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"webhook_id": webhook.ID,
		"log_id":     logID,
		"job_id":     jobID,
	}).Info("Delivery replay enqueued")

	return jobID, nil
}
