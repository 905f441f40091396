package domain

//go:generate mockgen -destination mocks/mock_webhook_repository.go -package mocks github.com/hookforge/hookforge/internal/domain WebhookRepository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/tidwall/gjson"
)

// WildcardEvent subscribes a webhook to every event kind. It is a matcher
// only; emitted events always carry a concrete kind.
const WildcardEvent = "*"

const (
	// DefaultMaxRetries is the per-webhook retry ceiling when none is configured
	DefaultMaxRetries = 3

	// MaxRetriesCeiling bounds the per-webhook override
	MaxRetriesCeiling = 10

	// MinTimeoutMs and MaxTimeoutMs bound the per-webhook delivery timeout override
	MinTimeoutMs = 1000
	MaxTimeoutMs = 300000

	// ConsecutiveFailureAlertThreshold is the consecutive failure count at
	// which a webhook is reported as at risk in admin listings. Deliveries
	// keep going; pausing is an operator decision.
	ConsecutiveFailureAlertThreshold = 20
)

// Webhook represents an outgoing webhook subscription owned by a user
type Webhook struct {
	ID      string            `json:"id"`
	UserID  string            `json:"user_id"`
	Name    string            `json:"name"`
	URL     string            `json:"url"`
	Secret  string            `json:"secret"` // hex signing secret, encrypted at rest
	Events  []string          `json:"events"`
	Filters map[string]string `json:"filters,omitempty"` // gjson path -> required value
	Headers map[string]string `json:"headers,omitempty"`

	TimeoutMs    int  `json:"timeout_ms,omitempty"` // 0 means the configured default
	RetryEnabled bool `json:"retry_enabled"`
	MaxRetries   int  `json:"max_retries"`
	IsActive     bool `json:"is_active"`

	// Delivery counters, mutated only when an attempt settles terminally
	TotalDeliveries      int64 `json:"total_deliveries"`
	SuccessfulDeliveries int64 `json:"successful_deliveries"`
	FailedDeliveries     int64 `json:"failed_deliveries"`
	ConsecutiveFailures  int64 `json:"consecutive_failures"`

	LastTriggeredAt *time.Time `json:"last_triggered_at,omitempty"`
	LastSuccessAt   *time.Time `json:"last_success_at,omitempty"`
	LastFailureAt   *time.Time `json:"last_failure_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate performs validation on the webhook fields
func (w *Webhook) Validate() error {
	if w.ID == "" {
		return fmt.Errorf("invalid webhook: id is required")
	}
	if w.UserID == "" {
		return fmt.Errorf("invalid webhook: user_id is required")
	}
	if w.Name == "" {
		return fmt.Errorf("invalid webhook: name is required")
	}
	if len(w.Name) > 255 {
		return fmt.Errorf("invalid webhook: name length must be between 1 and 255")
	}
	if w.URL == "" {
		return fmt.Errorf("invalid webhook: url is required")
	}
	if !govalidator.IsRequestURL(w.URL) {
		return fmt.Errorf("invalid webhook: url is not a valid request URL")
	}
	if err := validateEventList(w.Events); err != nil {
		return fmt.Errorf("invalid webhook: %w", err)
	}
	if err := validateHeaders(w.Headers); err != nil {
		return fmt.Errorf("invalid webhook: %w", err)
	}
	if w.TimeoutMs != 0 && (w.TimeoutMs < MinTimeoutMs || w.TimeoutMs > MaxTimeoutMs) {
		return fmt.Errorf("invalid webhook: timeout_ms must be between %d and %d", MinTimeoutMs, MaxTimeoutMs)
	}
	if w.MaxRetries < 1 || w.MaxRetries > MaxRetriesCeiling {
		return fmt.Errorf("invalid webhook: max_retries must be between 1 and %d", MaxRetriesCeiling)
	}
	return nil
}

// SubscribesTo reports whether the webhook's event set covers the given kind
func (w *Webhook) SubscribesTo(kind EventKind) bool {
	for _, e := range w.Events {
		if e == WildcardEvent || e == string(kind) {
			return true
		}
	}
	return false
}

// MatchesFilters reports whether the payload satisfies every field filter.
// Filter keys are gjson paths; values compare against the stringified result.
// A webhook without filters matches everything.
func (w *Webhook) MatchesFilters(payload []byte) bool {
	for path, want := range w.Filters {
		result := gjson.GetBytes(payload, path)
		if !result.Exists() || result.String() != want {
			return false
		}
	}
	return true
}

// AtRisk reports whether the webhook crossed the consecutive failure threshold
func (w *Webhook) AtRisk() bool {
	return w.ConsecutiveFailures >= ConsecutiveFailureAlertThreshold
}

// Timeout returns the effective delivery timeout, falling back to the given default
func (w *Webhook) Timeout(defaultTimeout time.Duration) time.Duration {
	if w.TimeoutMs > 0 {
		return time.Duration(w.TimeoutMs) * time.Millisecond
	}
	return defaultTimeout
}

func validateEventList(events []string) error {
	if len(events) == 0 {
		return fmt.Errorf("events must contain at least one event kind")
	}
	for _, e := range events {
		if e == WildcardEvent {
			continue
		}
		if !IsValidEventKind(EventKind(e)) {
			return fmt.Errorf("unknown event kind: %s", e)
		}
	}
	return nil
}

func validateHeaders(headers map[string]string) error {
	for name, value := range headers {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("header name cannot be empty")
		}
		if strings.ContainsAny(name, "\r\n") || strings.ContainsAny(value, "\r\n") {
			return fmt.Errorf("header %q contains a line break", name)
		}
	}
	return nil
}

// CreateWebhookRequest represents the API request to register a webhook
type CreateWebhookRequest struct {
	Name         string            `json:"name"`
	URL          string            `json:"url"`
	Events       []string          `json:"events"`
	Filters      map[string]string `json:"filters,omitempty"`
	Headers      map[string]string `json:"headers,omitempty"`
	TimeoutMs    int               `json:"timeout_ms,omitempty"`
	RetryEnabled *bool             `json:"retry_enabled,omitempty"` // defaults to true
	MaxRetries   int               `json:"max_retries,omitempty"`   // defaults to 3
}

// Validate performs validation on the create request
func (r *CreateWebhookRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("invalid create webhook request: name is required")
	}
	if len(r.Name) > 255 {
		return fmt.Errorf("invalid create webhook request: name length must be between 1 and 255")
	}
	if r.URL == "" {
		return fmt.Errorf("invalid create webhook request: url is required")
	}
	if !govalidator.IsRequestURL(r.URL) {
		return fmt.Errorf("invalid create webhook request: url is not a valid request URL")
	}
	if err := validateEventList(r.Events); err != nil {
		return fmt.Errorf("invalid create webhook request: %w", err)
	}
	if err := validateHeaders(r.Headers); err != nil {
		return fmt.Errorf("invalid create webhook request: %w", err)
	}
	if r.TimeoutMs != 0 && (r.TimeoutMs < MinTimeoutMs || r.TimeoutMs > MaxTimeoutMs) {
		return fmt.Errorf("invalid create webhook request: timeout_ms must be between %d and %d", MinTimeoutMs, MaxTimeoutMs)
	}
	if r.MaxRetries != 0 && (r.MaxRetries < 1 || r.MaxRetries > MaxRetriesCeiling) {
		return fmt.Errorf("invalid create webhook request: max_retries must be between 1 and %d", MaxRetriesCeiling)
	}
	return nil
}

// UpdateWebhookRequest represents the API request to modify a webhook.
// Nil fields are left untouched; the service merges the request into the
// loaded row before persisting.
type UpdateWebhookRequest struct {
	Name         *string           `json:"name,omitempty"`
	URL          *string           `json:"url,omitempty"`
	Events       []string          `json:"events,omitempty"`
	Filters      map[string]string `json:"filters,omitempty"`
	Headers      map[string]string `json:"headers,omitempty"`
	TimeoutMs    *int              `json:"timeout_ms,omitempty"`
	RetryEnabled *bool             `json:"retry_enabled,omitempty"`
	MaxRetries   *int              `json:"max_retries,omitempty"`
	IsActive     *bool             `json:"is_active,omitempty"`
}

// Validate performs validation on the fields present in the update request
func (r *UpdateWebhookRequest) Validate() error {
	if r.Name != nil {
		if *r.Name == "" {
			return fmt.Errorf("invalid update webhook request: name cannot be empty")
		}
		if len(*r.Name) > 255 {
			return fmt.Errorf("invalid update webhook request: name length must be between 1 and 255")
		}
	}
	if r.URL != nil && !govalidator.IsRequestURL(*r.URL) {
		return fmt.Errorf("invalid update webhook request: url is not a valid request URL")
	}
	if r.Events != nil {
		if err := validateEventList(r.Events); err != nil {
			return fmt.Errorf("invalid update webhook request: %w", err)
		}
	}
	if err := validateHeaders(r.Headers); err != nil {
		return fmt.Errorf("invalid update webhook request: %w", err)
	}
	if r.TimeoutMs != nil && (*r.TimeoutMs < MinTimeoutMs || *r.TimeoutMs > MaxTimeoutMs) {
		return fmt.Errorf("invalid update webhook request: timeout_ms must be between %d and %d", MinTimeoutMs, MaxTimeoutMs)
	}
	if r.MaxRetries != nil && (*r.MaxRetries < 1 || *r.MaxRetries > MaxRetriesCeiling) {
		return fmt.Errorf("invalid update webhook request: max_retries must be between 1 and %d", MaxRetriesCeiling)
	}
	return nil
}

// Apply merges the update request into the webhook
func (r *UpdateWebhookRequest) Apply(w *Webhook) {
	if r.Name != nil {
		w.Name = *r.Name
	}
	if r.URL != nil {
		w.URL = *r.URL
	}
	if r.Events != nil {
		w.Events = r.Events
	}
	if r.Filters != nil {
		w.Filters = r.Filters
	}
	if r.Headers != nil {
		w.Headers = r.Headers
	}
	if r.TimeoutMs != nil {
		w.TimeoutMs = *r.TimeoutMs
	}
	if r.RetryEnabled != nil {
		w.RetryEnabled = *r.RetryEnabled
	}
	if r.MaxRetries != nil {
		w.MaxRetries = *r.MaxRetries
	}
	if r.IsActive != nil {
		w.IsActive = *r.IsActive
	}
}

// WebhookRepository defines the interface for webhook data access
type WebhookRepository interface {
	Create(ctx context.Context, webhook *Webhook) error
	GetByID(ctx context.Context, id string) (*Webhook, error)
	List(ctx context.Context, userID string, activeOnly *bool) ([]*Webhook, error)
	GetByOwnerAndEvent(ctx context.Context, userID string, kind EventKind) ([]*Webhook, error)
	Update(ctx context.Context, webhook *Webhook) error
	Delete(ctx context.Context, id string) error
	RecordAttempt(ctx context.Context, id string, success bool, at time.Time) error
}
