package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hookforge/hookforge/internal/domain"
	"github.com/hookforge/hookforge/pkg/logger"
)

// Shard drains one owner's delivery jobs. A shard is cooperatively
// single-threaded: at most one delivery is in flight per owner, so a slow or
// misbehaving receiver only ever stalls its own owner's queue. Shards share
// nothing; isolation across owners comes from running one goroutine each.
type Shard struct {
	ownerID  string
	jobs     domain.QueueJobRepository
	webhooks domain.WebhookRepository
	logs     domain.DeliveryLogRepository
	client   domain.DeliveryClient
	notifier domain.WorkflowNotifier
	logger   logger.Logger
	cfg      Config

	// wake is buffered so an enqueue never blocks on a busy shard; one
	// pending wake is enough to re-check the table
	wake chan struct{}
}

func newShard(
	ownerID string,
	jobs domain.QueueJobRepository,
	webhooks domain.WebhookRepository,
	logs domain.DeliveryLogRepository,
	client domain.DeliveryClient,
	notifier domain.WorkflowNotifier,
	log logger.Logger,
	cfg Config,
) *Shard {
	return &Shard{
		ownerID:  ownerID,
		jobs:     jobs,
		webhooks: webhooks,
		logs:     logs,
		client:   client,
		notifier: notifier,
		logger:   log.WithField("owner_id", ownerID),
		cfg:      cfg,
		wake:     make(chan struct{}, 1),
	}
}

// Wake nudges the shard to re-check for due jobs without waiting out its
// idle sleep. Safe to call from any goroutine; extra wakes coalesce.
func (s *Shard) Wake() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// run is the shard loop: drain due jobs, then sleep until the next scheduled
// job, a wake, or the idle ceiling, whichever comes first.
//
// ctx only controls the loop. A canceled ctx stops new claims; the attempt
// already in flight finishes on workCtx under its own delivery deadline, so a
// shutdown never tears a POST mid-request.
func (s *Shard) run(ctx context.Context) {
	workCtx := context.WithoutCancel(ctx)

	for {
		if ctx.Err() != nil {
			return
		}

		processed, err := s.tick(ctx, workCtx)
		if err != nil {
			s.logger.WithField("error", err.Error()).Error("Queue tick failed")
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.cfg.ErrorRetryDelay):
			}
			continue
		}
		if processed > 0 {
			// More work may be due already
			continue
		}

		select {
		case <-ctx.Done():
			return
		case <-s.wake:
		case <-time.After(s.idleDelay(ctx)):
		}
	}
}

// idleDelay returns how long the shard may sleep: until the earliest future
// job, capped at MaxIdle so a missed wake never stalls the queue for long.
func (s *Shard) idleDelay(ctx context.Context) time.Duration {
	nextDue, err := s.jobs.NextDueAt(ctx, s.ownerID)
	if err != nil || nextDue == nil {
		return s.cfg.MaxIdle
	}
	delay := time.Until(*nextDue)
	if delay < time.Millisecond {
		return time.Millisecond
	}
	if delay > s.cfg.MaxIdle {
		return s.cfg.MaxIdle
	}
	return delay
}

// tick fetches one batch of due jobs and processes them in order. ctx gates
// the claim of each next job; workCtx carries the attempts themselves.
func (s *Shard) tick(ctx, workCtx context.Context) (int, error) {
	jobs, err := s.jobs.FetchDue(workCtx, s.ownerID, s.cfg.FetchLimit, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to fetch due jobs: %w", err)
	}

	for _, job := range jobs {
		if ctx.Err() != nil {
			return 0, nil
		}
		s.process(workCtx, job)
	}

	return len(jobs), nil
}

// process claims the job, performs one delivery attempt and finalizes it.
// The claim is what counts the attempt: the stored attempt number is bumped
// by MarkProcessing, so the attempt in flight is the fetched number plus one.
func (s *Shard) process(ctx context.Context, job *domain.QueueJob) {
	now := time.Now().UTC()

	claimed, err := s.jobs.MarkProcessing(ctx, job.ID, now)
	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"job_id": job.ID,
			"error":  err.Error(),
		}).Error("Failed to claim job")
		return
	}
	if !claimed {
		return
	}
	attempt := job.AttemptNumber + 1

	webhook, err := s.webhooks.GetByID(ctx, job.WebhookID)
	if err != nil {
		var notFound *domain.ErrNotFound
		if errors.As(err, &notFound) {
			s.finalizeTerminal(ctx, job, nil, attempt, nil, "webhook not found")
			return
		}
		s.backOut(ctx, job, err)
		return
	}
	if !webhook.IsActive {
		s.finalizeTerminal(ctx, job, webhook, attempt, nil, "webhook is inactive")
		return
	}

	result := s.client.Deliver(ctx, domain.DeliveryRequest{
		URL:           webhook.URL,
		Payload:       job.Payload,
		Secret:        webhook.Secret,
		EventKind:     job.EventKind,
		Timeout:       webhook.Timeout(s.cfg.DefaultTimeout),
		CustomHeaders: webhook.Headers,
	})

	if result.Success {
		s.finalizeSuccess(ctx, job, webhook, attempt, result)
		return
	}

	retryable := webhook.RetryEnabled && attempt < webhook.MaxRetries && s.client.ShouldRetry(result)
	if retryable {
		s.reschedule(ctx, job, webhook, attempt, result)
		return
	}
	s.finalizeTerminal(ctx, job, webhook, attempt, result, resultError(result))
}

// backOut returns a claimed job to pending after an infrastructure error.
// The claimed attempt is uncounted: no delivery was tried.
func (s *Shard) backOut(ctx context.Context, job *domain.QueueJob, cause error) {
	s.logger.WithFields(map[string]interface{}{
		"job_id": job.ID,
		"error":  cause.Error(),
	}).Error("Job attempt aborted before delivery")

	retryAt := time.Now().UTC().Add(s.cfg.ErrorRetryDelay)
	if err := s.jobs.Reschedule(ctx, job.ID, job.AttemptNumber, retryAt); err != nil {
		s.logger.WithFields(map[string]interface{}{
			"job_id": job.ID,
			"error":  err.Error(),
		}).Error("Failed to return job to pending")
	}
}

func (s *Shard) finalizeSuccess(ctx context.Context, job *domain.QueueJob, webhook *domain.Webhook, attempt int, result *domain.DeliveryResult) {
	now := time.Now().UTC()

	if err := s.jobs.MarkSuccess(ctx, job.ID); err != nil {
		s.logger.WithFields(map[string]interface{}{
			"job_id": job.ID,
			"error":  err.Error(),
		}).Error("Failed to mark job as success")
	}

	s.appendLog(ctx, &domain.DeliveryLog{
		WebhookID:     job.WebhookID,
		EventKind:     job.EventKind,
		URL:           webhook.URL,
		AttemptNumber: attempt,
		Status:        domain.DeliveryLogStatusSuccess,
		StatusCode:    &result.StatusCode,
		ResponseBody:  result.ResponseBody,
		ElapsedMs:     result.ElapsedMs,
		Payload:       job.Payload,
		DeliveredAt:   &now,
	})

	if err := s.webhooks.RecordAttempt(ctx, job.WebhookID, true, now); err != nil {
		s.logger.WithFields(map[string]interface{}{
			"webhook_id": job.WebhookID,
			"error":      err.Error(),
		}).Error("Failed to record delivery outcome")
	}

	s.notifier.ExecutionComplete(ctx, job.UserID, job.ID, true, &result.StatusCode, result.ElapsedMs, "")

	s.logger.WithFields(map[string]interface{}{
		"job_id":     job.ID,
		"webhook_id": job.WebhookID,
		"attempt":    attempt,
		"status":     result.StatusCode,
	}).Info("Webhook delivered")
}

// reschedule returns the job to pending for its next attempt. Webhook
// counters stay untouched: they move only when the job reaches a terminal
// state.
func (s *Shard) reschedule(ctx context.Context, job *domain.QueueJob, webhook *domain.Webhook, attempt int, result *domain.DeliveryResult) {
	delay := domain.RetryDelayFor(attempt, s.cfg.RetryDelaysMs)
	nextRetryAt := time.Now().UTC().Add(delay)
	errText := resultError(result)

	if err := s.jobs.Reschedule(ctx, job.ID, attempt, nextRetryAt); err != nil {
		s.logger.WithFields(map[string]interface{}{
			"job_id": job.ID,
			"error":  err.Error(),
		}).Error("Failed to reschedule job")
		return
	}

	s.appendLog(ctx, &domain.DeliveryLog{
		WebhookID:     job.WebhookID,
		EventKind:     job.EventKind,
		URL:           webhook.URL,
		AttemptNumber: attempt,
		Status:        domain.DeliveryLogStatusRetrying,
		StatusCode:    statusCodePtr(result),
		ResponseBody:  responseBody(result),
		ElapsedMs:     elapsedMs(result),
		Error:         &errText,
		Payload:       job.Payload,
		NextRetryAt:   &nextRetryAt,
	})

	s.notifier.ExecutionUpdate(ctx, job.UserID, job.ID, attempt, domain.QueueJobStatusPending, &nextRetryAt)

	s.logger.WithFields(map[string]interface{}{
		"job_id":        job.ID,
		"webhook_id":    job.WebhookID,
		"attempt":       attempt,
		"next_retry_at": nextRetryAt,
		"error":         errText,
	}).Info("Webhook delivery failed, retry scheduled")
}

// finalizeTerminal fails the job for good. webhook and result may be nil
// when the failure happened before a delivery was attempted.
func (s *Shard) finalizeTerminal(ctx context.Context, job *domain.QueueJob, webhook *domain.Webhook, attempt int, result *domain.DeliveryResult, errText string) {
	now := time.Now().UTC()

	if err := s.jobs.MarkFailed(ctx, job.ID, errText); err != nil {
		s.logger.WithFields(map[string]interface{}{
			"job_id": job.ID,
			"error":  err.Error(),
		}).Error("Failed to mark job as failed")
	}

	url := ""
	if webhook != nil {
		url = webhook.URL
	}
	s.appendLog(ctx, &domain.DeliveryLog{
		WebhookID:     job.WebhookID,
		EventKind:     job.EventKind,
		URL:           url,
		AttemptNumber: attempt,
		Status:        domain.DeliveryLogStatusFailed,
		StatusCode:    statusCodePtr(result),
		ResponseBody:  responseBody(result),
		ElapsedMs:     elapsedMs(result),
		Error:         &errText,
		Payload:       job.Payload,
	})

	if webhook != nil {
		if err := s.webhooks.RecordAttempt(ctx, job.WebhookID, false, now); err != nil {
			s.logger.WithFields(map[string]interface{}{
				"webhook_id": job.WebhookID,
				"error":      err.Error(),
			}).Error("Failed to record delivery outcome")
		}
	}

	s.notifier.ExecutionComplete(ctx, job.UserID, job.ID, false, statusCodePtr(result), elapsedMs(result), errText)

	s.logger.WithFields(map[string]interface{}{
		"job_id":     job.ID,
		"webhook_id": job.WebhookID,
		"attempt":    attempt,
		"error":      errText,
	}).Warn("Webhook delivery failed permanently")
}

// appendLog records one audit row. The log is best-effort relative to the
// job state machine: a failed insert never blocks or reverts the delivery.
func (s *Shard) appendLog(ctx context.Context, row *domain.DeliveryLog) {
	if err := s.logs.Create(ctx, row); err != nil {
		s.logger.WithFields(map[string]interface{}{
			"webhook_id": row.WebhookID,
			"error":      err.Error(),
		}).Error("Failed to write delivery log")
	}
}

func resultError(result *domain.DeliveryResult) string {
	if result == nil || result.Err == nil {
		return ""
	}
	return result.Err.Error()
}

func statusCodePtr(result *domain.DeliveryResult) *int {
	if result == nil || result.StatusCode == 0 {
		return nil
	}
	return &result.StatusCode
}

func responseBody(result *domain.DeliveryResult) string {
	if result == nil {
		return ""
	}
	return result.ResponseBody
}

func elapsedMs(result *domain.DeliveryResult) int64 {
	if result == nil {
		return 0
	}
	return result.ElapsedMs
}
