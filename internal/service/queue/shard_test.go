package queue

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hookforge/hookforge/internal/domain"
	"github.com/hookforge/hookforge/internal/domain/mocks"
	"github.com/hookforge/hookforge/pkg/logger"
)

type shardFixture struct {
	jobs     *mocks.MockQueueJobRepository
	webhooks *mocks.MockWebhookRepository
	logs     *mocks.MockDeliveryLogRepository
	client   *mocks.MockDeliveryClient
	notifier *mocks.MockWorkflowNotifier
	shard    *Shard
}

func newShardFixture(t *testing.T) *shardFixture {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := &shardFixture{
		jobs:     mocks.NewMockQueueJobRepository(ctrl),
		webhooks: mocks.NewMockWebhookRepository(ctrl),
		logs:     mocks.NewMockDeliveryLogRepository(ctrl),
		client:   mocks.NewMockDeliveryClient(ctrl),
		notifier: mocks.NewMockWorkflowNotifier(ctrl),
	}
	f.shard = newShard("user_1", f.jobs, f.webhooks, f.logs, f.client, f.notifier,
		logger.NewLoggerWithLevel("disabled"), DefaultConfig())
	return f
}

func dueJob() *domain.QueueJob {
	return &domain.QueueJob{
		ID:            "job_1",
		WebhookID:     "wh_1",
		UserID:        "user_1",
		EventKind:     domain.EventAppDeployed,
		Payload:       []byte(`{"app_id": "app_1"}`),
		AttemptNumber: 0,
		Status:        domain.QueueJobStatusPending,
		ScheduledAt:   time.Now().UTC().Add(-time.Second),
	}
}

func activeWebhook() *domain.Webhook {
	return &domain.Webhook{
		ID:           "wh_1",
		UserID:       "user_1",
		URL:          "https://hooks.example.com/deploys",
		Secret:       "whsec_x",
		Events:       []string{"app.deployed"},
		Headers:      map[string]string{"X-Team": "platform"},
		RetryEnabled: true,
		MaxRetries:   3,
		IsActive:     true,
	}
}

func TestShard_ProcessSuccess(t *testing.T) {
	f := newShardFixture(t)
	job := dueJob()
	webhook := activeWebhook()

	f.jobs.EXPECT().MarkProcessing(gomock.Any(), "job_1", gomock.Any()).Return(true, nil)
	f.webhooks.EXPECT().GetByID(gomock.Any(), "wh_1").Return(webhook, nil)
	f.client.EXPECT().Deliver(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req domain.DeliveryRequest) *domain.DeliveryResult {
			assert.Equal(t, webhook.URL, req.URL)
			assert.Equal(t, []byte(job.Payload), req.Payload)
			assert.Equal(t, webhook.Secret, req.Secret)
			assert.Equal(t, webhook.Headers, req.CustomHeaders)
			return &domain.DeliveryResult{Success: true, StatusCode: 200, ResponseBody: "ok", ElapsedMs: 12}
		})
	f.jobs.EXPECT().MarkSuccess(gomock.Any(), "job_1").Return(nil)

	var logged *domain.DeliveryLog
	f.logs.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, row *domain.DeliveryLog) error {
			logged = row
			return nil
		})
	f.webhooks.EXPECT().RecordAttempt(gomock.Any(), "wh_1", true, gomock.Any()).Return(nil)
	f.notifier.EXPECT().ExecutionComplete(gomock.Any(), "user_1", "job_1", true, gomock.Any(), int64(12), "")

	f.shard.process(context.Background(), job)

	require.NotNil(t, logged)
	assert.Equal(t, domain.DeliveryLogStatusSuccess, logged.Status)
	assert.Equal(t, 1, logged.AttemptNumber)
	assert.Equal(t, []byte(job.Payload), []byte(logged.Payload))
	require.NotNil(t, logged.StatusCode)
	assert.Equal(t, 200, *logged.StatusCode)
	assert.NotNil(t, logged.DeliveredAt)
	assert.Nil(t, logged.NextRetryAt)
}

func TestShard_ProcessRetryableFailureReschedules(t *testing.T) {
	f := newShardFixture(t)
	job := dueJob()
	result := &domain.DeliveryResult{StatusCode: 503, ResponseBody: "try later", ElapsedMs: 40, Err: errors.New("HTTP 503")}

	f.jobs.EXPECT().MarkProcessing(gomock.Any(), "job_1", gomock.Any()).Return(true, nil)
	f.webhooks.EXPECT().GetByID(gomock.Any(), "wh_1").Return(activeWebhook(), nil)
	f.client.EXPECT().Deliver(gomock.Any(), gomock.Any()).Return(result)
	f.client.EXPECT().ShouldRetry(result).Return(true)

	// First attempt failed: next try due one second out, attempt count kept at 1
	before := time.Now().UTC()
	f.jobs.EXPECT().Reschedule(gomock.Any(), "job_1", 1, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, _ int, at time.Time) error {
			assert.WithinDuration(t, before.Add(time.Second), at, 500*time.Millisecond)
			return nil
		})

	var logged *domain.DeliveryLog
	f.logs.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, row *domain.DeliveryLog) error {
			logged = row
			return nil
		})
	f.notifier.EXPECT().ExecutionUpdate(gomock.Any(), "user_1", "job_1", 1, domain.QueueJobStatusPending, gomock.Any())

	f.shard.process(context.Background(), job)

	require.NotNil(t, logged)
	assert.Equal(t, domain.DeliveryLogStatusRetrying, logged.Status)
	assert.NotNil(t, logged.NextRetryAt)
	require.NotNil(t, logged.Error)
	assert.Equal(t, "HTTP 503", *logged.Error)
}

func TestShard_ProcessExhaustedRetriesFails(t *testing.T) {
	f := newShardFixture(t)
	job := dueJob()
	job.AttemptNumber = 2 // claim makes this attempt 3 of 3
	result := &domain.DeliveryResult{StatusCode: 500, ElapsedMs: 30, Err: errors.New("HTTP 500")}

	f.jobs.EXPECT().MarkProcessing(gomock.Any(), "job_1", gomock.Any()).Return(true, nil)
	f.webhooks.EXPECT().GetByID(gomock.Any(), "wh_1").Return(activeWebhook(), nil)
	f.client.EXPECT().Deliver(gomock.Any(), gomock.Any()).Return(result)
	f.jobs.EXPECT().MarkFailed(gomock.Any(), "job_1", "HTTP 500").Return(nil)

	var logged *domain.DeliveryLog
	f.logs.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, row *domain.DeliveryLog) error {
			logged = row
			return nil
		})
	f.webhooks.EXPECT().RecordAttempt(gomock.Any(), "wh_1", false, gomock.Any()).Return(nil)
	f.notifier.EXPECT().ExecutionComplete(gomock.Any(), "user_1", "job_1", false, gomock.Any(), int64(30), "HTTP 500")

	f.shard.process(context.Background(), job)

	require.NotNil(t, logged)
	assert.Equal(t, domain.DeliveryLogStatusFailed, logged.Status)
	assert.Equal(t, 3, logged.AttemptNumber)
}

func TestShard_ProcessNonRetryableStatusFails(t *testing.T) {
	f := newShardFixture(t)
	job := dueJob()
	result := &domain.DeliveryResult{StatusCode: 404, ElapsedMs: 10, Err: errors.New("HTTP 404")}

	f.jobs.EXPECT().MarkProcessing(gomock.Any(), "job_1", gomock.Any()).Return(true, nil)
	f.webhooks.EXPECT().GetByID(gomock.Any(), "wh_1").Return(activeWebhook(), nil)
	f.client.EXPECT().Deliver(gomock.Any(), gomock.Any()).Return(result)
	f.client.EXPECT().ShouldRetry(result).Return(false)
	f.jobs.EXPECT().MarkFailed(gomock.Any(), "job_1", "HTTP 404").Return(nil)
	f.logs.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	f.webhooks.EXPECT().RecordAttempt(gomock.Any(), "wh_1", false, gomock.Any()).Return(nil)
	f.notifier.EXPECT().ExecutionComplete(gomock.Any(), "user_1", "job_1", false, gomock.Any(), int64(10), "HTTP 404")

	f.shard.process(context.Background(), job)
}

func TestShard_ProcessRetryDisabledFailsImmediately(t *testing.T) {
	f := newShardFixture(t)
	job := dueJob()
	webhook := activeWebhook()
	webhook.RetryEnabled = false
	result := &domain.DeliveryResult{StatusCode: 503, Err: errors.New("HTTP 503")}

	f.jobs.EXPECT().MarkProcessing(gomock.Any(), "job_1", gomock.Any()).Return(true, nil)
	f.webhooks.EXPECT().GetByID(gomock.Any(), "wh_1").Return(webhook, nil)
	f.client.EXPECT().Deliver(gomock.Any(), gomock.Any()).Return(result)
	f.jobs.EXPECT().MarkFailed(gomock.Any(), "job_1", "HTTP 503").Return(nil)
	f.logs.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	f.webhooks.EXPECT().RecordAttempt(gomock.Any(), "wh_1", false, gomock.Any()).Return(nil)
	f.notifier.EXPECT().ExecutionComplete(gomock.Any(), "user_1", "job_1", false, gomock.Any(), gomock.Any(), "HTTP 503")

	f.shard.process(context.Background(), job)
}

func TestShard_ProcessWebhookMissing(t *testing.T) {
	f := newShardFixture(t)
	job := dueJob()

	f.jobs.EXPECT().MarkProcessing(gomock.Any(), "job_1", gomock.Any()).Return(true, nil)
	f.webhooks.EXPECT().GetByID(gomock.Any(), "wh_1").
		Return(nil, &domain.ErrNotFound{Entity: "webhook", ID: "wh_1"})
	f.jobs.EXPECT().MarkFailed(gomock.Any(), "job_1", "webhook not found").Return(nil)
	f.logs.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	f.notifier.EXPECT().ExecutionComplete(gomock.Any(), "user_1", "job_1", false, gomock.Nil(), int64(0), "webhook not found")

	f.shard.process(context.Background(), job)
}

func TestShard_ProcessWebhookInactive(t *testing.T) {
	f := newShardFixture(t)
	job := dueJob()
	webhook := activeWebhook()
	webhook.IsActive = false

	f.jobs.EXPECT().MarkProcessing(gomock.Any(), "job_1", gomock.Any()).Return(true, nil)
	f.webhooks.EXPECT().GetByID(gomock.Any(), "wh_1").Return(webhook, nil)
	f.jobs.EXPECT().MarkFailed(gomock.Any(), "job_1", "webhook is inactive").Return(nil)
	f.logs.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	f.webhooks.EXPECT().RecordAttempt(gomock.Any(), "wh_1", false, gomock.Any()).Return(nil)
	f.notifier.EXPECT().ExecutionComplete(gomock.Any(), "user_1", "job_1", false, gomock.Nil(), int64(0), "webhook is inactive")

	f.shard.process(context.Background(), job)
}

func TestShard_ProcessClaimLost(t *testing.T) {
	f := newShardFixture(t)
	job := dueJob()

	// Another claimant won the conditional update; nothing else happens
	f.jobs.EXPECT().MarkProcessing(gomock.Any(), "job_1", gomock.Any()).Return(false, nil)

	f.shard.process(context.Background(), job)
}

func TestShard_ProcessInfraErrorReturnsJobToPending(t *testing.T) {
	f := newShardFixture(t)
	job := dueJob()
	job.AttemptNumber = 1

	f.jobs.EXPECT().MarkProcessing(gomock.Any(), "job_1", gomock.Any()).Return(true, nil)
	f.webhooks.EXPECT().GetByID(gomock.Any(), "wh_1").Return(nil, fmt.Errorf("connection pool exhausted"))
	// Attempt is uncounted: reschedule with the pre-claim attempt number
	f.jobs.EXPECT().Reschedule(gomock.Any(), "job_1", 1, gomock.Any()).Return(nil)

	f.shard.process(context.Background(), job)
}

func TestShard_TickProcessesFetchedJobs(t *testing.T) {
	f := newShardFixture(t)
	jobA := dueJob()
	jobB := dueJob()
	jobB.ID = "job_2"

	f.jobs.EXPECT().FetchDue(gomock.Any(), "user_1", DefaultConfig().FetchLimit, gomock.Any()).
		Return([]*domain.QueueJob{jobA, jobB}, nil)
	// Both claims lost: tick still counts the batch as work done
	f.jobs.EXPECT().MarkProcessing(gomock.Any(), "job_1", gomock.Any()).Return(false, nil)
	f.jobs.EXPECT().MarkProcessing(gomock.Any(), "job_2", gomock.Any()).Return(false, nil)

	ctx := context.Background()
	processed, err := f.shard.tick(ctx, ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, processed)
}

func TestShard_StopLetsInFlightDeliveryFinish(t *testing.T) {
	f := newShardFixture(t)
	job := dueJob()
	webhook := activeWebhook()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f.jobs.EXPECT().FetchDue(gomock.Any(), "user_1", gomock.Any(), gomock.Any()).
		Return([]*domain.QueueJob{job}, nil)
	f.jobs.EXPECT().MarkProcessing(gomock.Any(), "job_1", gomock.Any()).Return(true, nil)
	f.webhooks.EXPECT().GetByID(gomock.Any(), "wh_1").Return(webhook, nil)

	// The stop signal arrives while the POST is in flight; the attempt keeps
	// running on an uncanceled context and settles normally
	f.client.EXPECT().Deliver(gomock.Any(), gomock.Any()).DoAndReturn(
		func(deliverCtx context.Context, _ domain.DeliveryRequest) *domain.DeliveryResult {
			cancel()
			<-ctx.Done()
			assert.NoError(t, deliverCtx.Err())
			return &domain.DeliveryResult{Success: true, StatusCode: 200, ElapsedMs: 5}
		})
	f.jobs.EXPECT().MarkSuccess(gomock.Any(), "job_1").Return(nil)
	f.logs.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	f.webhooks.EXPECT().RecordAttempt(gomock.Any(), "wh_1", true, gomock.Any()).Return(nil)
	f.notifier.EXPECT().ExecutionComplete(gomock.Any(), "user_1", "job_1", true, gomock.Any(), int64(5), "")

	done := make(chan struct{})
	go func() {
		defer close(done)
		f.shard.run(ctx)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("shard loop did not exit after cancel")
	}
}

func TestShard_IdleDelayClamps(t *testing.T) {
	f := newShardFixture(t)

	soon := time.Now().UTC().Add(2 * time.Second)
	f.jobs.EXPECT().NextDueAt(gomock.Any(), "user_1").Return(&soon, nil)
	delay := f.shard.idleDelay(context.Background())
	assert.LessOrEqual(t, delay, 2*time.Second)
	assert.Greater(t, delay, time.Second)

	// No pending jobs: sleep the full idle ceiling
	f.jobs.EXPECT().NextDueAt(gomock.Any(), "user_1").Return(nil, nil)
	assert.Equal(t, DefaultConfig().MaxIdle, f.shard.idleDelay(context.Background()))

	// Overdue job: wake essentially immediately
	past := time.Now().UTC().Add(-time.Minute)
	f.jobs.EXPECT().NextDueAt(gomock.Any(), "user_1").Return(&past, nil)
	assert.Equal(t, time.Millisecond, f.shard.idleDelay(context.Background()))
}

func TestShard_WakeCoalesces(t *testing.T) {
	f := newShardFixture(t)

	f.shard.Wake()
	f.shard.Wake()
	f.shard.Wake()

	select {
	case <-f.shard.wake:
	default:
		t.Fatal("expected one buffered wake")
	}
	select {
	case <-f.shard.wake:
		t.Fatal("wakes must coalesce into one")
	default:
	}
}
