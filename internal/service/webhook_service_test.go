package service

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hookforge/hookforge/internal/domain"
	"github.com/hookforge/hookforge/internal/domain/mocks"
	"github.com/hookforge/hookforge/pkg/logger"
)

type webhookServiceFixture struct {
	repo    *mocks.MockWebhookRepository
	logRepo *mocks.MockDeliveryLogRepository
	queue   *mocks.MockQueueService
	emitter *mocks.MockEventEmitter
	service *WebhookServiceImpl
}

func newWebhookServiceFixture(t *testing.T) *webhookServiceFixture {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := &webhookServiceFixture{
		repo:    mocks.NewMockWebhookRepository(ctrl),
		logRepo: mocks.NewMockDeliveryLogRepository(ctrl),
		queue:   mocks.NewMockQueueService(ctrl),
		emitter: mocks.NewMockEventEmitter(ctrl),
	}
	f.service = NewWebhookService(f.repo, f.logRepo, f.queue, f.emitter, logger.NewLoggerWithLevel("disabled"), domain.DefaultMaxRetries)
	return f
}

func ownedWebhook() *domain.Webhook {
	return &domain.Webhook{
		ID:           "wh_1",
		UserID:       "user_1",
		Name:         "deploys",
		URL:          "https://hooks.example.com/deploys",
		Secret:       "whsec_current",
		Events:       []string{"app.deployed"},
		RetryEnabled: true,
		MaxRetries:   3,
		IsActive:     true,
	}
}

func TestWebhookService_CreateWebhook(t *testing.T) {
	f := newWebhookServiceFixture(t)

	var created *domain.Webhook
	f.repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, w *domain.Webhook) error {
			created = w
			return nil
		})

	webhook, err := f.service.CreateWebhook(context.Background(), "user_1", &domain.CreateWebhookRequest{
		Name:   "deploys",
		URL:    "https://hooks.example.com/deploys",
		Events: []string{"app.deployed", "app.error"},
	})

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, created, webhook)
	assert.NotEmpty(t, webhook.ID)
	assert.Equal(t, "user_1", webhook.UserID)
	// Generated secret: 32 random bytes, hex encoded
	assert.Len(t, webhook.Secret, 64)
	assert.True(t, webhook.RetryEnabled)
	assert.Equal(t, domain.DefaultMaxRetries, webhook.MaxRetries)
	assert.True(t, webhook.IsActive)
}

func TestWebhookService_CreateWebhook_InvalidRequest(t *testing.T) {
	f := newWebhookServiceFixture(t)

	_, err := f.service.CreateWebhook(context.Background(), "user_1", &domain.CreateWebhookRequest{
		Name:   "",
		URL:    "https://hooks.example.com/deploys",
		Events: []string{"app.deployed"},
	})

	require.Error(t, err)
	var validationErr domain.ValidationError
	assert.True(t, errors.As(err, &validationErr))
}

func TestWebhookService_CreateWebhook_BlockedTarget(t *testing.T) {
	f := newWebhookServiceFixture(t)

	testCases := []string{
		"http://localhost:8080/hook",
		"http://127.0.0.1/hook",
		"http://10.1.2.3/hook",
		"http://192.168.1.5/hook",
		"http://169.254.169.254/latest/meta-data",
	}

	for _, url := range testCases {
		t.Run(url, func(t *testing.T) {
			_, err := f.service.CreateWebhook(context.Background(), "user_1", &domain.CreateWebhookRequest{
				Name:   "bad",
				URL:    url,
				Events: []string{"app.deployed"},
			})

			require.Error(t, err)
			var validationErr domain.ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Equal(t, "url", validationErr.Field)
			// The response never names the blocked address
			assert.Equal(t, "Invalid webhook URL", validationErr.Message)
			assert.NotContains(t, err.Error(), "private address")
		})
	}
}

func TestWebhookService_CreateWebhook_ConfiguredDefaultRetries(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repo := mocks.NewMockWebhookRepository(ctrl)
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	service := NewWebhookService(repo, mocks.NewMockDeliveryLogRepository(ctrl),
		mocks.NewMockQueueService(ctrl), mocks.NewMockEventEmitter(ctrl),
		logger.NewLoggerWithLevel("disabled"), 5)

	webhook, err := service.CreateWebhook(context.Background(), "user_1", &domain.CreateWebhookRequest{
		Name:   "deploys",
		URL:    "https://hooks.example.com/deploys",
		Events: []string{"app.deployed"},
	})

	require.NoError(t, err)
	assert.Equal(t, 5, webhook.MaxRetries)
}

func TestWebhookService_GetWebhook_OwnershipEnforced(t *testing.T) {
	f := newWebhookServiceFixture(t)

	webhook := ownedWebhook()
	f.repo.EXPECT().GetByID(gomock.Any(), "wh_1").Return(webhook, nil).Times(2)

	got, err := f.service.GetWebhook(context.Background(), "user_1", "wh_1")
	require.NoError(t, err)
	assert.Equal(t, webhook, got)

	_, err = f.service.GetWebhook(context.Background(), "intruder", "wh_1")
	require.Error(t, err)
	var ownershipErr *domain.ErrOwnership
	assert.True(t, errors.As(err, &ownershipErr))
}

func TestWebhookService_GetWebhook_NotFound(t *testing.T) {
	f := newWebhookServiceFixture(t)

	f.repo.EXPECT().GetByID(gomock.Any(), "missing").
		Return(nil, &domain.ErrNotFound{Entity: "webhook", ID: "missing"})

	_, err := f.service.GetWebhook(context.Background(), "user_1", "missing")
	require.Error(t, err)
	var notFoundErr *domain.ErrNotFound
	assert.True(t, errors.As(err, &notFoundErr))
}

func TestWebhookService_UpdateWebhook(t *testing.T) {
	f := newWebhookServiceFixture(t)

	webhook := ownedWebhook()
	f.repo.EXPECT().GetByID(gomock.Any(), "wh_1").Return(webhook, nil)
	f.repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

	newName := "renamed"
	inactive := false
	updated, err := f.service.UpdateWebhook(context.Background(), "user_1", "wh_1", &domain.UpdateWebhookRequest{
		Name:     &newName,
		IsActive: &inactive,
	})

	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)
	assert.False(t, updated.IsActive)
	// Untouched fields survive the merge
	assert.Equal(t, "https://hooks.example.com/deploys", updated.URL)
	assert.Equal(t, []string{"app.deployed"}, updated.Events)
}

func TestWebhookService_UpdateWebhook_BlockedURL(t *testing.T) {
	f := newWebhookServiceFixture(t)

	url := "http://192.168.0.10/hook"
	_, err := f.service.UpdateWebhook(context.Background(), "user_1", "wh_1", &domain.UpdateWebhookRequest{
		URL: &url,
	})

	require.Error(t, err)
	var validationErr domain.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "Invalid webhook URL", validationErr.Message)
}

func TestWebhookService_DeleteWebhook(t *testing.T) {
	f := newWebhookServiceFixture(t)

	f.repo.EXPECT().GetByID(gomock.Any(), "wh_1").Return(ownedWebhook(), nil)
	f.repo.EXPECT().Delete(gomock.Any(), "wh_1").Return(nil)

	require.NoError(t, f.service.DeleteWebhook(context.Background(), "user_1", "wh_1"))
}

func TestWebhookService_TestWebhook(t *testing.T) {
	f := newWebhookServiceFixture(t)

	f.repo.EXPECT().GetByID(gomock.Any(), "wh_1").Return(ownedWebhook(), nil)
	f.emitter.EXPECT().EmitToOne(gomock.Any(), "wh_1", domain.EventAppDeployed, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ domain.EventKind, payload map[string]interface{}) (string, error) {
			assert.Equal(t, true, payload["test"])
			assert.Equal(t, "user_1", payload["userId"])
			return "job_1", nil
		})

	// Empty kind falls back to the webhook's first concrete subscription
	jobID, err := f.service.TestWebhook(context.Background(), "user_1", "wh_1", "")
	require.NoError(t, err)
	assert.Equal(t, "job_1", jobID)
}

func TestWebhookService_TestWebhook_UnknownKind(t *testing.T) {
	f := newWebhookServiceFixture(t)

	f.repo.EXPECT().GetByID(gomock.Any(), "wh_1").Return(ownedWebhook(), nil)

	_, err := f.service.TestWebhook(context.Background(), "user_1", "wh_1", "nope.event")
	require.Error(t, err)
	var validationErr domain.ValidationError
	assert.True(t, errors.As(err, &validationErr))
}

func TestWebhookService_RotateSecret(t *testing.T) {
	f := newWebhookServiceFixture(t)

	webhook := ownedWebhook()
	previous := webhook.Secret
	f.repo.EXPECT().GetByID(gomock.Any(), "wh_1").Return(webhook, nil)
	f.repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

	rotated, err := f.service.RotateSecret(context.Background(), "user_1", "wh_1")
	require.NoError(t, err)
	assert.NotEqual(t, previous, rotated.Secret)
	assert.Len(t, rotated.Secret, 64)
}

func TestWebhookService_ListLogs(t *testing.T) {
	f := newWebhookServiceFixture(t)

	logs := []*domain.DeliveryLog{{ID: "log_1", WebhookID: "wh_1"}}
	f.repo.EXPECT().GetByID(gomock.Any(), "wh_1").Return(ownedWebhook(), nil)
	f.logRepo.EXPECT().ListByWebhook(gomock.Any(), "wh_1", 20, 0, gomock.Nil()).Return(logs, 1, nil)

	got, total, err := f.service.ListLogs(context.Background(), "user_1", "wh_1", 20, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, logs, got)
	assert.Equal(t, 1, total)
}

func TestWebhookService_RetryDelivery(t *testing.T) {
	f := newWebhookServiceFixture(t)

	payload := []byte(`{"app_id": "app_1",  "status": "error"}`)
	webhook := ownedWebhook()
	f.logRepo.EXPECT().GetByID(gomock.Any(), "log_1").Return(&domain.DeliveryLog{
		ID:        "log_1",
		WebhookID: "wh_1",
		EventKind: domain.EventAppError,
		Payload:   payload,
	}, nil)
	f.repo.EXPECT().GetByID(gomock.Any(), "wh_1").Return(webhook, nil)
	f.queue.EXPECT().Enqueue(gomock.Any(), webhook, domain.EventAppError, []byte(payload)).
		Return("job_replay", nil)

	jobID, err := f.service.RetryDelivery(context.Background(), "user_1", "log_1")
	require.NoError(t, err)
	assert.Equal(t, "job_replay", jobID)
}

func TestWebhookService_RetryDelivery_OwnershipEnforced(t *testing.T) {
	f := newWebhookServiceFixture(t)

	f.logRepo.EXPECT().GetByID(gomock.Any(), "log_1").Return(&domain.DeliveryLog{
		ID:        "log_1",
		WebhookID: "wh_1",
		EventKind: domain.EventAppError,
	}, nil)
	f.repo.EXPECT().GetByID(gomock.Any(), "wh_1").Return(ownedWebhook(), nil)

	_, err := f.service.RetryDelivery(context.Background(), "intruder", "log_1")
	require.Error(t, err)
	var ownershipErr *domain.ErrOwnership
	assert.True(t, errors.As(err, &ownershipErr))
}
