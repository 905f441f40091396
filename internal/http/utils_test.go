package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hookforge/hookforge/internal/domain"
	"github.com/hookforge/hookforge/internal/domain/mocks"
)

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestWriteJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSONError(w, "something broke", http.StatusBadRequest)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	body := decodeEnvelope(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "something broke", body["error"])
}

func TestWriteData(t *testing.T) {
	w := httptest.NewRecorder()
	writeData(w, http.StatusCreated, map[string]interface{}{"id": "wh_1"})

	assert.Equal(t, http.StatusCreated, w.Code)

	body := decodeEnvelope(t, w)
	assert.Equal(t, true, body["success"])
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "wh_1", data["id"])
}

func TestWriteServiceError_Mapping(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "validation error maps to 400",
			err:        domain.ValidationError{Field: "url", Message: "url is not publicly routable"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "wrapped validation error maps to 400",
			err:        fmt.Errorf("create failed: %w", domain.ValidationError{Field: "events", Message: "events must contain at least one event kind"}),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "ownership error maps to 403",
			err:        &domain.ErrOwnership{WebhookID: "wh_1", UserID: "user_2"},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "not found maps to 404",
			err:        &domain.ErrNotFound{Entity: "webhook", ID: "wh_1"},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			w := httptest.NewRecorder()
			writeServiceError(w, mocks.NewMockLogger(ctrl), tc.err)

			assert.Equal(t, tc.wantStatus, w.Code)
			body := decodeEnvelope(t, w)
			assert.Equal(t, false, body["success"])
		})
	}
}

func TestWriteServiceError_UnexpectedIsMaskedAndLogged(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().WithField("error", "pq: connection refused").Return(mockLogger)
	mockLogger.EXPECT().Error("Request failed")

	w := httptest.NewRecorder()
	writeServiceError(w, mockLogger, fmt.Errorf("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeEnvelope(t, w)
	assert.Equal(t, "Internal server error", body["error"])
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestAuthenticatedUser(t *testing.T) {
	t.Run("user present on context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/webhooks", nil)
		req = req.WithContext(domain.WithUser(req.Context(), "user_1"))
		w := httptest.NewRecorder()

		userID, ok := authenticatedUser(w, req)
		assert.True(t, ok)
		assert.Equal(t, "user_1", userID)
	})

	t.Run("missing user writes 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/webhooks", nil)
		w := httptest.NewRecorder()

		_, ok := authenticatedUser(w, req)
		assert.False(t, ok)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
