package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEventPayload_ValidPayloads(t *testing.T) {
	tests := []struct {
		kind    EventKind
		payload string
	}{
		{EventAppCreated, `{"appId":"app_1","appName":"My App","userId":"user_1","timestamp":1700000000000}`},
		{EventAppDeployed, `{"appId":"app_1","appName":"My App","userId":"user_1","deploymentUrl":"https://a.example.com","environment":"production"}`},
		{EventAppExported, `{"appId":"app_1","userId":"user_1","format":"zip"}`},
		{EventAppError, `{"appId":"app_1","userId":"user_1","error":"TypeError: x is not a function","errorType":"runtime","severity":"high"}`},
		{EventGenerationComplete, `{"appId":"app_1","userId":"user_1","durationMs":5400,"model":"large"}`},
		{EventDeploymentComplete, `{"appId":"app_1","deploymentUrl":"https://a.example.com","userId":"user_1","environment":"preview"}`},
		{EventUserRegistered, `{"userId":"user_1","email":"new@example.com","plan":"pro"}`},
		{EventUserVerified, `{"userId":"user_1"}`},
		{EventPaymentSuccess, `{"userId":"user_1","amount":49.99,"currency":"USD"}`},
		{EventPaymentFailed, `{"userId":"user_1","amount":49.99,"currency":"EUR","reason":"card_declined"}`},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			errs := ValidateEventPayload(tt.kind, []byte(tt.payload))
			assert.Empty(t, errs)
		})
	}
}

func TestValidateEventPayload_MissingRequiredField(t *testing.T) {
	errs := ValidateEventPayload(EventAppCreated, []byte(`{"appId":"app_1","userId":"user_1"}`))
	require.Len(t, errs, 1)
	assert.Equal(t, "missing required field: appName", errs[0])
}

func TestValidateEventPayload_WrongType(t *testing.T) {
	errs := ValidateEventPayload(EventAppCreated, []byte(`{"appId":42,"appName":"My App","userId":"user_1"}`))
	require.Len(t, errs, 1)
	assert.Equal(t, "field appId must be a string", errs[0])
}

func TestValidateEventPayload_MultipleErrors(t *testing.T) {
	errs := ValidateEventPayload(EventAppDeployed, []byte(`{"appId":"app_1","userId":"user_1"}`))
	assert.Len(t, errs, 3) // appName, deploymentUrl, environment
}

func TestValidateEventPayload_Amount(t *testing.T) {
	t.Run("zero amount", func(t *testing.T) {
		errs := ValidateEventPayload(EventPaymentSuccess, []byte(`{"userId":"u","amount":0,"currency":"USD"}`))
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0], "greater than zero")
	})

	t.Run("negative amount", func(t *testing.T) {
		errs := ValidateEventPayload(EventPaymentSuccess, []byte(`{"userId":"u","amount":-5,"currency":"USD"}`))
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0], "greater than zero")
	})

	t.Run("string amount", func(t *testing.T) {
		errs := ValidateEventPayload(EventPaymentSuccess, []byte(`{"userId":"u","amount":"10","currency":"USD"}`))
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0], "must be a number")
	})

	t.Run("failed payments check amount too", func(t *testing.T) {
		errs := ValidateEventPayload(EventPaymentFailed, []byte(`{"userId":"u","amount":0,"currency":"USD"}`))
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0], "greater than zero")
	})
}

func TestValidateEventPayload_Currency(t *testing.T) {
	for _, bad := range []string{`"US"`, `"USDD"`, `"U5D"`, `12`, `"---"`} {
		errs := ValidateEventPayload(EventPaymentSuccess, []byte(`{"userId":"u","amount":10,"currency":`+bad+`}`))
		require.Len(t, errs, 1, "currency %s should fail", bad)
		assert.Contains(t, errs[0], "3-letter currency code")
	}

	errs := ValidateEventPayload(EventPaymentSuccess, []byte(`{"userId":"u","amount":10,"currency":"gbp"}`))
	assert.Empty(t, errs)
}

func TestValidateEventPayload_Environment(t *testing.T) {
	errs := ValidateEventPayload(EventAppDeployed, []byte(`{"appId":"a","appName":"A","userId":"u","deploymentUrl":"https://x","environment":"staging"}`))
	require.Len(t, errs, 1)
	assert.Equal(t, "field environment must be one of: preview, production", errs[0])
}

func TestValidateEventPayload_Email(t *testing.T) {
	t.Run("invalid email field", func(t *testing.T) {
		errs := ValidateEventPayload(EventUserRegistered, []byte(`{"userId":"u","email":"not-an-email"}`))
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0], "email")
	})

	t.Run("email without domain dot", func(t *testing.T) {
		errs := ValidateEventPayload(EventUserRegistered, []byte(`{"userId":"u","email":"a@b"}`))
		require.Len(t, errs, 1)
	})

	t.Run("email with spaces", func(t *testing.T) {
		errs := ValidateEventPayload(EventUserRegistered, []byte(`{"userId":"u","email":"a b@c.com"}`))
		require.Len(t, errs, 1)
	})

	t.Run("free-form email checked even when not in contract", func(t *testing.T) {
		errs := ValidateEventPayload(EventAppCreated, []byte(`{"appId":"a","appName":"A","userId":"u","email":"nope"}`))
		require.Len(t, errs, 1)
		assert.Equal(t, "field email is not a valid email address", errs[0])
	})
}

func TestValidateEventPayload_UnknownKind(t *testing.T) {
	errs := ValidateEventPayload(EventKind("app.vanished"), []byte(`{}`))
	require.Len(t, errs, 1)
	assert.Equal(t, "unknown event kind: app.vanished", errs[0])
}

func TestValidateEventPayload_WildcardIsNotEmittable(t *testing.T) {
	errs := ValidateEventPayload(EventKind(WildcardEvent), []byte(`{}`))
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "unknown event kind")
}

func TestValidateEventPayload_InvalidJSON(t *testing.T) {
	errs := ValidateEventPayload(EventAppCreated, []byte(`{"appId":`))
	require.Len(t, errs, 1)
	assert.Equal(t, "payload is not valid JSON", errs[0])
}

func TestIsValidEventKind(t *testing.T) {
	for _, kind := range EventKinds {
		assert.True(t, IsValidEventKind(kind))
	}
	assert.False(t, IsValidEventKind("app.vanished"))
	assert.False(t, IsValidEventKind(EventKind(WildcardEvent)))
}

func TestEventCatalog(t *testing.T) {
	catalog := EventCatalog()
	require.Len(t, catalog, len(EventKinds))

	for i, contract := range catalog {
		assert.Equal(t, EventKinds[i], contract.Kind)
		assert.NotEmpty(t, contract.Description)
		assert.NotEmpty(t, contract.Required)
	}
}

func TestSampleEventPayload_SatisfiesContract(t *testing.T) {
	for _, kind := range EventKinds {
		t.Run(string(kind), func(t *testing.T) {
			payload := SampleEventPayload(kind, "user_1")

			assert.Equal(t, true, payload["test"])
			assert.Equal(t, "user_1", payload["userId"])
			assert.NotNil(t, payload["timestamp"])

			raw, err := json.Marshal(payload)
			require.NoError(t, err)

			errs := ValidateEventPayload(kind, raw)
			assert.Empty(t, errs, "sample payload for %s should validate", kind)
		})
	}
}
