package domain

import (
	"fmt"
	"regexp"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/tidwall/gjson"
)

// EventKind identifies a platform event that webhooks can subscribe to
type EventKind string

// The closed set of emitted event kinds
const (
	EventAppCreated         EventKind = "app.created"
	EventAppDeployed        EventKind = "app.deployed"
	EventAppExported        EventKind = "app.exported"
	EventAppError           EventKind = "app.error"
	EventGenerationComplete EventKind = "generation.complete"
	EventDeploymentComplete EventKind = "deployment.complete"
	EventUserRegistered     EventKind = "user.registered"
	EventUserVerified       EventKind = "user.verified"
	EventPaymentSuccess     EventKind = "payment.success"
	EventPaymentFailed      EventKind = "payment.failed"
)

// EventKinds lists every emitted kind, in catalog order
var EventKinds = []EventKind{
	EventAppCreated,
	EventAppDeployed,
	EventAppExported,
	EventAppError,
	EventGenerationComplete,
	EventDeploymentComplete,
	EventUserRegistered,
	EventUserVerified,
	EventPaymentSuccess,
	EventPaymentFailed,
}

// IsValidEventKind reports whether the kind is one of the emitted kinds
func IsValidEventKind(kind EventKind) bool {
	_, ok := eventContracts[kind]
	return ok
}

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FieldType constrains how a contract field is checked
type FieldType string

const (
	FieldString         FieldType = "string"
	FieldNumber         FieldType = "number"
	FieldPositiveNumber FieldType = "number > 0"
	FieldEmail          FieldType = "email"
	FieldCurrency       FieldType = "currency" // 3-letter alphabetic code
	FieldEnvironment    FieldType = "environment"
)

// ContractField describes one field of an event payload contract
type ContractField struct {
	Name string    `json:"name"`
	Type FieldType `json:"type"`
}

// EventContract declares the payload shape for one event kind
type EventContract struct {
	Kind        EventKind       `json:"kind"`
	Description string          `json:"description"`
	Required    []ContractField `json:"required"`
	Optional    []ContractField `json:"optional,omitempty"`
}

var eventContracts = map[EventKind]EventContract{
	EventAppCreated: {
		Kind:        EventAppCreated,
		Description: "An app was created",
		Required: []ContractField{
			{Name: "appId", Type: FieldString},
			{Name: "appName", Type: FieldString},
			{Name: "userId", Type: FieldString},
		},
	},
	EventAppDeployed: {
		Kind:        EventAppDeployed,
		Description: "An app was deployed",
		Required: []ContractField{
			{Name: "appId", Type: FieldString},
			{Name: "appName", Type: FieldString},
			{Name: "userId", Type: FieldString},
			{Name: "deploymentUrl", Type: FieldString},
			{Name: "environment", Type: FieldEnvironment},
		},
	},
	EventAppExported: {
		Kind:        EventAppExported,
		Description: "An app was exported",
		Required: []ContractField{
			{Name: "appId", Type: FieldString},
			{Name: "userId", Type: FieldString},
		},
		Optional: []ContractField{
			{Name: "format", Type: FieldString},
		},
	},
	EventAppError: {
		Kind:        EventAppError,
		Description: "An app hit an unrecoverable error",
		Required: []ContractField{
			{Name: "appId", Type: FieldString},
			{Name: "userId", Type: FieldString},
			{Name: "error", Type: FieldString},
		},
		Optional: []ContractField{
			{Name: "errorType", Type: FieldString},
			{Name: "severity", Type: FieldString},
		},
	},
	EventGenerationComplete: {
		Kind:        EventGenerationComplete,
		Description: "A generation run finished",
		Required: []ContractField{
			{Name: "appId", Type: FieldString},
			{Name: "userId", Type: FieldString},
		},
		Optional: []ContractField{
			{Name: "durationMs", Type: FieldNumber},
			{Name: "model", Type: FieldString},
		},
	},
	EventDeploymentComplete: {
		Kind:        EventDeploymentComplete,
		Description: "A deployment finished",
		Required: []ContractField{
			{Name: "appId", Type: FieldString},
			{Name: "deploymentUrl", Type: FieldString},
			{Name: "userId", Type: FieldString},
		},
		Optional: []ContractField{
			{Name: "environment", Type: FieldEnvironment},
		},
	},
	EventUserRegistered: {
		Kind:        EventUserRegistered,
		Description: "A user registered",
		Required: []ContractField{
			{Name: "userId", Type: FieldString},
		},
		Optional: []ContractField{
			{Name: "email", Type: FieldEmail},
			{Name: "plan", Type: FieldString},
		},
	},
	EventUserVerified: {
		Kind:        EventUserVerified,
		Description: "A user verified their account",
		Required: []ContractField{
			{Name: "userId", Type: FieldString},
		},
		Optional: []ContractField{
			{Name: "email", Type: FieldEmail},
		},
	},
	EventPaymentSuccess: {
		Kind:        EventPaymentSuccess,
		Description: "A payment settled",
		Required: []ContractField{
			{Name: "userId", Type: FieldString},
			{Name: "amount", Type: FieldPositiveNumber},
			{Name: "currency", Type: FieldCurrency},
		},
	},
	EventPaymentFailed: {
		Kind:        EventPaymentFailed,
		Description: "A payment failed",
		Required: []ContractField{
			{Name: "userId", Type: FieldString},
			{Name: "amount", Type: FieldPositiveNumber},
			{Name: "currency", Type: FieldCurrency},
		},
		Optional: []ContractField{
			{Name: "reason", Type: FieldString},
		},
	},
}

// EventCatalog returns the contract for every emitted kind, in catalog order
func EventCatalog() []EventContract {
	catalog := make([]EventContract, 0, len(EventKinds))
	for _, kind := range EventKinds {
		catalog = append(catalog, eventContracts[kind])
	}
	return catalog
}

// ContractFor returns the contract for a kind, if it exists
func ContractFor(kind EventKind) (EventContract, bool) {
	c, ok := eventContracts[kind]
	return c, ok
}

// ValidateEventPayload checks the payload bytes against the kind's contract.
// It returns human-readable errors; an empty slice means the payload is valid.
// An unknown kind is itself an error. The check runs over the frozen bytes
// that will later be signed and sent.
func ValidateEventPayload(kind EventKind, payload []byte) []string {
	contract, ok := eventContracts[kind]
	if !ok {
		return []string{fmt.Sprintf("unknown event kind: %s", kind)}
	}

	if !gjson.ValidBytes(payload) {
		return []string{"payload is not valid JSON"}
	}

	var errs []string
	for _, field := range contract.Required {
		result := gjson.GetBytes(payload, field.Name)
		if !result.Exists() {
			errs = append(errs, fmt.Sprintf("missing required field: %s", field.Name))
			continue
		}
		if msg := checkFieldType(field, result); msg != "" {
			errs = append(errs, msg)
		}
	}

	for _, field := range contract.Optional {
		result := gjson.GetBytes(payload, field.Name)
		if !result.Exists() {
			continue
		}
		if msg := checkFieldType(field, result); msg != "" {
			errs = append(errs, msg)
		}
	}

	// A free-form email field must look like an email wherever it shows up
	if email := gjson.GetBytes(payload, "email"); email.Exists() {
		if email.Type != gjson.String || !emailRegex.MatchString(email.String()) {
			if !containsError(errs, "email") {
				errs = append(errs, "field email is not a valid email address")
			}
		}
	}

	return errs
}

func containsError(errs []string, field string) bool {
	needle := fmt.Sprintf("field %s ", field)
	for _, e := range errs {
		if len(e) >= len(needle) && e[:len(needle)] == needle {
			return true
		}
	}
	return false
}

func checkFieldType(field ContractField, result gjson.Result) string {
	switch field.Type {
	case FieldString:
		if result.Type != gjson.String {
			return fmt.Sprintf("field %s must be a string", field.Name)
		}
	case FieldNumber:
		if result.Type != gjson.Number {
			return fmt.Sprintf("field %s must be a number", field.Name)
		}
	case FieldPositiveNumber:
		if result.Type != gjson.Number {
			return fmt.Sprintf("field %s must be a number", field.Name)
		}
		if result.Float() <= 0 {
			return fmt.Sprintf("field %s must be greater than zero", field.Name)
		}
	case FieldEmail:
		if result.Type != gjson.String || !emailRegex.MatchString(result.String()) {
			return fmt.Sprintf("field %s is not a valid email address", field.Name)
		}
	case FieldCurrency:
		code := result.String()
		if result.Type != gjson.String || len(code) != 3 || !govalidator.IsAlpha(code) {
			return fmt.Sprintf("field %s must be a 3-letter currency code", field.Name)
		}
	case FieldEnvironment:
		if env := result.String(); env != "preview" && env != "production" {
			return fmt.Sprintf("field %s must be one of: preview, production", field.Name)
		}
	}
	return ""
}

// SampleEventPayload builds a contract-satisfying payload for test sends.
// It carries "test": true so receivers can tell it apart from a real event.
func SampleEventPayload(kind EventKind, userID string) map[string]interface{} {
	payload := map[string]interface{}{
		"test":      true,
		"timestamp": time.Now().UnixMilli(),
		"userId":    userID,
	}

	contract, ok := eventContracts[kind]
	if !ok {
		return payload
	}

	for _, field := range contract.Required {
		if field.Name == "userId" {
			continue
		}
		payload[field.Name] = sampleFieldValue(field)
	}
	return payload
}

func sampleFieldValue(field ContractField) interface{} {
	switch field.Type {
	case FieldNumber, FieldPositiveNumber:
		return 100
	case FieldEmail:
		return "test@example.com"
	case FieldCurrency:
		return "USD"
	case FieldEnvironment:
		return "preview"
	}
	switch field.Name {
	case "appId":
		return "app_test"
	case "appName":
		return "Test App"
	case "deploymentUrl":
		return "https://app-test.example.com"
	case "error":
		return "test error"
	}
	return "test"
}
