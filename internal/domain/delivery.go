package domain

//go:generate mockgen -destination mocks/mock_delivery_client.go -package mocks github.com/hookforge/hookforge/internal/domain DeliveryClient

import (
	"context"
	"errors"
	"time"
)

// ErrTargetBlocked marks a delivery refused by the target URL guard. Jobs
// failing this way are permanent: retrying cannot make the address safe.
var ErrTargetBlocked = errors.New("webhook target blocked")

// DeliveryRequest carries one outbound webhook attempt
type DeliveryRequest struct {
	URL       string
	Payload   []byte // frozen bytes; signed and sent verbatim as the body
	Secret    string
	EventKind EventKind

	// Timeout is the hard deadline for the attempt; zero means the client's
	// configured default
	Timeout time.Duration

	// CustomHeaders are added after the protocol headers and cannot override them
	CustomHeaders map[string]string
}

// DeliveryResult is the outcome of one delivery attempt
type DeliveryResult struct {
	Success      bool
	StatusCode   int    // zero when no response was received
	ResponseBody string // capped at capture time
	ElapsedMs    int64
	Err          error
}

// DeliveryClient performs signed webhook deliveries
type DeliveryClient interface {
	// Deliver signs and POSTs the payload; it never returns nil
	Deliver(ctx context.Context, req DeliveryRequest) *DeliveryResult

	// ShouldRetry classifies a failed result as transient or permanent
	ShouldRetry(result *DeliveryResult) bool
}
