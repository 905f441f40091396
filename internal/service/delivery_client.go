package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hookforge/hookforge/internal/domain"
	"github.com/hookforge/hookforge/pkg/logger"
	"github.com/hookforge/hookforge/pkg/signer"
)

// Wire headers set on every delivery
const (
	HeaderSignature = "X-Webhook-Signature"
	HeaderTimestamp = "X-Webhook-Timestamp"
	HeaderEvent     = "X-Event-Type"
)

// protectedHeaders are owned by the protocol; custom webhook headers cannot
// override them
var protectedHeaders = map[string]struct{}{
	"Content-Type":  {},
	"User-Agent":    {},
	HeaderSignature: {},
	HeaderTimestamp: {},
	HeaderEvent:     {},
}

func isProtectedHeader(name string) bool {
	_, ok := protectedHeaders[http.CanonicalHeaderKey(name)]
	return ok
}

// deliveryClient implements domain.DeliveryClient
type deliveryClient struct {
	httpClient      *http.Client
	logger          logger.Logger
	defaultTimeout  time.Duration
	responseBodyCap int64
	validateURL     func(string) error
}

// NewDeliveryClient creates the outbound delivery client. A nil httpClient
// gets a default. Redirects are always refused, whatever client is passed:
// a 3xx surfaces as a failed attempt instead of re-aiming a vetted URL.
func NewDeliveryClient(httpClient *http.Client, logger logger.Logger, defaultTimeout time.Duration, responseBodyCap int64) domain.DeliveryClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	client := *httpClient
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	// Each attempt runs under its own context deadline from the webhook's
	// configured timeout; a client-level timeout would silently cap webhooks
	// configured above the default
	client.Timeout = 0

	if defaultTimeout <= 0 {
		defaultTimeout = 30 * time.Second
	}
	if responseBodyCap <= 0 {
		responseBodyCap = 64 * 1024
	}

	return &deliveryClient{
		httpClient:      &client,
		logger:          logger,
		defaultTimeout:  defaultTimeout,
		responseBodyCap: responseBodyCap,
		validateURL:     signer.ValidateTargetURL,
	}
}

// Deliver signs and POSTs the payload bytes verbatim. Every attempt signs
// with a fresh timestamp so retries stay inside the receiver's replay window.
func (c *deliveryClient) Deliver(ctx context.Context, req domain.DeliveryRequest) *domain.DeliveryResult {
	// Rows stored before the target guard existed are re-vetted here
	if err := c.validateURL(req.URL); err != nil {
		return &domain.DeliveryResult{Err: fmt.Errorf("%w: %v", domain.ErrTargetBlocked, err)}
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = c.defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	timestampMs := time.Now().UnixMilli()
	signature := signer.Sign(req.Payload, req.Secret, timestampMs)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.URL, bytes.NewReader(req.Payload))
	if err != nil {
		return &domain.DeliveryResult{Err: fmt.Errorf("failed to create delivery request: %w", err)}
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", signer.UserAgent)
	httpReq.Header.Set(HeaderSignature, signature)
	httpReq.Header.Set(HeaderTimestamp, strconv.FormatInt(timestampMs, 10))
	httpReq.Header.Set(HeaderEvent, string(req.EventKind))

	for name, value := range req.CustomHeaders {
		if isProtectedHeader(name) {
			continue
		}
		httpReq.Header.Set(name, value)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &domain.DeliveryResult{
			ElapsedMs: time.Since(start).Milliseconds(),
			Err:       err,
		}
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, c.responseBodyCap))
	elapsedMs := time.Since(start).Milliseconds()

	result := &domain.DeliveryResult{
		StatusCode:   resp.StatusCode,
		ResponseBody: string(bodyBytes),
		ElapsedMs:    elapsedMs,
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		result.Success = true
	} else {
		result.Err = fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	c.logger.WithFields(map[string]interface{}{
		"url":        req.URL,
		"event":      string(req.EventKind),
		"status":     resp.StatusCode,
		"elapsed_ms": elapsedMs,
	}).Debug("Webhook delivery attempt completed")

	return result
}

// transientErrorFragments match the transport failures worth retrying.
// Matching on the message mirrors how net wraps syscall errors.
var transientErrorFragments = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"no such host",
	"tls handshake timeout",
	"unexpected eof",
}

func isTransientNetError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, fragment := range transientErrorFragments {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}

// ShouldRetry classifies a failed result. Timeouts, refused or reset
// connections and DNS failures retry; 5xx retries; 3xx and 4xx are receiver
// decisions and do not. Blocked targets and unrecognized transport errors
// never retry.
func (c *deliveryClient) ShouldRetry(result *domain.DeliveryResult) bool {
	if result == nil || result.Success {
		return false
	}
	if errors.Is(result.Err, domain.ErrTargetBlocked) {
		return false
	}
	if result.StatusCode == 0 {
		return isTransientNetError(result.Err)
	}
	return result.StatusCode >= 500
}
