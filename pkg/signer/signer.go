// Package signer implements the outbound webhook wire signature: an
// HMAC-SHA256 over "<timestampMs>.<payload>" carried as "sha256=<hex>" in
// the X-Webhook-Signature header, with a bounded timestamp window for
// replay protection.
package signer

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// SignatureScheme prefixes every signature header value.
	SignatureScheme = "sha256="

	// TimestampTolerance is the maximum accepted clock skew between the
	// signed timestamp and the verifier's clock.
	TimestampTolerance = 5 * time.Minute

	// UserAgent identifies the platform on every outbound delivery.
	UserAgent = "Hookforge-Webhook/1.0"

	// SecretLength is the number of random bytes behind a webhook secret.
	SecretLength = 32
)

// Sign computes the signature header value for the given payload bytes.
// The canonical string is the decimal millisecond timestamp, a dot, then
// the payload verbatim. The result is always 71 characters.
func Sign(payload []byte, secret string, timestampMs int64) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(strconv.FormatInt(timestampMs, 10)))
	h.Write([]byte("."))
	h.Write(payload)
	return SignatureScheme + hex.EncodeToString(h.Sum(nil))
}

// Verify recomputes the signature for payload at timestampMs and compares it
// against header in constant time. Signatures older or newer than
// TimestampTolerance relative to nowMs are rejected regardless of validity.
func Verify(header string, payload []byte, secret string, timestampMs, nowMs int64) bool {
	if !strings.HasPrefix(header, SignatureScheme) {
		return false
	}

	skew := nowMs - timestampMs
	if skew < 0 {
		skew = -skew
	}
	if skew > TimestampTolerance.Milliseconds() {
		return false
	}

	expected := Sign(payload, secret, timestampMs)
	return hmac.Equal([]byte(expected), []byte(header))
}

// GenerateSecret returns a new webhook secret: SecretLength bytes from a
// cryptographically strong source, hex-encoded.
func GenerateSecret() (string, error) {
	buf := make([]byte, SecretLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate webhook secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
