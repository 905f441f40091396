package signer

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// ValidateTargetURL vets a webhook target before it is stored or dialed.
// Only http and https schemes are accepted, and the host must not point at
// loopback, link-local, unspecified, or private (RFC1918) address space.
// The check operates on the literal hostname: a public DNS name that later
// resolves to a private address is residual risk accepted here.
func ValidateTargetURL(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return errors.New("url is required")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("url is not parseable: %w", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}

	host := u.Hostname()
	if host == "" {
		return errors.New("url host is required")
	}

	lower := strings.ToLower(host)
	if lower == "localhost" || strings.HasSuffix(lower, ".localhost") {
		return errors.New("localhost is not a valid webhook target")
	}

	if ip := net.ParseIP(host); ip != nil {
		switch {
		case ip.IsLoopback():
			return fmt.Errorf("loopback address %s is not a valid webhook target", host)
		case ip.IsUnspecified():
			return fmt.Errorf("unspecified address %s is not a valid webhook target", host)
		case ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast():
			return fmt.Errorf("link-local address %s is not a valid webhook target", host)
		case ip.IsPrivate():
			return fmt.Errorf("private address %s is not a valid webhook target", host)
		}
	}

	return nil
}
