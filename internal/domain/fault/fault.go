// File: internal/domain/fault/fault.go
package fault

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/rs/zerolog"
)

// Category is the operator-facing classification of a failed external call.
// Exactly one category is assigned per failure; raw error text may embed
// credentials (tokens inside URLs or headers) and must never be logged
// verbatim — log the category instead.
type Category string

const (
	Network     Category = "NETWORK"
	Timeout     Category = "TIMEOUT"
	TLS         Category = "TLS"
	Auth        Category = "AUTH"
	Quota       Category = "QUOTA"
	BackendBusy Category = "BACKEND_BUSY"
	Malformed   Category = "MALFORMED_RESPONSE"
	EmptyPrompt Category = "EMPTY_PROMPT"
	Unknown     Category = "UNKNOWN"
)

var (
	// ErrEmptyPrompt marks a caller error: a blank prompt must be rejected
	// before any network call is made.
	ErrEmptyPrompt = errors.New("prompt is empty")

	// ErrMissingCredential marks a degraded-configuration state: the process
	// keeps running but the dependent operation cannot be performed.
	ErrMissingCredential = errors.New("credential is not configured")

	// ErrEmptyResult marks a backend contract violation: the call succeeded
	// but carried no image payload.
	ErrEmptyResult = errors.New("backend returned an empty result")

	// ErrMalformedImage marks a payload that could not be decoded as an image.
	ErrMalformedImage = errors.New("backend returned undecodable image data")
)

// StatusError is a structured HTTP-level failure from an external service.
// Adapters convert provider responses into this type so classification can
// key on the status code instead of scraping error strings.
type StatusError struct {
	Service string
	Code    int
	Body    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: http %d", e.Service, e.Code)
}

// Classify maps an error to exactly one Category. Structured types are
// matched first; a lowercased substring table preserves the legacy ordering
// (network, timeout, tls, auth, quota, busy, malformed) as a fallback for
// errors that carry no type information. First match wins.
func Classify(err error) Category {
	if err == nil {
		return Unknown
	}

	switch {
	case errors.Is(err, ErrEmptyPrompt):
		return EmptyPrompt
	case errors.Is(err, ErrMissingCredential):
		return Auth
	case errors.Is(err, ErrEmptyResult), errors.Is(err, ErrMalformedImage):
		return Malformed
	case errors.Is(err, context.DeadlineExceeded):
		return Timeout
	}

	var se *StatusError
	if errors.As(err, &se) {
		return classifyStatus(se)
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return Network
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Timeout
	}
	var recErr tls.RecordHeaderError
	if errors.As(err, &recErr) {
		return TLS
	}
	var authErr x509.UnknownAuthorityError
	if errors.As(err, &authErr) {
		return TLS
	}
	var hostErr x509.HostnameError
	if errors.As(err, &hostErr) {
		return TLS
	}
	var certErr x509.CertificateInvalidError
	if errors.As(err, &certErr) {
		return TLS
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return Network
	}
	var synErr *json.SyntaxError
	if errors.As(err, &synErr) {
		return Malformed
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return Malformed
	}

	return classifyText(err.Error())
}

func classifyStatus(se *StatusError) Category {
	switch se.Code {
	case 401, 403:
		return Auth
	case 402, 429:
		return Quota
	case 503:
		return BackendBusy
	}
	body := strings.ToLower(se.Body)
	switch {
	case strings.Contains(body, "quota"), strings.Contains(body, "credit"):
		return Quota
	case strings.Contains(body, "loading"):
		return BackendBusy
	case strings.Contains(body, "unauthorized"), strings.Contains(body, "token"):
		return Auth
	}
	return Unknown
}

// classifyText is the ordered substring fallback. The order mirrors the
// containment priority: connection problems first, then timeouts (benign in
// a long-poll), then TLS, auth, quota, busy, decode.
func classifyText(msg string) Category {
	s := strings.ToLower(msg)
	switch {
	case containsAny(s, "connection", "failed to resolve", "no such host", "max retries"):
		return Network
	case containsAny(s, "timed out", "timeout"):
		return Timeout
	case containsAny(s, "tls", "ssl", "certificate"):
		return TLS
	case containsAny(s, "401", "unauthorized", "invalid token"):
		return Auth
	case containsAny(s, "429", "quota", "rate limit", "credit balance", "depleted"):
		return Quota
	case containsAny(s, "503", "loading"):
		return BackendBusy
	case containsAny(s, "json", "decode", "unmarshal"):
		return Malformed
	}
	return Unknown
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Level returns the log level appropriate for a category. A timeout during
// long polling is indistinguishable from peer silence, so it stays at debug;
// an empty prompt is a caller mistake, not an outage.
func (c Category) Level() zerolog.Level {
	switch c {
	case Timeout:
		return zerolog.DebugLevel
	case EmptyPrompt:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

func (c Category) String() string { return string(c) }
