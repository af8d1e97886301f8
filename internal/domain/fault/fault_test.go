package fault

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/rs/zerolog"
)

func TestClassifyText(t *testing.T) {
	cases := []struct {
		name string
		msg  string
		want Category
	}{
		{"connection refused", "dial tcp: connection refused", Network},
		{"dns", "failed to resolve api.telegram.org", Network},
		{"max retries", "max retries exceeded with url", Network},
		{"read timeout", "read timed out", Timeout},
		{"client timeout", "Client.Timeout exceeded while awaiting headers", Timeout},
		{"ssl", "SSL: certificate verify failed", TLS},
		{"unauthorized", "401 Unauthorized", Auth},
		{"rate limited with quota", "429 Too Many Requests: quota exceeded", Quota},
		{"credit depleted", "your credit balance is depleted, purchase credits", Quota},
		{"model loading", "503 Service Unavailable: model is loading", BackendBusy},
		{"bad json", "invalid character '<' looking for beginning of value: decode failed", Malformed},
		{"something else", "weird internal condition", Unknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(errors.New(tc.msg)); got != tc.want {
				t.Fatalf("Classify(%q) = %s, want %s", tc.msg, got, tc.want)
			}
		})
	}
}

func TestClassifyOrderNetworkBeforeTimeout(t *testing.T) {
	// "connection timed out" matches both rules; connection wins.
	if got := Classify(errors.New("connection timed out")); got != Network {
		t.Fatalf("got %s, want %s", got, Network)
	}
}

func TestClassifyStatusError(t *testing.T) {
	cases := []struct {
		code int
		body string
		want Category
	}{
		{401, "", Auth},
		{403, "", Auth},
		{402, "", Quota},
		{429, "", Quota},
		{503, "", BackendBusy},
		{500, `{"error":"quota exceeded"}`, Quota},
		{500, `{"error":"model SDXL is loading"}`, BackendBusy},
		{500, "boom", Unknown},
	}
	for _, tc := range cases {
		err := &StatusError{Service: "backend", Code: tc.code, Body: tc.body}
		if got := Classify(err); got != tc.want {
			t.Fatalf("Classify(http %d %q) = %s, want %s", tc.code, tc.body, got, tc.want)
		}
	}
}

func TestClassifyWrappedStatusError(t *testing.T) {
	err := fmt.Errorf("generate: %w", &StatusError{Service: "backend", Code: 429})
	if got := Classify(err); got != Quota {
		t.Fatalf("got %s, want %s", got, Quota)
	}
}

func TestClassifySentinels(t *testing.T) {
	if got := Classify(ErrEmptyPrompt); got != EmptyPrompt {
		t.Fatalf("got %s, want %s", got, EmptyPrompt)
	}
	if got := Classify(ErrMissingCredential); got != Auth {
		t.Fatalf("got %s, want %s", got, Auth)
	}
	if got := Classify(ErrEmptyResult); got != Malformed {
		t.Fatalf("got %s, want %s", got, Malformed)
	}
	if got := Classify(ErrMalformedImage); got != Malformed {
		t.Fatalf("got %s, want %s", got, Malformed)
	}
}

func TestClassifyTypedErrors(t *testing.T) {
	if got := Classify(&net.DNSError{Err: "no such host", Name: "example.com"}); got != Network {
		t.Fatalf("dns error: got %s, want %s", got, Network)
	}
	if got := Classify(context.DeadlineExceeded); got != Timeout {
		t.Fatalf("deadline: got %s, want %s", got, Timeout)
	}
	var payload struct{ X int }
	jsonErr := json.Unmarshal([]byte("<html>"), &payload)
	if got := Classify(jsonErr); got != Malformed {
		t.Fatalf("json error: got %s, want %s", got, Malformed)
	}
}

func TestLevels(t *testing.T) {
	if Timeout.Level() != zerolog.DebugLevel {
		t.Fatalf("timeout must not log as an error-level event")
	}
	if EmptyPrompt.Level() != zerolog.WarnLevel {
		t.Fatalf("empty prompt is a caller warning")
	}
	if Network.Level() != zerolog.ErrorLevel {
		t.Fatalf("network faults are errors")
	}
}
