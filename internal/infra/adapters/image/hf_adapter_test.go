package image

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"telegram-image-bot/internal/domain/fault"
)

func newHF(t *testing.T, handler http.Handler) *HuggingFaceAdapter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	h, err := NewHuggingFaceAdapter("hf_testkey", srv.URL)
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	return h
}

func TestHFGenerateImageRequestShape(t *testing.T) {
	want := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/models/stabilityai/stable-diffusion-xl-base-1.0" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer hf_testkey" {
			t.Errorf("authorization = %q", got)
		}
		var body struct {
			Inputs string `json:"inputs"`
		}
		b, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(b, &body); err != nil || body.Inputs != "a red cat" {
			t.Errorf("request body = %s", b)
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(want)
	})
	h := newHF(t, handler)

	got, err := h.GenerateImage(context.Background(), "stabilityai/stable-diffusion-xl-base-1.0", "a red cat")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if string(got) != string(want) {
		t.Fatalf("payload bytes differ")
	}
}

func TestHFQuotaStatusClassifies(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"Rate limit reached"}`))
	})
	h := newHF(t, handler)

	_, err := h.GenerateImage(context.Background(), "m", "p")
	var se *fault.StatusError
	if !errors.As(err, &se) {
		t.Fatalf("got %v, want StatusError", err)
	}
	if se.Code != 429 || se.Service != "huggingface" {
		t.Fatalf("unexpected status error: %+v", se)
	}
	if got := fault.Classify(err); got != fault.Quota {
		t.Fatalf("classified as %s, want %s", got, fault.Quota)
	}
}

func TestHFModelLoadingClassifiesBusy(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"Model stabilityai/sdxl is currently loading","estimated_time":20.0}`))
	})
	h := newHF(t, handler)

	_, err := h.GenerateImage(context.Background(), "m", "p")
	if got := fault.Classify(err); got != fault.BackendBusy {
		t.Fatalf("classified as %s, want %s", got, fault.BackendBusy)
	}
}

func TestHFEmptySuccessBodyIsEmptyResult(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := newHF(t, handler)

	_, err := h.GenerateImage(context.Background(), "m", "p")
	if !errors.Is(err, fault.ErrEmptyResult) {
		t.Fatalf("got %v, want ErrEmptyResult", err)
	}
}

func TestHFRequiresAPIKey(t *testing.T) {
	if _, err := NewHuggingFaceAdapter("", ""); err == nil {
		t.Fatalf("empty api key must be rejected at construction")
	}
}
