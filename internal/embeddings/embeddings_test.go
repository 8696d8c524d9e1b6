package embeddings

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewClientValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(slog.Default(), "", "http://x", "m", 4, time.Second); err == nil {
		t.Error("expected error for missing api key")
	}
	if _, err := NewClient(slog.Default(), "k", "", "m", 4, time.Second); err == nil {
		t.Error("expected error for missing base url")
	}
	if _, err := NewClient(slog.Default(), "k", "http://x", "", 4, time.Second); err == nil {
		t.Error("expected error for missing model")
	}
	if _, err := NewClient(slog.Default(), "k", "http://x", "m", 0, time.Second); err == nil {
		t.Error("expected error for non-positive dims")
	}
}

func TestEmbed(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		var req embeddingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if req.Input != "hello" {
			t.Errorf("unexpected input %q", req.Input)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"embedding": []float32{0.1, 0.2, 0.3}}},
		})
	}))
	defer srv.Close()

	client, err := NewClient(slog.Default(), "test-key", srv.URL, "test-model", 3, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	vec, err := client.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatal(err)
	}
	if len(vec) != 3 {
		t.Fatalf("expected 3 dims, got %d", len(vec))
	}
	if client.Dimensions() != 3 {
		t.Errorf("unexpected dimensions %d", client.Dimensions())
	}
}

func TestEmbedServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client, err := NewClient(slog.Default(), "k", srv.URL, "m", 3, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := client.Embed(context.Background(), "hello"); err == nil {
		t.Fatal("expected error on 429")
	}
}
