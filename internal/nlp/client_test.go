package nlp_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vnexam/autograde/internal/nlp"
)

func modelServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/embed", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string][]float32{"embedding": {0.1, 0.2, 0.3}})
	})
	mux.HandleFunc("/entail", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string][]float64{"logits": {1.5, 0.2, -0.7}})
	})
	mux.HandleFunc("/segment", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"text": "quang_hợp là gì"})
	})
	return httptest.NewServer(mux)
}

func TestClientEmbed(t *testing.T) {
	srv := modelServer(t)
	defer srv.Close()

	c := nlp.NewClient(srv.URL)
	vec, err := c.Embed(context.Background(), "quang hợp là gì")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	if len(vec) != 3 {
		t.Fatalf("got %d dims", len(vec))
	}
}

func TestClientEntail(t *testing.T) {
	srv := modelServer(t)
	defer srv.Close()

	c := nlp.NewClient(srv.URL)
	logits, err := c.Entail(context.Background(), "a", "b")
	if err != nil {
		t.Fatalf("entail: %v", err)
	}
	if len(logits) != 3 || logits[0] != 1.5 {
		t.Fatalf("got %v", logits)
	}
}

func TestClientSegment(t *testing.T) {
	srv := modelServer(t)
	defer srv.Close()

	c := nlp.NewClient(srv.URL)
	text, err := c.Segment(context.Background(), "quang hợp là gì")
	if err != nil {
		t.Fatalf("segment: %v", err)
	}
	if text != "quang_hợp là gì" {
		t.Fatalf("got %q", text)
	}
}

func TestClientErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := nlp.NewClient(srv.URL)
	if _, err := c.Embed(context.Background(), "x"); err == nil {
		t.Fatalf("expected error on non-200 status")
	}
}

func TestClientEmptyEmbedding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string][]float32{"embedding": {}})
	}))
	defer srv.Close()

	c := nlp.NewClient(srv.URL)
	if _, err := c.Embed(context.Background(), "x"); err == nil {
		t.Fatalf("expected error on empty embedding")
	}
}
