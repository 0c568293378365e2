// Package nlp is the HTTP client for the external model server that hosts
// the sentence encoder, the NLI cross-encoder and the word segmenter.
package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks JSON to the model server. It satisfies the grading package's
// Embedder, Entailer and Segmenter interfaces.
type Client struct {
	base string
	http *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) ClientOption { return func(c *Client) { c.http = h } }

func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		base: baseURL,
		http: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Embed returns the sentence embedding for text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	var out struct {
		Embedding []float32 `json:"embedding"`
	}
	if err := c.post(ctx, "/embed", map[string]string{"text": text}, &out); err != nil {
		return nil, err
	}
	if len(out.Embedding) == 0 {
		return nil, fmt.Errorf("nlp: empty embedding")
	}
	return out.Embedding, nil
}

// Entail returns the raw NLI logits for the premise/hypothesis pair,
// ordered entailment, neutral, contradiction.
func (c *Client) Entail(ctx context.Context, premise, hypothesis string) ([]float64, error) {
	var out struct {
		Logits []float64 `json:"logits"`
	}
	req := map[string]string{"premise": premise, "hypothesis": hypothesis}
	if err := c.post(ctx, "/entail", req, &out); err != nil {
		return nil, err
	}
	if len(out.Logits) != 3 {
		return nil, fmt.Errorf("nlp: expected 3 logits, got %d", len(out.Logits))
	}
	return out.Logits, nil
}

// Segment word-segments Vietnamese text.
func (c *Client) Segment(ctx context.Context, text string) (string, error) {
	var out struct {
		Text string `json:"text"`
	}
	if err := c.post(ctx, "/segment", map[string]string{"text": text}, &out); err != nil {
		return "", err
	}
	return out.Text, nil
}

func (c *Client) post(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("nlp: marshal %s request: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("nlp: build %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("nlp: %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("nlp: %s: status %d: %s", path, resp.StatusCode, msg)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("nlp: decode %s response: %w", path, err)
	}
	return nil
}
