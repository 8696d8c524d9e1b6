// Package embeddings turns text into vectors via an OpenAI-compatible API.
package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Embedder produces vector embeddings for text and reports dimension.
type Embedder interface {
	Embed(ctx context.Context, input string) ([]float32, error)
	Dimensions() int
}

// Client calls an OpenAI-compatible /v1/embeddings endpoint.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	dims    int
	logger  *slog.Logger
	http    *http.Client
}

type embeddingRequest struct {
	Input string `json:"input"`
	Model string `json:"model"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// NewClient builds an embeddings Client; baseURL, apiKey, model required and
// dims must be positive.
func NewClient(log *slog.Logger, apiKey, baseURL, model string, dims int, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("embeddings: base url is required")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("embeddings: api key is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("embeddings: model is required")
	}
	if dims <= 0 {
		return nil, errors.New("embeddings: dimensions must be positive")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		dims:    dims,
		logger:  log.With(slog.String("component", "embeddings")),
		http: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Dimensions returns the configured embedding dimension.
func (c *Client) Dimensions() int {
	return c.dims
}

// Embed returns the embedding vector for the given text.
func (c *Client) Embed(ctx context.Context, input string) ([]float32, error) {
	payload, err := json.Marshal(embeddingRequest{
		Input: input,
		Model: c.model,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/embeddings", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warn("close response body failed", slog.Any("error", err))
		}
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("embeddings error: %s", strings.TrimSpace(string(body)))
	}

	var parsed embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	if len(parsed.Data) == 0 {
		return nil, errors.New("embeddings empty response")
	}
	return parsed.Data[0].Embedding, nil
}
