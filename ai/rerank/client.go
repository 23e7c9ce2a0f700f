// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package rerank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/poiesic/scholar/ai"
)

const defaultTimeout = 60 * time.Second

// Client implements ai.PairScorer against a cross-encoder rerank service
// exposing a TEI-style POST /rerank endpoint.
type Client struct {
	host       string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
// Default uses a 60 second timeout.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a rerank client for the given host.
//
// Returns ai.PairScorer interface to enforce abstraction.
func NewClient(host string, opts ...Option) (ai.PairScorer, error) {
	if host == "" {
		return nil, ErrHostRequired
	}

	c := &Client{
		host:       strings.TrimSuffix(host, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     slog.Default().With("component", "rerank-client"),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

type rerankRequest struct {
	Query string   `json:"query"`
	Texts []string `json:"texts"`
}

type rerankResult struct {
	Index int     `json:"index"`
	Score float64 `json:"score"`
}

// ScorePairs scores every document against the query.
// Returns one score per document in input order. An HTTP 507 response, or a
// body mentioning memory exhaustion, is reported as ai.ErrResourceExhausted
// so callers can retry with a smaller batch.
func (c *Client) ScorePairs(ctx context.Context, query string, docs []string) ([]float64, error) {
	if len(docs) == 0 {
		return []float64{}, nil
	}

	body, err := json.Marshal(rerankRequest{Query: query, Texts: docs})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/rerank", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		if isResourceExhausted(resp.StatusCode, raw) {
			c.logger.Warn("rerank service reported resource exhaustion", "status", resp.StatusCode)
			return nil, fmt.Errorf("%w: status %d", ai.ErrResourceExhausted, resp.StatusCode)
		}
		return nil, fmt.Errorf("rerank request failed: status %d: %s", resp.StatusCode, truncateBody(raw))
	}

	var results []rerankResult
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, fmt.Errorf("rerank response: %w", err)
	}

	// The service returns results sorted by score; restore input order.
	scores := make([]float64, len(docs))
	for _, r := range results {
		if r.Index < 0 || r.Index >= len(scores) {
			return nil, fmt.Errorf("rerank response: index %d out of range", r.Index)
		}
		scores[r.Index] = r.Score
	}

	return scores, nil
}

// isResourceExhausted recognizes memory-pressure responses from the scoring
// service. 507 is the canonical signal; some deployments answer 500 with an
// out-of-memory message instead.
func isResourceExhausted(status int, body []byte) bool {
	if status == http.StatusInsufficientStorage {
		return true
	}
	lower := strings.ToLower(string(body))
	return strings.Contains(lower, "out of memory") || strings.Contains(lower, "oom")
}

func truncateBody(body []byte) string {
	const maxLen = 200
	s := string(body)
	if len(s) > maxLen {
		return s[:maxLen]
	}
	return s
}
