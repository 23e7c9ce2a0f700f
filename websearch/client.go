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

package websearch

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
)

const (
	// MaxWebResults is the hard cap on results per search.
	MaxWebResults = 10

	// MinContentLength is the minimum cleaned content length for a result
	// to be kept.
	MinContentLength = 5

	// MaxRetries is how many times a failed search call is retried.
	MaxRetries = 2

	// MinQueryLength is the minimum query length after trimming.
	MinQueryLength = 3

	defaultEndpoint = "https://api.tavily.com/search"
	defaultTimeout  = 30 * time.Second
)

// Result is one processed web search hit.
type Result struct {
	Title   string
	URL     string
	Content string
	Domain  string
	Score   float64
}

// Client performs web searches against a Tavily-compatible search API.
//
// A client without an API key is disabled rather than broken: Search
// returns empty results and the condition is logged once at construction,
// matching how the retrieval stack treats missing collaborators.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client) error

// WithEndpoint overrides the search API endpoint.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) error {
		if endpoint != "" {
			c.endpoint = endpoint
		}
		return nil
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) error {
		if httpClient != nil {
			c.httpClient = httpClient
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// NewClient creates a web search client. An empty apiKey produces a
// disabled client, not an error.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	c := &Client{
		endpoint:   defaultEndpoint,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     slog.Default().With("component", "websearch"),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if apiKey == "" {
		c.logger.Warn("no web search API key configured, web search disabled")
	}
	return c, nil
}

// Enabled reports whether the client can perform searches.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

type searchRequest struct {
	APIKey            string `json:"api_key"`
	Query             string `json:"query"`
	MaxResults        int    `json:"max_results"`
	SearchDepth       string `json:"search_depth"`
	IncludeAnswer     bool   `json:"include_answer"`
	IncludeRawContent bool   `json:"include_raw_content"`
}

type searchResponse struct {
	Results []rawResult `json:"results"`
}

type rawResult struct {
	Title      string  `json:"title"`
	URL        string  `json:"url"`
	Content    string  `json:"content"`
	RawContent string  `json:"raw_content"`
	Score      float64 `json:"score"`
}

// Search performs a web search and returns cleaned, filtered results.
//
// Failures are absorbed: a disabled client, a too-short query, or a call
// that fails after retries all yield an empty slice, never an error that
// escalates past this boundary. Research quality degrades, the session
// does not halt.
func (c *Client) Search(ctx context.Context, query string, maxResults int) []Result {
	if !c.Enabled() {
		c.logger.Warn("web search not available")
		return nil
	}

	if len(strings.TrimSpace(query)) < MinQueryLength {
		c.logger.Warn("query too short for web search", "query", query)
		return nil
	}

	if maxResults <= 0 || maxResults > MaxWebResults {
		maxResults = MaxWebResults
	}

	resp, err := c.searchWithRetry(ctx, query, maxResults)
	if err != nil {
		c.logger.Error("web search failed", "query", query, "err", err)
		return nil
	}

	results := c.processResults(resp)
	if len(results) > maxResults {
		results = results[:maxResults]
	}

	c.logger.Info("web search complete", "query", query, "results", len(results))
	return results
}

// searchWithRetry issues the API call, retrying transient failures up to
// MaxRetries times.
func (c *Client) searchWithRetry(ctx context.Context, query string, maxResults int) (*searchResponse, error) {
	var lastErr error
	for attempt := 0; attempt <= MaxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Warn("web search attempt failed, retrying",
				"attempt", attempt, "err", lastErr)
		}
		resp, err := c.doSearch(ctx, query, maxResults)
		if err == nil {
			return resp, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func (c *Client) doSearch(ctx context.Context, query string, maxResults int) (*searchResponse, error) {
	body, err := json.Marshal(searchRequest{
		APIKey:            c.apiKey,
		Query:             query,
		MaxResults:        maxResults,
		SearchDepth:       "advanced",
		IncludeAnswer:     true,
		IncludeRawContent: true,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API returned status %d: %s",
			httpResp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var resp searchResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}
	return &resp, nil
}

// processResults cleans and filters raw API results. Results whose cleaned
// content is shorter than MinContentLength are dropped.
func (c *Client) processResults(resp *searchResponse) []Result {
	results := make([]Result, 0, len(resp.Results))

	for i, raw := range resp.Results {
		content := raw.Content
		// Raw content is usually the fuller extraction
		if len(raw.RawContent) > len(content) {
			content = raw.RawContent
		}
		content = CleanContent(content)

		if len(content) < MinContentLength {
			c.logger.Debug("skipping result with too little content", "index", i+1, "url", raw.URL)
			continue
		}

		title := raw.Title
		if title == "" {
			title = "Untitled"
		}

		domain := ExtractDomain(raw.URL)
		if domain == "" {
			if raw.URL != "" {
				domain = raw.URL
			} else {
				domain = "unknown"
			}
		}

		results = append(results, Result{
			Title:   title,
			URL:     raw.URL,
			Content: content,
			Domain:  domain,
			Score:   raw.Score,
		})
	}

	return results
}
