/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package websearch queries the Tavily search API.
package websearch

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/hashicorp/go-retryablehttp"

	"chainguard.dev/hookagent/agents/toolcall"
	"chainguard.dev/hookagent/config"
)

const (
	defaultMaxResults = 5
	maxMaxResults     = 20
)

// Result is one ranked hit.
type Result struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Snippet string  `json:"content"`
	Score   float64 `json:"score"`
}

// Searcher runs web searches.
type Searcher struct {
	apiKey   string
	endpoint string
	client   *retryablehttp.Client
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithRetry overrides the retry budget and wait bounds.
func WithRetry(maxRetries int, waitMin, waitMax time.Duration) Option {
	return func(s *Searcher) {
		s.client.RetryMax = maxRetries
		s.client.RetryWaitMin = waitMin
		s.client.RetryWaitMax = waitMax
	}
}

// New returns a Searcher for cfg.
func New(cfg config.Search, opts ...Option) *Searcher {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 5 * time.Second
	client.Logger = nil
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	client.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, attempt int) {
		if attempt > 0 {
			clog.FromContext(req.Context()).Warnf("Retrying search request, attempt %d", attempt)
		}
	}

	s := &Searcher{
		apiKey:   cfg.APIKey,
		endpoint: cfg.Endpoint,
		client:   client,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Configured reports whether an API key is present.
func (s *Searcher) Configured() bool {
	return s.apiKey != "" && s.endpoint != ""
}

type searchRequest struct {
	Query       string `json:"query"`
	MaxResults  int    `json:"max_results"`
	SearchDepth string `json:"search_depth"`
}

type searchResponse struct {
	Results []Result `json:"results"`
}

// Search returns up to maxResults hits for query, best first. maxResults
// outside 1..20 is clamped; zero selects the default of 5.
func (s *Searcher) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	if !s.Configured() {
		return nil, toolcall.NotConfigured("web search", "SEARCH_API_KEY")
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query is required")
	}
	switch {
	case maxResults <= 0:
		maxResults = defaultMaxResults
	case maxResults > maxMaxResults:
		maxResults = maxMaxResults
	}

	body, err := json.Marshal(searchRequest{Query: query, MaxResults: maxResults, SearchDepth: "basic"})
	if err != nil {
		return nil, fmt.Errorf("encoding search request: %w", err)
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("search returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}
	slices.SortStableFunc(out.Results, func(a, b Result) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if len(out.Results) > maxResults {
		out.Results = out.Results[:maxResults]
	}

	clog.FromContext(ctx).With("query", query).Infof("Search returned %d results", len(out.Results))
	return out.Results, nil
}
