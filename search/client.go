// Package search provides the web search collaborator for the research step:
// a Tavily-compatible client plus optional page-content enrichment.
package search

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

// maxResponseSize caps the search API response body.
const maxResponseSize = 4 * 1024 * 1024

// Config configures the search client.
type Config struct {
	// Endpoint is the Tavily-compatible API base URL.
	Endpoint string
	// APIKey authenticates search requests.
	APIKey string
	// MaxResults bounds the number of sources per query.
	MaxResults int
	// EnrichPages enables fetching top result pages for readable text.
	EnrichPages bool
}

// Result is a single search hit.
type Result struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score,omitempty"`
}

// Response is the search API response.
type Response struct {
	Answer  string   `json:"answer"`
	Results []Result `json:"results"`
}

// searchRequest is the Tavily wire request.
type searchRequest struct {
	APIKey        string `json:"api_key"`
	Query         string `json:"query"`
	SearchDepth   string `json:"search_depth"`
	MaxResults    int    `json:"max_results"`
	IncludeAnswer bool   `json:"include_answer"`
}

// Client queries a Tavily-compatible search API.
type Client struct {
	config     Config
	httpClient *http.Client
	enricher   *Enricher
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the client's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a search client.
func NewClient(config Config, opts ...Option) *Client {
	if config.MaxResults <= 0 {
		config.MaxResults = 5
	}

	c := &Client{
		config:     config,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if config.EnrichPages {
		c.enricher = NewEnricher(WithEnricherLogger(c.logger))
	}

	return c
}

// Search runs one advanced-depth query and returns the parsed response.
func (c *Client) Search(ctx context.Context, query string) (*Response, error) {
	payload, err := json.Marshal(searchRequest{
		APIKey:        c.config.APIKey,
		Query:         query,
		SearchDepth:   "advanced",
		MaxResults:    c.config.MaxResults,
		IncludeAnswer: true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	url := strings.TrimRight(c.config.Endpoint, "/") + "/search"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API returned %d: %s", resp.StatusCode, truncateBytes(body, 200))
	}

	var parsed Response
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse search response: %w", err)
	}

	c.logger.Debug("search complete", "query", query, "sources", len(parsed.Results))
	return &parsed, nil
}

// FormattedSearch runs a query and renders the response as the text block the
// research prompt consumes: summary plus per-source title and excerpt, with
// optional readable page content appended.
func (c *Client) FormattedSearch(ctx context.Context, query string) (string, error) {
	resp, err := c.Search(ctx, query)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	answer := resp.Answer
	if answer == "" {
		answer = "No summary available"
	}
	fmt.Fprintf(&b, "Summary: %s\n\n", answer)

	b.WriteString("Key Sources:\n")
	for _, result := range resp.Results {
		fmt.Fprintf(&b, "- %s\n", result.Title)
		fmt.Fprintf(&b, "  %s\n", result.URL)
		fmt.Fprintf(&b, "  %s...\n\n", truncateString(result.Content, 200))
	}

	if c.enricher != nil {
		c.appendPageContent(ctx, &b, resp.Results)
	}

	return b.String(), nil
}

// appendPageContent fetches readable text from the top results. Enrichment
// is best effort: a page that cannot be fetched or parsed is skipped.
func (c *Client) appendPageContent(ctx context.Context, b *strings.Builder, results []Result) {
	const maxPages = 2

	enriched := 0
	for _, result := range results {
		if enriched >= maxPages {
			break
		}
		content, err := c.enricher.ReadableText(ctx, result.URL)
		if err != nil {
			c.logger.Debug("page enrichment skipped", "url", result.URL, "error", err)
			continue
		}
		fmt.Fprintf(b, "Full content from %s:\n%s\n\n", result.URL, content)
		enriched++
	}
}

func truncateString(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func truncateBytes(b []byte, n int) string {
	return truncateString(string(b), n)
}
