package search

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	readability "github.com/go-shiori/go-readability"
)

const (
	// maxPageSize caps fetched page bodies.
	maxPageSize = 2 * 1024 * 1024
	// maxReadableChars caps the markdown excerpt appended per page, keeping
	// the research prompt within token budget.
	maxReadableChars = 3000

	enrichUserAgent = "content-engine/1.0 (+research)"
)

// Enricher fetches a result page and extracts its readable text as markdown.
type Enricher struct {
	httpClient *http.Client
	converter  *md.Converter
	logger     *slog.Logger
}

// EnricherOption configures an Enricher.
type EnricherOption func(*Enricher)

// WithEnricherLogger sets the enricher's logger.
func WithEnricherLogger(logger *slog.Logger) EnricherOption {
	return func(e *Enricher) {
		e.logger = logger
	}
}

// WithEnricherHTTPClient overrides the HTTP client, mainly for tests.
func WithEnricherHTTPClient(httpClient *http.Client) EnricherOption {
	return func(e *Enricher) {
		e.httpClient = httpClient
	}
}

// NewEnricher creates a page-content enricher.
func NewEnricher(opts ...EnricherOption) *Enricher {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	e := &Enricher{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("too many redirects (max 5)")
				}
				return nil
			},
		},
		converter: converter,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ReadableText fetches a page, extracts the article content, and converts it
// to truncated markdown.
func (e *Enricher) ReadableText(ctx context.Context, pageURL string) (string, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}

	body, err := e.fetch(ctx, pageURL)
	if err != nil {
		return "", err
	}

	article, err := readability.FromReader(bytes.NewReader(body), parsed)
	if err != nil {
		return "", fmt.Errorf("extract article: %w", err)
	}

	markdown, err := e.converter.ConvertString(article.Content)
	if err != nil {
		return "", fmt.Errorf("convert to markdown: %w", err)
	}

	if len(markdown) > maxReadableChars {
		markdown = markdown[:maxReadableChars]
	}
	return markdown, nil
}

func (e *Enricher) fetch(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", enrichUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(body) > maxPageSize {
		return nil, fmt.Errorf("page too large (exceeds %d bytes)", maxPageSize)
	}
	return body, nil
}
