// Package queue implements the Notion-backed work queue: claiming ideas,
// persisting research and draft output, and last-processed bookkeeping for
// change detection. Page IDs are opaque tokens round-tripped back to Notion,
// never interpreted.
package queue

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
	defaultBaseURL = "https://api.notion.com"
	notionVersion  = "2022-06-28"

	// maxFieldChars is Notion's rich-text content limit; text fields are
	// truncated to it before persisting.
	maxFieldChars = 2000
)

// Queue statuses as they appear in the Notion status column.
const (
	StatusIdea        = "Idea"
	StatusResearching = "Researching"
	StatusDrafting    = "Drafting"
	StatusReady       = "Ready"
)

// Item is one work-queue entry.
type Item struct {
	PageID      string
	Topic       string
	Goal        string
	Context     string
	CreatedTime time.Time
}

// Draft holds the fields persisted back to the queue when a run completes.
type Draft struct {
	Hooks            []string
	PostBody         string
	CTA              string
	Hashtags         []string
	VisualSuggestion string
	VisualFormat     string
}

// Client talks to the Notion API.
type Client struct {
	token      string
	databaseID string
	baseURL    string
	httpClient *http.Client
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

// WithBaseURL overrides the API base URL, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a Notion queue client.
func NewClient(token, databaseID string, opts ...Option) *Client {
	c := &Client{
		token:      token,
		databaseID: databaseID,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NextPending returns the oldest idea awaiting processing, or nil when the
// queue is empty.
func (c *Client) NextPending(ctx context.Context) (*Item, error) {
	items, err := c.query(ctx, statusFilter(StatusIdea), 1)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

// AllPending returns every idea awaiting processing, oldest first.
func (c *Client) AllPending(ctx context.Context) ([]Item, error) {
	return c.query(ctx, statusFilter(StatusIdea), 0)
}

// NewSince returns ideas created after the given timestamp, oldest first. A
// zero timestamp falls back to AllPending.
func (c *Client) NewSince(ctx context.Context, since time.Time) ([]Item, error) {
	if since.IsZero() {
		return c.AllPending(ctx)
	}

	filter := map[string]any{
		"and": []any{
			statusFilter(StatusIdea),
			map[string]any{
				"timestamp": "created_time",
				"created_time": map[string]any{
					"after": since.UTC().Format(time.RFC3339),
				},
			},
		},
	}
	return c.query(ctx, filter, 0)
}

// UpdateStatus sets the status column of a page.
func (c *Client) UpdateStatus(ctx context.Context, pageID, status string) error {
	props := map[string]any{
		"Status": statusValue(status),
	}
	if err := c.updatePage(ctx, pageID, props); err != nil {
		return fmt.Errorf("update status to %q: %w", status, err)
	}
	c.logger.Info("queue status updated", "page_id", pageID, "status", status)
	return nil
}

// SaveResearch persists the research brief and moves the item to Drafting.
func (c *Client) SaveResearch(ctx context.Context, pageID, researchBrief string) error {
	props := map[string]any{
		"Status":         statusValue(StatusDrafting),
		"Research Brief": richText(researchBrief),
	}
	if err := c.updatePage(ctx, pageID, props); err != nil {
		return fmt.Errorf("save research: %w", err)
	}
	return nil
}

// SaveDraft persists the completed draft and moves the item to Ready. Hooks
// beyond the first three are ignored; missing hooks persist as empty fields.
func (c *Client) SaveDraft(ctx context.Context, pageID string, draft Draft) error {
	hooks := make([]string, 3)
	copy(hooks, draft.Hooks)

	props := map[string]any{
		"Status":           statusValue(StatusReady),
		"Hook Option 1":    richText(hooks[0]),
		"Hook Option 2":    richText(hooks[1]),
		"Hook Option 3":    richText(hooks[2]),
		"Draft Body":       richText(draft.PostBody),
		"CTA":              richText(draft.CTA),
		"Hashtags":         richText(strings.Join(draft.Hashtags, " ")),
		"Image Suggestion": richText(draft.VisualSuggestion),
	}
	if draft.VisualFormat != "" {
		props["Format Type"] = map[string]any{
			"select": map[string]any{"name": draft.VisualFormat},
		}
	}

	if err := c.updatePage(ctx, pageID, props); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	c.logger.Info("draft saved to queue", "page_id", pageID)
	return nil
}

// query runs a database query and parses the result pages into items.
func (c *Client) query(ctx context.Context, filter map[string]any, pageSize int) ([]Item, error) {
	payload := map[string]any{
		"filter": filter,
		"sorts": []any{
			map[string]any{"timestamp": "created_time", "direction": "ascending"},
		},
	}
	if pageSize > 0 {
		payload["page_size"] = pageSize
	}

	var response struct {
		Results []pageObject `json:"results"`
	}
	path := fmt.Sprintf("/v1/databases/%s/query", c.databaseID)
	if err := c.do(ctx, http.MethodPost, path, payload, &response); err != nil {
		return nil, fmt.Errorf("query queue: %w", err)
	}

	items := make([]Item, 0, len(response.Results))
	for _, page := range response.Results {
		items = append(items, page.toItem())
	}
	return items, nil
}

func (c *Client) updatePage(ctx context.Context, pageID string, props map[string]any) error {
	payload := map[string]any{"properties": props}
	return c.do(ctx, http.MethodPatch, "/v1/pages/"+pageID, payload, nil)
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", notionVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notion request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("notion API returned %d: %s", resp.StatusCode, truncate(string(data), 200))
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}

// pageObject is the subset of the Notion page shape the queue reads.
type pageObject struct {
	ID          string    `json:"id"`
	CreatedTime time.Time `json:"created_time"`
	Properties  struct {
		Name struct {
			Title []textSpan `json:"title"`
		} `json:"Name"`
		Goal struct {
			Select *struct {
				Name string `json:"name"`
			} `json:"select"`
		} `json:"Goal"`
		Context struct {
			RichText []textSpan `json:"rich_text"`
		} `json:"Context/Notes"`
	} `json:"properties"`
}

type textSpan struct {
	PlainText string `json:"plain_text"`
}

func (p pageObject) toItem() Item {
	item := Item{
		PageID:      p.ID,
		CreatedTime: p.CreatedTime,
	}
	if len(p.Properties.Name.Title) > 0 {
		item.Topic = p.Properties.Name.Title[0].PlainText
	}
	if p.Properties.Goal.Select != nil {
		item.Goal = p.Properties.Goal.Select.Name
	}
	if len(p.Properties.Context.RichText) > 0 {
		item.Context = p.Properties.Context.RichText[0].PlainText
	}
	return item
}

func statusFilter(status string) map[string]any {
	return map[string]any{
		"property": "Status",
		"status":   map[string]any{"equals": status},
	}
}

func statusValue(status string) map[string]any {
	return map[string]any{
		"status": map[string]any{"name": status},
	}
}

func richText(content string) map[string]any {
	return map[string]any{
		"rich_text": []any{
			map[string]any{
				"text": map[string]any{"content": truncate(content, maxFieldChars)},
			},
		},
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
