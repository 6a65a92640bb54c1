// Package runner drives work items through the workflow: claiming ideas from
// the queue, executing the step graph, persisting results, and announcing
// outcomes. One item failing never aborts a batch.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/BeenaAbe/linkedin-agent-workflow/events"
	"github.com/BeenaAbe/linkedin-agent-workflow/metrics"
	"github.com/BeenaAbe/linkedin-agent-workflow/notify"
	"github.com/BeenaAbe/linkedin-agent-workflow/queue"
	"github.com/BeenaAbe/linkedin-agent-workflow/workflow"
)

// Queue is the work-queue surface the runner depends on.
type Queue interface {
	AllPending(ctx context.Context) ([]queue.Item, error)
	NewSince(ctx context.Context, since time.Time) ([]queue.Item, error)
	UpdateStatus(ctx context.Context, pageID, status string) error
	SaveResearch(ctx context.Context, pageID, researchBrief string) error
	SaveDraft(ctx context.Context, pageID string, draft queue.Draft) error
}

// Notifier is the notification surface the runner depends on.
type Notifier interface {
	NotifyDraftReady(ctx context.Context, draft notify.DraftReady)
	NotifyError(ctx context.Context, topic, errMessage string)
}

// Runner executes workflow runs against the queue.
type Runner struct {
	executor  *workflow.Executor
	queue     Queue
	notifier  Notifier
	publisher *events.Publisher
	state     *queue.StateFile
	logger    *slog.Logger

	idleInterval   time.Duration
	activeInterval time.Duration
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the runner's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithPublisher enables workflow event publishing. A nil publisher is fine.
func WithPublisher(publisher *events.Publisher) Option {
	return func(r *Runner) {
		r.publisher = publisher
	}
}

// WithStateFile enables last-processed change detection for polling.
func WithStateFile(state *queue.StateFile) Option {
	return func(r *Runner) {
		r.state = state
	}
}

// WithPollIntervals overrides the idle and active polling delays.
func WithPollIntervals(idle, active time.Duration) Option {
	return func(r *Runner) {
		if idle > 0 {
			r.idleInterval = idle
		}
		if active > 0 {
			r.activeInterval = active
		}
	}
}

// New creates a runner.
func New(executor *workflow.Executor, q Queue, notifier Notifier, opts ...Option) *Runner {
	r := &Runner{
		executor:       executor,
		queue:          q,
		notifier:       notifier,
		logger:         slog.Default(),
		idleInterval:   30 * time.Second,
		activeInterval: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ProcessItem runs one work item end to end. On failure the item is returned
// to the Idea status so a later run can pick it up again.
func (r *Runner) ProcessItem(ctx context.Context, item queue.Item) (workflow.State, error) {
	r.logger.Info("processing item", "page_id", item.PageID, "topic", item.Topic, "goal", item.Goal)

	if err := r.queue.UpdateStatus(ctx, item.PageID, queue.StatusResearching); err != nil {
		return workflow.State{}, fmt.Errorf("claim item: %w", err)
	}
	r.publisher.RunStarted(item.PageID, item.Topic, item.Goal)

	initial := workflow.NewState(item.PageID, item.Topic, workflow.Goal(item.Goal), item.Context)
	final, err := r.executor.Run(ctx, initial)
	if err != nil {
		r.fail(ctx, item, final, err)
		return final, err
	}

	if err := r.queue.SaveResearch(ctx, item.PageID, final.ResearchBrief); err != nil {
		r.fail(ctx, item, final, err)
		return final, err
	}
	if err := r.queue.SaveDraft(ctx, item.PageID, draftFromState(final)); err != nil {
		r.fail(ctx, item, final, err)
		return final, err
	}

	r.notifier.NotifyDraftReady(ctx, notify.DraftReady{
		PageID:   item.PageID,
		Topic:    final.Topic,
		Goal:     string(final.Goal),
		Hooks:    final.Hooks,
		PostBody: final.PostBody,
	})
	r.publisher.RunCompleted(final.WorkflowID, final.Topic, final.QualityScore, final.RevisionCount)
	metrics.RunsTotal.WithLabelValues("success").Inc()
	metrics.RevisionsTotal.Add(float64(final.RevisionCount))
	metrics.QualityScore.Observe(float64(final.QualityScore))

	r.logger.Info("item completed",
		"page_id", item.PageID,
		"workflow_id", final.WorkflowID,
		"quality_score", final.QualityScore,
		"revisions", final.RevisionCount,
	)
	return final, nil
}

// fail returns the item to the queue and announces the failure. Cleanup is
// best-effort so the original error always surfaces.
func (r *Runner) fail(ctx context.Context, item queue.Item, final workflow.State, runErr error) {
	r.logger.Error("item failed", "page_id", item.PageID, "topic", item.Topic, "error", runErr)

	if err := r.queue.UpdateStatus(ctx, item.PageID, queue.StatusIdea); err != nil {
		r.logger.Warn("reset item status failed", "page_id", item.PageID, "error", err)
	}
	r.notifier.NotifyError(ctx, item.Topic, runErr.Error())

	workflowID := final.WorkflowID
	if workflowID == "" {
		workflowID = item.PageID
	}
	r.publisher.RunFailed(workflowID, item.Topic, runErr.Error())
	metrics.RunsTotal.WithLabelValues("failure").Inc()
}

// ProcessOne claims and runs the oldest pending item. It returns false when
// the queue is empty.
func (r *Runner) ProcessOne(ctx context.Context) (bool, error) {
	items, err := r.queue.AllPending(ctx)
	if err != nil {
		return false, fmt.Errorf("check queue: %w", err)
	}
	if len(items) == 0 {
		return false, nil
	}

	_, err = r.ProcessItem(ctx, items[0])
	return true, err
}

// ProcessPending runs every pending item. Failures are logged and counted but
// do not stop the batch. Returns the number of successful runs.
func (r *Runner) ProcessPending(ctx context.Context) (int, error) {
	items, err := r.queue.AllPending(ctx)
	if err != nil {
		return 0, fmt.Errorf("check queue: %w", err)
	}
	return r.processBatch(ctx, items), nil
}

// Poll runs continuously, checking for new ideas since the last processed
// batch. It rechecks quickly after finding work and slowly when idle, and
// returns when the context is cancelled.
func (r *Runner) Poll(ctx context.Context) error {
	r.logger.Info("polling started", "idle_interval", r.idleInterval, "active_interval", r.activeInterval)

	for {
		var since time.Time
		if r.state != nil {
			since = r.state.LastProcessed()
		}

		items, err := r.queue.NewSince(ctx, since)
		if err != nil {
			r.logger.Warn("queue check failed", "error", err)
			items = nil
		}

		interval := r.idleInterval
		if len(items) > 0 {
			r.processBatch(ctx, items)
			interval = r.activeInterval
		}

		select {
		case <-ctx.Done():
			r.logger.Info("polling stopped")
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}

func (r *Runner) processBatch(ctx context.Context, items []queue.Item) int {
	succeeded := 0
	var latest time.Time

	for _, item := range items {
		if ctx.Err() != nil {
			break
		}
		if _, err := r.ProcessItem(ctx, item); err == nil {
			succeeded++
		}
		if item.CreatedTime.After(latest) {
			latest = item.CreatedTime
		}
	}

	if r.state != nil && !latest.IsZero() {
		if err := r.state.SetLastProcessed(latest); err != nil {
			r.logger.Warn("persist last-processed timestamp failed", "error", err)
		}
	}
	if len(items) > 0 {
		r.logger.Info("batch finished", "total", len(items), "succeeded", succeeded)
	}
	return succeeded
}

func draftFromState(state workflow.State) queue.Draft {
	draft := queue.Draft{
		Hooks:    state.Hooks,
		PostBody: state.PostBody,
		CTA:      state.CTA,
		Hashtags: state.Hashtags,
	}
	if state.Visual != nil {
		draft.VisualSuggestion = state.Visual.Suggestion
		draft.VisualFormat = string(state.Visual.Format)
	}
	return draft
}
