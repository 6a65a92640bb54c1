package agent

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/BeenaAbe/linkedin-agent-workflow/llm"
	"github.com/BeenaAbe/linkedin-agent-workflow/workflow"
)

// Searcher provides formatted web search results for a query.
type Searcher interface {
	FormattedSearch(ctx context.Context, query string) (string, error)
}

// Researcher runs a web search and synthesizes a research brief. Failures
// propagate; this step has no fallback because downstream steps depend on
// sourced citations, and a silently empty brief would let the strategist
// invent data.
type Researcher struct {
	completer llm.Completer
	searcher  Searcher
	logger    *slog.Logger
}

// NewResearcher creates the research step.
func NewResearcher(completer llm.Completer, searcher Searcher, opts ...Option) *Researcher {
	o := applyOptions(opts)
	return &Researcher{completer: completer, searcher: searcher, logger: o.logger}
}

func (r *Researcher) Node() workflow.Node { return workflow.NodeResearch }

func (r *Researcher) Run(ctx context.Context, state workflow.State) (workflow.State, error) {
	query := fmt.Sprintf("%s %s %d", state.Topic, state.Goal, time.Now().Year())

	r.logger.Info("researching topic", "workflow_id", state.WorkflowID, "query", query)

	results, err := r.searcher.FormattedSearch(ctx, query)
	if err != nil {
		return state, fmt.Errorf("web search: %w", err)
	}

	resp, err := r.completer.Complete(ctx, llm.Request{
		Capability: "research",
		Messages: []llm.Message{
			{Role: "system", Content: researchSystemPrompt},
			{Role: "user", Content: fmt.Sprintf(researchUserPrompt,
				state.Topic, state.Goal, state.Context, results, state.Goal)},
		},
	})
	if err != nil {
		return state, fmt.Errorf("research synthesis: %w", err)
	}

	state.ResearchBrief = resp.Content
	state.SearchResults = results
	state.Status = workflow.StatusResearching

	r.logger.Info("research complete",
		"workflow_id", state.WorkflowID,
		"brief_chars", len(state.ResearchBrief))

	return state, nil
}
