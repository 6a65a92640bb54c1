package agent

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BeenaAbe/linkedin-agent-workflow/llm"
	"github.com/BeenaAbe/linkedin-agent-workflow/llm/testutil"
	"github.com/BeenaAbe/linkedin-agent-workflow/workflow"
)

type fakeSearcher struct {
	results string
	err     error
	calls   int
}

func (f *fakeSearcher) FormattedSearch(_ context.Context, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.results, nil
}

func draftJSON(t *testing.T, body string) string {
	t.Helper()
	raw, err := json.Marshal(map[string]any{
		"hooks": []string{
			"Unpopular opinion: most tutorials teach the wrong thing first.",
			"What if you could learn this in 25 minutes?",
			"I wasted a month on the hard way. Here's the shortcut.",
		},
		"post_body": body,
		"cta":       "Which tip will you try first? Let me know below.",
		"hashtags":  []string{"#Productivity", "#AIAgents", "#Learning"},
	})
	require.NoError(t, err)
	return string(raw)
}

func buildPipeline(t *testing.T, completer llm.Completer, searcher Searcher) *workflow.Graph {
	t.Helper()
	graph, err := workflow.NewPostGraph(
		NewValidator(),
		NewResearcher(completer, searcher),
		NewStrategist(completer),
		NewWriter(completer),
		NewEditor(completer),
		NewFormatter(),
		NewFinalizer(),
	)
	require.NoError(t, err)
	return graph
}

func TestPipelineEndToEnd(t *testing.T) {
	goodBody := cleanBody()

	mock := &testutil.MockCompleter{
		ByCapability: map[string]*llm.Response{
			"research": {Content: `{"key_insights": ["83% of AI agents are chatbots"], "statistics": [{"stat": "83%", "source": "https://example.com/report"}]}`},
			"strategy": {Content: `{"chosen_angle": "Agents in plain words", "outline": ["Hook", "Step 1", "Step 2", "Step 3", "CTA"], "structure_type": "framework", "key_points": ["one", "two", "three"]}`},
			"writing":  {Content: draftJSON(t, goodBody)},
			"editing":  {Content: "Clear and actionable. APPROVE."},
		},
	}
	searcher := &fakeSearcher{results: "Summary: agents explained\n\nKey Sources:\n- Agent report\n  https://example.com/report\n"}

	graph := buildPipeline(t, mock, searcher)
	exec := workflow.NewExecutor(graph)

	final, err := exec.Run(context.Background(),
		workflow.NewState("page-1", "AI agents", workflow.GoalEducational, ""))
	require.NoError(t, err)

	assert.Equal(t, workflow.StatusReady, final.Status)
	assert.NotEmpty(t, final.WorkflowID)
	assert.Len(t, final.Hooks, 3)
	assert.GreaterOrEqual(t, len(final.Hashtags), 3)
	assert.LessOrEqual(t, len(final.Hashtags), 5)
	assert.GreaterOrEqual(t, len(final.Checklist), 8)
	assert.GreaterOrEqual(t, final.QualityScore, 0)
	assert.LessOrEqual(t, final.QualityScore, 100)
	assert.Equal(t, 0, final.RevisionCount)
	assert.NotNil(t, final.Visual)
	assert.NotEmpty(t, final.EstimatedReadTime)
	assert.Equal(t, 1, searcher.calls, "research runs once on the happy path")
	assert.NotNil(t, final.Strategy)
	assert.False(t, final.Strategy.UsedFallback)
}

func TestPipelineForcedApproval(t *testing.T) {
	// A draft that always scores below the Thought Leadership threshold
	// forces the revision loop to its cap: three drafts, then approval.
	mock := &testutil.MockCompleter{
		ByCapability: map[string]*llm.Response{
			"research": {Content: "brief"},
			"strategy": {Content: `{"chosen_angle": "a", "outline": ["Hook"], "key_points": ["kp"]}`},
			"writing":  {Content: draftJSON(t, "Way too short for thought leadership.")},
			"editing":  {Content: "Too thin. REVISE."},
		},
	}
	searcher := &fakeSearcher{results: "Summary: none\n"}

	graph := buildPipeline(t, mock, searcher)
	exec := workflow.NewExecutor(graph)

	final, err := exec.Run(context.Background(),
		workflow.NewState("page-2", "AI agents", workflow.GoalThoughtLeadership, ""))
	require.NoError(t, err, "the revision loop must terminate")

	writerCalls := 0
	for _, req := range mock.Requests() {
		if req.Capability == "writing" {
			writerCalls++
		}
	}
	assert.Equal(t, 3, writerCalls, "writer runs at most 3 times")
	assert.Equal(t, 2, final.RevisionCount)
	assert.Equal(t, workflow.DecisionApprove, final.EditorDecision)
	assert.Equal(t, workflow.StatusReady, final.Status)
}

func TestPipelineSearchFailureAbortsRun(t *testing.T) {
	mock := &testutil.MockCompleter{}
	searcher := &fakeSearcher{err: context.DeadlineExceeded}

	graph := buildPipeline(t, mock, searcher)
	exec := workflow.NewExecutor(graph)

	final, err := exec.Run(context.Background(),
		workflow.NewState("page-3", "AI agents", workflow.GoalEducational, ""))
	require.Error(t, err, "research has no fallback")
	assert.Equal(t, workflow.StatusError, final.Status)
	assert.True(t, strings.Contains(err.Error(), "research"), "error should name the failing step: %v", err)
}
