package agent

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BeenaAbe/linkedin-agent-workflow/workflow"
)

// ValidationError reports malformed intake. The run never starts; the caller
// should leave the work item unclaimed.
type ValidationError struct {
	// Fields names the missing or invalid intake fields.
	Fields []string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("validation failed for %s: %s", strings.Join(e.Fields, ", "), e.Reason)
	}
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

// Validator is the entry step. It is the sole gate enforcing the required
// intake contract; no later step re-validates topic or goal.
type Validator struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewValidator creates the intake validation step.
func NewValidator(opts ...Option) *Validator {
	o := applyOptions(opts)
	return &Validator{logger: o.logger, now: time.Now}
}

func (v *Validator) Node() workflow.Node { return workflow.NodeValidate }

// Run checks required fields and the goal set, then assigns the workflow id,
// start timestamp, and time budget.
func (v *Validator) Run(_ context.Context, state workflow.State) (workflow.State, error) {
	var missing []string
	if state.ItemID == "" {
		missing = append(missing, "item_id")
	}
	if strings.TrimSpace(state.Topic) == "" {
		missing = append(missing, "topic")
	}
	if state.Goal == "" {
		missing = append(missing, "goal")
	}
	if len(missing) > 0 {
		return state, &ValidationError{Fields: missing}
	}

	if !state.Goal.IsValid() {
		return state, &ValidationError{
			Fields: []string{"goal"},
			Reason: fmt.Sprintf("invalid goal type %q, must be one of: %s", state.Goal, goalNames()),
		}
	}

	state.WorkflowID = uuid.NewString()[:8]
	state.StartedAt = v.now()
	state.TimeAllocation = state.Goal.TimeAllocation()
	state.RevisionCount = 0
	state.Status = workflow.StatusValidated

	v.logger.Info("intake validated",
		"workflow_id", state.WorkflowID,
		"goal", state.Goal,
		"time_allocation_min", state.TimeAllocation)

	return state, nil
}

func goalNames() string {
	names := make([]string, 0, len(workflow.Goals()))
	for _, g := range workflow.Goals() {
		names = append(names, g.String())
	}
	return strings.Join(names, ", ")
}

// Finalizer is the terminal step. It records the pre-publish checklist and
// run duration. It never fails the run; checklist results are informational.
type Finalizer struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewFinalizer creates the finalize step.
func NewFinalizer(opts ...Option) *Finalizer {
	o := applyOptions(opts)
	return &Finalizer{logger: o.logger, now: time.Now}
}

func (f *Finalizer) Node() workflow.Node { return workflow.NodeFinalize }

func (f *Finalizer) Run(_ context.Context, state workflow.State) (workflow.State, error) {
	state.Checklist = runChecklist(state)
	state.CompletedAt = f.now()
	if !state.StartedAt.IsZero() {
		minutes := state.CompletedAt.Sub(state.StartedAt).Minutes()
		state.DurationMinutes = math.Round(minutes*10) / 10
	}
	state.Status = workflow.StatusReady

	passed := 0
	var failed []string
	for name, ok := range state.Checklist {
		if ok {
			passed++
		} else {
			failed = append(failed, name)
		}
	}
	f.logger.Info("pre-publish checklist complete",
		"workflow_id", state.WorkflowID,
		"passed", passed,
		"total", len(state.Checklist),
		"duration_min", state.DurationMinutes,
		"quality_score", state.QualityScore)
	if len(failed) > 0 {
		f.logger.Warn("checklist items failed", "workflow_id", state.WorkflowID, "failed", failed)
	}

	return state, nil
}

func runChecklist(state workflow.State) map[string]bool {
	return map[string]bool{
		"has_goal":           state.Goal != "",
		"has_strategy":       state.Strategy != nil,
		"has_hooks":          len(state.Hooks) >= 3,
		"has_body":           len(state.PostBody) > 100,
		"has_cta":            state.CTA != "",
		"has_hashtags":       len(state.Hashtags) >= 3 && len(state.Hashtags) <= 5,
		"has_line_breaks":    strings.Count(state.PostBody, "\n\n") >= 3,
		"char_count_valid":   len(state.PostBody) <= state.Goal.CharacterCap(),
		"quality_score_pass": state.QualityScore >= 70,
		"has_visual_specs":   state.Visual != nil,
	}
}
