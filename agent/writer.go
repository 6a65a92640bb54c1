package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/BeenaAbe/linkedin-agent-workflow/llm"
	"github.com/BeenaAbe/linkedin-agent-workflow/workflow"
)

// maxBriefForDraft caps the research brief passed into the writer prompt.
const maxBriefForDraft = 1500

// draftShape is the structured response contract for the writer prompt.
type draftShape struct {
	Hooks    []string `json:"hooks"`
	PostBody string   `json:"post_body"`
	CTA      string   `json:"cta"`
	Hashtags []string `json:"hashtags"`
}

// Writer drafts the post. It is the revision loop's re-entry target: when
// invoked with prior editor feedback it must incorporate it, and it must
// never hard-fail on malformed output because a dead writer deadlocks the
// loop. A parse failure degrades to raw text as the body with placeholder
// hooks and CTA.
type Writer struct {
	completer llm.Completer
	logger    *slog.Logger
}

// NewWriter creates the drafting step.
func NewWriter(completer llm.Completer, opts ...Option) *Writer {
	o := applyOptions(opts)
	return &Writer{completer: completer, logger: o.logger}
}

func (w *Writer) Node() workflow.Node { return workflow.NodeWrite }

func (w *Writer) Run(ctx context.Context, state workflow.State) (workflow.State, error) {
	extra := w.buildGuidance(state)

	w.logger.Info("drafting post",
		"workflow_id", state.WorkflowID,
		"topic", state.Topic,
		"revision", state.RevisionCount)

	resp, err := w.completer.Complete(ctx, llm.Request{
		Capability: "writing",
		Messages: []llm.Message{
			{Role: "system", Content: writerSystemPrompt},
			{Role: "user", Content: fmt.Sprintf(writerUserPrompt,
				state.Topic, state.Goal, state.Context,
				truncate(state.ResearchBrief, maxBriefForDraft), extra, state.Goal)},
		},
	})
	if err != nil {
		return state, fmt.Errorf("draft generation: %w", err)
	}

	draft, usedFallback := llm.DecodeWithFallback(resp.Content,
		func(d draftShape) error {
			if len(d.Hooks) != 3 || d.PostBody == "" {
				return fmt.Errorf("draft missing hooks or body")
			}
			return nil
		},
		func() draftShape {
			return draftShape{
				Hooks: []string{
					"Your attention-grabbing hook here",
					"Alternative hook",
					"Third hook option",
				},
				PostBody: resp.Content,
				CTA:      "What's your take on this?",
				Hashtags: []string{"#LinkedIn", "#ContentCreation"},
			}
		})

	if usedFallback {
		w.logger.Warn("draft response unparseable, using raw text as body",
			"workflow_id", state.WorkflowID)
	}

	state.Hooks = draft.Hooks
	state.PostBody = draft.PostBody
	state.CTA = draft.CTA
	state.Hashtags = draft.Hashtags
	state.DraftFallback = usedFallback
	state.Status = workflow.StatusDrafting

	w.logger.Info("draft generated",
		"workflow_id", state.WorkflowID,
		"hooks", len(state.Hooks),
		"body_chars", len(state.PostBody),
		"fallback", usedFallback)

	return state, nil
}

// buildGuidance assembles the strategy and revision-feedback sections of the
// user prompt. On re-entry the prior feedback is the dominant instruction.
func (w *Writer) buildGuidance(state workflow.State) string {
	var b strings.Builder

	if state.Strategy != nil {
		b.WriteString("\nContent Strategy:\n")
		fmt.Fprintf(&b, "Angle: %s\n", state.Strategy.ChosenAngle)
		if len(state.Strategy.Outline) > 0 {
			b.WriteString("Outline:\n")
			for _, section := range state.Strategy.Outline {
				fmt.Fprintf(&b, "- %s\n", section)
			}
		}
		for _, point := range state.Strategy.KeyPoints {
			fmt.Fprintf(&b, "Key point: %s\n", point)
		}
	}

	if state.RevisionCount > 0 && state.EditorFeedback != "" {
		fmt.Fprintf(&b, "\nThis is revision %d. The previous draft was rejected. You MUST address this editor feedback:\n%s\n",
			state.RevisionCount, state.EditorFeedback)
	}

	return b.String()
}
