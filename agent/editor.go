package agent

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/BeenaAbe/linkedin-agent-workflow/llm"
	"github.com/BeenaAbe/linkedin-agent-workflow/workflow"
)

// forbiddenJargon is the corporate-jargon blocklist, matched as substrings
// against the lowercased body.
var forbiddenJargon = []string{
	"synergy", "leverage", "circle back", "alignment", "bandwidth",
	"touch base", "move the needle", "low-hanging fruit", "paradigm shift",
	"thinking outside the box", "win-win", "game changer", "best of breed",
}

var passiveVoicePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bis\s+\w+ed\b`),
	regexp.MustCompile(`(?i)\bwas\s+\w+ed\b`),
	regexp.MustCompile(`(?i)\bare\s+\w+ed\b`),
	regexp.MustCompile(`(?i)\bwere\s+\w+ed\b`),
	regexp.MustCompile(`(?i)\bbeen\s+\w+ed\b`),
}

// statPatterns match percentages, multipliers, currency, and comma-grouped
// large numbers.
var statPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d+%`),
	regexp.MustCompile(`\d+x`),
	regexp.MustCompile(`\$\d+`),
	regexp.MustCompile(`\d{1,3}(,\d{3})+`),
}

// Editor scores the draft with deterministic rule-based checks and routes
// the run through the quality gate. A qualitative LLM review is appended to
// the feedback text but never changes the numeric score; review failures are
// tolerated so a flaky model cannot block an otherwise sound draft.
type Editor struct {
	completer llm.Completer
	logger    *slog.Logger
}

// NewEditor creates the editorial review step.
func NewEditor(completer llm.Completer, opts ...Option) *Editor {
	o := applyOptions(opts)
	return &Editor{completer: completer, logger: o.logger}
}

func (e *Editor) Node() workflow.Node { return workflow.NodeEdit }

func (e *Editor) Run(ctx context.Context, state workflow.State) (workflow.State, error) {
	score, autoFeedback := scoreDraft(state)

	e.logger.Info("automated quality check",
		"workflow_id", state.WorkflowID,
		"score", score,
		"issues", len(autoFeedback))

	llmReview := e.review(ctx, state)

	threshold := state.Goal.Thresholds().MinQualityScore
	decision := workflow.Decide(score, threshold, state.RevisionCount)

	state.QualityScore = score
	state.EditorFeedback = compileFeedback(autoFeedback, llmReview)
	state.EditorDecision = decision
	if decision == workflow.DecisionRevise {
		state.RevisionCount++
	}
	state.Status = workflow.StatusEditing

	switch {
	case decision == workflow.DecisionApprove && score >= threshold:
		e.logger.Info("draft approved", "workflow_id", state.WorkflowID, "score", score)
	case decision == workflow.DecisionApprove:
		e.logger.Warn("max revisions reached, approving anyway",
			"workflow_id", state.WorkflowID, "score", score)
	default:
		e.logger.Info("requesting revision",
			"workflow_id", state.WorkflowID,
			"score", score,
			"revision", state.RevisionCount)
	}

	return state, nil
}

// scoreDraft runs the rule-based checks. The score starts at 100 and each
// failed check deducts a fixed penalty; the floor is 0.
func scoreDraft(state workflow.State) (int, []string) {
	var feedback []string
	score := 100

	th := state.Goal.Thresholds()
	body := state.PostBody

	charCount := len(body)
	if charCount < th.MinChars {
		score -= 15
		feedback = append(feedback, fmt.Sprintf("Post too short (%d chars, need %d+)", charCount, th.MinChars))
	} else if charCount > th.MaxChars {
		score -= 10
		feedback = append(feedback, fmt.Sprintf("Post too long (%d chars, max %d)", charCount, th.MaxChars))
	}

	lineBreaks := strings.Count(body, "\n\n")
	if lineBreaks < th.MinLineBreaks {
		score -= 10
		feedback = append(feedback, fmt.Sprintf("Insufficient line breaks (%d, need %d+)", lineBreaks, th.MinLineBreaks))
	}

	if len(state.Hooks) < 3 {
		score -= 15
		feedback = append(feedback, fmt.Sprintf("Missing hooks (found %d, need 3)", len(state.Hooks)))
	}

	if len(state.CTA) < 10 {
		score -= 10
		feedback = append(feedback, "Missing or weak CTA")
	}

	if n := len(state.Hashtags); n < 3 || n > 5 {
		score -= 5
		feedback = append(feedback, fmt.Sprintf("Hashtag count off (found %d, need 3-5)", n))
	}

	if jargon := detectJargon(body); len(jargon) > 0 {
		score -= 10
		shown := jargon
		if len(shown) > 3 {
			shown = shown[:3]
		}
		feedback = append(feedback, "Corporate jargon detected: "+strings.Join(shown, ", "))
	}

	if passive := countPassiveVoice(body); passive > 2 {
		score -= 8
		feedback = append(feedback, fmt.Sprintf("Excessive passive voice (%d instances)", passive))
	}

	if walls := countWallParagraphs(body); walls > 0 {
		score -= 7
		feedback = append(feedback, fmt.Sprintf("Walls of text detected (%d long paragraphs)", walls))
	}

	if state.Goal == workflow.GoalThoughtLeadership && !hasStatistics(body) {
		score -= 5
		feedback = append(feedback, "Missing data/statistics for Thought Leadership post")
	}

	if score < 0 {
		score = 0
	}
	return score, feedback
}

func detectJargon(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, jargon := range forbiddenJargon {
		if strings.Contains(lower, jargon) {
			found = append(found, jargon)
		}
	}
	return found
}

func countPassiveVoice(text string) int {
	count := 0
	for _, pattern := range passiveVoicePatterns {
		count += len(pattern.FindAllString(text, -1))
	}
	return count
}

// countWallParagraphs counts paragraphs with more than three sentence-ending
// punctuation marks.
func countWallParagraphs(text string) int {
	walls := 0
	for _, para := range strings.Split(text, "\n\n") {
		sentences := strings.Count(para, ".") + strings.Count(para, "!") + strings.Count(para, "?")
		if sentences > 3 {
			walls++
		}
	}
	return walls
}

func hasStatistics(text string) bool {
	for _, pattern := range statPatterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

// review fetches the qualitative LLM assessment. Errors degrade to an
// "unavailable" marker rather than failing the step.
func (e *Editor) review(ctx context.Context, state workflow.State) string {
	resp, err := e.completer.Complete(ctx, llm.Request{
		Capability: "editing",
		Messages: []llm.Message{
			{Role: "system", Content: editorReviewSystemPrompt},
			{Role: "user", Content: fmt.Sprintf(editorReviewUserPrompt,
				state.Goal, state.Topic, state.PostBody,
				hooksBlock(state.Hooks), state.CTA)},
		},
	})
	if err != nil {
		e.logger.Warn("llm review failed", "workflow_id", state.WorkflowID, "error", err)
		return ""
	}
	return strings.TrimSpace(resp.Content)
}

func hooksBlock(hooks []string) string {
	if len(hooks) == 0 {
		return "No hooks provided"
	}
	return strings.Join(hooks, "\n")
}

func compileFeedback(autoFeedback []string, llmReview string) string {
	var parts []string

	if len(autoFeedback) > 0 {
		parts = append(parts, "Automated checks:")
		for _, item := range autoFeedback {
			parts = append(parts, "  - "+item)
		}
	}

	if llmReview != "" {
		parts = append(parts, "\nEditorial review:\n"+llmReview)
	}

	if len(parts) == 0 {
		return "No issues found"
	}
	return strings.Join(parts, "\n")
}
