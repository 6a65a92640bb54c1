package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/BeenaAbe/linkedin-agent-workflow/llm"
	"github.com/BeenaAbe/linkedin-agent-workflow/workflow"
)

// maxBriefForStrategy caps the research brief passed into the strategy
// prompt to keep the request within token budget.
const maxBriefForStrategy = 2000

// Strategist turns the research brief into a content strategy. This is the
// one step designed to degrade gracefully: a parse failure or missing
// research falls back to a per-goal canned outline instead of aborting,
// because losing strategy entirely would stall the pipeline.
type Strategist struct {
	completer llm.Completer
	logger    *slog.Logger
}

// NewStrategist creates the strategy step.
func NewStrategist(completer llm.Completer, opts ...Option) *Strategist {
	o := applyOptions(opts)
	return &Strategist{completer: completer, logger: o.logger}
}

func (s *Strategist) Node() workflow.Node { return workflow.NodeStrategize }

func (s *Strategist) Run(ctx context.Context, state workflow.State) (workflow.State, error) {
	if state.ResearchBrief == "" {
		s.logger.Warn("no research brief available, using fallback strategy",
			"workflow_id", state.WorkflowID)
		return s.applyFallback(state), nil
	}

	resp, err := s.completer.Complete(ctx, llm.Request{
		Capability: "strategy",
		Messages: []llm.Message{
			{Role: "system", Content: strategySystemPrompt},
			{Role: "user", Content: fmt.Sprintf(strategyUserPrompt,
				state.Topic, state.Goal, state.Context,
				truncate(state.ResearchBrief, maxBriefForStrategy), state.Goal)},
		},
	})
	if err != nil {
		return state, fmt.Errorf("strategy generation: %w", err)
	}

	strategy, usedFallback := llm.DecodeWithFallback(resp.Content,
		func(st workflow.Strategy) error {
			if st.ChosenAngle == "" || len(st.Outline) == 0 || len(st.KeyPoints) == 0 {
				return fmt.Errorf("strategy missing required fields")
			}
			return nil
		},
		func() workflow.Strategy {
			return fallbackStrategy(state.Goal, state.Topic)
		})
	strategy.UsedFallback = usedFallback

	if usedFallback {
		s.logger.Warn("strategy response unparseable, using fallback",
			"workflow_id", state.WorkflowID)
	} else {
		s.logger.Info("strategy created",
			"workflow_id", state.WorkflowID,
			"angle", truncate(strategy.ChosenAngle, 60),
			"sections", len(strategy.Outline),
			"key_points", len(strategy.KeyPoints))
	}

	state.Strategy = &strategy
	state.Outline = strategy.Outline
	state.Status = workflow.StatusStrategizing
	return state, nil
}

func (s *Strategist) applyFallback(state workflow.State) workflow.State {
	strategy := fallbackStrategy(state.Goal, state.Topic)
	strategy.UsedFallback = true
	state.Strategy = &strategy
	state.Outline = strategy.Outline
	state.Status = workflow.StatusStrategizing
	return state
}

// fallbackOutlines is the canned outline table keyed by goal.
var fallbackOutlines = map[workflow.Goal][]string{
	workflow.GoalThoughtLeadership: {
		"Hook: Controversial statement about %s",
		"Current belief/problem",
		"Contrarian thesis",
		"3 supporting points",
		"CTA: What's your take?",
	},
	workflow.GoalProduct: {
		"Hook: Pain point related to %s",
		"Problem description",
		"Feature introduction",
		"Benefit bullets",
		"CTA: Try it now",
	},
	workflow.GoalEducational: {
		"Hook: Promise result",
		"Step 1",
		"Step 2",
		"Step 3",
		"CTA: Try and report back",
	},
	workflow.GoalPersonalBrand: {
		"Hook: In media res",
		"Struggle/challenge",
		"Turning point",
		"Resolution/lesson",
		"CTA: Share your story",
	},
	workflow.GoalInteractive: {
		"Hook: Question setup",
		"Brief context",
		"Open-ended question",
		"CTA: Comment below",
	},
	workflow.GoalInspirational: {
		"Hook: Painful moment",
		"Turning point",
		"Lesson learned",
		"CTA: Tag someone",
	},
}

func fallbackStrategy(goal workflow.Goal, topic string) workflow.Strategy {
	template, ok := fallbackOutlines[goal]
	if !ok {
		template = fallbackOutlines[workflow.GoalEducational]
	}

	outline := make([]string, len(template))
	for i, line := range template {
		if strings.Contains(line, "%s") {
			line = fmt.Sprintf(line, topic)
		}
		outline[i] = line
	}

	return workflow.Strategy{
		ChosenAngle:   fmt.Sprintf("Compelling perspective on %s", topic),
		Outline:       outline,
		StructureType: workflow.StructureFramework,
		KeyPoints: []string{
			"Point about " + topic,
			"Supporting insight",
			"Actionable takeaway",
		},
		RecommendedFocus: fmt.Sprintf("Focus on delivering value for %s audience", goal),
		TargetLength:     "800-1300 characters",
		HookApproach:     "question",
	}
}
