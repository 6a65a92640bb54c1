package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/BeenaAbe/linkedin-agent-workflow/llm"
	"github.com/BeenaAbe/linkedin-agent-workflow/llm/testutil"
	"github.com/BeenaAbe/linkedin-agent-workflow/workflow"
)

func researchedState(goal workflow.Goal) workflow.State {
	state := workflow.NewState("p1", "AI agents", goal, "")
	state.WorkflowID = "abcd1234"
	state.ResearchBrief = `{"key_insights": ["83% of AI agents are chatbots"], "statistics": [{"stat": "83%", "source": "https://example.com/report"}]}`
	return state
}

func TestStrategistParsesStructuredResponse(t *testing.T) {
	mock := &testutil.MockCompleter{
		Responses: []*llm.Response{{Content: "```json\n" + `{
			"chosen_angle": "Most AI agents are rebranded chatbots",
			"outline": ["Hook", "Problem", "Insight", "CTA"],
			"structure_type": "argument",
			"key_points": ["83% stat", "capability gap", "what real agents do"],
			"supporting_data": [{"stat": "83%", "source": "https://example.com/report", "usage": "hook"}],
			"recommended_focus": "Lead with the stat",
			"target_length": "800-1300 characters",
			"hook_approach": "controversial"
		}` + "\n```"}},
	}

	s := NewStrategist(mock)
	got, err := s.Run(context.Background(), researchedState(workflow.GoalThoughtLeadership))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got.Strategy == nil {
		t.Fatal("strategy not set")
	}
	if got.Strategy.UsedFallback {
		t.Error("valid response should not use fallback")
	}
	if got.Strategy.ChosenAngle != "Most AI agents are rebranded chatbots" {
		t.Errorf("angle = %q", got.Strategy.ChosenAngle)
	}
	if got.Strategy.StructureType != workflow.StructureArgument {
		t.Errorf("structure = %s", got.Strategy.StructureType)
	}
	if len(got.Outline) != 4 {
		t.Errorf("outline sections = %d", len(got.Outline))
	}
	if got.Status != workflow.StatusStrategizing {
		t.Errorf("status = %s", got.Status)
	}
	if len(got.Strategy.SupportingData) != 1 || got.Strategy.SupportingData[0].Stat != "83%" {
		t.Errorf("supporting data = %+v", got.Strategy.SupportingData)
	}
}

func TestStrategistFallbackOnGarbage(t *testing.T) {
	mock := &testutil.MockCompleter{
		Responses: []*llm.Response{{Content: "I think you should write about chatbots."}},
	}

	s := NewStrategist(mock)
	got, err := s.Run(context.Background(), researchedState(workflow.GoalProduct))
	if err != nil {
		t.Fatalf("parse failure must not propagate: %v", err)
	}

	if got.Strategy == nil || !got.Strategy.UsedFallback {
		t.Fatal("fallback strategy expected")
	}
	if got.Strategy.StructureType != workflow.StructureFramework {
		t.Errorf("fallback structure = %s", got.Strategy.StructureType)
	}
	if len(got.Outline) == 0 {
		t.Error("fallback outline must not be empty")
	}
	if !strings.Contains(got.Outline[0], "AI agents") {
		t.Errorf("fallback hook should mention the topic: %q", got.Outline[0])
	}
}

func TestStrategistFallbackOnMissingFields(t *testing.T) {
	// Parses as JSON but lacks the required strategy fields.
	mock := &testutil.MockCompleter{
		Responses: []*llm.Response{{Content: `{"chosen_angle": "something"}`}},
	}

	s := NewStrategist(mock)
	got, err := s.Run(context.Background(), researchedState(workflow.GoalEducational))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !got.Strategy.UsedFallback {
		t.Error("incomplete strategy should trigger fallback")
	}
}

func TestStrategistFallbackWithoutResearch(t *testing.T) {
	mock := &testutil.MockCompleter{}

	s := NewStrategist(mock)
	state := workflow.NewState("p1", "AI agents", workflow.GoalInteractive, "")
	got, err := s.Run(context.Background(), state)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if mock.CallCount() != 0 {
		t.Error("no LLM call expected without a research brief")
	}
	if got.Strategy == nil || !got.Strategy.UsedFallback {
		t.Fatal("fallback strategy expected")
	}
	if got.Outline[len(got.Outline)-1] != "CTA: Comment below" {
		t.Errorf("interactive fallback outline = %v", got.Outline)
	}
}

func TestStrategistPropagatesLLMError(t *testing.T) {
	wantErr := errors.New("endpoint down")
	mock := &testutil.MockCompleter{Err: wantErr}

	s := NewStrategist(mock)
	_, err := s.Run(context.Background(), researchedState(workflow.GoalEducational))
	if !errors.Is(err, wantErr) {
		t.Errorf("transport errors must propagate, got %v", err)
	}
}

func TestFallbackOutlinesCoverAllGoals(t *testing.T) {
	for _, goal := range workflow.Goals() {
		strategy := fallbackStrategy(goal, "remote work")
		if len(strategy.Outline) == 0 {
			t.Errorf("%s: empty fallback outline", goal)
		}
		if len(strategy.KeyPoints) == 0 {
			t.Errorf("%s: empty fallback key points", goal)
		}
	}
}
