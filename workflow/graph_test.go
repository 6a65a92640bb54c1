package workflow

import (
	"context"
	"errors"
	"testing"
)

// fakeStep records its invocations and applies a mutation function.
type fakeStep struct {
	node  Node
	calls int
	fn    func(State) (State, error)
}

func (f *fakeStep) Node() Node { return f.node }

func (f *fakeStep) Run(_ context.Context, state State) (State, error) {
	f.calls++
	if f.fn == nil {
		return state, nil
	}
	return f.fn(state)
}

// pipelineSteps builds a full set of fake steps for the post graph. The
// editor scores with the given function so tests can steer the revision loop.
func pipelineSteps(score func(State) int) (map[Node]*fakeStep, []Step) {
	byNode := map[Node]*fakeStep{
		NodeValidate:   {node: NodeValidate},
		NodeResearch:   {node: NodeResearch},
		NodeStrategize: {node: NodeStrategize},
		NodeWrite:      {node: NodeWrite},
		NodeFormat:     {node: NodeFormat},
		NodeFinalize:   {node: NodeFinalize},
	}
	byNode[NodeFinalize].fn = func(s State) (State, error) {
		s.Status = StatusReady
		return s, nil
	}
	byNode[NodeEdit] = &fakeStep{
		node: NodeEdit,
		fn: func(s State) (State, error) {
			s.QualityScore = score(s)
			s.EditorDecision = Decide(s.QualityScore, s.Goal.Thresholds().MinQualityScore, s.RevisionCount)
			if s.EditorDecision == DecisionRevise {
				s.RevisionCount++
			}
			return s, nil
		},
	}

	steps := make([]Step, 0, len(byNode))
	for _, step := range byNode {
		steps = append(steps, step)
	}
	return byNode, steps
}

func TestPostGraphHappyPath(t *testing.T) {
	byNode, steps := pipelineSteps(func(State) int { return 90 })
	graph, err := NewPostGraph(steps...)
	if err != nil {
		t.Fatalf("NewPostGraph: %v", err)
	}

	exec := NewExecutor(graph)
	final, err := exec.Run(context.Background(), NewState("item-1", "AI agents", GoalEducational, ""))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if final.Status != StatusReady {
		t.Errorf("status = %s, want %s", final.Status, StatusReady)
	}
	if byNode[NodeWrite].calls != 1 {
		t.Errorf("writer ran %d times, want 1", byNode[NodeWrite].calls)
	}
	if final.RevisionCount != 0 {
		t.Errorf("revision count = %d, want 0", final.RevisionCount)
	}
}

func TestRevisionLoopForcedApproval(t *testing.T) {
	// An editor that always scores zero forces the revision loop to its cap:
	// the writer runs three times and the third draft is approved anyway.
	byNode, steps := pipelineSteps(func(State) int { return 0 })
	graph, err := NewPostGraph(steps...)
	if err != nil {
		t.Fatalf("NewPostGraph: %v", err)
	}

	exec := NewExecutor(graph)
	final, err := exec.Run(context.Background(), NewState("item-2", "burnout", GoalPersonalBrand, ""))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if byNode[NodeWrite].calls != 3 {
		t.Errorf("writer ran %d times, want 3", byNode[NodeWrite].calls)
	}
	if byNode[NodeEdit].calls != 3 {
		t.Errorf("editor ran %d times, want 3", byNode[NodeEdit].calls)
	}
	if final.RevisionCount != 2 {
		t.Errorf("revision count = %d, want 2", final.RevisionCount)
	}
	if final.EditorDecision != DecisionApprove {
		t.Errorf("final decision = %s, want forced approval", final.EditorDecision)
	}
	if final.Status != StatusReady {
		t.Errorf("status = %s, want %s", final.Status, StatusReady)
	}
	if byNode[NodeFormat].calls != 1 || byNode[NodeFinalize].calls != 1 {
		t.Error("format and finalize should each run exactly once")
	}
}

func TestRevisionLoopSecondDraftPasses(t *testing.T) {
	scores := []int{40, 85}
	i := 0
	byNode, steps := pipelineSteps(func(State) int {
		score := scores[i]
		i++
		return score
	})
	graph, err := NewPostGraph(steps...)
	if err != nil {
		t.Fatalf("NewPostGraph: %v", err)
	}

	final, err := NewExecutor(graph).Run(context.Background(), NewState("item-3", "pricing", GoalProduct, ""))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if byNode[NodeWrite].calls != 2 {
		t.Errorf("writer ran %d times, want 2", byNode[NodeWrite].calls)
	}
	if final.RevisionCount != 1 {
		t.Errorf("revision count = %d, want 1", final.RevisionCount)
	}
	if final.QualityScore != 85 {
		t.Errorf("quality score = %d, want 85", final.QualityScore)
	}
}

func TestStepErrorAbortsRun(t *testing.T) {
	byNode, steps := pipelineSteps(func(State) int { return 90 })
	wantErr := errors.New("search provider down")
	byNode[NodeResearch].fn = func(s State) (State, error) {
		return s, wantErr
	}

	graph, err := NewPostGraph(steps...)
	if err != nil {
		t.Fatalf("NewPostGraph: %v", err)
	}

	final, err := NewExecutor(graph).Run(context.Background(), NewState("item-4", "x", GoalInteractive, ""))
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, wantErr) {
		t.Errorf("error = %v, want wrapped %v", err, wantErr)
	}
	if final.Status != StatusError {
		t.Errorf("status = %s, want %s", final.Status, StatusError)
	}
	if byNode[NodeStrategize].calls != 0 {
		t.Error("steps after the failure must not run")
	}
}

func TestRunCancelledContext(t *testing.T) {
	_, steps := pipelineSteps(func(State) int { return 90 })
	graph, err := NewPostGraph(steps...)
	if err != nil {
		t.Fatalf("NewPostGraph: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	final, err := NewExecutor(graph).Run(ctx, NewState("item-5", "x", GoalEducational, ""))
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v", err)
	}
	if final.Status != StatusError {
		t.Errorf("status = %s", final.Status)
	}
}

func TestEditorRoute(t *testing.T) {
	if got := EditorRoute(State{EditorDecision: DecisionRevise}); got != NodeWrite {
		t.Errorf("revise routes to %s, want %s", got, NodeWrite)
	}
	if got := EditorRoute(State{EditorDecision: DecisionApprove}); got != NodeFormat {
		t.Errorf("approve routes to %s, want %s", got, NodeFormat)
	}
}

func TestBuilderTopologyValidation(t *testing.T) {
	t.Run("missing entry", func(t *testing.T) {
		_, err := NewBuilder().
			AddStep(&fakeStep{node: NodeValidate}).
			AddEdge(NodeValidate, NodeEnd).
			Build()
		if err == nil {
			t.Error("expected error for missing entry")
		}
	})

	t.Run("edge to unknown node", func(t *testing.T) {
		_, err := NewBuilder().
			AddStep(&fakeStep{node: NodeValidate}).
			SetEntry(NodeValidate).
			AddEdge(NodeValidate, NodeResearch).
			Build()
		if err == nil {
			t.Error("expected error for edge to unregistered node")
		}
	})

	t.Run("node without outgoing edge", func(t *testing.T) {
		_, err := NewBuilder().
			AddStep(&fakeStep{node: NodeValidate}).
			SetEntry(NodeValidate).
			Build()
		if err == nil {
			t.Error("expected error for dangling node")
		}
	})

	t.Run("duplicate step", func(t *testing.T) {
		_, err := NewBuilder().
			AddStep(&fakeStep{node: NodeValidate}).
			AddStep(&fakeStep{node: NodeValidate}).
			SetEntry(NodeValidate).
			AddEdge(NodeValidate, NodeEnd).
			Build()
		if err == nil {
			t.Error("expected error for duplicate step")
		}
	})

	t.Run("both edge kinds on one node", func(t *testing.T) {
		_, err := NewBuilder().
			AddStep(&fakeStep{node: NodeValidate}).
			SetEntry(NodeValidate).
			AddEdge(NodeValidate, NodeEnd).
			AddConditionalEdge(NodeValidate, func(State) Node { return NodeEnd }).
			Build()
		if err == nil {
			t.Error("expected error for conflicting edges")
		}
	})

	t.Run("incomplete post graph", func(t *testing.T) {
		if _, err := NewPostGraph(&fakeStep{node: NodeValidate}); err == nil {
			t.Error("expected error when pipeline steps are missing")
		}
	})
}
