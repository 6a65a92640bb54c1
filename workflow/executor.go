package workflow

import (
	"context"
	"fmt"
	"log/slog"
)

// maxTransitions caps graph traversal. The post pipeline needs at most 11
// transitions (7 steps plus two full revision loops); anything beyond this
// indicates a wiring bug, not a long run.
const maxTransitions = 32

// Executor drives a compiled graph to completion.
type Executor struct {
	graph  *Graph
	logger *slog.Logger
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithLogger sets the executor's logger.
func WithLogger(logger *slog.Logger) ExecutorOption {
	return func(e *Executor) {
		e.logger = logger
	}
}

// NewExecutor creates an executor for the given graph.
func NewExecutor(graph *Graph, opts ...ExecutorOption) *Executor {
	e := &Executor{
		graph:  graph,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes the graph from its entry node until NodeEnd. Each step
// receives a clone of the current state and its returned state becomes the
// input to the next step. A step error aborts the run; the returned state
// carries StatusError alongside the wrapped error so callers can persist the
// partial record.
func (e *Executor) Run(ctx context.Context, initial State) (State, error) {
	state := initial.Clone()
	node := e.graph.Entry()

	for transitions := 0; ; transitions++ {
		if transitions >= maxTransitions {
			state.Status = StatusError
			return state, fmt.Errorf("workflow exceeded %d transitions at node %q", maxTransitions, node)
		}

		if err := ctx.Err(); err != nil {
			state.Status = StatusError
			return state, fmt.Errorf("workflow cancelled at node %q: %w", node, err)
		}

		step, ok := e.graph.step(node)
		if !ok {
			state.Status = StatusError
			return state, fmt.Errorf("no step registered for node %q", node)
		}

		e.logger.Debug("executing workflow step",
			"node", node,
			"workflow_id", state.WorkflowID,
			"revision_count", state.RevisionCount)

		next, err := step.Run(ctx, state.Clone())
		if err != nil {
			state.Status = StatusError
			e.logger.Error("workflow step failed",
				"node", node,
				"workflow_id", state.WorkflowID,
				"error", err)
			return state, fmt.Errorf("step %q: %w", node, err)
		}
		state = next

		node, err = e.graph.next(node, state)
		if err != nil {
			state.Status = StatusError
			return state, err
		}
		if node == NodeEnd {
			e.logger.Info("workflow complete",
				"workflow_id", state.WorkflowID,
				"status", state.Status,
				"quality_score", state.QualityScore,
				"revisions", state.RevisionCount)
			return state, nil
		}
	}
}
