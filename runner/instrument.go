package runner

import (
	"context"
	"time"

	"github.com/BeenaAbe/linkedin-agent-workflow/metrics"
	"github.com/BeenaAbe/linkedin-agent-workflow/workflow"
)

// instrumentedStep records wall time per step execution.
type instrumentedStep struct {
	inner workflow.Step
}

func (s instrumentedStep) Node() workflow.Node { return s.inner.Node() }

func (s instrumentedStep) Run(ctx context.Context, state workflow.State) (workflow.State, error) {
	start := time.Now()
	out, err := s.inner.Run(ctx, state)
	metrics.StepDuration.WithLabelValues(string(s.inner.Node())).Observe(time.Since(start).Seconds())
	return out, err
}

// InstrumentSteps wraps each step with duration metrics.
func InstrumentSteps(steps ...workflow.Step) []workflow.Step {
	out := make([]workflow.Step, len(steps))
	for i, step := range steps {
		out[i] = instrumentedStep{inner: step}
	}
	return out
}
