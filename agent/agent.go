// Package agent implements the workflow steps: intake validation, research,
// strategy, drafting, editorial review, formatting, and finalization. Each
// step satisfies workflow.Step and enriches the shared state.
package agent

import "log/slog"

// Option configures a step's shared dependencies.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the step's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func applyOptions(opts []Option) options {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// truncate caps a string at n bytes to keep prompt context within budget.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
