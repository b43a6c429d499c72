package pipeline

import (
	"context"
	"log/slog"

	"github.com/brinisSoftArchitect/xml-generator/internal/model"
)

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, each receiving the run accumulated by
// previous steps.
//
// Design decision: We use an interface rather than function types because:
//  1. It allows steps to carry configuration state
//  2. It provides a Name() method for logging and debugging
//  3. It's more extensible (e.g., conditional steps)
type Step interface {
	// Do executes the pipeline step. It receives the context for
	// cancellation and the run to read and modify. A returned error
	// marks the run failed.
	Do(ctx context.Context, run *model.Run) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline executes the steps of one crawl run in order.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a Pipeline with the given options.
// Steps are added with AddSteps after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddSteps appends steps, executed in the order they are added.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}

// Execute runs all steps in sequence and settles the run's final state.
//
// A step failure marks the run failed and is returned after the
// remaining steps have had their chance to run: later steps record
// and report the failed run, so skipping them would lose exactly the
// information a failed run needs most. Context cancellation stops the
// pipeline immediately.
//
// Design decision: We check context.Done() between steps rather than
// during, because steps handle their own timeouts. This allows graceful
// cleanup between steps while still respecting cancellation.
func (p *Pipeline) Execute(ctx context.Context, run *model.Run) error {
	var firstErr error

	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			run.Fail(ctx.Err())
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step", "step", step.Name())

		if err := step.Do(ctx, run); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"error", err,
			)
			if firstErr == nil {
				firstErr = err
				run.Fail(err)
			}
			continue
		}

		p.logger.Debug("step completed", "step", step.Name())
	}

	if firstErr == nil && run.State == model.RunStateRunning {
		run.Complete()
	}

	return firstErr
}
