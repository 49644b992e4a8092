package pipeline

import (
	"context"
	"log/slog"

	"github.com/lifetag/tagscan/internal/model"
)

// Step is one stage of the intake pipeline.
type Step interface {
	// Do executes the step, reading and filling in the scan cycle.
	// An error ends the cycle.
	Do(ctx context.Context, cycle *model.ScanCycle) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline executes steps in sequence and stops at the first failure.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0, 3),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all steps over cycle.
// The error of the failing step is recorded in cycle.Err and returned.
// Completed steps are listed in cycle.PerformedSteps.
func (p *Pipeline) Execute(ctx context.Context, cycle *model.ScanCycle) error {
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"cycle", cycle.ID,
				"reason", err,
			)
			cycle.Err = err
			cycle.ErrorMessage = err.Error()
			return err
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"cycle", cycle.ID,
			"digest", cycle.ShortDigest(),
		)

		if err := step.Do(ctx, cycle); err != nil {
			p.logger.Debug("step failed",
				"step", step.Name(),
				"cycle", cycle.ID,
				"error", err,
			)
			cycle.Err = err
			cycle.ErrorMessage = err.Error()
			return err
		}

		cycle.PerformedSteps = append(cycle.PerformedSteps, step.Name())
	}

	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
