package pipeline

import (
	"context"

	"github.com/lifetag/tagscan/internal/model"
	"github.com/lifetag/tagscan/internal/payload"
	"github.com/lifetag/tagscan/internal/view"
)

// NormalizeStep parses the raw text into a payload.
type NormalizeStep struct{}

// NewNormalizeStep creates a normalize step.
func NewNormalizeStep() *NormalizeStep {
	return &NormalizeStep{}
}

// Name returns the step name.
func (s *NormalizeStep) Name() string {
	return "normalize"
}

// Do sets cycle.Payload or returns a *payload.ParseError.
func (s *NormalizeStep) Do(_ context.Context, cycle *model.ScanCycle) error {
	p, err := payload.Normalize(cycle.Raw)
	if err != nil {
		return err
	}
	cycle.Payload = &p
	return nil
}

// ValidateStep extracts the public record.
type ValidateStep struct{}

// NewValidateStep creates a validate step.
func NewValidateStep() *ValidateStep {
	return &ValidateStep{}
}

// Name returns the step name.
func (s *ValidateStep) Name() string {
	return "validate"
}

// Do sets cycle.Public or returns a *payload.ValidationError.
func (s *ValidateStep) Do(_ context.Context, cycle *model.ScanCycle) error {
	if cycle.Payload == nil {
		return ErrNoPayload
	}
	record, err := payload.Validate(*cycle.Payload)
	if err != nil {
		return err
	}
	cycle.Public = &record
	return nil
}

// RenderStep maps the public record onto the result view.
type RenderStep struct {
	renderer *view.Renderer
}

// NewRenderStep creates a render step. A nil renderer uses the defaults.
func NewRenderStep(renderer *view.Renderer) *RenderStep {
	if renderer == nil {
		renderer = view.NewRenderer()
	}
	return &RenderStep{renderer: renderer}
}

// Name returns the step name.
func (s *RenderStep) Name() string {
	return "render"
}

// Do sets cycle.View.
func (s *RenderStep) Do(_ context.Context, cycle *model.ScanCycle) error {
	if cycle.Public == nil {
		return ErrNoRecord
	}
	state := s.renderer.Render(*cycle.Public)
	cycle.View = &state
	return nil
}

// DefaultPipeline returns the normalize, validate and render pipeline.
// An empty placeholder keeps "N/A".
func DefaultPipeline(placeholder string, opts ...Option) *Pipeline {
	p := New(opts...)
	p.AddSteps(
		NewNormalizeStep(),
		NewValidateStep(),
		NewRenderStep(view.NewRenderer(view.WithPlaceholder(placeholder))),
	)
	return p
}
