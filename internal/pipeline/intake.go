package pipeline

import (
	"context"
	"log/slog"
	"sync"

	"github.com/lifetag/tagscan/internal/model"
	"github.com/lifetag/tagscan/internal/scanner"
	"github.com/lifetag/tagscan/internal/view"
)

// Presenter displays what the intake produces.
type Presenter interface {
	// Render replaces the displayed view.
	Render(state model.ViewState)

	// Alert shows a message and blocks until the user acknowledges it
	// or ctx is done.
	Alert(ctx context.Context, message string) error
}

// Intake is the scan session state machine:
//
//	Idle -> Scanning -> Processing -> ShowingResult -> (rescan) Scanning
//	                              \-> Recovering -> (alert) Scanning
//
// All transitions happen on the goroutine that calls Run. The camera
// only hands decodes to that goroutine through a one-slot channel, and
// extra decodes are dropped.
type Intake struct {
	camera      scanner.Camera
	control     *scanner.Control
	presenter   Presenter
	pipeline    *Pipeline
	logger      *slog.Logger
	placeholder string
	constraints scanner.Constraints
	cfg         scanner.Config
	continuous  bool
	onCycle     func(*model.ScanCycle)

	decodes chan string
	rescans chan struct{}

	mu      sync.Mutex
	state   model.State
	started bool
}

// IntakeOption configures an Intake.
type IntakeOption func(*Intake)

// WithIntakeLogger sets the logger.
func WithIntakeLogger(logger *slog.Logger) IntakeOption {
	return func(in *Intake) {
		in.logger = logger
	}
}

// WithPlaceholder sets the text shown for missing fields. Default: "N/A".
func WithPlaceholder(placeholder string) IntakeOption {
	return func(in *Intake) {
		in.placeholder = placeholder
	}
}

// WithPipeline replaces the default normalize, validate and render pipeline.
func WithPipeline(p *Pipeline) IntakeOption {
	return func(in *Intake) {
		in.pipeline = p
	}
}

// WithConstraints sets the camera constraints. Default: rear camera.
func WithConstraints(constraints scanner.Constraints) IntakeOption {
	return func(in *Intake) {
		in.constraints = constraints
	}
}

// WithScannerConfig sets the capture settings. Default: 10 fps, 250x250.
func WithScannerConfig(cfg scanner.Config) IntakeOption {
	return func(in *Intake) {
		in.cfg = cfg
	}
}

// WithContinuous re-arms the scanner right after a result is shown
// instead of waiting for Rescan.
func WithContinuous(continuous bool) IntakeOption {
	return func(in *Intake) {
		in.continuous = continuous
	}
}

// OnCycle registers a function called with every finished scan cycle,
// after its result is shown or before its alert is raised.
// It runs on the intake goroutine and must not call Run.
func OnCycle(fn func(*model.ScanCycle)) IntakeOption {
	return func(in *Intake) {
		in.onCycle = fn
	}
}

// NewIntake creates an intake over camera that reports to presenter.
func NewIntake(camera scanner.Camera, presenter Presenter, opts ...IntakeOption) *Intake {
	in := &Intake{
		camera:      camera,
		presenter:   presenter,
		constraints: scanner.Constraints{Facing: scanner.FacingEnvironment},
		cfg:         scanner.DefaultConfig(),
		decodes:     make(chan string, 1),
		rescans:     make(chan struct{}, 1),
		state:       model.StateIdle,
	}

	for _, opt := range opts {
		opt(in)
	}

	if in.logger == nil {
		in.logger = slog.Default()
	}
	if in.pipeline == nil {
		in.pipeline = DefaultPipeline(in.placeholder, WithLogger(in.logger))
	}

	in.control = scanner.NewControl(camera, in.showStatus,
		scanner.WithConstraints(in.constraints),
		scanner.WithConfig(in.cfg),
		scanner.WithControlLogger(in.logger),
	)
	return in
}

// State returns the current state.
func (in *Intake) State() model.State {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.state
}

// Rescan asks for the scanner to be re-armed after a result.
// It is ignored unless a result is showing, and repeated calls collapse
// into one. A request made before the result appears is discarded.
func (in *Intake) Rescan() {
	select {
	case in.rescans <- struct{}{}:
	default:
	}
}

// Run arms the scanner and processes decodes until ctx is done or the
// camera runs out of input. It returns ctx.Err() on cancellation, nil
// when the input is exhausted, an error wrapping scanner.ErrInputFailed
// when the input stops on a read error, and a *scanner.CameraAccessError
// when the camera cannot be armed.
func (in *Intake) Run(ctx context.Context) error {
	in.mu.Lock()
	if in.started {
		in.mu.Unlock()
		return ErrIntakeStarted
	}
	in.started = true
	in.mu.Unlock()

	if err := in.arm(ctx); err != nil {
		return err
	}

	done := in.control.Done()
	for {
		var err error
		select {
		case <-ctx.Done():
			in.shutdown(ctx)
			return ctx.Err()
		case text := <-in.decodes:
			err = in.handleDecode(ctx, text)
		case <-in.rescans:
			err = in.handleRescan(ctx)
		case <-done:
			return in.finish(ctx)
		}

		if err != nil {
			if ctx.Err() != nil {
				in.shutdown(ctx)
				return ctx.Err()
			}
			return err
		}
	}
}

// onDecode is handed to the camera. It never blocks.
func (in *Intake) onDecode(text string) {
	select {
	case in.decodes <- text:
	default:
		in.logger.Debug("decode dropped, intake busy")
	}
}

func (in *Intake) showStatus(status model.Status) {
	in.presenter.Render(view.Scanning(status))
}

func (in *Intake) setState(state model.State) {
	in.mu.Lock()
	prev := in.state
	in.state = state
	in.mu.Unlock()

	if prev != state {
		in.logger.Debug("intake state", "from", prev.String(), "to", state.String())
	}
}

// arm starts the camera. On failure the intake halts.
func (in *Intake) arm(ctx context.Context) error {
	if err := in.control.Arm(ctx, in.onDecode); err != nil {
		in.setState(model.StateHalted)
		return err
	}
	in.setState(model.StateScanning)
	return nil
}

// disarm stops the camera and discards decodes that raced the stop.
func (in *Intake) disarm(ctx context.Context) error {
	err := in.control.Disarm(ctx)
	for {
		select {
		case <-in.decodes:
		default:
			return err
		}
	}
}

func (in *Intake) handleDecode(ctx context.Context, text string) error {
	if state := in.State(); state != model.StateScanning {
		in.logger.Debug("decode ignored", "state", state.String())
		return nil
	}
	in.setState(model.StateProcessing)
	in.drainRescans()

	return Always(ctx, in.disarm, func(ctx context.Context, stopErr error) error {
		if stopErr != nil {
			in.logger.Debug("unable to stop scanner", "error", stopErr)
		}
		return in.process(ctx, text)
	})
}

func (in *Intake) process(ctx context.Context, text string) error {
	cycle := model.NewScanCycle(text)

	if err := in.pipeline.Execute(ctx, cycle); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		in.setState(model.StateRecovering)
		in.logger.Warn("unreadable tag",
			"cycle", cycle.ID,
			"digest", cycle.ShortDigest(),
			"error", err,
		)
		if in.onCycle != nil {
			in.onCycle(cycle)
		}

		if err := in.presenter.Alert(ctx, view.AlertMessage(err)); err != nil {
			return err
		}
		return in.arm(ctx)
	}

	in.setState(model.StateShowingResult)
	in.presenter.Render(*cycle.View)
	in.logger.Info("tag read",
		"cycle", cycle.ID,
		"digest", cycle.ShortDigest(),
		"steps", cycle.PerformedSteps,
	)
	if in.onCycle != nil {
		in.onCycle(cycle)
	}

	if in.continuous {
		return in.arm(ctx)
	}
	return nil
}

// drainRescans discards rescan requests made before the current result.
func (in *Intake) drainRescans() {
	select {
	case <-in.rescans:
		in.logger.Debug("rescan ignored", "state", model.StateProcessing.String())
	default:
	}
}

func (in *Intake) handleRescan(ctx context.Context) error {
	if state := in.State(); state != model.StateShowingResult {
		in.logger.Debug("rescan ignored", "state", state.String())
		return nil
	}
	return in.arm(ctx)
}

// finish handles the end of camera input: any decode already handed over
// is processed before the intake stops, then a read error that ended the
// input is returned.
func (in *Intake) finish(ctx context.Context) error {
	for {
		select {
		case text := <-in.decodes:
			if err := in.handleDecode(ctx, text); err != nil {
				if ctx.Err() != nil {
					in.shutdown(ctx)
					return ctx.Err()
				}
				return err
			}
		default:
			in.shutdown(ctx)
			if err := in.control.Err(); err != nil {
				return err
			}
			in.logger.Debug("scanner input exhausted")
			return nil
		}
	}
}

// shutdown disarms the camera if it is running and marks the intake stopped.
func (in *Intake) shutdown(ctx context.Context) {
	if in.State() == model.StateScanning {
		if err := in.disarm(context.WithoutCancel(ctx)); err != nil {
			in.logger.Debug("unable to stop scanner", "error", err)
		}
	}
	in.setState(model.StateStopped)
}
