package scanner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lifetag/tagscan/internal/model"
	"github.com/lifetag/tagscan/internal/view"
)

// StatusFunc receives status indicator updates.
type StatusFunc func(model.Status)

// Control owns the scanning session of one camera.
// It is the only thing that starts or stops the camera.
type Control struct {
	camera      Camera
	constraints Constraints
	cfg         Config
	onStatus    StatusFunc
	logger      *slog.Logger
}

// ControlOption configures a Control.
type ControlOption func(*Control)

// WithConstraints sets the camera constraints. Default: rear camera.
func WithConstraints(constraints Constraints) ControlOption {
	return func(c *Control) {
		c.constraints = constraints
	}
}

// WithConfig sets the capture settings. Default: DefaultConfig().
func WithConfig(cfg Config) ControlOption {
	return func(c *Control) {
		c.cfg = cfg
	}
}

// WithControlLogger sets the logger.
func WithControlLogger(logger *slog.Logger) ControlOption {
	return func(c *Control) {
		c.logger = logger
	}
}

// NewControl creates a Control for camera. onStatus may be nil.
func NewControl(camera Camera, onStatus StatusFunc, opts ...ControlOption) *Control {
	c := &Control{
		camera:      camera,
		constraints: Constraints{Facing: FacingEnvironment},
		cfg:         DefaultConfig(),
		onStatus:    onStatus,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.onStatus == nil {
		c.onStatus = func(model.Status) {}
	}
	return c
}

// Arm requests camera access and starts capturing.
// The status goes to "requesting" first, then "ready" or "error".
// On failure the returned error is a *CameraAccessError.
func (c *Control) Arm(ctx context.Context, onDecode DecodeFunc) error {
	c.onStatus(view.Requesting())

	if err := c.camera.Start(ctx, c.constraints, c.cfg, onDecode); err != nil {
		c.logger.Error("unable to start scanning",
			"facing", c.constraints.Facing,
			"error", err,
		)
		c.onStatus(view.AccessError())

		var accessErr *CameraAccessError
		if errors.As(err, &accessErr) {
			return accessErr
		}
		return &CameraAccessError{Facing: c.constraints.Facing, Err: err}
	}

	c.logger.Debug("scanner armed",
		"facing", c.constraints.Facing,
		"fps", c.cfg.ScanRate,
		"region", c.cfg.Region,
	)
	c.onStatus(view.Ready())
	return nil
}

// Disarm stops capturing. A failure is returned as *StopError; callers
// log it and carry on.
func (c *Control) Disarm(ctx context.Context) error {
	if err := c.camera.Stop(ctx); err != nil {
		return &StopError{Err: err}
	}
	c.logger.Debug("scanner disarmed")
	return nil
}

// Done returns a channel closed when the camera's input is exhausted,
// or nil when the camera never runs out.
func (c *Control) Done() <-chan struct{} {
	if e, ok := c.camera.(Ender); ok {
		return e.Done()
	}
	return nil
}

// Err returns why the camera's input ended, wrapped in ErrInputFailed,
// or nil when it ran out normally or the camera never reports errors.
func (c *Control) Err() error {
	f, ok := c.camera.(Failer)
	if !ok {
		return nil
	}
	if err := f.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrInputFailed, err)
	}
	return nil
}
