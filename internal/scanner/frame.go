package scanner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// FrameCamera scans frames from a FrameSource at a fixed rate.
// Devices map facing modes to source paths.
type FrameCamera struct {
	devices map[Facing]string
	open    OpenFunc
	logger  *slog.Logger

	mu      sync.Mutex
	running bool
	source  FrameSource
	cancel  context.CancelFunc
	group   *errgroup.Group
}

// FrameCameraOption configures a FrameCamera.
type FrameCameraOption func(*FrameCamera)

// WithOpenFunc replaces the frame source opener. Default: OpenDirSource.
func WithOpenFunc(open OpenFunc) FrameCameraOption {
	return func(c *FrameCamera) {
		c.open = open
	}
}

// WithFrameLogger sets the logger.
func WithFrameLogger(logger *slog.Logger) FrameCameraOption {
	return func(c *FrameCamera) {
		c.logger = logger
	}
}

// NewFrameCamera creates a camera over the given devices.
func NewFrameCamera(devices map[Facing]string, opts ...FrameCameraOption) *FrameCamera {
	c := &FrameCamera{
		devices: make(map[Facing]string, len(devices)),
		open:    OpenDirSource,
		logger:  slog.Default(),
	}
	for facing, path := range devices {
		if path != "" {
			c.devices[facing] = path
		}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Device returns the device path chosen for constraints.
// The preferred facing wins; otherwise a lone device is used.
func (c *FrameCamera) Device(constraints Constraints) (string, error) {
	if path, ok := c.devices[constraints.Facing]; ok {
		return path, nil
	}
	if len(c.devices) == 1 {
		for _, path := range c.devices {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w for facing %q", ErrNoDevice, constraints.Facing)
}

// Start opens the device and begins the capture loop.
func (c *FrameCamera) Start(ctx context.Context, constraints Constraints, cfg Config, onDecode DecodeFunc) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return ErrAlreadyRunning
	}

	path, err := c.Device(constraints)
	if err != nil {
		return &CameraAccessError{Facing: constraints.Facing, Err: err}
	}

	source, err := c.open(path, c.logger)
	if err != nil {
		return &CameraAccessError{Facing: constraints.Facing, Err: err}
	}

	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	g, gctx := errgroup.WithContext(loopCtx)
	g.Go(func() error {
		return c.capture(gctx, source, cfg, onDecode)
	})

	c.running = true
	c.source = source
	c.cancel = cancel
	c.group = g

	c.logger.Debug("frame camera started", "device", path, "fps", cfg.ScanRate)
	return nil
}

// capture examines one frame per tick until ctx is cancelled.
func (c *FrameCamera) capture(ctx context.Context, source FrameSource, cfg Config, onDecode DecodeFunc) error {
	ticker := time.NewTicker(cfg.Interval())
	defer ticker.Stop()

	var lastSeq uint64
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		img, seq, err := source.Next()
		if err != nil {
			if !errors.Is(err, ErrNoFrame) {
				c.logger.Debug("frame unavailable", "error", err)
			}
			continue
		}
		if seq == lastSeq {
			continue
		}
		lastSeq = seq

		text, err := DecodeImage(img, cfg.Region)
		if err != nil {
			continue
		}

		// Stop may have been requested while decoding.
		if ctx.Err() != nil {
			return nil
		}
		onDecode(text)
	}
}

// Stop ends the capture loop and closes the frame source.
func (c *FrameCamera) Stop(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return ErrNotRunning
	}

	c.cancel()
	loopErr := c.group.Wait()
	closeErr := c.source.Close()

	c.running = false
	c.source = nil
	c.cancel = nil
	c.group = nil

	return errors.Join(loopErr, closeErr)
}
