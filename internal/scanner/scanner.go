package scanner

import (
	"context"
	"time"
)

// Facing selects a logical camera.
type Facing string

const (
	// FacingEnvironment is the rear camera, pointing away from the user.
	FacingEnvironment Facing = "environment"

	// FacingUser is the front camera.
	FacingUser Facing = "user"
)

// Valid reports whether f is a known facing mode.
func (f Facing) Valid() bool {
	return f == FacingEnvironment || f == FacingUser
}

// Constraints select the camera to open.
type Constraints struct {
	// Facing is a preference, not a requirement: a camera with a single
	// device uses it whatever its facing.
	Facing Facing
}

// Region is the scan box, centred in the frame.
type Region struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Config controls the capture loop.
type Config struct {
	// ScanRate is the number of frames examined per second.
	ScanRate int

	// Region is the central area of each frame that is decoded.
	Region Region
}

// Default capture settings.
const (
	DefaultScanRate     = 10
	DefaultRegionWidth  = 250
	DefaultRegionHeight = 250
)

// DefaultConfig returns 10 frames per second over a 250x250 scan box.
func DefaultConfig() Config {
	return Config{
		ScanRate: DefaultScanRate,
		Region:   Region{Width: DefaultRegionWidth, Height: DefaultRegionHeight},
	}
}

// Interval returns the delay between two examined frames.
func (c Config) Interval() time.Duration {
	if c.ScanRate <= 0 {
		return time.Second / DefaultScanRate
	}
	return time.Second / time.Duration(c.ScanRate)
}

// DecodeFunc receives decoded text.
// It is called from the camera's goroutine and must not block.
type DecodeFunc func(text string)

// Camera is a QR capture device.
//
// Start opens the device and returns once it is capturing; onDecode is then
// called zero or more times until Stop. Stop releases the device and returns
// ErrNotRunning if it was not capturing. No onDecode call happens after Stop
// returns.
type Camera interface {
	Start(ctx context.Context, constraints Constraints, cfg Config, onDecode DecodeFunc) error
	Stop(ctx context.Context) error
}

// Ender is implemented by cameras whose input can run out, such as a piped
// line reader. Done is closed once no further decode can ever happen.
type Ender interface {
	Done() <-chan struct{}
}

// Failer is implemented by ending cameras that can report why their input
// stopped. Err returns nil when the input simply ran out.
type Failer interface {
	Err() error
}
