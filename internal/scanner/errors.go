package scanner

import (
	"errors"
	"fmt"
)

// Camera errors.
var (
	// ErrNotRunning is returned by Stop when the camera is not capturing.
	ErrNotRunning = errors.New("cannot stop, scanner is not running")

	// ErrAlreadyRunning is returned by Start when the camera is capturing.
	ErrAlreadyRunning = errors.New("scanner is already running")

	// ErrNoDevice is returned when no device matches the constraints.
	ErrNoDevice = errors.New("no camera device available")

	// ErrNoInput is returned by a line camera without a reader.
	ErrNoInput = errors.New("no scanner input configured")

	// ErrInputFailed is returned when an ending camera's input stops on
	// a read error instead of running out.
	ErrInputFailed = errors.New("scanner input failed")

	// ErrNoFrame is returned by a frame source that has not captured anything yet.
	ErrNoFrame = errors.New("no frame captured yet")

	// ErrNoCode is returned when a frame holds no readable QR code.
	ErrNoCode = errors.New("no QR code found in frame")
)

// CameraAccessError reports that the camera could not be started:
// permission denied, device missing or busy. It ends the scanning session.
type CameraAccessError struct {
	Facing Facing
	Err    error
}

// Error describes the failure.
func (e *CameraAccessError) Error() string {
	return fmt.Sprintf("unable to start scanning (facing %s): %v", e.Facing, e.Err)
}

// Unwrap returns the device error.
func (e *CameraAccessError) Unwrap() error {
	return e.Err
}

// StopError reports that the camera could not be stopped.
// It is logged and otherwise ignored.
type StopError struct {
	Err error
}

// Error describes the failure.
func (e *StopError) Error() string {
	return fmt.Sprintf("failed to stop scanning: %v", e.Err)
}

// Unwrap returns the device error.
func (e *StopError) Unwrap() error {
	return e.Err
}
