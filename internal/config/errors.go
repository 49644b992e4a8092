package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrInvalidFacing is returned when the facing mode is not
	// "environment" or "user".
	ErrInvalidFacing = errors.New("invalid facing: must be environment or user")

	// ErrInvalidScanRate is returned when the frame rate is not positive.
	ErrInvalidScanRate = errors.New("invalid fps: must be positive")

	// ErrInvalidRegion is returned when the scan box has a non-positive side.
	ErrInvalidRegion = errors.New("invalid qrbox: width and height must be positive")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidSource is returned for an unknown decode source.
	ErrInvalidSource = errors.New("invalid source: must be frames or line")

	// ErrInvalidDevice is returned when a device is configured for an
	// unknown facing mode.
	ErrInvalidDevice = errors.New("invalid device: keys must be environment or user")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")
)
