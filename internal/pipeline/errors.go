package pipeline

import "errors"

var (
	// ErrIntakeStarted is returned when Run is called more than once.
	ErrIntakeStarted = errors.New("intake already started")

	// ErrNoPayload is returned by a step that needs a normalized payload
	// when the normalize step has not run.
	ErrNoPayload = errors.New("scan cycle has no normalized payload")

	// ErrNoRecord is returned by a step that needs the public record
	// when the validate step has not run.
	ErrNoRecord = errors.New("scan cycle has no public record")
)
