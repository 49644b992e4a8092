package payload

import (
	"errors"
	"fmt"
)

// Payload errors.
// ParseError and ValidationError wrap these so callers can use errors.Is
// for the reason and errors.As for the category.
var (
	// ErrEmptyPayload is returned when the decoded text is empty.
	ErrEmptyPayload = errors.New("unexpected end of JSON input")

	// ErrTrailingData is returned when a JSON document is followed by more text.
	ErrTrailingData = errors.New("unexpected data after top-level JSON value")

	// ErrMissingPublic is returned when the payload has no usable "public" section.
	ErrMissingPublic = errors.New("QR code does not contain the required 'public' data field.") //nolint:staticcheck,revive // shown to the user verbatim

	// ErrPublicNotObject is returned when "public" is set but is not an object.
	ErrPublicNotObject = errors.New("QR code 'public' data field is not an object.") //nolint:staticcheck,revive // shown to the user verbatim

	// ErrUnencodableValue is returned by Format for values the dict-like
	// encoding cannot carry through the quote substitution.
	ErrUnencodableValue = errors.New("value contains a quote character and cannot be encoded")
)

// ParseError reports a payload that is not valid JSON after quote substitution.
type ParseError struct {
	// Err is the underlying syntax error.
	Err error
}

// Error returns the syntax error message.
func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed payload: %v", e.Err)
}

// Unwrap returns the underlying syntax error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError reports a well-formed payload that lacks required content.
type ValidationError struct {
	// Err is one of ErrMissingPublic or ErrPublicNotObject.
	Err error
}

// Error returns the fixed validation message.
func (e *ValidationError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the reason.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsPayloadError reports whether err is a ParseError or a ValidationError,
// i.e. a bad read that should trigger a re-scan.
func IsPayloadError(err error) bool {
	var parseErr *ParseError
	var validationErr *ValidationError
	return errors.As(err, &parseErr) || errors.As(err, &validationErr)
}
