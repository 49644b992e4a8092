package model

import (
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/sha3"
)

// ScanCycle carries one decode through the intake pipeline.
// It is created when the camera reports a decode and dropped once the
// result is shown or the scanner is re-armed. Nothing in it is persisted.
type ScanCycle struct {
	// ID correlates log lines of one cycle.
	ID string `json:"id"`

	// Raw is the decoded text exactly as the camera reported it.
	// It is never logged; use Digest instead.
	Raw string `json:"-"`

	// Digest is the hex SHA3-256 of Raw.
	Digest string `json:"digest"`

	// StartedAt is when the decode was received.
	StartedAt time.Time `json:"started_at"`

	// Payload is set by the normalize step.
	Payload *Payload `json:"-"`

	// Public is set by the validate step.
	Public *PublicRecord `json:"-"`

	// View is set by the render step.
	View *ViewState `json:"view,omitempty"`

	// Err is the error that ended the cycle, if any.
	Err error `json:"-"`

	// ErrorMessage mirrors Err for serialization.
	ErrorMessage string `json:"error,omitempty"`

	// PerformedSteps lists the steps that completed, in order.
	PerformedSteps []string `json:"performed_steps"`
}

// NewScanCycle starts a cycle for a decoded text.
func NewScanCycle(raw string) *ScanCycle {
	sum := sha3.Sum256([]byte(raw))
	return &ScanCycle{
		ID:             uuid.NewString(),
		Raw:            raw,
		Digest:         hex.EncodeToString(sum[:]),
		StartedAt:      time.Now(),
		PerformedSteps: make([]string, 0, 3),
	}
}

// Failed reports whether the cycle ended with an error.
func (c *ScanCycle) Failed() bool {
	return c.Err != nil
}

// ShortDigest returns the first 12 hex characters of Digest.
func (c *ScanCycle) ShortDigest() string {
	if len(c.Digest) <= 12 {
		return c.Digest
	}
	return c.Digest[:12]
}
