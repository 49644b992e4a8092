package model

import "time"

// Record is the output form of one finished scan cycle.
// It holds what the result view shows, never the raw payload.
type Record struct {
	// ID is the scan cycle ID. Empty for records built from a view alone.
	ID string `json:"id,omitempty"`

	// Digest is the hex SHA3-256 of the raw text.
	Digest string `json:"digest,omitempty"`

	// ScannedAt is when the decode was received.
	ScannedAt time.Time `json:"scanned_at,omitzero"`

	// Read is true when the tag passed validation.
	Read bool `json:"read"`

	// Error is the reason the tag could not be read.
	Error string `json:"error,omitempty"`

	// Fields are the displayed text slots, in display order.
	Fields []FieldSlot `json:"fields,omitempty"`

	// Call is the call action.
	Call CallAction `json:"call"`
}

// NewRecord builds a record from a finished cycle.
func NewRecord(cycle *ScanCycle) Record {
	r := Record{
		ID:        cycle.ID,
		Digest:    cycle.Digest,
		ScannedAt: cycle.StartedAt,
		Read:      !cycle.Failed() && cycle.View != nil,
		Error:     cycle.ErrorMessage,
	}
	if r.Error == "" && cycle.Err != nil {
		r.Error = cycle.Err.Error()
	}
	if cycle.View != nil {
		r.Fields = cycle.View.Fields
		r.Call = cycle.View.Call
	}
	return r
}

// NewViewRecord builds a record from a result view.
func NewViewRecord(state ViewState) Record {
	return Record{
		Read:   state.ResultVisible,
		Fields: state.Fields,
		Call:   state.Call,
	}
}

// Summary collects the records of several cycles, e.g. a batch decode.
type Summary struct {
	Total           int      `json:"total"`
	ReadCount       int      `json:"read_count"`
	UnreadableCount int      `json:"unreadable_count"`
	Records         []Record `json:"records"`
}

// NewSummary builds a summary in cycle order. Nil cycles, left by a
// cancelled batch, are skipped.
func NewSummary(cycles []*ScanCycle) *Summary {
	s := &Summary{Records: make([]Record, 0, len(cycles))}
	for _, c := range cycles {
		if c == nil {
			continue
		}
		r := NewRecord(c)
		s.Records = append(s.Records, r)
		if r.Read {
			s.ReadCount++
		} else {
			s.UnreadableCount++
		}
	}
	s.Total = len(s.Records)
	return s
}

// HasFailures reports whether any record could not be read.
func (s *Summary) HasFailures() bool {
	return s.UnreadableCount > 0
}
