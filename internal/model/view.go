package model

// StatusPhase is the phase shown by the scanner status indicator.
type StatusPhase int

const (
	// StatusIdle means the scanner has not been armed yet.
	StatusIdle StatusPhase = iota

	// StatusRequesting means camera access has been requested.
	StatusRequesting

	// StatusReady means the camera is running and listening for codes.
	StatusReady

	// StatusError means camera access was denied or is unavailable.
	StatusError
)

// String returns a short name for the phase.
func (p StatusPhase) String() string {
	switch p {
	case StatusIdle:
		return "idle"
	case StatusRequesting:
		return "requesting"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p StatusPhase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Status is the content of the status indicator.
type Status struct {
	Phase StatusPhase `json:"phase"`
	Text  string      `json:"text"`
}

// FieldSlot is one read-only text slot of the result view.
type FieldSlot struct {
	// Key is the payload field name, e.g. "full_name".
	Key string `json:"key"`

	// Label is the human-readable caption.
	Label string `json:"label"`

	// Value is the text shown, the placeholder when Missing is true.
	Value string `json:"value"`

	// Missing is true when the payload did not set the field.
	Missing bool `json:"missing"`
}

// CallAction is the conditional "call emergency contact" control.
type CallAction struct {
	Visible bool   `json:"visible"`
	Href    string `json:"href,omitempty"`
}

// ViewState is everything a presenter needs to draw the screen.
// It is passed by value; presenters never share it with the intake loop.
type ViewState struct {
	// ScanningVisible shows the scanner container.
	ScanningVisible bool `json:"scanning_visible"`

	// ResultVisible shows the result container.
	ResultVisible bool `json:"result_visible"`

	// Status is the status indicator text.
	Status Status `json:"status"`

	// Fields holds the text slots in display order.
	// It is empty while scanning.
	Fields []FieldSlot `json:"fields,omitempty"`

	// Call is the call action.
	Call CallAction `json:"call"`
}

// Field returns the slot for a payload field name.
func (v ViewState) Field(key string) (FieldSlot, bool) {
	for _, f := range v.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return FieldSlot{}, false
}
