package view

import (
	"strings"

	"github.com/lifetag/tagscan/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultPlaceholder is shown for fields the payload does not set.
const DefaultPlaceholder = "N/A"

// TelScheme prefixes the emergency contact number in the call action.
const TelScheme = "tel:"

// Renderer projects a public record onto the result view.
type Renderer struct {
	placeholder string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithPlaceholder sets the text shown for missing fields.
// An empty placeholder keeps the default.
func WithPlaceholder(placeholder string) Option {
	return func(r *Renderer) {
		if placeholder != "" {
			r.placeholder = placeholder
		}
	}
}

// NewRenderer creates a Renderer.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{placeholder: DefaultPlaceholder}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Placeholder returns the text used for missing fields.
func (r *Renderer) Placeholder() string {
	return r.placeholder
}

// Render builds the result view for a record.
// Every display field gets a slot; unset fields show the placeholder.
// The call action is visible only when the mobile number is set, and its
// target is the number exactly as stored, prefixed with "tel:".
func (r *Renderer) Render(record model.PublicRecord) model.ViewState {
	fields := make([]model.FieldSlot, 0, len(model.DisplayFields))
	for _, key := range model.DisplayFields {
		slot := model.FieldSlot{Key: key, Label: Label(key)}
		if value, ok := record.Lookup(key); ok {
			slot.Value = value
		} else {
			slot.Value = r.placeholder
			slot.Missing = true
		}
		fields = append(fields, slot)
	}

	var call model.CallAction
	if mobile, ok := record.EmergencyContactMobile(); ok {
		call = model.CallAction{Visible: true, Href: TelScheme + mobile}
	}

	return model.ViewState{
		ScanningVisible: false,
		ResultVisible:   true,
		Fields:          fields,
		Call:            call,
	}
}

// Scanning returns the scanner view with the given status.
// The result container is hidden and holds no data.
func Scanning(status model.Status) model.ViewState {
	return model.ViewState{
		ScanningVisible: true,
		ResultVisible:   false,
		Status:          status,
	}
}

// Label turns a payload field name into a caption,
// e.g. "emergency_contact_name" becomes "Emergency Contact Name".
func Label(key string) string {
	// Casers keep state, so each call gets its own.
	return cases.Title(language.English).String(strings.ReplaceAll(key, "_", " "))
}
