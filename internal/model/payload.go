package model

// Field names expected inside the public section of a LifeTag payload.
const (
	FieldFullName                 = "full_name"
	FieldAddress                  = "address"
	FieldEmergencyContactName     = "emergency_contact_name"
	FieldEmergencyContactRelation = "emergency_contact_relation"
	FieldEmergencyContactAddress  = "emergency_contact_address"
	FieldEmergencyContactMobile   = "emergency_contact_mobile"
)

// PublicKey is the top-level key holding the public record.
const PublicKey = "public"

// DisplayFields lists the public fields shown as text slots, in display order.
// The mobile number is not a text slot; it only drives the call action.
var DisplayFields = []string{
	FieldFullName,
	FieldAddress,
	FieldEmergencyContactName,
	FieldEmergencyContactRelation,
	FieldEmergencyContactAddress,
}

// PublicFields lists every field a public record may carry.
var PublicFields = append(append([]string(nil), DisplayFields...), FieldEmergencyContactMobile)

// Payload is a successfully parsed scan payload.
// It lives for one scan cycle only.
type Payload struct {
	root Value
}

// NewPayload wraps a parsed JSON document.
func NewPayload(root Value) Payload {
	return Payload{root: root}
}

// Root returns the parsed document.
func (p Payload) Root() Value {
	return p.root
}

// Lookup returns a top-level field.
// Documents whose top level is not an object have no fields.
func (p Payload) Lookup(key string) (Value, bool) {
	return p.root.Lookup(key)
}

// PublicRecord is the object found under the "public" key.
// Every field is optional.
type PublicRecord struct {
	fields map[string]Value
}

// NewPublicRecord wraps the fields of a public section.
func NewPublicRecord(fields map[string]Value) PublicRecord {
	if fields == nil {
		fields = make(map[string]Value)
	}
	return PublicRecord{fields: fields}
}

// Lookup returns the display text of a field and whether it is set.
// Missing, null, false, zero and empty values are all reported as unset.
func (r PublicRecord) Lookup(field string) (string, bool) {
	v, ok := r.fields[field]
	if !ok || !v.Truthy() {
		return "", false
	}
	return v.Display(), true
}

// FullName returns the full_name field.
func (r PublicRecord) FullName() (string, bool) {
	return r.Lookup(FieldFullName)
}

// EmergencyContactMobile returns the emergency_contact_mobile field.
func (r PublicRecord) EmergencyContactMobile() (string, bool) {
	return r.Lookup(FieldEmergencyContactMobile)
}

// Len returns the number of fields present in the record, set or not.
func (r PublicRecord) Len() int {
	return len(r.fields)
}
