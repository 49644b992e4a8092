package payload

import "github.com/lifetag/tagscan/internal/model"

// Validate returns the public record of a payload.
// The "public" key must be present, set (not null, false, 0 or "") and hold
// an object. Anything else is a ValidationError, even though the payload
// itself parsed.
func Validate(p model.Payload) (model.PublicRecord, error) {
	public, ok := p.Lookup(model.PublicKey)
	if !ok || !public.Truthy() {
		return model.PublicRecord{}, &ValidationError{Err: ErrMissingPublic}
	}

	fields, ok := public.AsObject()
	if !ok {
		return model.PublicRecord{}, &ValidationError{Err: ErrPublicNotObject}
	}
	return model.NewPublicRecord(fields), nil
}

// Parse runs Normalize and Validate.
func Parse(raw string) (model.PublicRecord, error) {
	p, err := Normalize(raw)
	if err != nil {
		return model.PublicRecord{}, err
	}
	return Validate(p)
}
