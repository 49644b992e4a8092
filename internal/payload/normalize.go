package payload

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/lifetag/tagscan/internal/model"
)

// Normalize converts decoded scan text into a payload.
//
// LifeTag codes carry a dict-like string that uses single quotes where JSON
// uses double quotes. Every single quote is replaced with a double quote
// and the result is parsed as JSON.
//
// Known limitation: the substitution is blind. A value containing an
// apostrophe (O'Brien) or a double quote breaks or silently changes the
// parse. This matches what deployed readers do with existing tags and is
// kept as is.
func Normalize(raw string) (model.Payload, error) {
	text := strings.ReplaceAll(raw, "'", `"`)
	if strings.TrimSpace(text) == "" {
		return model.Payload{}, &ParseError{Err: ErrEmptyPayload}
	}

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			err = ErrEmptyPayload
		}
		return model.Payload{}, &ParseError{Err: err}
	}

	// JSON.parse semantics: one value, nothing after it
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return model.Payload{}, &ParseError{Err: ErrTrailingData}
	}

	root, err := model.FromAny(doc)
	if err != nil {
		return model.Payload{}, &ParseError{Err: err}
	}
	return model.NewPayload(root), nil
}
