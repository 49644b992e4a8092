package payload

import (
	"fmt"
	"strings"

	"github.com/lifetag/tagscan/internal/model"
)

// Format encodes public fields as a LifeTag dict-like string, the inverse
// of Normalize:
//
//	{'public': {'full_name': 'Jane Doe', 'emergency_contact_mobile': '5551234'}}
//
// Fields are written in model.PublicFields order and empty values are
// omitted. Unknown keys in fields are ignored. Values containing a single
// or double quote are rejected with ErrUnencodableValue because they cannot
// survive the quote substitution.
func Format(fields map[string]string) (string, error) {
	var sb strings.Builder
	sb.WriteString("{'public': {")

	first := true
	for _, key := range model.PublicFields {
		value := fields[key]
		if value == "" {
			continue
		}
		if strings.ContainsAny(value, `'"`) {
			return "", fmt.Errorf("%s: %w", key, ErrUnencodableValue)
		}

		if !first {
			sb.WriteString(", ")
		}
		first = false

		sb.WriteString("'")
		sb.WriteString(key)
		sb.WriteString("': '")
		sb.WriteString(escape(value))
		sb.WriteString("'")
	}

	sb.WriteString("}}")
	return sb.String(), nil
}

// escape applies the backslash escapes that also mean the same thing in JSON.
func escape(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		"\n", `\n`,
		"\r", `\r`,
		"\t", `\t`,
	)
	return r.Replace(s)
}
