// Package payload turns decoded LifeTag QR text into a public record.
//
// Tags carry a dict-like string:
//
//	{'public': {'full_name': 'Jane Doe', 'emergency_contact_mobile': '5551234'}, ...}
//
// Normalize swaps single quotes for double quotes and parses the result as
// JSON (ParseError on failure). Validate then requires a "public" object
// (ValidationError otherwise). Both errors are transient: the intake alerts
// the user and re-arms the scanner.
//
// Format produces the same encoding for the encode command and for tests.
package payload
