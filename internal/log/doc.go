// Package log provides slog loggers that mask the personal data a LifeTag
// carries.
//
// SecureHandler wraps any slog.Handler and replaces with MaskValue:
//   - attributes named after record fields (full_name, address,
//     emergency_contact_*) or raw decoded text (payload, raw, line)
//   - string values holding a tel: link or a raw payload
//   - string values that look like phone numbers
//
// Masking applies at every level, so verbose logs can be shared safely.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Debug("decoded", "payload", text) // payload=***REDACTED***
package log
