// Package model defines the data structures shared by the scan intake.
//
// This package contains the following main types:
//   - Value: a JSON value as a tagged union, with explicit accessors
//   - Payload: a normalized scan payload (one scan cycle only)
//   - PublicRecord: the "public" section of a LifeTag payload
//   - ViewState: the screen content handed to presenters
//   - ScanCycle: the per-decode record flowing through the pipeline
//   - State: the intake state machine position
//
// None of these types are persisted. A scan cycle's data is discarded as
// soon as the result is shown or the scanner is re-armed.
package model
