// Package tui is the terminal presenter of a scan session, built on
// Bubble Tea.
//
// The screen shows either the scanner status with a spinner or the
// result fields with the call action. Bad reads open an alert that blocks
// the session until a key is pressed. "r" or enter rescans from the
// result view and "q" quits.
package tui
