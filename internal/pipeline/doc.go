// Package pipeline runs decoded QR text through the intake steps and
// drives the scan session.
//
// A Pipeline executes Steps in order over a model.ScanCycle: normalize,
// validate, render. Intake is the state machine around it. It arms the
// scanner, takes one decode, disarms, runs the pipeline, and then either
// shows the result or alerts and re-arms.
//
// BatchProcessor runs many cycles concurrently for offline decoding.
package pipeline
