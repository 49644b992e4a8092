// Package scanner owns the QR capture device.
//
// A Camera is the device boundary: Start begins a capture loop that reports
// decoded text through a callback, Stop ends it. Two cameras are provided:
//   - FrameCamera examines frames from a FrameSource at a fixed rate,
//     decoding the centred scan box with gozxing. DirSource feeds it from a
//     directory a capture tool writes snapshots into.
//   - LineCamera reads one decode per line, for keyboard-wedge scanners and
//     piped input.
//
// Control wraps a Camera for the intake: Arm drives the status indicator
// through "requesting", "ready" and "error", and Disarm reports stop
// failures as *StopError so the caller can log and continue.
package scanner
