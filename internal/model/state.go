package model

// State is the intake state machine position.
//
//	Idle -> Scanning -> Processing -> ShowingResult -> (rescan) Scanning
//	                              \-> Recovering -> Scanning
//
// Halted and Stopped are terminal.
type State int

const (
	// StateIdle is the state before the first arm.
	StateIdle State = iota

	// StateScanning means the camera is armed and waiting for a decode.
	StateScanning

	// StateProcessing means a decode is being normalized and validated.
	StateProcessing

	// StateShowingResult means a result is displayed until rescan.
	StateShowingResult

	// StateRecovering means a bad read is being reported before re-arming.
	StateRecovering

	// StateHalted means camera access failed. The user has to grant
	// permission and restart.
	StateHalted

	// StateStopped means the intake loop exited.
	StateStopped
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScanning:
		return "scanning"
	case StateProcessing:
		return "processing"
	case StateShowingResult:
		return "showing_result"
	case StateRecovering:
		return "recovering"
	case StateHalted:
		return "halted"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
