package view

import "github.com/lifetag/tagscan/internal/model"

// Status indicator texts.
const (
	StatusRequestingText = "Requesting camera access..."
	StatusReadyText      = "Point camera at a LifeTag QR Code"
	StatusErrorText      = "Error: Could not access camera. Please grant permission and refresh."
)

// AlertPrefix opens the message shown when a scanned code cannot be used.
const AlertPrefix = "Could not read this QR Code. It might not be a valid LifeTag."

// Requesting is the status while camera access is pending.
func Requesting() model.Status {
	return model.Status{Phase: model.StatusRequesting, Text: StatusRequestingText}
}

// Ready is the status once the camera is listening.
func Ready() model.Status {
	return model.Status{Phase: model.StatusReady, Text: StatusReadyText}
}

// AccessError is the status after camera access failed.
func AccessError() model.Status {
	return model.Status{Phase: model.StatusError, Text: StatusErrorText}
}

// AlertMessage formats the blocking alert for a bad read.
func AlertMessage(err error) string {
	return AlertPrefix + "\n\nError: " + err.Error()
}
