// Package notify provides the transient "copied" notifications.
// Desktop uses the beeep library to send notifications on macOS, Linux, and Windows.
package notify

import (
	"github.com/gen2brain/beeep"

	"github.com/kamal-hamza/dgrab/internal/logger"
)

// Desktop sends desktop notifications
type Desktop struct{}

// NewDesktop creates a desktop notifier
func NewDesktop() *Desktop {
	beeep.AppName = "dgrab"
	return &Desktop{}
}

// Notify sends a desktop notification with the given title and message
func (d *Desktop) Notify(title, message string) error {
	log := logger.ComponentLogger("notify")
	log.Debug("Sending notification", "title", title, "message", message)

	// Empty icon: beeep handles platform defaults
	if err := beeep.Notify(title, message, ""); err != nil {
		log.Warn("Failed to send notification", "error", err)
		return err
	}
	return nil
}

// Silent drops every notification; used when notifications are disabled
type Silent struct{}

// Notify does nothing
func (Silent) Notify(title, message string) error {
	return nil
}
