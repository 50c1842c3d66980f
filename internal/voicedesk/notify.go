package voicedesk

import (
	"github.com/gen2brain/beeep"
)

// Notifier shows desktop notifications
type Notifier interface {
	Notify(title, message string) error
}

// DesktopNotifier sends notifications through the desktop environment
type DesktopNotifier struct {
	AppName string
}

// Notify shows a desktop notification
func (n DesktopNotifier) Notify(title, message string) error {
	if n.AppName != "" {
		title = n.AppName + ": " + title
	}
	return beeep.Notify(title, message, "")
}
