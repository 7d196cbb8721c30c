package monitor

import "github.com/gen2brain/beeep"

// DesktopNotifier sends notifications through the platform notification
// service.
type DesktopNotifier struct{}

func (DesktopNotifier) Notify(title, body string) error {
	return beeep.Notify(title, body, "")
}
