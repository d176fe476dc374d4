// Package notify delivers the update notification to the desktop, chat
// webhooks, or a user script.
package notify

import (
	"errors"
	"strings"

	"ffupdater/internal/config"
)

// Notification represents a notification to be sent.
type Notification struct {
	Title   string
	Message string
	Sound   bool
}

// Notifier sends notifications.
type Notifier interface {
	Send(n Notification) error
	Name() string
}

// NewDesktopNotifier returns a platform-specific desktop notification sender.
func NewDesktopNotifier() Notifier {
	return newPlatformNotifier()
}

// MultiNotifier fans a notification out to several notifiers in order.
type MultiNotifier struct {
	notifiers []Notifier
}

// NewMultiNotifier creates a MultiNotifier from the given notifiers.
func NewMultiNotifier(ns ...Notifier) *MultiNotifier {
	return &MultiNotifier{notifiers: ns}
}

// FromSettings builds the notifier set described by the settings.
func FromSettings(s config.NotifierSettings) *MultiNotifier {
	var ns []Notifier
	if s.Desktop {
		ns = append(ns, NewDesktopNotifier())
	}
	for _, w := range s.Webhooks {
		ns = append(ns, NewWebhookNotifier(w.URL, w.Format, w.Extra))
	}
	if s.Hook != "" {
		ns = append(ns, NewHookRunner(s.Hook))
	}
	return NewMultiNotifier(ns...)
}

// Len returns the number of wrapped notifiers.
func (m *MultiNotifier) Len() int { return len(m.notifiers) }

// Send dispatches the notification to every notifier and joins their errors.
func (m *MultiNotifier) Send(n Notification) error {
	var errs []error
	for _, notifier := range m.notifiers {
		if err := notifier.Send(n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Name returns the name of this notifier.
func (m *MultiNotifier) Name() string {
	names := make([]string, len(m.notifiers))
	for i, n := range m.notifiers {
		names[i] = n.Name()
	}
	return "multi(" + strings.Join(names, ",") + ")"
}
