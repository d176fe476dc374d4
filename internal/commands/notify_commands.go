package commands

import (
	"errors"
	"fmt"

	"ffupdater/internal/notify"
	"ffupdater/internal/output"
	"ffupdater/internal/ui"
)

var errNoNotifiers = errors.New("no notifiers configured")

type notifierEntry struct {
	Kind   string `json:"kind"`
	Target string `json:"target,omitempty"`
	Format string `json:"format,omitempty"`
}

// RunNotifyList lists the configured notifiers.
func RunNotifyList() error {
	s, _, err := loadSettings()
	if err != nil {
		return output.Fail(err)
	}

	var entries []notifierEntry
	if s.Notifiers.Desktop {
		entries = append(entries, notifierEntry{Kind: "desktop"})
	}
	for _, w := range s.Notifiers.Webhooks {
		target := w.URL
		if w.Name != "" {
			target = w.Name
		}
		format := w.Format
		if format == "" {
			format = "slack"
		}
		entries = append(entries, notifierEntry{Kind: "webhook", Target: target, Format: format})
	}
	if s.Notifiers.Hook != "" {
		entries = append(entries, notifierEntry{Kind: "hook", Target: s.Notifiers.Hook})
	}

	output.Print(entries, func() {
		if len(entries) == 0 {
			ui.ShowInfo("No notifiers configured")
			return
		}
		ui.ShowHeader("Notifiers")
		for _, e := range entries {
			line := e.Kind
			if e.Target != "" {
				line = fmt.Sprintf("%s  %s", line, e.Target)
			}
			if e.Format != "" {
				line = fmt.Sprintf("%s (%s)", line, e.Format)
			}
			fmt.Fprintf(ui.Out, "  %s\n", line)
		}
	})
	return nil
}

// RunNotifyTest sends the update notification to every configured notifier.
func RunNotifyTest() error {
	s, _, err := loadSettings()
	if err != nil {
		return output.Fail(err)
	}

	n := notify.FromSettings(s.Notifiers)
	if n.Len() == 0 {
		return output.Fail(errNoNotifiers)
	}
	if err := n.Send(notify.UpdateNotification(s.Language)); err != nil {
		return output.Fail(fmt.Errorf("send test notification: %w", err))
	}

	output.Print(map[string]any{"sent": n.Len()}, func() {
		ui.ShowSuccess("Test notification sent to %s", n.Name())
	})
	return nil
}
