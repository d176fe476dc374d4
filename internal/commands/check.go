package commands

import (
	"context"
	"fmt"

	"ffupdater/internal/config"
	"ffupdater/internal/logger"
	"ffupdater/internal/notify"
	"ffupdater/internal/output"
	"ffupdater/internal/ui"
	"ffupdater/internal/update"
)

// checkReport is the JSON shape of `ffupdater check`.
type checkReport struct {
	UpdatesAvailable bool            `json:"updates_available"`
	Results          []update.Result `json:"results"`
	Notified         bool            `json:"notified"`
}

// RunCheck runs one update check and optionally notifies.
func RunCheck(ctx context.Context, sendNotification bool) error {
	s, path, err := loadSettings()
	if err != nil {
		return output.Fail(err)
	}

	checker := update.NewChecker(newFetcher(nil), s.VersionURL, config.NewStore(s), logger.Component(Logger, "checker"))
	if err := checker.CheckUpdatesForInstalledApps(ctx, s.DisabledApps()); err != nil {
		return output.Fail(fmt.Errorf("update check: %w", err))
	}

	report := checkReport{
		UpdatesAvailable: checker.AreUpdatesForInstalledAppsAvailable(),
		Results:          checker.Results(),
	}

	var notifyErr error
	if report.UpdatesAvailable && sendNotification {
		n := notify.FromSettings(s.Notifiers)
		if n.Len() == 0 {
			notifyErr = fmt.Errorf("no notifiers configured")
		} else {
			notifyErr = n.Send(notify.UpdateNotification(s.Language))
		}
		report.Notified = notifyErr == nil
	}

	output.Print(report, func() {
		ui.ShowHeader("Update check")
		if len(report.Results) == 0 {
			ui.ShowInfo("No installed apps to check; list them under 'installed' in %s", path)
			return
		}
		for _, r := range report.Results {
			ui.ShowAppStatus(r.App.Title(), r.Installed, r.Latest, r.Available)
		}
		fmt.Fprintln(ui.Out)
		if report.UpdatesAvailable {
			ui.ShowWarning("Updates are available")
		} else {
			ui.ShowSuccess("All apps are up to date")
		}
		if report.Notified {
			ui.ShowSuccess("Notification sent")
		}
		if notifyErr != nil {
			ui.ShowError("Notification failed", notifyErr)
		}
	})
	return nil
}
