package commands

import (
	"context"
	"fmt"

	"ffupdater/internal/output"
	"ffupdater/internal/ui"
	"ffupdater/internal/version"
)

// RunVersions fetches the version document from url, or the configured
// URL when empty, and prints it.
func RunVersions(ctx context.Context, url string) error {
	if url == "" {
		s, _, err := loadSettings()
		if err != nil {
			return output.Fail(err)
		}
		url = s.VersionURL
	}

	info, err := newFetcher(nil).Fetch(ctx, url)
	if err != nil {
		return output.Fail(fmt.Errorf("fetch versions: %w", err))
	}

	output.Print(info, func() {
		ui.ShowHeader("Firefox for Android")
		ui.ShowField("Release", info.Channel(version.ChannelRelease))
		ui.ShowField("Beta", info.Channel(version.ChannelBeta))
		ui.ShowField("Nightly", info.Channel(version.ChannelNightly))
	})
	return nil
}
