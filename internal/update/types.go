package update

import (
	"context"

	"ffupdater/internal/apps"
	"ffupdater/internal/version"
)

// VersionSource fetches the published versions document.
type VersionSource interface {
	Fetch(ctx context.Context, url string) (version.Info, error)
}

// Inventory reports which tracked apps are installed, and at which version.
type Inventory interface {
	InstalledVersion(a apps.App) (string, bool)
}

// StaticInventory is an Inventory backed by a fixed map.
type StaticInventory map[apps.App]string

// InstalledVersion implements Inventory.
func (s StaticInventory) InstalledVersion(a apps.App) (string, bool) {
	v, ok := s[a]
	return v, ok
}

// Result describes the outcome of one app's check.
type Result struct {
	App       apps.App `json:"app"`
	Installed string   `json:"installed"`
	Latest    string   `json:"latest"`
	Available bool     `json:"available"`
}
