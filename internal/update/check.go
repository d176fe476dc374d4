// Package update decides whether installed browsers are behind the
// published versions.
package update

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/mod/semver"

	"ffupdater/internal/apps"
)

// Checker compares installed apps against the remote versions document.
// Results of the latest check are kept until the next one.
type Checker struct {
	source    VersionSource
	url       string
	inventory Inventory
	log       zerolog.Logger

	mu      sync.Mutex
	results []Result
}

// NewChecker creates a Checker fetching url through source.
func NewChecker(source VersionSource, url string, inventory Inventory, log zerolog.Logger) *Checker {
	return &Checker{
		source:    source,
		url:       url,
		inventory: inventory,
		log:       log,
	}
}

// CheckUpdatesForInstalledApps runs one check for every installed app not in
// excluded. It returns once the check is complete. On failure previous
// results are discarded, so a failed check never reports an update.
func (c *Checker) CheckUpdatesForInstalledApps(ctx context.Context, excluded apps.Set) error {
	installed := make(map[apps.App]string)
	for _, a := range apps.All() {
		if excluded.Contains(a) {
			continue
		}
		if v, ok := c.inventory.InstalledVersion(a); ok {
			installed[a] = v
		}
	}

	if len(installed) == 0 {
		c.log.Debug().Msg("no installed apps to check")
		c.store(nil)
		return nil
	}

	info, err := c.source.Fetch(ctx, c.url)
	if err != nil {
		c.store(nil)
		return fmt.Errorf("check updates: %w", err)
	}

	var results []Result
	for _, a := range apps.All() {
		current, ok := installed[a]
		if !ok {
			continue
		}
		latest := info.Channel(a.Channel())
		r := Result{
			App:       a,
			Installed: current,
			Latest:    latest,
			Available: IsNewerVersion(current, latest),
		}
		c.log.Debug().
			Str("app", string(a)).
			Str("installed", current).
			Str("latest", latest).
			Bool("available", r.Available).
			Msg("app checked")
		results = append(results, r)
	}
	c.store(results)
	return nil
}

// AreUpdatesForInstalledAppsAvailable reports whether the latest check found
// at least one update.
func (c *Checker) AreUpdatesForInstalledAppsAvailable() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range c.results {
		if r.Available {
			return true
		}
	}
	return false
}

// Results returns a copy of the latest check's per-app results.
func (c *Checker) Results() []Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Result, len(c.results))
	copy(out, c.results)
	return out
}

func (c *Checker) store(results []Result) {
	c.mu.Lock()
	c.results = results
	c.mu.Unlock()
}

// IsNewerVersion reports whether latest should replace installed.
// Semver-shaped versions ("68.0", "v68.0.1") are ordered; anything else,
// such as "70.0a1", counts as newer whenever it differs. An empty latest
// is never newer, an empty installed version is always outdated.
func IsNewerVersion(installed, latest string) bool {
	if latest == "" {
		return false
	}
	if installed == "" {
		return true
	}

	cur, avail := canonical(installed), canonical(latest)
	if semver.IsValid(cur) && semver.IsValid(avail) {
		return semver.Compare(avail, cur) > 0
	}
	return strings.TrimSpace(installed) != strings.TrimSpace(latest)
}

func canonical(v string) string {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}
