// Package apps lists the browser builds whose versions are tracked.
package apps

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"ffupdater/internal/version"
)

// ErrUnknownApp is returned by Parse for names outside the catalog.
var ErrUnknownApp = errors.New("unknown app")

// App identifies one tracked browser build.
type App string

const (
	FennecRelease App = "fennec_release"
	FennecBeta    App = "fennec_beta"
	FennecNightly App = "fennec_nightly"
)

type detail struct {
	title   string
	channel version.Channel
}

var catalog = map[App]detail{
	FennecRelease: {title: "Firefox", channel: version.ChannelRelease},
	FennecBeta:    {title: "Firefox Beta", channel: version.ChannelBeta},
	FennecNightly: {title: "Firefox Nightly", channel: version.ChannelNightly},
}

// All returns every known app in a stable order.
func All() []App {
	return []App{FennecRelease, FennecBeta, FennecNightly}
}

// Parse resolves a name, ignoring case and surrounding whitespace.
func Parse(name string) (App, error) {
	a := App(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := catalog[a]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownApp, name)
	}
	return a, nil
}

// Title returns the display title.
func (a App) Title() string {
	if d, ok := catalog[a]; ok {
		return d.title
	}
	return string(a)
}

// Channel returns the release train the app follows.
func (a App) Channel() version.Channel {
	return catalog[a].channel
}

// Set is an unordered collection of apps.
type Set map[App]struct{}

// NewSet builds a Set from apps.
func NewSet(as ...App) Set {
	s := make(Set, len(as))
	for _, a := range as {
		s[a] = struct{}{}
	}
	return s
}

// ParseSet resolves names into a Set, failing on the first unknown name.
func ParseSet(names []string) (Set, error) {
	s := make(Set, len(names))
	for _, n := range names {
		a, err := Parse(n)
		if err != nil {
			return nil, err
		}
		s[a] = struct{}{}
	}
	return s, nil
}

// Contains reports whether a is in the set. A nil Set contains nothing.
func (s Set) Contains(a App) bool {
	_, ok := s[a]
	return ok
}

// Sorted returns the members in lexical order.
func (s Set) Sorted() []App {
	out := make([]App, 0, len(s))
	for a := range s {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
