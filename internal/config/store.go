package config

import (
	"sync/atomic"

	"ffupdater/internal/apps"
)

// Store holds the current settings and lets a reload swap them while
// readers are running.
type Store struct {
	cur atomic.Pointer[Settings]
}

// NewStore returns a Store holding s.
func NewStore(s *Settings) *Store {
	st := &Store{}
	st.Set(s)
	return st
}

// Get returns the current settings.
func (st *Store) Get() *Settings { return st.cur.Load() }

// Set replaces the current settings. A nil s resets to defaults.
func (st *Store) Set(s *Settings) {
	if s == nil {
		s = Default()
	}
	st.cur.Store(s)
}

// DisabledApps returns the excluded apps of the current settings.
func (st *Store) DisabledApps() apps.Set { return st.Get().DisabledApps() }

// InstalledVersion reports the configured version of an installed app.
func (st *Store) InstalledVersion(a apps.App) (string, bool) {
	v, ok := st.Get().InstalledVersions()[a]
	return v, ok
}
