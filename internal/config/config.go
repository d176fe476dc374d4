// Package config loads the user settings that drive background checks.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"ffupdater/internal/apps"
	"ffupdater/internal/version"
)

// ErrInvalidSettings wraps every validation failure.
var ErrInvalidSettings = errors.New("invalid settings")

const (
	DefaultCheckIntervalMinutes = 360
	DefaultMinIntervalMinutes   = 15
	fileName                    = "config.yaml"
	localFileName               = "ffupdater.yaml"
)

// ScheduleConfig describes the recurring update check.
type ScheduleConfig struct {
	Enabled         bool `json:"enabled"`
	IntervalMinutes int  `json:"interval_minutes"`
}

// Settings is the on-disk configuration.
type Settings struct {
	AutomaticCheck       bool              `yaml:"automatic_check" toml:"automatic_check" json:"automatic_check"`
	CheckIntervalMinutes int               `yaml:"check_interval_minutes" toml:"check_interval_minutes" json:"check_interval_minutes"`
	MinIntervalMinutes   int               `yaml:"min_interval_minutes" toml:"min_interval_minutes" json:"min_interval_minutes"`
	Disabled             []string          `yaml:"disabled_apps,omitempty" toml:"disabled_apps,omitempty" json:"disabled_apps,omitempty"`
	Installed            map[string]string `yaml:"installed,omitempty" toml:"installed,omitempty" json:"installed,omitempty"` // app -> installed version
	VersionURL           string            `yaml:"version_url" toml:"version_url" json:"version_url"`
	Language             string            `yaml:"language,omitempty" toml:"language,omitempty" json:"language,omitempty"`
	LogLevel             string            `yaml:"log_level,omitempty" toml:"log_level,omitempty" json:"log_level,omitempty"`
	MetricsAddr          string            `yaml:"metrics_addr,omitempty" toml:"metrics_addr,omitempty" json:"metrics_addr,omitempty"`
	Notifiers            NotifierSettings  `yaml:"notifiers" toml:"notifiers" json:"notifiers"`
}

// NotifierSettings selects where update notifications go.
type NotifierSettings struct {
	Desktop  bool            `yaml:"desktop" toml:"desktop" json:"desktop"`
	Webhooks []WebhookConfig `yaml:"webhooks,omitempty" toml:"webhooks,omitempty" json:"webhooks,omitempty"`
	Hook     string          `yaml:"hook,omitempty" toml:"hook,omitempty" json:"hook,omitempty"` // script receiving a JSON payload
}

// WebhookConfig is one webhook endpoint.
type WebhookConfig struct {
	Name   string            `yaml:"name,omitempty" toml:"name,omitempty" json:"name,omitempty"`
	URL    string            `yaml:"url" toml:"url" json:"url"`
	Format string            `yaml:"format,omitempty" toml:"format,omitempty" json:"format,omitempty"` // slack, feishu, dingtalk, telegram, custom
	Extra  map[string]string `yaml:"extra,omitempty" toml:"extra,omitempty" json:"extra,omitempty"`
}

var webhookFormats = map[string]bool{
	"":         true,
	"slack":    true,
	"feishu":   true,
	"dingtalk": true,
	"telegram": true,
	"custom":   true,
}

// Default returns the settings used when no file exists.
func Default() *Settings {
	return &Settings{
		AutomaticCheck:       true,
		CheckIntervalMinutes: DefaultCheckIntervalMinutes,
		MinIntervalMinutes:   DefaultMinIntervalMinutes,
		VersionURL:           version.DefaultURL,
		Language:             "en",
		LogLevel:             "info",
		Notifiers:            NotifierSettings{Desktop: true},
	}
}

// ResolvePath picks the settings file: the explicit path if given, then
// ./ffupdater.yaml, then ~/.ffupdater/config.yaml.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if pwd, err := os.Getwd(); err == nil {
		local := filepath.Join(pwd, localFileName)
		if _, err := os.Stat(local); err == nil {
			return local
		}
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".ffupdater", fileName)
}

// Load reads settings from path on top of Default. A missing file yields
// the defaults.
func Load(path string) (*Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	if isTOML(path) {
		err = toml.Unmarshal(data, s)
	} else {
		err = yaml.Unmarshal(data, s)
	}
	if err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", path, err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Save writes settings to path atomically, creating the directory.
func Save(path string, s *Settings) error {
	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		data, err = toml.Marshal(s)
	} else {
		data, err = yaml.Marshal(s)
	}
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename settings: %w", err)
	}
	return nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Validate checks field ranges and app names.
func (s *Settings) Validate() error {
	if s.AutomaticCheck && s.CheckIntervalMinutes <= 0 {
		return fmt.Errorf("%w: check_interval_minutes must be positive, got %d", ErrInvalidSettings, s.CheckIntervalMinutes)
	}
	if s.MinIntervalMinutes <= 0 {
		return fmt.Errorf("%w: min_interval_minutes must be positive, got %d", ErrInvalidSettings, s.MinIntervalMinutes)
	}
	if _, err := apps.ParseSet(s.Disabled); err != nil {
		return fmt.Errorf("%w: disabled_apps: %v", ErrInvalidSettings, err)
	}
	for name := range s.Installed {
		if _, err := apps.Parse(name); err != nil {
			return fmt.Errorf("%w: installed: %v", ErrInvalidSettings, err)
		}
	}
	if err := validateURL(s.VersionURL); err != nil {
		return fmt.Errorf("%w: version_url: %v", ErrInvalidSettings, err)
	}
	for i, w := range s.Notifiers.Webhooks {
		if err := validateURL(w.URL); err != nil {
			return fmt.Errorf("%w: webhooks[%d]: %v", ErrInvalidSettings, i, err)
		}
		if !webhookFormats[w.Format] {
			return fmt.Errorf("%w: webhooks[%d]: unknown format %q", ErrInvalidSettings, i, w.Format)
		}
	}
	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("must start with http:// or https://, got %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", raw)
	}
	return nil
}

// ScheduleConfig returns the recurring check configuration.
func (s *Settings) ScheduleConfig() ScheduleConfig {
	return ScheduleConfig{
		Enabled:         s.AutomaticCheck,
		IntervalMinutes: s.CheckIntervalMinutes,
	}
}

// DisabledApps returns the apps excluded from checks. Unknown names are
// skipped; Validate reports them.
func (s *Settings) DisabledApps() apps.Set {
	set := make(apps.Set, len(s.Disabled))
	for _, name := range s.Disabled {
		if a, err := apps.Parse(name); err == nil {
			set[a] = struct{}{}
		}
	}
	return set
}

// InstalledVersions returns the installed version of each listed app.
func (s *Settings) InstalledVersions() map[apps.App]string {
	out := make(map[apps.App]string, len(s.Installed))
	for name, v := range s.Installed {
		if a, err := apps.Parse(name); err == nil {
			out[a] = v
		}
	}
	return out
}

// String renders the settings as indented JSON.
func (s *Settings) String() string {
	data, _ := json.MarshalIndent(s, "", "  ")
	return string(data)
}
