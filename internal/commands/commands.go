package commands

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"ffupdater/internal/config"
	"ffupdater/internal/logger"
	"ffupdater/internal/metrics"
	"ffupdater/internal/notify"
	"ffupdater/internal/version"
)

// Set by the root command before any subcommand runs.
var (
	ConfigPath string
	Logger     = zerolog.Nop()
)

// loadSettings resolves and loads the settings file.
func loadSettings() (*config.Settings, string, error) {
	path := config.ResolvePath(ConfigPath)
	s, err := config.Load(path)
	if err != nil {
		return nil, path, fmt.Errorf("load settings: %w", err)
	}
	return s, path, nil
}

// fetchTimeout bounds one version document request.
const fetchTimeout = 30 * time.Second

func newFetcher(m *metrics.Metrics) *version.Fetcher {
	return version.NewFetcher(
		version.WithHTTPClient(&http.Client{Timeout: fetchTimeout}),
		version.WithUserAgent("ffupdater/"+Version),
		version.WithLogger(logger.Component(Logger, "fetcher")),
		version.WithMetrics(m),
	)
}

// storeNotifier builds the notifier set from the current settings on every
// send, so reloaded notifier settings apply without a restart.
type storeNotifier struct {
	store *config.Store
}

func (n storeNotifier) Send(msg notify.Notification) error {
	return notify.FromSettings(n.store.Get().Notifiers).Send(msg)
}

func (n storeNotifier) Name() string {
	return notify.FromSettings(n.store.Get().Notifiers).Name()
}
