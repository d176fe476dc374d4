package commands

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"ffupdater/internal/config"
	"ffupdater/internal/device"
	"ffupdater/internal/httpserver"
	"ffupdater/internal/logger"
	"ffupdater/internal/metrics"
	"ffupdater/internal/notify"
	"ffupdater/internal/output"
	"ffupdater/internal/scheduler"
	"ffupdater/internal/ui"
	"ffupdater/internal/update"
)

// RunDaemon is the single entry point for `ffupdater run`.
//
// It schedules the update check from the settings, serves metrics when
// metrics_addr is set, and reapplies the schedule whenever the settings
// file changes. It returns when interrupted.
func RunDaemon(parent context.Context, now bool) error {
	ctx, cancel := signalContext(parent)
	defer cancel()

	s, path, err := loadSettings()
	if err != nil {
		return output.Fail(err)
	}
	store := config.NewStore(s)
	m := metrics.New()
	log := logger.Component(Logger, "daemon")

	// ── Trigger ──────────────────────────────────────────────────────────────
	trigger := scheduler.NewCronTrigger(
		scheduler.WithMinInterval(time.Duration(s.MinIntervalMinutes)*time.Minute),
		scheduler.WithTriggerLogger(logger.Component(Logger, "trigger")),
		scheduler.WithTriggerMetrics(m),
	)
	trigger.Start()
	defer trigger.Stop()

	// ── Update scheduler ─────────────────────────────────────────────────────
	checker := update.NewChecker(newFetcher(m), s.VersionURL, store, logger.Component(Logger, "checker"))
	sched := scheduler.New(trigger, store, checker, storeNotifier{store: store},
		scheduler.WithPreconditions(device.NewNetwork(), device.NewBattery()),
		scheduler.WithNotification(notify.UpdateNotification(s.Language)),
		scheduler.WithLogger(logger.Component(Logger, "scheduler")),
		scheduler.WithMetrics(m),
	)
	if err := sched.Configure(s.ScheduleConfig()); err != nil {
		return output.Fail(err)
	}

	// ── Metrics server (goroutine) ───────────────────────────────────────────
	if s.MetricsAddr != "" {
		srv := httpserver.NewHTTPServer(Version, sched.State, m, logger.Component(Logger, "http"))
		go func() {
			if err := srv.ListenAndServe(ctx, s.MetricsAddr); err != nil {
				log.Error().Err(err).Str("addr", s.MetricsAddr).Msg("metrics server failed")
			}
		}()
	}

	// ── Settings reload (goroutine) ──────────────────────────────────────────
	go func() {
		err := config.Watch(ctx, path, logger.Component(Logger, "config"), func(next *config.Settings) {
			applySettings(store, sched, next, log)
		})
		if err != nil {
			log.Warn().Err(err).Msg("settings watcher stopped, changes need a restart")
		}
	}()

	if now {
		runNow(ctx, sched, log)
	}

	st := sched.State()
	output.Print(map[string]any{
		"state":    st.Kind.String(),
		"interval": st.Interval.String(),
		"config":   path,
	}, func() {
		if st.Kind == scheduler.Registered {
			ui.ShowSuccess("Checking for updates every %s", st.Interval)
		} else {
			ui.ShowInfo("Automatic update check is disabled in %s", path)
		}
		ui.ShowInfo("Press Ctrl+C to stop")
	})

	<-ctx.Done()
	log.Info().Msg("shutting down")
	return nil
}

// applySettings swaps in reloaded settings and reconfigures the job only
// when the schedule itself changed.
func applySettings(store *config.Store, sched *scheduler.UpdateScheduler, next *config.Settings, log zerolog.Logger) {
	prev := store.Get()
	store.Set(next)

	if next.ScheduleConfig() != prev.ScheduleConfig() {
		if err := sched.Configure(next.ScheduleConfig()); err != nil {
			log.Warn().Err(err).Msg("reconfigure failed, keeping previous schedule")
		}
	}
	if next.VersionURL != prev.VersionURL || next.Language != prev.Language || next.MinIntervalMinutes != prev.MinIntervalMinutes {
		log.Warn().Msg("version_url, language and min_interval_minutes changes apply after a restart")
	}
}

// runNow fires one check immediately. With the job disabled the check runs
// directly, without preconditions.
func runNow(ctx context.Context, sched *scheduler.UpdateScheduler, log zerolog.Logger) {
	err := sched.RunNow(ctx)
	switch {
	case errors.Is(err, scheduler.ErrJobNotFound):
		_ = sched.OnTrigger(ctx)
	case err != nil:
		log.Info().Err(err).Msg("immediate check skipped")
	}
}
