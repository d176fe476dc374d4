// Package scheduler owns the recurring update check: it registers the job
// with a periodic trigger and, on each firing, checks for updates and
// notifies the user.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"ffupdater/internal/apps"
	"ffupdater/internal/config"
	"ffupdater/internal/metrics"
	"ffupdater/internal/notify"
)

// JobName identifies the update check job in the trigger.
const JobName = "update_checker"

// Checker decides whether installed apps have updates.
type Checker interface {
	CheckUpdatesForInstalledApps(ctx context.Context, excluded apps.Set) error
	AreUpdatesForInstalledAppsAvailable() bool
}

// Settings supplies the apps excluded from checks at firing time.
type Settings interface {
	DisabledApps() apps.Set
}

// StateKind is the registration state of the update check job.
type StateKind int

const (
	Unregistered StateKind = iota
	Registered
)

func (k StateKind) String() string {
	if k == Registered {
		return "registered"
	}
	return "unregistered"
}

// State is a snapshot of the job registration.
type State struct {
	Kind     StateKind
	Interval time.Duration
	Next     time.Time
}

// UpdateScheduler registers the update check job and runs it.
type UpdateScheduler struct {
	trigger       Trigger
	settings      Settings
	checker       Checker
	notifier      notify.Notifier
	notification  notify.Notification
	preconditions []Precondition
	log           zerolog.Logger
	metrics       *metrics.Metrics
}

// Option configures an UpdateScheduler.
type Option func(*UpdateScheduler)

// WithPreconditions sets the conditions checked before every firing.
func WithPreconditions(pre ...Precondition) Option {
	return func(s *UpdateScheduler) { s.preconditions = pre }
}

// WithNotification replaces the default English update notification.
func WithNotification(n notify.Notification) Option {
	return func(s *UpdateScheduler) { s.notification = n }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *UpdateScheduler) { s.log = l }
}

// WithMetrics records firings and notifications on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *UpdateScheduler) { s.metrics = m }
}

// New creates an UpdateScheduler. Nothing is registered until Configure.
func New(trigger Trigger, settings Settings, checker Checker, notifier notify.Notifier, opts ...Option) *UpdateScheduler {
	s := &UpdateScheduler{
		trigger:      trigger,
		settings:     settings,
		checker:      checker,
		notifier:     notifier,
		notification: notify.UpdateNotification("en"),
		log:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Configure registers, replaces or cancels the update check job. A
// disabled config cancels the job and is a no-op when none exists. An
// enabled config with a non-positive interval is rejected and leaves the
// current registration untouched.
func (s *UpdateScheduler) Configure(cfg config.ScheduleConfig) error {
	if !cfg.Enabled {
		if s.trigger.Cancel(JobName) {
			s.log.Info().Msg("automatic update check disabled")
		} else {
			s.log.Debug().Msg("automatic update check already disabled")
		}
		s.metrics.SetRegistered(false, 0)
		return nil
	}

	if cfg.IntervalMinutes <= 0 {
		return fmt.Errorf("%w: %d minutes", ErrInvalidInterval, cfg.IntervalMinutes)
	}

	interval := time.Duration(cfg.IntervalMinutes) * time.Minute
	if err := s.trigger.Schedule(JobName, interval, s.preconditions, s.OnTrigger); err != nil {
		return fmt.Errorf("schedule update check: %w", err)
	}

	// The trigger may have clamped the interval.
	if reg, ok := s.trigger.Lookup(JobName); ok {
		interval = reg.Interval
	}
	s.metrics.SetRegistered(true, interval)
	s.log.Info().Dur("interval", interval).Msg("automatic update check scheduled")
	return nil
}

// State reports whether the job is registered and at which interval.
func (s *UpdateScheduler) State() State {
	reg, ok := s.trigger.Lookup(JobName)
	if !ok {
		return State{Kind: Unregistered}
	}
	return State{Kind: Registered, Interval: reg.Interval, Next: reg.Next}
}

// RunNow fires the job immediately through the trigger.
func (s *UpdateScheduler) RunNow(ctx context.Context) error {
	return s.trigger.Run(ctx, JobName)
}

// OnTrigger performs one firing: check, then notify once if any update is
// available. Failures are logged and never returned, so a failed firing
// leaves the schedule in place.
func (s *UpdateScheduler) OnTrigger(ctx context.Context) error {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Msg("update check panicked")
			s.metrics.ObserveTrigger(metrics.OutcomeFailure)
		}
	}()

	disabled := s.settings.DisabledApps()
	if err := s.checker.CheckUpdatesForInstalledApps(ctx, disabled); err != nil {
		s.log.Warn().Err(err).Msg("update check failed")
		s.metrics.ObserveTrigger(metrics.OutcomeCheckFailed)
		return nil
	}

	if !s.checker.AreUpdatesForInstalledAppsAvailable() {
		s.log.Debug().Msg("no updates available")
		s.metrics.ObserveTrigger(metrics.OutcomeNoUpdate)
		return nil
	}

	s.metrics.ObserveTrigger(metrics.OutcomeUpdateAvailable)
	if err := s.notifier.Send(s.notification); err != nil {
		s.log.Warn().Err(err).Str("notifier", s.notifier.Name()).Msg("update notification failed")
		s.metrics.ObserveNotification(metrics.OutcomeFailure)
		return nil
	}
	s.metrics.ObserveNotification(metrics.OutcomeSuccess)
	s.log.Info().Str("notifier", s.notifier.Name()).Msg("update notification sent")
	return nil
}
