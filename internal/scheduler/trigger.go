package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"ffupdater/internal/metrics"
)

var (
	// ErrInvalidInterval is returned for non-positive intervals.
	ErrInvalidInterval = errors.New("interval must be positive")
	// ErrJobNotFound is returned by Run for unknown job names.
	ErrJobNotFound = errors.New("job not found")
	// ErrPreconditionNotMet is returned by Run when a firing is skipped.
	ErrPreconditionNotMet = errors.New("precondition not met")
)

// Precondition gates each firing of a job.
type Precondition interface {
	Name() string
	Met(ctx context.Context) bool
}

// Handler is the work performed by one firing.
type Handler func(ctx context.Context) error

// Registration describes a scheduled job.
type Registration struct {
	Name     string
	Interval time.Duration
	Next     time.Time
}

// Trigger is a periodic-trigger facility keyed by job name. Scheduling a
// name that is already registered replaces it.
type Trigger interface {
	Schedule(name string, interval time.Duration, pre []Precondition, h Handler) error
	Cancel(name string) bool
	Lookup(name string) (Registration, bool)
	Run(ctx context.Context, name string) error
}

type namedJob struct {
	id       cron.EntryID
	interval time.Duration
	run      func(ctx context.Context) error
}

// CronTrigger implements Trigger on a robfig/cron runner. Firings of the
// same name never overlap, including across replacements: a firing that
// comes due while the previous one is still running waits for it.
type CronTrigger struct {
	minInterval time.Duration
	log         zerolog.Logger
	metrics     *metrics.Metrics

	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	cron  *cron.Cron
	jobs  map[string]*namedJob
	locks map[string]*sync.Mutex
}

// TriggerOption configures a CronTrigger.
type TriggerOption func(*CronTrigger)

// WithMinInterval sets the shortest accepted interval; shorter requests are
// raised to it.
func WithMinInterval(d time.Duration) TriggerOption {
	return func(c *CronTrigger) { c.minInterval = d }
}

// WithTriggerLogger sets the logger.
func WithTriggerLogger(l zerolog.Logger) TriggerOption {
	return func(c *CronTrigger) { c.log = l }
}

// WithTriggerMetrics counts skipped firings on m.
func WithTriggerMetrics(m *metrics.Metrics) TriggerOption {
	return func(c *CronTrigger) { c.metrics = m }
}

// NewCronTrigger creates a stopped CronTrigger. The default minimum
// interval is 15 minutes.
func NewCronTrigger(opts ...TriggerOption) *CronTrigger {
	c := &CronTrigger{
		minInterval: 15 * time.Minute,
		log:         zerolog.Nop(),
		jobs:        make(map[string]*namedJob),
		locks:       make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.cron = cron.New(cron.WithLogger(cronLogger{log: c.log}))
	return c
}

// Start begins dispatching scheduled jobs.
func (c *CronTrigger) Start() {
	c.cron.Start()
	c.log.Info().Msg("trigger started")
}

// Stop halts the runner, cancels the context passed to running handlers
// and waits for them to return.
func (c *CronTrigger) Stop() {
	c.cancel()
	<-c.cron.Stop().Done()
	c.log.Info().Msg("trigger stopped")
}

// Schedule registers h to run every interval under name, replacing any
// existing registration of that name.
func (c *CronTrigger) Schedule(name string, interval time.Duration, pre []Precondition, h Handler) error {
	if name == "" {
		return errors.New("job name is required")
	}
	if h == nil {
		return errors.New("handler is required")
	}
	if interval <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInterval, interval)
	}
	if interval < c.minInterval {
		c.log.Info().
			Str("job", name).
			Dur("requested", interval).
			Dur("minimum", c.minInterval).
			Msg("interval below minimum, clamping")
		interval = c.minInterval
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	lock, ok := c.locks[name]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[name] = lock
	}
	run := c.wrap(name, pre, h, lock)

	if old, ok := c.jobs[name]; ok {
		c.cron.Remove(old.id)
	}
	id := c.cron.Schedule(cron.Every(interval), cron.FuncJob(func() {
		_ = run(c.ctx)
	}))
	c.jobs[name] = &namedJob{id: id, interval: interval, run: run}

	c.log.Info().Str("job", name).Dur("interval", interval).Msg("job scheduled")
	return nil
}

// Cancel removes the named job. It reports whether a job was registered.
// A firing already in progress runs to completion.
func (c *CronTrigger) Cancel(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	job, ok := c.jobs[name]
	if !ok {
		return false
	}
	c.cron.Remove(job.id)
	delete(c.jobs, name)
	c.log.Info().Str("job", name).Msg("job cancelled")
	return true
}

// Lookup returns the registration for name.
func (c *CronTrigger) Lookup(name string) (Registration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	job, ok := c.jobs[name]
	if !ok {
		return Registration{}, false
	}
	return Registration{
		Name:     name,
		Interval: job.interval,
		Next:     c.cron.Entry(job.id).Next,
	}, true
}

// Run fires the named job now, subject to its preconditions, and returns
// the handler's error.
func (c *CronTrigger) Run(ctx context.Context, name string) error {
	c.mu.Lock()
	job, ok := c.jobs[name]
	c.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	return job.run(ctx)
}

// wrap serializes firings on lock, checks preconditions and recovers
// handler panics.
func (c *CronTrigger) wrap(name string, pre []Precondition, h Handler, lock *sync.Mutex) func(context.Context) error {
	return func(ctx context.Context) (err error) {
		lock.Lock()
		defer lock.Unlock()

		for _, p := range pre {
			if !p.Met(ctx) {
				c.log.Info().Str("job", name).Str("precondition", p.Name()).Msg("precondition not met, skipping firing")
				c.metrics.ObserveTrigger(metrics.OutcomeSkipped)
				return fmt.Errorf("%w: %s", ErrPreconditionNotMet, p.Name())
			}
		}

		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("job %s panicked: %v", name, r)
				c.log.Error().Str("job", name).Interface("panic", r).Msg("job panicked")
			}
		}()

		start := time.Now()
		err = h(ctx)
		event := c.log.Debug()
		if err != nil {
			event = c.log.Warn().Err(err)
		}
		event.Str("job", name).Dur("duration", time.Since(start)).Msg("job fired")
		return err
	}
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
