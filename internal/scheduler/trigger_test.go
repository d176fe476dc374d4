package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"ffupdater/internal/metrics"
)

type staticPrecondition struct {
	name string
	met  bool
}

func (p staticPrecondition) Name() string { return p.name }
func (p staticPrecondition) Met(_ context.Context) bool { return p.met }

func noop(context.Context) error { return nil }

func TestCronTrigger_ScheduleReplaces(t *testing.T) {
	c := NewCronTrigger(WithMinInterval(0))

	if err := c.Schedule("job", time.Hour, nil, noop); err != nil {
		t.Fatalf("Schedule() error: %v", err)
	}
	if err := c.Schedule("job", 2*time.Hour, nil, noop); err != nil {
		t.Fatalf("Schedule() error: %v", err)
	}

	if n := len(c.cron.Entries()); n != 1 {
		t.Fatalf("cron entries = %d, want 1", n)
	}
	reg, ok := c.Lookup("job")
	if !ok {
		t.Fatal("job should be registered")
	}
	if reg.Interval != 2*time.Hour {
		t.Errorf("Interval = %s, want 2h", reg.Interval)
	}
}

func TestCronTrigger_ScheduleValidation(t *testing.T) {
	c := NewCronTrigger()

	tests := []struct {
		name     string
		job      string
		interval time.Duration
		handler  Handler
		wantErr  error
	}{
		{"zero interval", "job", 0, noop, ErrInvalidInterval},
		{"negative interval", "job", -time.Minute, noop, ErrInvalidInterval},
		{"empty name", "", time.Hour, noop, nil},
		{"nil handler", "job", time.Hour, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Schedule(tt.job, tt.interval, nil, tt.handler)
			if err == nil {
				t.Fatal("Schedule() should fail")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Schedule() = %v, want %v", err, tt.wantErr)
			}
		})
	}
	if len(c.cron.Entries()) != 0 {
		t.Error("failed Schedule calls must not register entries")
	}
}

func TestCronTrigger_ClampsToMinimum(t *testing.T) {
	c := NewCronTrigger(WithMinInterval(15 * time.Minute))
	if err := c.Schedule("job", 5*time.Minute, nil, noop); err != nil {
		t.Fatalf("Schedule() error: %v", err)
	}
	reg, _ := c.Lookup("job")
	if reg.Interval != 15*time.Minute {
		t.Errorf("Interval = %s, want 15m", reg.Interval)
	}
}

func TestCronTrigger_CancelIsIdempotent(t *testing.T) {
	c := NewCronTrigger(WithMinInterval(0))

	if c.Cancel("job") {
		t.Error("Cancel() on an empty trigger should report false")
	}
	_ = c.Schedule("job", time.Hour, nil, noop)
	if !c.Cancel("job") {
		t.Error("Cancel() should report the registered job")
	}
	if c.Cancel("job") {
		t.Error("second Cancel() should report false")
	}
	if _, ok := c.Lookup("job"); ok {
		t.Error("job should be gone")
	}
	if len(c.cron.Entries()) != 0 {
		t.Error("cron entry should be removed")
	}
}

func TestCronTrigger_RunUnknown(t *testing.T) {
	c := NewCronTrigger()
	if err := c.Run(context.Background(), "missing"); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("Run() = %v, want ErrJobNotFound", err)
	}
}

func TestCronTrigger_PreconditionSkipsFiring(t *testing.T) {
	m := metrics.New()
	c := NewCronTrigger(WithMinInterval(0), WithTriggerMetrics(m))

	var calls int
	pre := []Precondition{
		staticPrecondition{name: "network_connected", met: true},
		staticPrecondition{name: "battery_not_low", met: false},
	}
	_ = c.Schedule("job", time.Hour, pre, func(context.Context) error {
		calls++
		return nil
	})

	err := c.Run(context.Background(), "job")
	if !errors.Is(err, ErrPreconditionNotMet) {
		t.Fatalf("Run() = %v, want ErrPreconditionNotMet", err)
	}
	if calls != 0 {
		t.Errorf("handler called %d times, want 0", calls)
	}
	if _, ok := c.Lookup("job"); !ok {
		t.Error("a skipped firing must keep the job registered")
	}
	if got := testutil.ToFloat64(m.TriggersTotal.WithLabelValues(metrics.OutcomeSkipped)); got != 1 {
		t.Errorf("skipped firings = %v, want 1", got)
	}
}

func TestCronTrigger_RunRecoversPanic(t *testing.T) {
	c := NewCronTrigger(WithMinInterval(0))
	_ = c.Schedule("job", time.Hour, nil, func(context.Context) error {
		panic("boom")
	})

	if err := c.Run(context.Background(), "job"); err == nil {
		t.Fatal("Run() should report the panic as an error")
	}
	// the lock must have been released
	done := make(chan error, 1)
	go func() { done <- c.Run(context.Background(), "job") }()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("second Run() blocked after a panic")
	}
}

func TestCronTrigger_FiringsDoNotOverlap(t *testing.T) {
	c := NewCronTrigger(WithMinInterval(0))

	var active, maxActive int32
	_ = c.Schedule("job", time.Hour, nil, func(context.Context) error {
		n := atomic.AddInt32(&active, 1)
		for {
			m := atomic.LoadInt32(&maxActive)
			if n <= m || atomic.CompareAndSwapInt32(&maxActive, m, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&active, -1)
		return nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.Run(context.Background(), "job")
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&maxActive); got != 1 {
		t.Errorf("max concurrent firings = %d, want 1", got)
	}
}

func TestCronTrigger_ReplacementWaitsForRunningFiring(t *testing.T) {
	c := NewCronTrigger(WithMinInterval(0))

	started := make(chan struct{})
	release := make(chan struct{})
	_ = c.Schedule("job", time.Hour, nil, func(context.Context) error {
		close(started)
		<-release
		return nil
	})

	firstDone := make(chan struct{})
	go func() {
		_ = c.Run(context.Background(), "job")
		close(firstDone)
	}()
	<-started

	var replaced atomic.Bool
	_ = c.Schedule("job", 2*time.Hour, nil, func(context.Context) error {
		replaced.Store(true)
		return nil
	})

	secondDone := make(chan struct{})
	go func() {
		_ = c.Run(context.Background(), "job")
		close(secondDone)
	}()

	time.Sleep(50 * time.Millisecond)
	if replaced.Load() {
		t.Fatal("replacement handler ran while the previous firing was in progress")
	}

	close(release)
	<-firstDone
	select {
	case <-secondDone:
	case <-time.After(time.Second):
		t.Fatal("replacement firing never ran")
	}
	if !replaced.Load() {
		t.Error("replacement handler should run after the previous firing returns")
	}
}

func TestCronTrigger_FiresOnSchedule(t *testing.T) {
	c := NewCronTrigger(WithMinInterval(0))
	fired := make(chan struct{}, 4)
	_ = c.Schedule("job", time.Second, nil, func(context.Context) error {
		fired <- struct{}{}
		return nil
	})

	c.Start()
	defer c.Stop()

	select {
	case <-fired:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not fire within 3s")
	}
	if reg, _ := c.Lookup("job"); reg.Next.IsZero() {
		t.Error("a running trigger should report the next firing time")
	}
}

func TestCronTrigger_StopCancelsHandlerContext(t *testing.T) {
	c := NewCronTrigger(WithMinInterval(0))
	started := make(chan struct{})
	_ = c.Schedule("job", time.Second, nil, func(ctx context.Context) error {
		select {
		case started <- struct{}{}:
		default:
		}
		<-ctx.Done()
		return ctx.Err()
	})
	c.Start()

	select {
	case <-started:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not fire within 3s")
	}

	stopped := make(chan struct{})
	go func() {
		c.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop() did not return after cancelling the running handler")
	}
}
