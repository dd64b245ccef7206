package ambient

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/scheerer/ambient-backlight/internal/logging"
	"github.com/scheerer/ambient-backlight/internal/screen"
	"github.com/scheerer/ambient-backlight/lights"
)

var logger = logging.New("ambient")

var (
	ErrAlreadyRunning = errors.New("ambient session is already running")
	ErrNotRunning     = errors.New("ambient session is not running")
)

const slowCycleWarningInterval = 10 * time.Second

// Session runs at most one capture -> compute -> apply worker at a time.
//
// Start, Stop and IsActive are safe for concurrent use. Transitions are serialized by
// one mutex; IsActive only reads the published run and never waits on it.
//
// Cancellation is cooperative: the worker checks it at the top of every cycle and
// wakes early from its sleeps. A Source that blocks forever inside Acquire without
// honouring its context keeps Stop blocked too.
type Session struct {
	config Config
	source screen.Source
	sink   lights.Sink

	mu      sync.Mutex
	current atomic.Pointer[run]
}

// run is one worker. err is written by the worker before done is closed.
type run struct {
	id     string
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

func (r *run) exited() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

func NewSession(config Config, source screen.Source, sink lights.Sink) *Session {
	return &Session{
		config: config,
		source: source,
		sink:   sink,
	}
}

// Start spawns the worker. It fails with ErrAlreadyRunning while a worker is alive.
// A worker that already ended on its own is reaped and replaced.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r := s.current.Load(); r != nil {
		if !r.exited() {
			return ErrAlreadyRunning
		}
		logger.With(zap.String("session", r.id), zap.Error(r.err)).Info("Replacing ended ambient session")
	}

	if resetter, ok := s.source.(screen.Resetter); ok {
		resetter.Reset()
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &run{
		id:     uuid.NewString(),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	s.current.Store(r)
	go s.work(ctx, r)

	return nil
}

// Stop cancels the worker and waits for it to exit. If the worker had already ended
// because of a capture failure, the session still returns to idle and the error wraps
// both ErrNotRunning and the cause.
func (s *Session) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.current.Load()
	if r == nil {
		return ErrNotRunning
	}

	r.cancel()
	<-r.done
	s.current.Store(nil)

	if r.err != nil {
		return fmt.Errorf("%w: worker ended: %w", ErrNotRunning, r.err)
	}
	return nil
}

// Shutdown stops a running session and treats an idle one as success.
func (s *Session) Shutdown() error {
	if err := s.Stop(); err != nil && !errors.Is(err, ErrNotRunning) {
		return err
	}
	return nil
}

// IsActive reports whether a worker is alive. It turns false as soon as the worker
// exits, including after a capture failure nobody has stopped yet.
func (s *Session) IsActive() bool {
	r := s.current.Load()
	return r != nil && !r.exited()
}

// Err returns why the current worker ended, or nil while it runs or when idle.
func (s *Session) Err() error {
	r := s.current.Load()
	if r == nil || !r.exited() {
		return nil
	}
	return r.err
}

func (s *Session) work(ctx context.Context, r *run) {
	log := logger.With(zap.String("session", r.id))
	defer close(r.done)
	defer func() {
		if p := recover(); p != nil {
			r.err = fmt.Errorf("ambient worker panic: %v", p)
			log.With(zap.Error(r.err)).Error("Ambient session crashed")
		}
	}()

	log.With(zap.Stringer("captureInterval", s.config.CaptureInterval)).Info("Ambient session started")

	var lastWarning time.Time
	for {
		if ctx.Err() != nil {
			log.Info("Ambient session stopped")
			return
		}

		startTime := time.Now()
		frame, err := s.acquire(ctx)
		captureScreenDuration := time.Since(startTime)
		switch {
		case err == nil:
		case ctx.Err() != nil:
			continue
		case errors.Is(err, screen.ErrCaptureUnavailable):
			log.With(zap.Error(err)).Debug("No frame ready this cycle")
			sleep(ctx, s.config.CaptureRetryInterval)
			continue
		default:
			r.err = err
			log.With(zap.Error(err)).Error("Screen capture failed - ending ambient session")
			return
		}

		colorCalculationStart := time.Now()
		color, err := Compute(frame)
		colorCalculationDuration := time.Since(colorCalculationStart)
		if err != nil {
			log.With(zap.Int("width", frame.Width), zap.Int("height", frame.Height), zap.Error(err)).
				Warn("Could not compute screen color")
			sleep(ctx, s.config.CaptureInterval)
			continue
		}

		setColorStart := time.Now()
		if err := s.sink.Apply(ctx, color); err != nil && ctx.Err() == nil {
			log.With(zap.Stringer("color", color), zap.Error(err)).Error("Failed to set backlight color")
		}
		setColorDuration := time.Since(setColorStart)

		totalDuration := time.Since(startTime)
		if totalDuration > s.config.CaptureInterval && time.Since(lastWarning) > slowCycleWarningInterval {
			log.With(
				zap.Stringer("captureScreenDuration", captureScreenDuration),
				zap.Stringer("colorCalculationDuration", colorCalculationDuration),
				zap.Stringer("setColorDuration", setColorDuration),
				zap.Stringer("totalDuration", totalDuration)).
				Warn("Cycle takes longer than CAPTURE_INTERVAL")
			lastWarning = time.Now()
		}

		sleep(ctx, s.config.CaptureInterval)
	}
}

// acquire retries not-ready captures up to CaptureRetryLimit attempts.
func (s *Session) acquire(ctx context.Context) (screen.Frame, error) {
	attempts := max(s.config.CaptureRetryLimit, 1)
	for attempt := 1; ; attempt++ {
		frame, err := s.source.Acquire(ctx)
		if err == nil || !errors.Is(err, screen.ErrCaptureUnavailable) || attempt >= attempts {
			return frame, err
		}
		if !sleep(ctx, s.config.CaptureRetryInterval) {
			return screen.Frame{}, ctx.Err()
		}
	}
}

// sleep waits for d or until ctx is done, and reports whether it slept the full time.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
