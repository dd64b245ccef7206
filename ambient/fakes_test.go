package ambient

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/scheerer/ambient-backlight/internal/colorspace"
	"github.com/scheerer/ambient-backlight/internal/screen"
	"github.com/scheerer/ambient-backlight/lights"
)

var testConfig = Config{
	CaptureInterval:      time.Millisecond,
	CaptureRetryInterval: time.Millisecond,
	CaptureRetryLimit:    3,
}

func uniformFrame(c colorspace.RGB, width, height int) screen.Frame {
	pix := make([]byte, 0, width*height*4)
	for i := 0; i < width*height; i++ {
		pix = append(pix, c.Blue, c.Green, c.Red, 0xFF)
	}
	return screen.Frame{Width: width, Height: height, Pix: pix}
}

// fakeSource serves frame after notReady transient failures, and returns fatal (if set)
// once served frames reach fatalAfter. It also tracks how many callers are inside
// Acquire at once.
type fakeSource struct {
	mu         sync.Mutex
	frame      screen.Frame
	notReady   int
	fatal      error
	fatalAfter int
	served     int

	calls       atomic.Int64
	inside      atomic.Int64
	maxInside   atomic.Int64
	acquireTime time.Duration
}

func (s *fakeSource) Acquire(ctx context.Context) (screen.Frame, error) {
	s.calls.Add(1)
	n := s.inside.Add(1)
	defer s.inside.Add(-1)
	for {
		m := s.maxInside.Load()
		if n <= m || s.maxInside.CompareAndSwap(m, n) {
			break
		}
	}
	if s.acquireTime > 0 {
		time.Sleep(s.acquireTime)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.notReady > 0 {
		s.notReady--
		return screen.Frame{}, screen.ErrCaptureUnavailable
	}
	if s.fatal != nil && s.served >= s.fatalAfter {
		return screen.Frame{}, s.fatal
	}
	s.served++
	return s.frame, nil
}

func (s *fakeSource) setNotReady(n int) {
	s.mu.Lock()
	s.notReady = n
	s.mu.Unlock()
}

func (s *fakeSource) setFatal(err error) {
	s.mu.Lock()
	s.fatal = err
	s.mu.Unlock()
}

// flakySource counts consecutive failures and turns fatal past limit, like a display
// source. It only forgets the count on success or Reset.
type flakySource struct {
	mu       sync.Mutex
	frame    screen.Frame
	limit    int
	failNext int
	failures int
	resets   int
}

func (s *flakySource) Acquire(context.Context) (screen.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failNext > 0 {
		s.failNext--
		s.failures++
		if s.failures > s.limit {
			return screen.Frame{}, fmt.Errorf("%w: %d consecutive failures", screen.ErrCaptureFatal, s.failures)
		}
		return screen.Frame{}, screen.ErrCaptureUnavailable
	}
	s.failures = 0
	return s.frame, nil
}

func (s *flakySource) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = 0
	s.resets++
}

func (s *flakySource) setFailNext(n int) {
	s.mu.Lock()
	s.failNext = n
	s.mu.Unlock()
}

func (s *flakySource) resetCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resets
}

// blockingSource ignores its context and blocks until release is closed.
type blockingSource struct {
	entered chan struct{}
	release chan struct{}
	frame   screen.Frame
}

func (s *blockingSource) Acquire(context.Context) (screen.Frame, error) {
	select {
	case s.entered <- struct{}{}:
	default:
	}
	<-s.release
	return s.frame, nil
}

type recordingSink struct {
	mu        sync.Mutex
	colors    []colorspace.RGB
	failFirst int
	failures  int
}

func (s *recordingSink) Apply(_ context.Context, c colorspace.RGB) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failures < s.failFirst {
		s.failures++
		return errors.Join(lights.ErrSinkWriteFailed, errors.New("permission denied"))
	}
	s.colors = append(s.colors, c)
	return nil
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.colors)
}

func (s *recordingSink) last() colorspace.RGB {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.colors) == 0 {
		return colorspace.RGB{}
	}
	return s.colors[len(s.colors)-1]
}

func (s *recordingSink) failed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failures
}
