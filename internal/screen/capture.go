package screen

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
	"go.uber.org/zap"

	"github.com/scheerer/ambient-backlight/internal/logging"
)

var logger = logging.New("screen")

var (
	// ErrCaptureUnavailable means no frame is ready yet. Callers wait briefly and retry.
	ErrCaptureUnavailable = errors.New("capture: frame not ready")
	// ErrCaptureFatal means the source cannot produce frames anymore.
	ErrCaptureFatal = errors.New("capture: unrecoverable failure")
)

// Source produces display frames. Acquire returns ErrCaptureUnavailable for transient
// conditions; any other error ends the sampling run.
type Source interface {
	Acquire(ctx context.Context) (Frame, error)
}

// Resetter is implemented by sources that keep state between captures. A session
// calls Reset before every run so one run's failures do not count against the next.
type Resetter interface {
	Reset()
}

const primaryDisplay = 0

// DisplaySource captures the primary display with kbinani/screenshot.
type DisplaySource struct {
	failureLimit int
	failures     int

	numDisplays func() int
	capture     func(display int) (*image.RGBA, error)
}

// NewDisplaySource returns a source that reports ErrCaptureFatal once more than
// failureLimit consecutive captures have failed. A limit <= 0 never gives up.
func NewDisplaySource(failureLimit int) *DisplaySource {
	return &DisplaySource{
		failureLimit: failureLimit,
		numDisplays:  screenshot.NumActiveDisplays,
		capture:      screenshot.CaptureDisplay,
	}
}

// Acquire is not safe for concurrent use; a session drives it from a single worker.
func (s *DisplaySource) Acquire(ctx context.Context) (Frame, error) {
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}

	if s.numDisplays() <= primaryDisplay {
		return Frame{}, s.fail(errors.New("no active display"))
	}

	img, err := s.capture(primaryDisplay)
	if err != nil {
		return Frame{}, s.fail(err)
	}
	if img.Bounds().Empty() {
		return Frame{}, s.fail(errors.New("captured an empty image"))
	}

	s.failures = 0
	return FrameFromImage(img), nil
}

// Reset clears the consecutive failure count.
func (s *DisplaySource) Reset() {
	s.failures = 0
}

func (s *DisplaySource) fail(cause error) error {
	s.failures++
	if s.failureLimit > 0 && s.failures > s.failureLimit {
		failures := s.failures
		s.failures = 0
		logger.With(zap.Int("failures", failures), zap.Error(cause)).Error("Giving up on display capture")
		return fmt.Errorf("%w: %d consecutive failures: %w", ErrCaptureFatal, failures, cause)
	}
	logger.With(zap.Int("failures", s.failures), zap.Error(cause)).Debug("Display capture not ready")
	return fmt.Errorf("%w: %w", ErrCaptureUnavailable, cause)
}
