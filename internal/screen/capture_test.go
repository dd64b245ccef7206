package screen

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeDisplay(displays int, err error) *DisplaySource {
	s := NewDisplaySource(3)
	s.numDisplays = func() int { return displays }
	s.capture = func(int) (*image.RGBA, error) {
		if err != nil {
			return nil, err
		}
		return image.NewRGBA(image.Rect(0, 0, 4, 2)), nil
	}
	return s
}

func TestDisplaySourceAcquire(t *testing.T) {
	s := fakeDisplay(1, nil)

	frame, err := s.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, frame.Width)
	assert.Equal(t, 2, frame.Height)
	assert.Len(t, frame.Pix, 32)
}

func TestDisplaySourceNoDisplayIsTransient(t *testing.T) {
	s := fakeDisplay(0, nil)

	_, err := s.Acquire(context.Background())
	assert.ErrorIs(t, err, ErrCaptureUnavailable)
	assert.NotErrorIs(t, err, ErrCaptureFatal)
}

func TestDisplaySourceGivesUpAfterLimit(t *testing.T) {
	s := fakeDisplay(1, errors.New("xgb: connection closed"))

	for i := 0; i < 3; i++ {
		_, err := s.Acquire(context.Background())
		require.ErrorIs(t, err, ErrCaptureUnavailable)
	}

	_, err := s.Acquire(context.Background())
	assert.ErrorIs(t, err, ErrCaptureFatal)
	assert.NotErrorIs(t, err, ErrCaptureUnavailable)
}

func TestDisplaySourceSuccessResetsFailures(t *testing.T) {
	s := fakeDisplay(1, nil)
	capture := s.capture
	s.capture = func(int) (*image.RGBA, error) { return nil, errors.New("busy") }

	for i := 0; i < 3; i++ {
		_, err := s.Acquire(context.Background())
		require.ErrorIs(t, err, ErrCaptureUnavailable)
	}

	s.capture = capture
	_, err := s.Acquire(context.Background())
	require.NoError(t, err)

	s.capture = func(int) (*image.RGBA, error) { return nil, errors.New("busy") }
	_, err = s.Acquire(context.Background())
	assert.ErrorIs(t, err, ErrCaptureUnavailable)
}

func TestDisplaySourceCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fakeDisplay(1, nil).Acquire(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDisplaySourceFatalStartsNewCount(t *testing.T) {
	s := fakeDisplay(1, errors.New("xgb: connection closed"))

	for i := 0; i < 3; i++ {
		_, err := s.Acquire(context.Background())
		require.ErrorIs(t, err, ErrCaptureUnavailable)
	}
	_, err := s.Acquire(context.Background())
	require.ErrorIs(t, err, ErrCaptureFatal)

	_, err = s.Acquire(context.Background())
	assert.ErrorIs(t, err, ErrCaptureUnavailable)
	assert.NotErrorIs(t, err, ErrCaptureFatal)
}

func TestDisplaySourceReset(t *testing.T) {
	s := fakeDisplay(1, errors.New("busy"))

	for i := 0; i < 3; i++ {
		_, err := s.Acquire(context.Background())
		require.ErrorIs(t, err, ErrCaptureUnavailable)
	}

	s.Reset()
	for i := 0; i < 3; i++ {
		_, err := s.Acquire(context.Background())
		require.ErrorIs(t, err, ErrCaptureUnavailable)
		require.NotErrorIs(t, err, ErrCaptureFatal)
	}
}
