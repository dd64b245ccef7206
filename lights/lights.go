package lights

import (
	"context"
	"errors"

	"github.com/scheerer/ambient-backlight/internal/colorspace"
)

// ErrSinkWriteFailed covers every way a color write can fail: missing device,
// permission denied, short write, unreachable light.
var ErrSinkWriteFailed = errors.New("sink write failed")

// Sink pushes a color to a lighting device. Sinks do not retry; callers decide.
type Sink interface {
	Apply(ctx context.Context, color colorspace.RGB) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, color colorspace.RGB) error

func (f SinkFunc) Apply(ctx context.Context, color colorspace.RGB) error {
	return f(ctx, color)
}
