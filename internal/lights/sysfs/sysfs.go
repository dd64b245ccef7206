// Package sysfs writes colors to a multi-intensity LED node such as
// /sys/class/leds/rgb:kbd_backlight/multi_intensity.
package sysfs

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/scheerer/ambient-backlight/internal/colorspace"
	"github.com/scheerer/ambient-backlight/internal/logging"
	"github.com/scheerer/ambient-backlight/lights"
)

var logger = logging.New("sysfs")

const DefaultPath = "/sys/class/leds/rgb:kbd_backlight/multi_intensity"

// Sink opens the device node for every write so that a node which disappears and comes
// back (driver reload) is picked up on the next cycle.
type Sink struct {
	path string
}

var _ lights.Sink = (*Sink)(nil)

func New(path string) *Sink {
	return &Sink{path: path}
}

func (s *Sink) Path() string {
	return s.path
}

func Format(color colorspace.RGB) string {
	return fmt.Sprintf("%d %d %d", color.Red, color.Green, color.Blue)
}

func (s *Sink) Apply(ctx context.Context, color colorspace.RGB) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("%w: %w", lights.ErrSinkWriteFailed, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			err = multierr.Append(err, fmt.Errorf("%w: %w", lights.ErrSinkWriteFailed, closeErr))
		}
	}()

	data := Format(color)
	n, err := io.WriteString(f, data)
	if err == nil && n < len(data) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return fmt.Errorf("%w: write %s: %w", lights.ErrSinkWriteFailed, s.path, err)
	}

	logger.With(zap.String("path", s.path), zap.Stringer("color", color)).Debug("Wrote LED color")
	return nil
}
