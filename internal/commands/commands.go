// Package commands is the boundary a front end calls into. Every operation answers with
// a confirmation string or an error whose message is meant for a human.
package commands

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/scheerer/ambient-backlight/ambient"
	"github.com/scheerer/ambient-backlight/internal/colorspace"
	"github.com/scheerer/ambient-backlight/internal/logging"
	"github.com/scheerer/ambient-backlight/lights"
)

var logger = logging.New("commands")

var (
	errCaptureRunning    = errors.New("screen capture is already running")
	errCaptureNotRunning = errors.New("screen capture is not running")
)

// Session is the part of ambient.Session the commands drive.
type Session interface {
	Start() error
	Stop() error
	IsActive() bool
}

type Commands struct {
	session Session
	sink    lights.Sink
}

func New(session Session, sink lights.Sink) *Commands {
	return &Commands{
		session: session,
		sink:    sink,
	}
}

func (c *Commands) SetColor(ctx context.Context, red, green, blue uint8) (string, error) {
	color := colorspace.RGB{Red: red, Green: green, Blue: blue}
	if err := c.sink.Apply(ctx, color); err != nil {
		logger.With(zap.Stringer("color", color), zap.Error(err)).Warn("Failed to update keyboard color")
		return "", fmt.Errorf("failed to update keyboard color: %w", err)
	}
	return fmt.Sprintf("Keyboard color updated to %s", color), nil
}

func (c *Commands) StartAmbient() (string, error) {
	if err := c.session.Start(); err != nil {
		return "", translate(err)
	}
	return "Screen capture started", nil
}

func (c *Commands) StopAmbient() (string, error) {
	if err := c.session.Stop(); err != nil {
		return "", translate(err)
	}
	return "Screen capture stopped", nil
}

func (c *Commands) IsAmbientActive() bool {
	return c.session.IsActive()
}

func translate(err error) error {
	var userErr error
	switch {
	case errors.Is(err, ambient.ErrAlreadyRunning):
		userErr = errCaptureRunning
	case errors.Is(err, ambient.ErrNotRunning):
		userErr = errCaptureNotRunning
	default:
		return fmt.Errorf("screen capture error: %w", err)
	}
	if err == ambient.ErrAlreadyRunning || err == ambient.ErrNotRunning {
		return userErr
	}
	// the worker already ended on its own; keep the cause visible
	return fmt.Errorf("%w: %w", userErr, err)
}
