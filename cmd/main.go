// Command setcolor writes one color to the configured light and exits.
//
//	setcolor 255 0 128
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/scheerer/ambient-backlight/internal/commands"
	"github.com/scheerer/ambient-backlight/internal/config"
	"github.com/scheerer/ambient-backlight/internal/lights/sinks"
	"github.com/scheerer/ambient-backlight/internal/logging"
	"github.com/scheerer/ambient-backlight/lights"
)

var logger = logging.New("setcolor")

const (
	timeout       = 5 * time.Second
	retryInterval = 250 * time.Millisecond
)

func main() {
	defer logger.Sync() //nolint:errcheck

	if len(os.Args) != 4 {
		fmt.Fprintf(os.Stderr, "usage: %s RED GREEN BLUE (each 0-255)\n", os.Args[0])
		os.Exit(2)
	}

	channels, err := parseChannels(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.With(zap.Error(err)).Fatal("Failed to load configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	sink, err := sinks.New(ctx, cfg)
	if err != nil {
		logger.With(zap.Error(err)).Fatal("Failed to create light sink")
	}

	// the session is never started here; only the direct write is used
	cmds := commands.New(nil, sink)
	msg, err := setColor(ctx, cmds, channels, retryInterval)
	if err != nil {
		logger.With(zap.String("lightType", cfg.LightType), zap.Error(err)).Error("Could not set color")
		logger.Sync() //nolint:errcheck
		os.Exit(1)
	}
	logger.Info(msg)
}

// setColor retries sink failures until ctx is done. A LIFX group only becomes writable
// once discovery has found it.
func setColor(ctx context.Context, cmds *commands.Commands, channels [3]uint8, interval time.Duration) (string, error) {
	for {
		msg, err := cmds.SetColor(ctx, channels[0], channels[1], channels[2])
		if err == nil || !errors.Is(err, lights.ErrSinkWriteFailed) {
			return msg, err
		}
		logger.With(zap.Error(err)).Debug("Light not ready, retrying")

		select {
		case <-ctx.Done():
			return "", err
		case <-time.After(interval):
		}
	}
}

func parseChannels(args []string) ([3]uint8, error) {
	var channels [3]uint8
	for i, arg := range args {
		v, err := strconv.ParseUint(arg, 10, 8)
		if err != nil {
			return channels, fmt.Errorf("invalid channel %q: must be an integer between 0 and 255", arg)
		}
		channels[i] = uint8(v)
	}
	return channels, nil
}
