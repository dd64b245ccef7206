// Package sinks builds the light sink selected by LIGHT_TYPE.
package sinks

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/scheerer/ambient-backlight/internal/config"
	"github.com/scheerer/ambient-backlight/internal/hardware"
	"github.com/scheerer/ambient-backlight/internal/lights/lifx"
	"github.com/scheerer/ambient-backlight/internal/lights/sysfs"
	"github.com/scheerer/ambient-backlight/internal/logging"
	"github.com/scheerer/ambient-backlight/lights"
)

var logger = logging.New("sinks")

const lifxTransition = 50 * time.Millisecond

var (
	newLifx      = func(ctx context.Context, c lifx.Config) (lights.Sink, error) { return lifx.New(ctx, c) }
	hardwareRoot = "/"
)

// New returns the configured sink. For SYSFS with HARDWARE_CHECK set it refuses to run
// on machines without a supported keyboard backlight. ctx bounds background work such
// as LIFX discovery.
func New(ctx context.Context, cfg config.Config) (lights.Sink, error) {
	switch cfg.LightType {
	case config.LightTypeLifx:
		return newLifx(ctx, lifx.Config{
			GroupName:     cfg.LightGroupName,
			MinBrightness: cfg.MinBrightness,
			MaxBrightness: cfg.MaxBrightness,
			Transition:    lifxTransition,
		})
	default:
		if cfg.HardwareCheck {
			report := hardware.Probe{Root: hardwareRoot, DevicePath: cfg.DevicePath}.Run()
			if !report.Supported() {
				logger.With(zap.Any("hardware", report)).Error("Hardware check failed - set HARDWARE_CHECK=false to skip")
				return nil, hardware.ErrUnsupported
			}
			if !report.DeviceWritable {
				logger.With(zap.String("path", cfg.DevicePath)).Warn("LED device is not writable by this user, color writes will fail")
			}
		}
		return sysfs.New(cfg.DevicePath), nil
	}
}
