package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/scheerer/ambient-backlight/ambient"
	"github.com/scheerer/ambient-backlight/internal/commands"
	"github.com/scheerer/ambient-backlight/internal/config"
	"github.com/scheerer/ambient-backlight/internal/lights/sinks"
	"github.com/scheerer/ambient-backlight/internal/logging"
	"github.com/scheerer/ambient-backlight/internal/screen"
)

var logger = logging.New("main")

func main() {
	defer logger.Sync() //nolint:errcheck

	cfg, err := config.Load()
	if err != nil {
		logger.With(zap.Error(err)).Fatal("Failed to load configuration")
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.With(zap.Error(err)).Fatal("Invalid LOG_LEVEL")
	}
	logging.GetLeveler().SetLevelAll(level)

	logger.With(zap.Any("config", cfg)).Info("Starting ambient backlight")
	logger.Info("Adjust CAPTURE_INTERVAL to change how often the screen is sampled.")
	logger.Info("LIGHT_TYPE is SYSFS (keyboard backlight at DEVICE_PATH) or LIFX (group LIGHT_GROUP_NAME).")
	logger.Info("Send SIGUSR1 to pause or resume screen sampling. Press Ctrl+C to stop.")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink, err := sinks.New(ctx, cfg)
	if err != nil {
		logger.With(zap.Error(err)).Fatal("Failed to create light sink")
	}

	session := ambient.NewSession(cfg.Ambient, screen.NewDisplaySource(cfg.CaptureFailureLimit), sink)
	cmds := commands.New(session, sink)

	start(cmds)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR1)
	for sig := range signals {
		if sig != syscall.SIGUSR1 {
			break
		}
		if cmds.IsAmbientActive() {
			stop(cmds)
		} else {
			start(cmds)
		}
	}

	logger.Info("Shutting down")
	if err := session.Shutdown(); err != nil {
		logger.With(zap.Error(err)).Warn("Ambient session did not stop cleanly")
	}
}

func start(cmds *commands.Commands) {
	msg, err := cmds.StartAmbient()
	if err != nil {
		logger.With(zap.Error(err)).Warn("Could not start screen capture")
		return
	}
	logger.Info(msg)
}

func stop(cmds *commands.Commands) {
	msg, err := cmds.StopAmbient()
	if err != nil {
		logger.With(zap.Error(err)).Warn("Could not stop screen capture")
		return
	}
	logger.Info(msg)
}
