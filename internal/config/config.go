package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"

	"github.com/scheerer/ambient-backlight/ambient"
)

const (
	LightTypeSysfs = "SYSFS"
	LightTypeLifx  = "LIFX"
)

type Config struct {
	Ambient ambient.Config

	LightType      string  `env:"LIGHT_TYPE" envDefault:"SYSFS"`
	DevicePath     string  `env:"DEVICE_PATH" envDefault:"/sys/class/leds/rgb:kbd_backlight/multi_intensity"`
	LightGroupName string  `env:"LIGHT_GROUP_NAME" envDefault:"ARCADE"`
	MaxBrightness  float64 `env:"MAX_BRIGHTNESS" envDefault:"0.65"`
	MinBrightness  float64 `env:"MIN_BRIGHTNESS" envDefault:"0"`

	CaptureFailureLimit int    `env:"CAPTURE_FAILURE_LIMIT" envDefault:"100"`
	HardwareCheck       bool   `env:"HARDWARE_CHECK" envDefault:"true"`
	LogLevel            string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads an optional .env file from the working directory, then the environment.
// Variables already set in the environment win over the file.
func Load(envFiles ...string) (Config, error) {
	_ = godotenv.Load(envFiles...)

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if err := env.Parse(&cfg.Ambient); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	cfg.LightType = strings.ToUpper(strings.TrimSpace(cfg.LightType))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.LightType {
	case LightTypeSysfs:
		if c.DevicePath == "" {
			return errors.New("DEVICE_PATH must be set for LIGHT_TYPE=SYSFS")
		}
	case LightTypeLifx:
		if c.LightGroupName == "" {
			return errors.New("LIGHT_GROUP_NAME must be set for LIGHT_TYPE=LIFX")
		}
	default:
		return fmt.Errorf("unknown LIGHT_TYPE %q, valid values are: [%s, %s]", c.LightType, LightTypeSysfs, LightTypeLifx)
	}

	if c.MinBrightness < 0 || c.MaxBrightness > 1 || c.MinBrightness > c.MaxBrightness {
		return fmt.Errorf("brightness range [%v, %v] must lie within [0, 1]", c.MinBrightness, c.MaxBrightness)
	}
	if c.Ambient.CaptureInterval <= 0 {
		return errors.New("CAPTURE_INTERVAL must be > 0")
	}
	if c.Ambient.CaptureRetryInterval <= 0 {
		return errors.New("CAPTURE_RETRY_INTERVAL must be > 0")
	}
	if c.Ambient.CaptureRetryLimit <= 0 {
		return errors.New("CAPTURE_RETRY_LIMIT must be > 0")
	}
	return nil
}
