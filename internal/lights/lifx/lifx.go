package lifx

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/pdf/golifx"
	"github.com/pdf/golifx/common"
	"github.com/pdf/golifx/protocol"
	"go.uber.org/zap"

	"github.com/scheerer/ambient-backlight/internal/colorspace"
	"github.com/scheerer/ambient-backlight/internal/logging"
	"github.com/scheerer/ambient-backlight/lights"
)

var logger = logging.New("lifx")

const (
	kelvin            = 3500
	discoveryInterval = 15 * time.Second
	discoveryTimeout  = 5 * time.Second
)

var errNoGroup = errors.New("LIFX group not discovered yet")

// group is the subset of common.Group the sink drives.
type group interface {
	GetLabel() string
	SetColor(color common.Color, duration time.Duration) error
}

type Config struct {
	GroupName     string
	MaxBrightness float64
	MinBrightness float64
	// Transition is the fade duration handed to the bulbs on every write.
	Transition time.Duration
}

// Lights is a sink that mirrors colors onto a LIFX group.
type Lights struct {
	config Config
	client *golifx.Client

	mu    sync.RWMutex
	group group
}

var _ lights.Sink = (*Lights)(nil)

// New creates the client and runs group discovery until ctx is done.
func New(ctx context.Context, config Config) (*Lights, error) {
	client, err := golifx.NewClient(&protocol.V2{})
	if err != nil {
		return nil, err
	}

	l := &Lights{
		config: config,
		client: client,
	}
	go l.run(ctx)
	return l, nil
}

func (l *Lights) run(ctx context.Context) {
	ticker := time.NewTicker(discoveryInterval)
	defer ticker.Stop()
	defer func() {
		if err := l.client.Close(); err != nil {
			logger.With(zap.Error(err)).Warn("Failed to close LIFX client")
		}
	}()

	l.client.SetDiscoveryInterval(discoveryInterval)
	l.discover(ctx)

	for {
		select {
		case <-ticker.C:
			l.discover(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (l *Lights) discover(ctx context.Context) {
	logger.With(zap.String("group", l.config.GroupName)).Debug("LIFX discovery starting")

	type result struct {
		group common.Group
		err   error
	}
	completed := make(chan result, 1)
	go func() {
		g, err := l.client.GetGroupByLabel(l.config.GroupName)
		completed <- result{group: g, err: err}
	}()

	ctxWithTimeout, cancel := context.WithTimeout(ctx, discoveryTimeout)
	defer cancel()

	select {
	case <-ctxWithTimeout.Done():
		logger.With(zap.Error(ctxWithTimeout.Err())).Warn("LIFX discovery timed out")
	case r := <-completed:
		if r.err != nil || r.group == nil {
			logger.With(zap.String("group", l.config.GroupName), zap.Error(r.err)).Warn("Couldn't discover LIFX group")
			return
		}
		logger.With(zap.String("group", r.group.GetLabel())).Info("LIFX group found")
		l.setGroup(r.group)
	}
}

func (l *Lights) setGroup(g group) {
	l.mu.Lock()
	l.group = g
	l.mu.Unlock()
}

func (l *Lights) Apply(ctx context.Context, color colorspace.RGB) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.RLock()
	g := l.group
	l.mu.RUnlock()
	if g == nil {
		return fmt.Errorf("%w: %w", lights.ErrSinkWriteFailed, errNoGroup)
	}

	lifxColor := adjustColor(newLifxColor(color), l.config)
	logger.With(zap.Stringer("color", color), zap.Any("lifxColor", lifxColor)).Debug("Setting LIFX group color")

	if err := g.SetColor(lifxColor, l.config.Transition); err != nil {
		return fmt.Errorf("%w: LIFX group %q: %w", lights.ErrSinkWriteFailed, g.GetLabel(), err)
	}
	return nil
}

// newLifxColor scales HSV onto the 16-bit ranges LIFX uses.
func newLifxColor(color colorspace.RGB) common.Color {
	hsv := colorspace.RgbToHsv(color.Red, color.Green, color.Blue)

	return common.Color{
		Hue:        uint16(math.Round(hsv.Hue / 360 * 0xFFFF)),
		Saturation: uint16(math.Round(hsv.Saturation * 0xFFFF)),
		Brightness: uint16(math.Round(hsv.Value * 0xFFFF)),
		Kelvin:     kelvin,
	}
}

func adjustColor(color common.Color, config Config) common.Color {
	blackThreshold := 0.015 * 0xFFFF
	if float64(color.Brightness) <= blackThreshold && float64(color.Saturation) <= blackThreshold {
		// blackish color - turn off the light
		return common.Color{Kelvin: kelvin}
	}

	color.Brightness = uint16(math.Min(config.MaxBrightness*0xFFFF, math.Max(config.MinBrightness*0xFFFF, float64(color.Brightness))))

	return color
}
