package logging

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	cfg = zap.Config{
		Level:       zap.NewAtomicLevelAt(zap.InfoLevel),
		Development: false,
		Encoding:    "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	leveler = &levelRegistry{
		levels:       make(map[string]zap.AtomicLevel),
		defaultLevel: zap.InfoLevel,
	}
)

// Leveler adjusts the level of named loggers at runtime.
type Leveler interface {
	SetLevel(name string, level zapcore.Level)
	GetLevel(name string) zapcore.Level
	SetLevelAll(level zapcore.Level)
}

type levelRegistry struct {
	mu           sync.RWMutex
	levels       map[string]zap.AtomicLevel
	defaultLevel zapcore.Level
}

var _ Leveler = (*levelRegistry)(nil)

func GetLeveler() Leveler {
	return leveler
}

func (r *levelRegistry) SetLevel(name string, level zapcore.Level) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.atomicLevel(name).SetLevel(level)
}

func (r *levelRegistry) GetLevel(name string) zapcore.Level {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if l, ok := r.levels[name]; ok {
		return l.Level()
	}
	return r.defaultLevel
}

// SetLevelAll changes every registered logger, and the level new loggers start at.
func (r *levelRegistry) SetLevelAll(level zapcore.Level) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.defaultLevel = level
	for _, l := range r.levels {
		l.SetLevel(level)
	}
}

// register returns the shared level for name. Loggers created twice under one name
// follow the same level.
func (r *levelRegistry) register(name string) zap.AtomicLevel {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.atomicLevel(name)
}

// caller holds r.mu
func (r *levelRegistry) atomicLevel(name string) zap.AtomicLevel {
	l, ok := r.levels[name]
	if !ok {
		l = zap.NewAtomicLevelAt(r.defaultLevel)
		r.levels[name] = l
	}
	return l
}

// ParseLevel accepts zap level names ("debug", "info", "warn", ...) in any case.
func ParseLevel(s string) (zapcore.Level, error) {
	return zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
}

func New(name string) *zap.SugaredLogger {
	c := cfg
	c.Level = leveler.register(name)
	return zap.Must(c.Build(zap.AddStacktrace(zapcore.PanicLevel))).Named(name).Sugar()
}
