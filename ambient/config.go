package ambient

import "time"

type Config struct {
	// CaptureInterval is the sleep after every cycle.
	CaptureInterval time.Duration `env:"CAPTURE_INTERVAL" envDefault:"50ms"`
	// CaptureRetryInterval is the sleep between attempts while no frame is ready.
	CaptureRetryInterval time.Duration `env:"CAPTURE_RETRY_INTERVAL" envDefault:"10ms"`
	// CaptureRetryLimit caps not-ready attempts in one cycle; the cycle is skipped after that.
	CaptureRetryLimit int `env:"CAPTURE_RETRY_LIMIT" envDefault:"20"`
}

func DefaultConfig() Config {
	return Config{
		CaptureInterval:      50 * time.Millisecond,
		CaptureRetryInterval: 10 * time.Millisecond,
		CaptureRetryLimit:    20,
	}
}
