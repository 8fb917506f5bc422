package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/orgball2608/community-feed-bot/pkg/logger"
)

type Config struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
}

func DefaultConfig() Config {
	return Config{
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     30 * time.Second,
		Multiplier:      2,
	}
}

// Supervise keeps a long-running worker alive: whenever run returns while ctx
// is still live it is started again after an exponential delay. A run that
// lasted longer than MaxInterval resets the delay.
func Supervise(ctx context.Context, log logger.Logger, name string, run func(context.Context) error, cfg Config) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = cfg.InitialInterval
	bo.MaxInterval = cfg.MaxInterval
	bo.Multiplier = cfg.Multiplier
	bo.MaxElapsedTime = 0
	bo.Reset()

	for {
		started := time.Now()
		err := run(ctx)
		if ctx.Err() != nil {
			return
		}

		if time.Since(started) > cfg.MaxInterval {
			bo.Reset()
		}
		wait := bo.NextBackOff()

		log.Warn(
			"Worker stopped, restarting...",
			"worker", name,
			"error", err,
			"next_attempt_in", wait.Round(time.Millisecond).String(),
		)

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}
