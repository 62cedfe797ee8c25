package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/panoramablock/zico-x-bot/pkg/logger"
)

// Config describes a retry policy: how many attempts in total, and how
// the delay between them is computed. A non-zero Interval selects a fixed
// delay; otherwise the exponential parameters apply.
type Config struct {
	MaxAttempts     uint64
	Interval        time.Duration
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
}

func DefaultConfig() Config {
	return Config{
		MaxAttempts:     3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		Multiplier:      1.5,
	}
}

// FixedConfig retries with a constant delay between attempts.
func FixedConfig(maxAttempts uint64, interval time.Duration) Config {
	return Config{
		MaxAttempts: maxAttempts,
		Interval:    interval,
	}
}

func Do(ctx context.Context, log logger.Logger, operationName string, operation func() error, cfg Config) error {
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 1
	}

	var policy backoff.BackOff
	if cfg.Interval > 0 {
		policy = backoff.NewConstantBackOff(cfg.Interval)
	} else {
		bo := backoff.NewExponentialBackOff()
		bo.InitialInterval = cfg.InitialInterval
		bo.MaxInterval = cfg.MaxInterval
		bo.Multiplier = cfg.Multiplier
		bo.Reset()
		policy = bo
	}

	// MaxAttempts counts the first attempt, WithMaxRetries does not.
	retryable := backoff.WithMaxRetries(policy, cfg.MaxAttempts-1)
	retryableWithContext := backoff.WithContext(retryable, ctx)

	notify := func(err error, t time.Duration) {
		log.Warn(
			"Operation failed, retrying...",
			"operation", operationName,
			"error", err,
			"next_attempt_in", t.Round(time.Millisecond).String(),
		)
	}

	return backoff.RetryNotify(operation, retryableWithContext, notify)
}
