package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/five82/albumsync/internal/refresh"
)

const (
	defaultPollInterval = 5 * time.Minute
	maxBackoff          = 30 * time.Minute
)

// Refresher is the part of *refresh.Controller the poller drives.
type Refresher interface {
	Refresh(ctx context.Context) error
	RefreshCacheFirst(ctx context.Context) error
}

// StartPoller launches a background goroutine that shows the cached albums,
// refreshes them, and then refreshes again at interval. Consecutive
// unclassified failures stretch the wait exponentially up to maxBackoff. The
// returned channel is closed when the goroutine exits after ctx is done.
func StartPoller(ctx context.Context, r Refresher, interval time.Duration, logger *slog.Logger) <-chan struct{} {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "poller")

	done := make(chan struct{})
	go func() {
		defer close(done)

		if err := r.RefreshCacheFirst(ctx); err != nil && !ignorable(err) {
			logger.Warn("initial cache load failed", "error", err)
		}

		failures := 0
		for {
			err := r.Refresh(ctx)
			switch {
			case err == nil:
				failures = 0
			case ignorable(err):
			default:
				failures++
				logger.Warn("poll failed", "error", err, "consecutive_failures", failures)
			}

			wait := calculateBackoff(failures, interval)
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
	}()
	return done
}

// calculateBackoff doubles baseInterval per failure, capped at maxBackoff.
// The result is never shorter than baseInterval.
func calculateBackoff(failures int, baseInterval time.Duration) time.Duration {
	if failures <= 0 || baseInterval >= maxBackoff {
		return baseInterval
	}
	backoff := baseInterval
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}

func ignorable(err error) bool {
	return errors.Is(err, refresh.ErrInFlight) || errors.Is(err, context.Canceled)
}

func secondsToDuration(s int) time.Duration {
	return time.Duration(s) * time.Second
}
