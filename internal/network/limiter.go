package network

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Limiter implements the global pause applied when the target starts
// answering 403/429. The first trigger pauses every worker for the
// configured duration; triggers that arrive while a pause is already in
// effect are coalesced into it.
type Limiter struct {
	pause  time.Duration
	logger zerolog.Logger

	mu       sync.Mutex
	resumeAt time.Time
}

func NewLimiter(pause time.Duration, logger zerolog.Logger) *Limiter {
	return &Limiter{pause: pause, logger: logger}
}

// TriggerPause starts a global pause in response to a blocking status code.
func (l *Limiter) TriggerPause(status int, target string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Before(l.resumeAt) {
		return
	}

	l.resumeAt = now.Add(l.pause)
	l.logger.Warn().
		Int("status", status).
		Str("url", target).
		Dur("pause", l.pause).
		Msg("pausing all workers")
}

// Wait blocks until any active pause has elapsed.
func (l *Limiter) Wait(ctx context.Context) error {
	for {
		l.mu.Lock()
		resumeAt := l.resumeAt
		l.mu.Unlock()

		remaining := time.Until(resumeAt)
		if remaining <= 0 {
			return nil
		}

		timer := time.NewTimer(remaining)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Paused reports whether a pause is currently in effect.
func (l *Limiter) Paused() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return time.Now().Before(l.resumeAt)
}
