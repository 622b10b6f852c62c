package middleware

import (
	"context"
	"time"
)

// WithPresence runs work while a background goroutine calls emit once
// per interval. The goroutine is always cancelled and joined before
// WithPresence returns, on every exit path, so no presence signal can
// outlive the request that started it.
func WithPresence(ctx context.Context, interval time.Duration, emit func(), work func()) {
	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		emit()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				emit()
			}
		}
	}()

	defer func() {
		close(done)
		<-stopped
	}()

	work()
}
