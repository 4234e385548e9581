package backend

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// throttle collapses bursts of poll wakeups (file events, refresh requests
// after every mutation) into at most one fetch per interval.
type throttle struct {
	limiter *rate.Limiter
}

func newThrottle(interval time.Duration) *throttle {
	if interval <= 0 {
		return &throttle{}
	}
	return &throttle{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// wait blocks until the next fetch may run. It returns ctx's error when the
// watcher stops first.
func (t *throttle) wait(ctx context.Context) error {
	if t == nil || t.limiter == nil {
		return nil
	}
	return t.limiter.Wait(ctx)
}
