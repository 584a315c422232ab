package http

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter gates requests to a single destination so that at most one
// request is dispatched per interval.
//
// Limiter is not a token bucket in the usual sense: the underlying
// rate.Limiter has a burst of one, so after an idle period only a single
// request may go out immediately and every following request waits
// until the full interval has elapsed since the previous hit:
//
//	delay = max(0, interval - (now - lastHit))
//
// A Limiter is safe for concurrent use. Waiters are serialized, which makes
// the Limiter the single point of mutual exclusion for its destination.
type Limiter struct {
	mu       sync.Mutex
	bucket   *rate.Limiter
	interval time.Duration
	lastHit  time.Time
}

// NewLimiter creates a Limiter with the given minimum interval between
// requests. The first permission is granted immediately. A non-positive
// interval disables throttling.
func NewLimiter(interval time.Duration) *Limiter {
	if interval < 0 {
		interval = 0
	}
	return &Limiter{
		bucket:   rate.NewLimiter(rate.Every(interval), 1),
		interval: interval,
	}
}

// Interval returns the minimum interval between two hits.
func (l *Limiter) Interval() time.Duration {
	return l.interval
}

// Wait blocks until the interval has elapsed since the last hit and then
// records a new hit before returning. Permission and hit recording happen
// in one step, so a slow response cannot let a burst of requests through.
//
// Wait returns the context error if ctx is done before permission is
// granted; no hit is recorded in that case.
func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.bucket.Wait(ctx); err != nil {
		return err
	}
	l.advance(time.Now())
	return nil
}

// RecordHit marks a request as dispatched now. The next permission is
// granted no earlier than one interval from now.
func (l *Limiter) RecordHit() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Before(l.lastHit) {
		return
	}
	l.bucket = rate.NewLimiter(rate.Every(l.interval), 1)
	l.bucket.AllowN(now, 1)
	l.lastHit = now
}

// LastHit returns the time of the most recent recorded hit. It is the zero
// time if no request has gone through yet.
func (l *Limiter) LastHit() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastHit
}

// Delay reports how long a caller asking for permission now would have to
// wait.
func (l *Limiter) Delay() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.lastHit.IsZero() {
		return 0
	}
	d := l.interval - time.Since(l.lastHit)
	if d < 0 {
		return 0
	}
	return d
}

// advance moves lastHit forward; it never moves backwards.
func (l *Limiter) advance(now time.Time) {
	if now.After(l.lastHit) {
		l.lastHit = now
	}
}
