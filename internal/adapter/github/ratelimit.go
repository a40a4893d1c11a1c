package github

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Number of remaining requests below which Throttle starts waiting.
const throttleThreshold = 10

// Extra wait added on top of the reported reset time, in case the server
// clock runs ahead of ours.
const throttleSlack = 5 * time.Second

// SleepFunc pauses the calling flow for given duration.
// Implementations must return early with ctx.Err() when the context is canceled.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the default SleepFunc backed by a real timer.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RateLimit tracks the API request budget reported by response headers.
// The remaining count is a hint from the most recent response, never an
// exact figure. One instance is shared by every caller issuing requests;
// access is serialized so a parallelized fetcher stays correct.
type RateLimit struct {
	mu        sync.Mutex
	remaining int
	reset     int64

	now   func() time.Time
	sleep SleepFunc
	l     logrus.FieldLogger
}

// NewRateLimit creates RateLimit with the anonymous-access default budget.
func NewRateLimit(l logrus.FieldLogger) *RateLimit {
	return &RateLimit{
		remaining: 60,
		reset:     0,
		now:       time.Now,
		sleep:     Sleep,
		l:         l,
	}
}

// Observe updates the budget from response headers. Headers that are absent
// leave the previous values in place.
func (r *RateLimit) Observe(h http.Header) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s := h.Get("X-RateLimit-Remaining"); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			r.remaining = v
		}
	}
	if s := h.Get("X-RateLimit-Reset"); s != "" {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			r.reset = v
		}
	}
}

// Throttle suspends the caller when the remaining budget is low.
// The wait lasts until the reported reset time plus a small slack.
func (r *RateLimit) Throttle(ctx context.Context) error {
	r.mu.Lock()
	remaining := r.remaining
	reset := r.reset
	r.mu.Unlock()

	if remaining >= throttleThreshold {
		return nil
	}

	wait := time.Duration(reset-r.now().Unix()) * time.Second
	if wait < 0 {
		wait = 0
	}
	wait += throttleSlack

	r.l.Warnf("rate limit low: %d requests remaining, waiting %s", remaining, wait)

	return r.sleep(ctx, wait)
}
