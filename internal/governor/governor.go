// Package governor enforces the per-client question quota with a
// sliding window. Unlike a fixed bucket that resets on a boundary, the
// window moves continuously with "now", so a client can never burst
// 2x the quota by straddling a reset.
package governor

import (
	"fmt"
	"sync"
	"time"

	"github.com/akolanti/PDFMentor/internal/domain/faults"
)

// Decision reports the outcome of an admission check. Remaining
// reflects the state after an admitted request is counted. ResetAt is
// when the oldest retained request falls out of the window - the
// earliest moment a denied client gets a slot back.
type Decision struct {
	Admitted  bool
	Remaining int
	ResetAt   time.Time
}

// Governor tracks request timestamps per opaque client identifier.
// It is an injectable state object - construct one in main, hand it to
// the handlers. Entries are purged lazily on the next check for that
// identifier; no background sweeper runs.
type Governor struct {
	mu          sync.Mutex
	windows     map[string][]time.Time
	maxRequests int
	window      time.Duration
	now         func() time.Time
}

func New(maxRequests int, window time.Duration) *Governor {
	return &Governor{
		windows:     make(map[string][]time.Time),
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
	}
}

// NewWithClock is for tests that need to drive time by hand.
func NewWithClock(maxRequests int, window time.Duration, clock func() time.Time) *Governor {
	g := New(maxRequests, window)
	g.now = clock
	return g
}

// CheckAndAdmit purges stale entries for the identifier, then admits
// the request if the retained count is under the quota, recording the
// current time in the window. The read-modify-write runs under the
// lock so two concurrent requests can never both take the last slot.
func (g *Governor) CheckAndAdmit(identifier string) Decision {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	retained := g.purge(identifier, now)
	resetAt := g.resetTime(retained, now)

	remaining := g.maxRequests - len(retained)
	if remaining < 0 {
		remaining = 0
	}

	if len(retained) < g.maxRequests {
		g.windows[identifier] = append(retained, now)
		return Decision{Admitted: true, Remaining: remaining - 1, ResetAt: resetAt}
	}

	g.windows[identifier] = retained
	return Decision{Admitted: false, Remaining: 0, ResetAt: resetAt}
}

// Admit is CheckAndAdmit surfaced through the error taxonomy: a
// denial comes back as ErrRateLimited so boundary code can branch on
// the failure kind the same way it does for every other fault. The
// Decision is returned either way - a denied caller still needs the
// quota state for its response body.
func (g *Governor) Admit(identifier string) (Decision, error) {
	decision := g.CheckAndAdmit(identifier)
	if !decision.Admitted {
		return decision, fmt.Errorf("%w: retry after %s", faults.ErrRateLimited, decision.ResetAt.Format(time.RFC3339))
	}
	return decision, nil
}

// Peek reports the quota state without consuming a request. It may
// compact the identifier's bookkeeping but never changes what a
// subsequent CheckAndAdmit would decide.
func (g *Governor) Peek(identifier string) Decision {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if _, seen := g.windows[identifier]; !seen {
		return Decision{Remaining: g.maxRequests, ResetAt: now.Add(g.window)}
	}

	retained := g.purge(identifier, now)
	g.windows[identifier] = retained

	remaining := g.maxRequests - len(retained)
	if remaining < 0 {
		remaining = 0
	}
	return Decision{Remaining: remaining, ResetAt: g.resetTime(retained, now)}
}

// purge drops timestamps older than the window. Caller holds the lock.
func (g *Governor) purge(identifier string, now time.Time) []time.Time {
	requests := g.windows[identifier]
	cutoff := now.Add(-g.window)

	keep := requests[:0]
	for _, ts := range requests {
		if ts.After(cutoff) {
			keep = append(keep, ts)
		}
	}
	return keep
}

func (g *Governor) resetTime(retained []time.Time, now time.Time) time.Time {
	if len(retained) > 0 {
		return retained[0].Add(g.window)
	}
	return now.Add(g.window)
}
