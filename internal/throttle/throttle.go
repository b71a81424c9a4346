package throttle

import (
	"strconv"
	"time"
)

const (
	DefaultMaxAttempts = 5
	DefaultLockout     = 5 * time.Minute

	attemptCountKey = "attempt_count"
	lockoutUntilKey = "lockout_until"
)

// Store is the key/value persistence behind a Guard. Values are string
// encoded. Implementations are expected to be safe for concurrent use, but
// the Guard itself reads then writes non-atomically: two concurrent callers
// for the same key can interleave and under- or over-count attempts. That is
// acceptable; the throttle is advisory friction, not a security boundary.
// The authentication provider's own rate limit is the real control.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// Decision is the outcome of a throttle check.
type Decision struct {
	Allowed          bool
	Remaining        time.Duration
	RemainingMinutes int // whole minutes until unlock, rounded up
}

// Guard counts failed login attempts per key and enforces a timed lockout
// once the attempt threshold is reached. All decisions are value based; a
// Store failure is treated as "state unknown, unlocked" so storage
// unavailability can never deny login permanently.
type Guard struct {
	store       Store
	maxAttempts int
	lockout     time.Duration
	now         func() time.Time
}

func NewGuard(store Store, maxAttempts int, lockout time.Duration) *Guard {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	if lockout <= 0 {
		lockout = DefaultLockout
	}
	return &Guard{
		store:       store,
		maxAttempts: maxAttempts,
		lockout:     lockout,
		now:         time.Now,
	}
}

// WithClock replaces the guard's clock. Tests use this to step time.
func (g *Guard) WithClock(now func() time.Time) *Guard {
	g.now = now
	return g
}

// Check reports whether an attempt under key may proceed. An expired lockout
// is cleared lazily here, so the next attempt starts a fresh cycle.
func (g *Guard) Check(key string) Decision {
	until, ok := g.lockoutUntil(key)
	if !ok {
		return Decision{Allowed: true}
	}

	now := g.now()
	if !now.Before(until) {
		g.reset(key)
		return Decision{Allowed: true}
	}

	remaining := until.Sub(now)
	minutes := int(remaining / time.Minute)
	if remaining%time.Minute > 0 {
		minutes++
	}
	return Decision{Allowed: false, Remaining: remaining, RemainingMinutes: minutes}
}

// RecordFailure registers a failed attempt. The failure that reaches the
// threshold starts the lockout window. Failures while already locked are not
// counted; the caller refuses them before reaching the provider.
func (g *Guard) RecordFailure(key string) {
	if d := g.Check(key); !d.Allowed {
		return
	}

	count := 1
	if raw, ok, err := g.store.Get(g.key(key, attemptCountKey)); err == nil && ok {
		if prev, perr := strconv.Atoi(raw); perr == nil {
			count = prev + 1
		}
	}

	_ = g.store.Set(g.key(key, attemptCountKey), strconv.Itoa(count))
	if count >= g.maxAttempts {
		until := g.now().Add(g.lockout)
		_ = g.store.Set(g.key(key, lockoutUntilKey), strconv.FormatInt(until.Unix(), 10))
	}
}

// RecordSuccess clears all throttle state for key, regardless of prior
// attempt count.
func (g *Guard) RecordSuccess(key string) {
	g.reset(key)
}

func (g *Guard) lockoutUntil(key string) (time.Time, bool) {
	raw, ok, err := g.store.Get(g.key(key, lockoutUntilKey))
	if err != nil || !ok {
		return time.Time{}, false
	}
	unix, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(unix, 0), true
}

func (g *Guard) reset(key string) {
	_ = g.store.Delete(g.key(key, attemptCountKey))
	_ = g.store.Delete(g.key(key, lockoutUntilKey))
}

func (g *Guard) key(key, field string) string {
	return key + ":" + field
}
