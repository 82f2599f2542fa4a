// Package ratelimit provides sliding-window admission control per calling
// client, tracked independently for read and write operation classes.
// Admission is a pure in-memory check with no I/O.
package ratelimit

import (
	"fmt"
	"sync"
	"time"

	"taskboard/internal/response"
)

// Class separates read traffic from write traffic; each gets its own
// window and limit.
type Class string

const (
	ClassRead  Class = "read"
	ClassWrite Class = "write"
)

// Error is the admission failure signal. It carries remaining-capacity and
// reset-time hints so surfaces can render retry guidance.
type Error struct {
	Class      Class
	Limit      int
	Remaining  int
	RetryAfter time.Duration
	ResetAt    time.Time
}

func (e *Error) Error() string {
	return fmt.Sprintf("rate limit exceeded: %d %s requests per window, retry after %s",
		e.Limit, e.Class, e.RetryAfter.Round(time.Second))
}

// Config sets the window and per-class limits.
type Config struct {
	Window     time.Duration
	ReadLimit  int
	WriteLimit int
	// MaxClients caps the number of tracked client identities. Once
	// reached, unseen identities are rejected with SERVER_BUSY instead of
	// admitted unbounded.
	MaxClients int
}

// DefaultConfig mirrors the shipped configuration file.
func DefaultConfig() Config {
	return Config{
		Window:     time.Minute,
		ReadLimit:  100,
		WriteLimit: 30,
		MaxClients: 1000,
	}
}

type bucket struct {
	mu     sync.Mutex
	stamps []time.Time
}

type client struct {
	lastSeen time.Time
	read     bucket
	write    bucket
}

// Limiter is an explicitly owned component, not a module-level singleton,
// so tests can construct isolated instances with controlled clocks.
type Limiter struct {
	cfg Config
	now func() time.Time

	mu      sync.Mutex
	clients map[string]*client
}

// Option customizes a Limiter.
type Option func(*Limiter)

// WithClock injects the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// New creates a Limiter with the given config.
func New(cfg Config, opts ...Option) *Limiter {
	l := &Limiter{
		cfg:     cfg,
		now:     time.Now,
		clients: make(map[string]*client),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Limiter) limit(class Class) int {
	if class == ClassWrite {
		return l.cfg.WriteLimit
	}
	return l.cfg.ReadLimit
}

// Admit records one request for the client/class bucket, or rejects it.
// Rejection is either *Error (window full) or a SERVER_BUSY AppError (the
// tracked-identity ceiling was hit by an unseen client). The lookup
// critical section is short; counting happens under the bucket's own
// mutex so distinct buckets never serialize.
func (l *Limiter) Admit(clientID string, class Class) error {
	now := l.now()

	l.mu.Lock()
	c, ok := l.clients[clientID]
	if !ok {
		if l.cfg.MaxClients > 0 && len(l.clients) >= l.cfg.MaxClients {
			l.mu.Unlock()
			return response.NewAppError(response.ErrCodeServerBusy,
				"too many active clients", "try again later")
		}
		c = &client{}
		l.clients[clientID] = c
	}
	c.lastSeen = now
	l.mu.Unlock()

	b := &c.read
	if class == ClassWrite {
		b = &c.write
	}
	limit := l.limit(class)
	cutoff := now.Add(-l.cfg.Window)

	b.mu.Lock()
	defer b.mu.Unlock()

	// Prune timestamps that slid out of the window.
	kept := b.stamps[:0]
	for _, ts := range b.stamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	b.stamps = kept

	if len(b.stamps) >= limit {
		oldest := b.stamps[0]
		resetAt := oldest.Add(l.cfg.Window)
		return &Error{
			Class:      class,
			Limit:      limit,
			Remaining:  0,
			RetryAfter: resetAt.Sub(now),
			ResetAt:    resetAt,
		}
	}

	b.stamps = append(b.stamps, now)
	return nil
}

// Count reports the tracked-timestamp count for one bucket as of now.
func (l *Limiter) Count(clientID string, class Class) int {
	l.mu.Lock()
	c, ok := l.clients[clientID]
	l.mu.Unlock()
	if !ok {
		return 0
	}
	b := &c.read
	if class == ClassWrite {
		b = &c.write
	}
	cutoff := l.now().Add(-l.cfg.Window)

	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, ts := range b.stamps {
		if ts.After(cutoff) {
			n++
		}
	}
	return n
}

// Sweep evicts clients idle past the window duration and returns the
// number evicted. Run it periodically to bound memory.
func (l *Limiter) Sweep() int {
	cutoff := l.now().Add(-l.cfg.Window)

	l.mu.Lock()
	defer l.mu.Unlock()
	evicted := 0
	for id, c := range l.clients {
		if c.lastSeen.Before(cutoff) {
			delete(l.clients, id)
			evicted++
		}
	}
	return evicted
}

// TrackedClients reports the number of client identities currently held.
func (l *Limiter) TrackedClients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}
