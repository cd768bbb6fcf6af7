// Package privilege probes whether the current process can perform
// cross-process memory operations on this platform. Probes can be
// expensive (the Windows check spawns a helper), and nearly every
// engine call is gated on one, so cacheable results are held for a
// short TTL. Redundant concurrent refreshes are safe: the probe is
// idempotent.
package privilege

import (
	"sync"
	"time"
)

// DefaultTTL is how long a cacheable probe result stays valid.
const DefaultTTL = 45 * time.Second

// Result reports whether privileged memory operations are available.
// Reason carries remediation text when blocked; Warning is non-blocking
// advice (macOS non-root).
type Result struct {
	Available bool
	Reason    string
	Warning   string
}

// probeFunc runs the platform check. cacheable marks results worth
// holding for the TTL (the expensive Windows probe); cheap probes are
// re-run every call.
type probeFunc func() (res Result, cacheable bool)

// Checker gates privileged operations, caching expensive probe results.
type Checker struct {
	mu        sync.Mutex
	ttl       time.Duration
	now       func() time.Time
	probe     probeFunc
	cached    Result
	checkedAt time.Time
	hasCached bool
}

// Option configures a Checker.
type Option func(*Checker)

// WithTTL overrides the cache TTL.
func WithTTL(ttl time.Duration) Option {
	return func(c *Checker) { c.ttl = ttl }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Checker) { c.now = now }
}

// WithProbe overrides the platform probe, for tests.
func WithProbe(probe func() (Result, bool)) Option {
	return func(c *Checker) { c.probe = probe }
}

// NewChecker creates a Checker using the platform probe for the current
// OS.
func NewChecker(opts ...Option) *Checker {
	c := &Checker{
		ttl:   DefaultTTL,
		now:   time.Now,
		probe: platformProbe,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check returns the availability result, serving a cached value while
// it is fresh.
func (c *Checker) Check() Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.hasCached && c.now().Sub(c.checkedAt) < c.ttl {
		return c.cached
	}

	res, cacheable := c.probe()
	if cacheable {
		c.cached = res
		c.checkedAt = c.now()
		c.hasCached = true
	} else {
		c.hasCached = false
	}
	return res
}

// Invalidate drops any cached result so the next Check re-probes.
func (c *Checker) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hasCached = false
}
