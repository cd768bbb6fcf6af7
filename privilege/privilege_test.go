package privilege

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCheckCachesWithinTTL(t *testing.T) {
	now := time.Unix(0, 0)
	probes := 0

	c := NewChecker(
		WithClock(func() time.Time { return now }),
		WithProbe(func() (Result, bool) {
			probes++
			return Result{Available: true}, true
		}),
	)

	assert.True(t, c.Check().Available)
	assert.True(t, c.Check().Available)
	assert.Equal(t, 1, probes, "second check within TTL must serve the cache")

	now = now.Add(DefaultTTL - time.Second)
	c.Check()
	assert.Equal(t, 1, probes)

	now = now.Add(2 * time.Second)
	c.Check()
	assert.Equal(t, 2, probes, "expired cache must re-probe")
}

func TestCheckNonCacheableAlwaysProbes(t *testing.T) {
	probes := 0
	c := NewChecker(WithProbe(func() (Result, bool) {
		probes++
		return Result{Available: false, Reason: "run as root"}, false
	}))

	res := c.Check()
	assert.False(t, res.Available)
	assert.Equal(t, "run as root", res.Reason)

	c.Check()
	c.Check()
	assert.Equal(t, 3, probes)
}

func TestInvalidateDropsCache(t *testing.T) {
	probes := 0
	c := NewChecker(WithProbe(func() (Result, bool) {
		probes++
		return Result{Available: true}, true
	}))

	c.Check()
	c.Invalidate()
	c.Check()
	assert.Equal(t, 2, probes)
}

func TestWithTTL(t *testing.T) {
	now := time.Unix(0, 0)
	probes := 0
	c := NewChecker(
		WithTTL(time.Second),
		WithClock(func() time.Time { return now }),
		WithProbe(func() (Result, bool) {
			probes++
			return Result{Available: true}, true
		}),
	)

	c.Check()
	now = now.Add(500 * time.Millisecond)
	c.Check()
	assert.Equal(t, 1, probes)

	now = now.Add(time.Second)
	c.Check()
	assert.Equal(t, 2, probes)
}

func TestCheckCarriesWarning(t *testing.T) {
	c := NewChecker(WithProbe(func() (Result, bool) {
		return Result{Available: true, Warning: "not running as root: own-process access only"}, false
	}))

	res := c.Check()
	assert.True(t, res.Available)
	assert.Contains(t, res.Warning, "own-process access")
}
