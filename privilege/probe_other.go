//go:build !linux && !windows && !darwin

package privilege

import "runtime"

// platformProbe: no strategy exists for this OS.
func platformProbe() (Result, bool) {
	return Result{
		Available: false,
		Reason:    "memory operations are not supported on platform: " + runtime.GOOS,
	}, false
}
