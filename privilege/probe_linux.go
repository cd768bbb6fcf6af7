//go:build linux

package privilege

import (
	"os"
	"strconv"
	"strings"
)

const capSysPtrace = 19

// platformProbe reports availability on Linux: root always qualifies,
// otherwise the effective capability set is checked for CAP_SYS_PTRACE.
// The probe is cheap, so results are not cached.
func platformProbe() (Result, bool) {
	if os.Geteuid() == 0 {
		return Result{Available: true}, false
	}
	if hasEffectiveCapability(capSysPtrace) {
		return Result{Available: true}, false
	}
	return Result{
		Available: false,
		Reason:    "cross-process memory access on linux requires root or CAP_SYS_PTRACE; run as root",
	}, false
}

// hasEffectiveCapability checks a capability bit in /proc/self/status
// CapEff.
func hasEffectiveCapability(bit uint) bool {
	data, err := os.ReadFile("/proc/self/status")
	if err != nil {
		return false
	}
	for _, line := range strings.Split(string(data), "\n") {
		if !strings.HasPrefix(line, "CapEff:") {
			continue
		}
		hexVal := strings.TrimSpace(strings.TrimPrefix(line, "CapEff:"))
		caps, err := strconv.ParseUint(hexVal, 16, 64)
		if err != nil {
			return false
		}
		return caps&(1<<bit) != 0
	}
	return false
}
