//go:build darwin

package privilege

import (
	"os"
	"os/exec"
)

// platformProbe reports availability on macOS. The engine needs a
// discoverable lldb binary to drive; without it every memory operation
// would fail at spawn. Non-root is allowed but limited, so it warns
// rather than blocks.
func platformProbe() (Result, bool) {
	if _, err := exec.LookPath("lldb"); err != nil {
		return Result{
			Available: false,
			Reason:    "lldb not found in PATH; install the Xcode command line tools (xcode-select --install)",
		}, false
	}
	res := Result{Available: true}
	if os.Geteuid() != 0 {
		res.Warning = "not running as root: own-process access only"
	}
	return res, false
}
