//go:build windows

package privilege

import (
	"os/exec"

	"golang.org/x/sys/windows"
)

// platformProbe reports availability on Windows. The token elevation
// query is the fast path; if it cannot run, a "net session" helper is
// spawned (succeeds only for Administrators). Either way the result is
// cached: callers hit this on nearly every operation.
func platformProbe() (Result, bool) {
	elevated, err := tokenElevated()
	if err == nil {
		if elevated {
			return Result{Available: true}, true
		}
		return Result{
			Available: false,
			Reason:    "process is not elevated; run as Administrator to access other processes' memory",
		}, true
	}

	// Scripted fallback: "net session" exits zero only for admins.
	cmd := exec.Command("net", "session")
	if runErr := cmd.Run(); runErr != nil {
		if _, isExit := runErr.(*exec.ExitError); isExit {
			return Result{
				Available: false,
				Reason:    "process is not elevated; run as Administrator to access other processes' memory",
			}, true
		}
		return Result{
			Available: false,
			Reason:    "privilege check helper could not be spawned; verify the system PATH and retry",
		}, true
	}
	return Result{Available: true}, true
}

func tokenElevated() (bool, error) {
	var token windows.Token
	proc := windows.CurrentProcess()
	if err := windows.OpenProcessToken(proc, windows.TOKEN_QUERY, &token); err != nil {
		return false, err
	}
	defer token.Close()
	return token.IsElevated(), nil
}
