//go:build darwin

package memory_darwin

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"memprobe/memory"
)

// resultMarker prefixes the single JSON line the helper script emits on
// stdout, so it can be picked out of lldb's own chatter.
const resultMarker = "MEMPROBE_RESULT:"

const (
	helperTimeout = 15 * time.Second
	scanTimeout   = 120 * time.Second
)

// runHelper renders a Python script to a temporary file, drives it
// through an lldb batch session attached to pid, and decodes the
// marker-prefixed JSON line from stdout into out. The session always
// detaches and the script file is always removed, success or failure.
// On timeout the helper is killed and no partial results are recovered.
func runHelper(pid memory.PID, script string, timeout time.Duration, out any) error {
	tmp, err := os.CreateTemp("", "memprobe-*.py")
	if err != nil {
		return &memory.HelperProcessError{Helper: "lldb", Err: fmt.Errorf("create helper script: %w", err)}
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(script); err != nil {
		tmp.Close()
		return &memory.HelperProcessError{Helper: "lldb", Err: fmt.Errorf("write helper script: %w", err)}
	}
	tmp.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "lldb",
		"--batch", "--no-lldbinit",
		"--attach-pid", fmt.Sprintf("%d", pid),
		"-o", fmt.Sprintf("command script import %s", tmp.Name()),
		"-o", "detach",
		"-o", "quit",
	)
	output, err := cmd.CombinedOutput()
	if ctx.Err() == context.DeadlineExceeded {
		return &memory.HelperProcessError{Helper: "lldb", Err: fmt.Errorf("timed out after %s", timeout)}
	}
	if err != nil {
		if strings.Contains(string(output), "attach failed") {
			return &memory.TargetUnavailableError{PID: pid, Err: fmt.Errorf("lldb attach failed")}
		}
		return &memory.HelperProcessError{Helper: "lldb", Err: fmt.Errorf("%w: %s", err, firstLine(output))}
	}

	for _, line := range strings.Split(string(output), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, resultMarker) {
			continue
		}
		payload := strings.TrimPrefix(line, resultMarker)
		if err := json.Unmarshal([]byte(payload), out); err != nil {
			return &memory.HelperProcessError{Helper: "lldb", Err: fmt.Errorf("parse helper output: %w", err)}
		}
		return nil
	}
	return &memory.HelperProcessError{Helper: "lldb", Err: fmt.Errorf("no result in helper output")}
}

func firstLine(b []byte) string {
	s := strings.TrimSpace(string(b))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
