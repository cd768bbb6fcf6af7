package ops

import (
	"fmt"
	"time"

	"memprobe/memory"
	"memprobe/monitor"
)

// StartMonitor registers a repeating poll of a memory window and
// returns the monitor id. onChange receives the previous and current
// bytes when the window changes after its first observation.
func (t *Toolkit) StartMonitor(pid int, addrHex string, size uint64, intervalMs int, onChange monitor.ChangeFunc) MonitorResult {
	if err := validatePID(pid); err != nil {
		return MonitorResult{Error: err.Error()}
	}
	addr, err := memory.ParseAddress(addrHex)
	if err != nil {
		return MonitorResult{Error: err.Error()}
	}
	if intervalMs < 10 {
		return MonitorResult{Error: fmt.Sprintf("invalid intervalMs: %d below minimum 10", intervalMs)}
	}

	if err := t.gate(); err != nil {
		return MonitorResult{Error: err.Error()}
	}

	id, err := t.monitors.Start(memory.PID(pid), addr, size, time.Duration(intervalMs)*time.Millisecond, onChange)
	if err != nil {
		return MonitorResult{Error: err.Error()}
	}
	return MonitorResult{Success: true, MonitorID: id}
}

// StopMonitor halts a monitor. Idempotent: an unknown id returns false,
// never an error.
func (t *Toolkit) StopMonitor(id string) bool {
	return t.monitors.Stop(id)
}

// ActiveMonitors reports how many monitors this Toolkit owns.
func (t *Toolkit) ActiveMonitors() int {
	return t.monitors.Len()
}
