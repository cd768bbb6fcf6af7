package ops

import (
	"strings"

	"github.com/shirou/gopsutil/v3/process"
)

// ListProcesses enumerates running processes, optionally filtered by a
// case-insensitive name substring. Fields that need privileges the
// caller lacks (exe, cmdline) degrade to empty rather than failing the
// listing.
func (t *Toolkit) ListProcesses(nameFilter string) ProcessListResult {
	procs, err := process.Processes()
	if err != nil {
		return ProcessListResult{Error: err.Error()}
	}

	filter := strings.ToLower(strings.TrimSpace(nameFilter))
	out := make([]ProcessInfo, 0, len(procs))
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			continue
		}
		if filter != "" && !strings.Contains(strings.ToLower(name), filter) {
			continue
		}
		exe, _ := p.Exe()
		cmdline, _ := p.Cmdline()
		out = append(out, ProcessInfo{
			PID:     p.Pid,
			Name:    name,
			Exe:     exe,
			Cmdline: cmdline,
		})
	}
	return ProcessListResult{Success: true, Processes: out}
}

// ProcessExists reports whether a pid is currently running.
func (t *Toolkit) ProcessExists(pid int) bool {
	if pid <= 0 {
		return false
	}
	exists, err := process.PidExists(int32(pid))
	return err == nil && exists
}
