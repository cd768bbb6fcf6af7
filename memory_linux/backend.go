//go:build linux

// Package memory_linux implements the memory.Backend strategy for Linux
// targets using process_vm_readv/writev with a /proc/<pid>/mem
// fallback.
package memory_linux

import (
	"fmt"
	"os"

	"memprobe/memory"
	"memprobe/memory/regionmap"
	"memprobe/pattern"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

// LinuxBackend implements the memory.Backend interface for Linux.
type LinuxBackend struct {
	log *logger.Logger
}

// NewBackend creates a new LinuxBackend.
func NewBackend() *LinuxBackend {
	return &LinuxBackend{
		log: logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "memory-linux")),
	}
}

func (b *LinuxBackend) Platform() string { return "linux" }

// checkTarget verifies the target process exists before any memory
// access is attempted.
func (b *LinuxBackend) checkTarget(pid memory.PID) error {
	if _, err := os.Stat(fmt.Sprintf("/proc/%d", pid)); err != nil {
		return &memory.TargetUnavailableError{PID: pid, Err: err}
	}
	return nil
}

// Regions enumerates the target's regions from /proc/<pid>/maps. The
// result is recomputed per call; the target's address space is
// volatile.
func (b *LinuxBackend) Regions(pid memory.PID) ([]regionmap.Region, error) {
	if err := b.checkTarget(pid); err != nil {
		return nil, err
	}
	regions, err := regionmap.ReadProcMaps(int(pid))
	if err != nil {
		return nil, fmt.Errorf("failed to read memory map: %w", err)
	}
	return regions, nil
}

func (b *LinuxBackend) Read(pid memory.PID, addr memory.Address, size uint64) ([]byte, error) {
	if err := b.checkTarget(pid); err != nil {
		return nil, err
	}

	regions, err := regionmap.ReadProcMaps(int(pid))
	if err != nil {
		return nil, fmt.Errorf("failed to read memory map: %w", err)
	}
	region := regionmap.Find(uint64(addr), regions)
	if region == nil || !region.Readable {
		return nil, memory.ErrAddressNotMapped
	}
	if uint64(addr)+size > region.End() {
		return nil, fmt.Errorf("read of %d bytes at %s crosses region end: %w", size, addr.Hex(), memory.ErrAddressNotMapped)
	}

	data, err := processVMReadv(pid, addr, size)
	if err == nil {
		return data, nil
	}
	b.log.Debugln("process_vm_readv failed, falling back to /proc mem:", err)

	data, memErr := b.readProcMem(pid, addr, size)
	if memErr != nil {
		return nil, &memory.PrivilegeError{
			Platform:    "linux",
			Remediation: fmt.Sprintf("reading process %d requires root or CAP_SYS_PTRACE (run as root)", pid),
		}
	}
	return data, nil
}

func (b *LinuxBackend) Write(pid memory.PID, addr memory.Address, data []byte) (int, error) {
	if err := b.checkTarget(pid); err != nil {
		return 0, err
	}
	if len(data) == 0 {
		return 0, &memory.ValidationError{Field: "data", Detail: "empty write payload"}
	}

	n, err := processVMWritev(pid, addr, data)
	if err == nil {
		return n, nil
	}
	b.log.Debugln("process_vm_writev failed, falling back to /proc mem:", err)

	n, memErr := b.writeProcMem(pid, addr, data)
	if memErr != nil {
		// Both paths need ptrace-level access; normalize to one
		// remediation-bearing error.
		return 0, &memory.PrivilegeError{
			Platform:    "linux",
			Remediation: fmt.Sprintf("writing process %d requires root (run as root)", pid),
		}
	}
	return n, nil
}

// Scan is a deliberate scope boundary on Linux: pattern scanning is not
// implemented. The intended approach is a bounded /proc/<pid>/maps walk
// mirroring the Windows strategy.
func (b *LinuxBackend) Scan(pid memory.PID, pat pattern.Pattern, limits memory.ScanLimits) ([]memory.Address, memory.ScanStats, error) {
	return nil, memory.ScanStats{}, &memory.PlatformUnsupportedError{
		Platform: "linux",
		Detail:   "memory scanning is not supported on linux; the planned implementation iterates /proc/<pid>/maps and masked-searches each readable region",
	}
}

// Protection inspection is Windows-only; the gap is reported rather
// than silently patched over with maps data.
func (b *LinuxBackend) Protection(pid memory.PID, addr memory.Address) (*memory.Protection, error) {
	return nil, &memory.PlatformUnsupportedError{
		Platform: "linux",
		Detail:   "protection inspection is only supported on windows",
	}
}

// Modules enumerates distinct file-backed mappings from
// /proc/<pid>/maps.
func (b *LinuxBackend) Modules(pid memory.PID) ([]memory.Module, error) {
	regions, err := b.Regions(pid)
	if err != nil {
		return nil, err
	}

	var modules []memory.Module
	seen := make(map[string]int)
	for _, r := range regions {
		if len(r.Kind) == 0 || r.Kind[0] != '/' {
			continue
		}
		if i, ok := seen[r.Kind]; ok {
			modules[i].Size += r.Size
			continue
		}
		seen[r.Kind] = len(modules)
		modules = append(modules, memory.Module{
			Name: basename(r.Kind),
			Path: r.Kind,
			Base: memory.Address(r.Base),
			Size: r.Size,
		})
	}
	return modules, nil
}

func basename(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}
