package memory

import (
	"memprobe/memory/regionmap"
	"memprobe/pattern"
)

// ScanLimits bounds every scan so termination and resource use hold
// regardless of target-process size.
type ScanLimits struct {
	// MaxResults caps the number of reported matches.
	MaxResults int

	// MaxRegions caps the number of regions visited.
	MaxRegions int

	// MaxRegionSize skips regions at or above this size.
	MaxRegionSize uint64

	// WindowSize truncates the bytes read from a single region.
	WindowSize uint64

	// AddressCeiling stops the walk once the next region would exceed
	// the user-mode address range.
	AddressCeiling Address
}

// DefaultScanLimits returns the standard bounds: 1,000 results, 50,000
// regions, 1GiB region ceiling, 16MiB read window, 47-bit user-mode
// address ceiling.
func DefaultScanLimits() ScanLimits {
	return ScanLimits{
		MaxResults:     1000,
		MaxRegions:     50000,
		MaxRegionSize:  1 << 30,
		WindowSize:     16 << 20,
		AddressCeiling: 0x00007FFFFFFFFFFF,
	}
}

// Backend is the per-platform memory access strategy. One
// implementation exists per OS and is selected once at startup;
// operations take the target pid on every call and recompute volatile
// state (regions, handles) per call.
type Backend interface {
	// Platform returns the platform tag this backend serves.
	Platform() string

	// Regions enumerates the target's memory regions in ascending
	// virtual-address order.
	Regions(pid PID) ([]regionmap.Region, error)

	// Read copies size bytes from the target at addr.
	Read(pid PID, addr Address, size uint64) ([]byte, error)

	// Write copies data into the target at addr and returns the number
	// of bytes written.
	Write(pid PID, addr Address, data []byte) (int, error)

	// Scan searches the target's readable regions for the pattern,
	// bounded by limits.
	Scan(pid PID, pat pattern.Pattern, limits ScanLimits) ([]Address, ScanStats, error)

	// Protection reports the protection of the region containing addr.
	Protection(pid PID, addr Address) (*Protection, error)

	// Modules enumerates the target's loaded modules.
	Modules(pid PID) ([]Module, error)
}

// Injector is implemented by backends that support remote code
// injection (Windows only).
type Injector interface {
	// InjectDLL loads the DLL at path into the target via a remote
	// thread and returns the remote thread id.
	InjectDLL(pid PID, path string) (uint32, error)

	// InjectShellcode copies shellcode into the target and starts a
	// remote thread at its base. The remote buffer is intentionally
	// never freed: the spawned thread is still executing it.
	InjectShellcode(pid PID, shellcode []byte) (uint32, error)
}
