//go:build windows

package memory_windows

import (
	"unsafe"

	"memprobe/memory"
	"memprobe/pattern"

	"golang.org/x/sys/windows"
)

// Scan walks the target's committed, readable regions in ascending
// virtual-address order and runs a masked byte search over each. Every
// bound in limits is enforced so the scan terminates regardless of the
// target's size: large regions are truncated to the read window, huge
// regions are skipped outright, and the walk stops at the result cap,
// the region cap, or the user-mode address ceiling.
func (b *WindowsBackend) Scan(pid memory.PID, pat pattern.Pattern, limits memory.ScanLimits) ([]memory.Address, memory.ScanStats, error) {
	stats := memory.ScanStats{PatternLength: pat.Len()}

	handle, err := b.open(pid, processVMRead|processQueryInformation)
	if err != nil {
		return nil, stats, err
	}
	defer windows.CloseHandle(handle)

	b.log.Infoln("Starting memory scan for pattern of length", pat.Len())

	var results []memory.Address
	var addr uintptr
	buf := make([]byte, 0)

walk:
	for stats.RegionsVisited < limits.MaxRegions {
		var mbi windows.MemoryBasicInformation
		if err := windows.VirtualQueryEx(handle, addr, &mbi, unsafe.Sizeof(mbi)); err != nil {
			break
		}
		regionSize := uint64(mbi.RegionSize)
		base := uintptr(mbi.BaseAddress)
		if regionSize == 0 {
			break
		}
		stats.RegionsVisited++

		readable := mbi.State == windows.MEM_COMMIT &&
			isReadableProtect(mbi.Protect) &&
			mbi.Protect&windows.PAGE_GUARD == 0

		if readable && regionSize >= 1 && regionSize < limits.MaxRegionSize {
			window := regionSize
			if window > limits.WindowSize {
				window = limits.WindowSize
			}
			if cap(buf) < int(window) {
				buf = make([]byte, window)
			} else {
				buf = buf[:window]
			}

			var bytesRead uintptr
			if err := windows.ReadProcessMemory(handle, base, &buf[0], uintptr(window), &bytesRead); err == nil && bytesRead > 0 {
				stats.BytesScanned += uint64(bytesRead)
				remaining := limits.MaxResults - len(results)
				matches := memory.FindMatches(buf[:bytesRead], pat, memory.Address(base), remaining)
				results = append(results, matches...)
				if len(results) >= limits.MaxResults {
					break walk
				}
			} else if err != nil {
				b.log.Debugln("Failed to read region at", memory.Address(base).Hex(), err)
			}
		}

		next := base + uintptr(regionSize)
		// Stop when the walk would wrap or leave user-mode space.
		if next <= base || uint64(next) > uint64(limits.AddressCeiling) {
			break
		}
		addr = next
	}

	stats.ResultsFound = len(results)
	b.log.Infoln("Scan complete, found", len(results), "matches in", stats.RegionsVisited, "regions")
	return results, stats, nil
}
