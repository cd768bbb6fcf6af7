//go:build darwin

// Package memory_darwin implements the memory.Backend strategy for
// macOS by driving an lldb helper process attached to the target.
// There is no in-process native binding on this platform; every
// operation is one coarse helper spawn.
package memory_darwin

import (
	"encoding/hex"
	"fmt"

	"memprobe/memory"
	"memprobe/memory/regionmap"
	"memprobe/pattern"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

const (
	maxWriteLength = 16 << 10 // 16KiB per single write
	maxScanRegion  = 32 << 20 // regions above 32MiB are skipped
	maxScanMatches = 1000
)

// DarwinBackend implements the memory.Backend interface for macOS.
type DarwinBackend struct {
	log *logger.Logger
}

// NewBackend creates a new DarwinBackend.
func NewBackend() *DarwinBackend {
	return &DarwinBackend{
		log: logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "memory-darwin")),
	}
}

func (b *DarwinBackend) Platform() string { return "darwin" }

type helperRegion struct {
	Base     uint64 `json:"base"`
	Size     uint64 `json:"size"`
	Perms    string `json:"perms"`
	Name     string `json:"name"`
	Readable bool   `json:"readable"`
	Writable bool   `json:"writable"`
}

type helperResult struct {
	OK      bool           `json:"ok"`
	Error   string         `json:"error"`
	Data    string         `json:"data"`
	Written int            `json:"written"`
	Regions []helperRegion `json:"regions"`
	Matches []uint64       `json:"matches"`
	Modules []struct {
		Name string `json:"name"`
		Path string `json:"path"`
		Base uint64 `json:"base"`
		Size uint64 `json:"size"`
	} `json:"modules"`
}

func (b *DarwinBackend) Regions(pid memory.PID) ([]regionmap.Region, error) {
	var res helperResult
	if err := runHelper(pid, regionsScript(), helperTimeout, &res); err != nil {
		return nil, err
	}
	if !res.OK {
		return nil, fmt.Errorf("region enumeration failed: %s", res.Error)
	}

	regions := make([]regionmap.Region, 0, len(res.Regions))
	for _, r := range res.Regions {
		regions = append(regions, regionmap.Region{
			Base:       r.Base,
			Size:       r.Size,
			State:      "mapped",
			Protection: r.Perms,
			Kind:       r.Name,
			Readable:   r.Readable,
			Writable:   r.Writable,
			Executable: len(r.Perms) > 2 && r.Perms[2] == 'x',
		})
	}
	regionmap.Sort(regions)
	return regions, nil
}

func (b *DarwinBackend) Read(pid memory.PID, addr memory.Address, size uint64) ([]byte, error) {
	if addr == 0 {
		return nil, &memory.ValidationError{Detail: "Invalid address: null pointer (0x0)"}
	}
	var res helperResult
	if err := runHelper(pid, readScript(uint64(addr), size), helperTimeout, &res); err != nil {
		return nil, err
	}
	if !res.OK {
		return nil, fmt.Errorf("read at %s failed: %s", addr.Hex(), res.Error)
	}
	data, err := hex.DecodeString(res.Data)
	if err != nil {
		return nil, &memory.HelperProcessError{Helper: "lldb", Err: fmt.Errorf("bad hex in helper output: %w", err)}
	}
	return data, nil
}

// Write guards inputs up front: the null page is rejected, lengths are
// bounded, and the target region's protection is queried first so a
// non-writable destination fails with a descriptive error instead of a
// debugger fault.
func (b *DarwinBackend) Write(pid memory.PID, addr memory.Address, data []byte) (int, error) {
	if addr == 0 {
		return 0, &memory.ValidationError{Detail: "Invalid address: null pointer (0x0)"}
	}
	if len(data) < 1 || len(data) > maxWriteLength {
		return 0, &memory.ValidationError{
			Field:  "data",
			Detail: fmt.Sprintf("write length %d outside [1, %d]", len(data), maxWriteLength),
		}
	}

	regions, err := b.Regions(pid)
	if err != nil {
		return 0, err
	}
	region := regionmap.Find(uint64(addr), regions)
	if region == nil {
		return 0, memory.ErrAddressNotMapped
	}
	if !region.Writable {
		return 0, fmt.Errorf("region at %s is not writable (%s)", addr.Hex(), region.Protection)
	}

	var res helperResult
	if err := runHelper(pid, writeScript(uint64(addr), data), helperTimeout, &res); err != nil {
		return 0, err
	}
	if !res.OK {
		return 0, fmt.Errorf("write at %s failed: %s", addr.Hex(), res.Error)
	}
	return res.Written, nil
}

// Scan runs a literal contains-scan inside the helper. The lldb search
// primitive cannot express wildcards, so callers must compile patterns
// with pattern.CompileLiteral; a masked pattern is rejected here rather
// than silently degraded.
func (b *DarwinBackend) Scan(pid memory.PID, pat pattern.Pattern, limits memory.ScanLimits) ([]memory.Address, memory.ScanStats, error) {
	stats := memory.ScanStats{PatternLength: pat.Len()}
	if !pat.IsLiteral() {
		return nil, stats, &memory.ValidationError{
			Field:  "pattern",
			Detail: "darwin scanning cannot express wildcard bytes; compile the pattern literally",
		}
	}

	max := limits.MaxResults
	if max > maxScanMatches {
		max = maxScanMatches
	}

	var res helperResult
	if err := runHelper(pid, scanScript(pat.Bytes, max), scanTimeout, &res); err != nil {
		return nil, stats, err
	}
	if !res.OK {
		return nil, stats, fmt.Errorf("scan failed: %s", res.Error)
	}

	addrs := make([]memory.Address, 0, len(res.Matches))
	for _, m := range res.Matches {
		addrs = append(addrs, memory.Address(m))
	}
	stats.ResultsFound = len(addrs)
	return addrs, stats, nil
}

// Protection inspection is Windows-only; the gap is reported.
func (b *DarwinBackend) Protection(pid memory.PID, addr memory.Address) (*memory.Protection, error) {
	return nil, &memory.PlatformUnsupportedError{
		Platform: "darwin",
		Detail:   "protection inspection is only supported on windows",
	}
}

func (b *DarwinBackend) Modules(pid memory.PID) ([]memory.Module, error) {
	var res helperResult
	if err := runHelper(pid, modulesScript(), helperTimeout, &res); err != nil {
		return nil, err
	}
	if !res.OK {
		return nil, fmt.Errorf("module enumeration failed: %s", res.Error)
	}

	modules := make([]memory.Module, 0, len(res.Modules))
	for _, m := range res.Modules {
		modules = append(modules, memory.Module{
			Name: m.Name,
			Path: m.Path,
			Base: memory.Address(m.Base),
			Size: m.Size,
		})
	}
	return modules, nil
}
