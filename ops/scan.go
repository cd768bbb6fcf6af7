package ops

import (
	"memprobe/memory"
	"memprobe/pattern"
)

// filteredScanWindow is the byte distance around a prior candidate
// within which a fresh match still counts as the same location.
const filteredScanWindow = 256

// Scan compiles the pattern spec and searches the target's readable
// memory. On darwin the pattern is compiled literally (wildcards
// dropped); that backend's search primitive cannot express don't-care
// bytes.
func (t *Toolkit) Scan(pid int, raw string, kind string) ScanResult {
	if err := validatePID(pid); err != nil {
		return ScanResult{Error: err.Error()}
	}

	pat, err := t.compilePattern(raw, kind)
	if err != nil {
		return ScanResult{Error: err.Error()}
	}

	if err := t.gate(); err != nil {
		return ScanResult{Error: err.Error()}
	}

	addrs, stats, err := t.backend.Scan(memory.PID(pid), pat, t.limits)
	if err != nil {
		return ScanResult{Error: err.Error()}
	}

	return ScanResult{
		Success:   true,
		Addresses: hexAddresses(addrs),
		Stats: &ScanStats{
			PatternLength:  stats.PatternLength,
			ResultsFound:   stats.ResultsFound,
			RegionsVisited: stats.RegionsVisited,
		},
	}
}

// FilteredScan narrows prior candidates: it runs one fresh scan and
// keeps matches that land within a small window of any candidate
// address. This serves the scan / mutate value / re-scan / intersect
// workflow.
func (t *Toolkit) FilteredScan(pid int, raw string, kind string, candidates []string) ScanResult {
	if err := validatePID(pid); err != nil {
		return ScanResult{Error: err.Error()}
	}

	var parsed []memory.Address
	for _, c := range candidates {
		addr, err := memory.ParseAddress(c)
		if err != nil {
			continue
		}
		parsed = append(parsed, addr)
	}
	if len(parsed) == 0 {
		return ScanResult{Error: "No valid addresses provided"}
	}

	pat, err := t.compilePattern(raw, kind)
	if err != nil {
		return ScanResult{Error: err.Error()}
	}

	if err := t.gate(); err != nil {
		return ScanResult{Error: err.Error()}
	}

	addrs, stats, err := t.backend.Scan(memory.PID(pid), pat, t.limits)
	if err != nil {
		return ScanResult{Error: err.Error()}
	}

	var kept []memory.Address
	for _, match := range addrs {
		for _, cand := range parsed {
			if within(match, cand, filteredScanWindow) {
				kept = append(kept, match)
				break
			}
		}
	}

	return ScanResult{
		Success:   true,
		Addresses: hexAddresses(kept),
		Stats: &ScanStats{
			PatternLength:  stats.PatternLength,
			ResultsFound:   len(kept),
			RegionsVisited: stats.RegionsVisited,
		},
	}
}

func (t *Toolkit) compilePattern(raw, kind string) (pattern.Pattern, error) {
	spec := pattern.Spec{Raw: raw, Kind: pattern.Kind(kind)}
	if t.backend.Platform() == "darwin" {
		return pattern.CompileLiteral(spec)
	}
	return pattern.Compile(spec)
}

func within(a, b memory.Address, window uint64) bool {
	if a >= b {
		return uint64(a-b) <= window
	}
	return uint64(b-a) <= window
}

func hexAddresses(addrs []memory.Address) []string {
	out := make([]string, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, a.Hex())
	}
	return out
}
