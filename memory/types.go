// Package memory defines the shared types and the per-platform backend
// interface for process memory introspection.
package memory

import (
	"fmt"
	"strconv"
	"strings"
)

// PID identifies a target process. PIDs are externally supplied; the
// engine validates shape only.
type PID int

// Address is a canonical unsigned 64-bit virtual address. At the tool
// boundary addresses travel as hex strings.
type Address uint64

// Hex renders the address in 0x-prefixed upper-case hex.
func (a Address) Hex() string {
	return fmt.Sprintf("0x%X", uint64(a))
}

// ParseAddress parses a hex address string, with or without the 0x
// prefix.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty address")
	}
	trimmed := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	v, err := strconv.ParseUint(trimmed, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return Address(v), nil
}

// Protection describes the protection of the region containing one
// address.
type Protection struct {
	Base       Address
	Size       uint64
	Raw        uint32 // raw OS protection bits where the OS exposes them
	Readable   bool
	Writable   bool
	Executable bool
	Guard      bool
}

// Module is one loaded module of the target process.
type Module struct {
	Name string
	Path string
	Base Address
	Size uint64
}

// ScanStats summarizes the work performed by a scan.
type ScanStats struct {
	PatternLength  int
	RegionsVisited int
	BytesScanned   uint64
	ResultsFound   int
}
