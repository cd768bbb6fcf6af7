package ops

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"memprobe/memory"
)

// PointerChainResult reports a pointer-chain walk: every hop address in
// order, then the bytes read at the final location.
type PointerChainResult struct {
	Success bool     `json:"success"`
	Hops    []string `json:"hops,omitempty"`
	Address string   `json:"address,omitempty"`
	Data    string   `json:"data,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// ReadPointerChain dereferences a 64-bit pointer at base+offsets[i] for
// every offset except the last, treats the last as a raw byte offset
// into the final struct, and reads size bytes there.
//
// With no offsets it reads size bytes directly at base.
func (t *Toolkit) ReadPointerChain(pid int, baseHex string, size uint64, offsets []uint64) PointerChainResult {
	if err := validatePID(pid); err != nil {
		return PointerChainResult{Error: err.Error()}
	}
	base, err := memory.ParseAddress(baseHex)
	if err != nil {
		return PointerChainResult{Error: err.Error()}
	}
	if size < 1 || size > maxReadSize {
		return PointerChainResult{Error: fmt.Sprintf("invalid size: %d outside [1, %d]", size, uint64(maxReadSize))}
	}

	if err := t.gate(); err != nil {
		return PointerChainResult{Error: err.Error()}
	}

	hops := []string{base.Hex()}
	current := base

	if len(offsets) > 0 {
		for i := 0; i < len(offsets)-1; i++ {
			addr := current + memory.Address(offsets[i])
			raw, err := t.backend.Read(memory.PID(pid), addr, 8)
			if err != nil {
				return PointerChainResult{Hops: hops, Error: fmt.Sprintf("pointer read at step %d (%s + 0x%X) failed: %v", i, current.Hex(), offsets[i], err)}
			}
			if len(raw) < 8 {
				return PointerChainResult{Hops: hops, Error: fmt.Sprintf("pointer read at step %d (%s + 0x%X) returned %d bytes", i, current.Hex(), offsets[i], len(raw))}
			}
			ptr := memory.Address(binary.LittleEndian.Uint64(raw))
			if ptr == 0 {
				return PointerChainResult{Hops: hops, Error: fmt.Sprintf("null pointer at step %d (%s + 0x%X)", i, current.Hex(), offsets[i])}
			}
			current = ptr
			hops = append(hops, current.Hex())
		}
		// Last offset is a raw byte offset, never dereferenced.
		current += memory.Address(offsets[len(offsets)-1])
	}

	data, err := t.backend.Read(memory.PID(pid), current, size)
	if err != nil {
		return PointerChainResult{Hops: hops, Error: fmt.Sprintf("final read at %s failed: %v", current.Hex(), err)}
	}

	return PointerChainResult{
		Success: true,
		Hops:    hops,
		Address: current.Hex(),
		Data:    hex.EncodeToString(data),
	}
}
