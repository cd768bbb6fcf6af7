package ops

import (
	"encoding/hex"
	"fmt"

	"memprobe/hexdump"
	"memprobe/memory"
)

// maxReadSize bounds a single read at the boundary.
const maxReadSize = 16 << 20

// Read copies size bytes from the target at the hex address.
func (t *Toolkit) Read(pid int, addrHex string, size uint64) ReadResult {
	if err := validatePID(pid); err != nil {
		return ReadResult{Error: err.Error()}
	}
	addr, err := memory.ParseAddress(addrHex)
	if err != nil {
		return ReadResult{Error: err.Error()}
	}
	if size < 1 || size > maxReadSize {
		return ReadResult{Error: fmt.Sprintf("invalid size: %d outside [1, %d]", size, uint64(maxReadSize))}
	}

	if err := t.gate(); err != nil {
		return ReadResult{Error: err.Error()}
	}

	data, err := t.backend.Read(memory.PID(pid), addr, size)
	if err != nil {
		return ReadResult{Error: err.Error()}
	}

	return ReadResult{
		Success:   true,
		Address:   addr.Hex(),
		Data:      hex.EncodeToString(data),
		BytesRead: len(data),
	}
}

// Write decodes the payload (before any platform dispatch) and patches
// the target at the hex address.
func (t *Toolkit) Write(pid int, addrHex string, data string, encoding string) WriteResult {
	if err := validatePID(pid); err != nil {
		return WriteResult{Error: err.Error()}
	}
	addr, err := memory.ParseAddress(addrHex)
	if err != nil {
		return WriteResult{Error: err.Error()}
	}
	payload, err := decodePayload(data, encoding)
	if err != nil {
		return WriteResult{Error: err.Error()}
	}
	if len(payload) == 0 {
		return WriteResult{Error: "invalid data: empty payload"}
	}

	if err := t.gate(); err != nil {
		return WriteResult{Error: err.Error()}
	}

	n, err := t.backend.Write(memory.PID(pid), addr, payload)
	if err != nil {
		return WriteResult{Address: addr.Hex(), Error: err.Error()}
	}

	return WriteResult{Success: true, Address: addr.Hex(), BytesWritten: n}
}

// Patch is one entry of a batch write.
type Patch struct {
	Address  string `json:"address"`
	Data     string `json:"data"`
	Encoding string `json:"encoding"`
}

// BatchWrite applies patches sequentially, isolating per-item failures:
// one bad address never aborts the batch, and earlier-applied patches
// stay in place on later failure. There is no transactionality across
// items.
func (t *Toolkit) BatchWrite(pid int, patches []Patch) BatchWriteResult {
	if err := validatePID(pid); err != nil {
		return BatchWriteResult{Error: err.Error()}
	}
	if len(patches) == 0 {
		return BatchWriteResult{Error: "invalid patches: empty batch"}
	}

	results := make([]WriteResult, 0, len(patches))
	failed := 0
	for _, p := range patches {
		res := t.Write(pid, p.Address, p.Data, p.Encoding)
		if !res.Success {
			if res.Address == "" {
				res.Address = p.Address
			}
			failed++
		}
		results = append(results, res)
	}

	out := BatchWriteResult{
		Success: failed == 0,
		Results: results,
		Failed:  failed,
	}
	if failed > 0 {
		out.Error = fmt.Sprintf("%d of %d patches failed", failed, len(patches))
	}
	return out
}

// DumpRegion reads a window of target memory and renders it both as raw
// hex and a formatted hexdump.
func (t *Toolkit) DumpRegion(pid int, addrHex string, size uint64) DumpResult {
	if err := validatePID(pid); err != nil {
		return DumpResult{Error: err.Error()}
	}
	addr, err := memory.ParseAddress(addrHex)
	if err != nil {
		return DumpResult{Error: err.Error()}
	}
	if size < 1 || size > maxReadSize {
		return DumpResult{Error: fmt.Sprintf("invalid size: %d outside [1, %d]", size, uint64(maxReadSize))}
	}

	if err := t.gate(); err != nil {
		return DumpResult{Error: err.Error()}
	}

	data, err := t.backend.Read(memory.PID(pid), addr, size)
	if err != nil {
		return DumpResult{Error: err.Error()}
	}

	return DumpResult{
		Success:   true,
		Address:   addr.Hex(),
		BytesRead: len(data),
		Hex:       hex.EncodeToString(data),
		Dump:      hexdump.DumpWithOffset(data, uint64(addr)),
	}
}
