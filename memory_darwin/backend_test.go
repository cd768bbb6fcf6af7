//go:build darwin

package memory_darwin

import (
	"testing"

	"memprobe/memory"
	"memprobe/pattern"

	"github.com/stretchr/testify/assert"
)

// The write guards run before any helper spawn, so these never touch
// lldb.

func TestWriteRejectsNullPointer(t *testing.T) {
	b := NewBackend()

	_, err := b.Write(12345, 0, []byte{0x90})
	assert.EqualError(t, err, "Invalid address: null pointer (0x0)")

	_, err = b.Read(12345, 0, 4)
	assert.EqualError(t, err, "Invalid address: null pointer (0x0)")
}

func TestWriteRejectsBadLengths(t *testing.T) {
	b := NewBackend()

	_, err := b.Write(12345, 0x1000, nil)
	assert.Error(t, err)

	_, err = b.Write(12345, 0x1000, make([]byte, maxWriteLength+1))
	assert.Error(t, err)
}

func TestScanRejectsMaskedPatterns(t *testing.T) {
	b := NewBackend()

	pat := pattern.Pattern{Bytes: []byte{0x48, 0x00, 0x05}, Mask: []bool{true, false, true}}
	_, _, err := b.Scan(12345, pat, memory.DefaultScanLimits())
	assert.ErrorContains(t, err, "wildcard")
}
