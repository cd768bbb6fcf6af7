//go:build darwin

package ops

import (
	"memprobe/memory"
	"memprobe/memory_darwin"
)

func defaultBackend() memory.Backend {
	return memory_darwin.NewBackend()
}
