//go:build linux

package ops

import (
	"memprobe/memory"
	"memprobe/memory_linux"
)

func defaultBackend() memory.Backend {
	return memory_linux.NewBackend()
}
