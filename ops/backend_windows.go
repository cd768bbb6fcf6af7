//go:build windows

package ops

import (
	"memprobe/memory"
	"memprobe/memory_windows"
)

func defaultBackend() memory.Backend {
	return memory_windows.NewBackend()
}
