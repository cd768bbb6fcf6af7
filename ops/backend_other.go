//go:build !linux && !windows && !darwin

package ops

import (
	"runtime"

	"memprobe/memory"
)

func defaultBackend() memory.Backend {
	return memory.NewUnsupportedBackend(runtime.GOOS)
}
