//go:build linux

package memory_linux

import (
	"fmt"
	"os"

	"memprobe/memory"
)

// readProcMem reads target memory through /proc/<pid>/mem. This path
// needs ptrace-level access to the target.
func (b *LinuxBackend) readProcMem(pid memory.PID, addr memory.Address, size uint64) ([]byte, error) {
	f, err := os.OpenFile(fmt.Sprintf("/proc/%d/mem", pid), os.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("open /proc/%d/mem: %w", pid, err)
	}
	defer f.Close()

	buf := make([]byte, size)
	n, err := f.ReadAt(buf, int64(addr))
	if err != nil {
		return nil, fmt.Errorf("read /proc/%d/mem at %s: %w", pid, addr.Hex(), err)
	}
	if uint64(n) != size {
		return buf[:n], fmt.Errorf("partial read: %d of %d bytes", n, size)
	}
	return buf, nil
}

// writeProcMem patches target memory through /proc/<pid>/mem at the
// target offset.
func (b *LinuxBackend) writeProcMem(pid memory.PID, addr memory.Address, data []byte) (int, error) {
	f, err := os.OpenFile(fmt.Sprintf("/proc/%d/mem", pid), os.O_WRONLY, 0)
	if err != nil {
		return 0, fmt.Errorf("open /proc/%d/mem: %w", pid, err)
	}
	defer f.Close()

	n, err := f.WriteAt(data, int64(addr))
	if err != nil {
		return n, fmt.Errorf("write /proc/%d/mem at %s: %w", pid, addr.Hex(), err)
	}
	return n, nil
}
