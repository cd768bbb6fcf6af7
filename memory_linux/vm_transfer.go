//go:build linux

package memory_linux

import (
	"fmt"
	"unsafe"

	"memprobe/memory"

	"golang.org/x/sys/unix"
)

// processVMReadv reads remote memory with the process_vm_readv syscall.
func processVMReadv(pid memory.PID, remoteAddr memory.Address, size uint64) ([]byte, error) {
	if size == 0 {
		return []byte{}, nil
	}
	localBuf := make([]byte, size)

	localIov := unix.Iovec{
		Base: &localBuf[0],
		Len:  size,
	}
	remoteIov := unix.RemoteIovec{
		Base: uintptr(remoteAddr),
		Len:  int(size),
	}

	n, _, errno := unix.Syscall6(
		unix.SYS_PROCESS_VM_READV,
		uintptr(pid),
		uintptr(unsafe.Pointer(&localIov)),
		uintptr(1),
		uintptr(unsafe.Pointer(&remoteIov)),
		uintptr(1),
		uintptr(0),
	)
	if errno != 0 {
		return nil, fmt.Errorf("process_vm_readv failed: %s (errno: %d)", errno.Error(), errno)
	}
	if uint64(n) != size {
		return localBuf[:n], fmt.Errorf("partial read: %d of %d bytes", n, size)
	}
	return localBuf, nil
}

// processVMWritev writes remote memory with the process_vm_writev
// syscall.
func processVMWritev(pid memory.PID, remoteAddr memory.Address, data []byte) (int, error) {
	localIov := unix.Iovec{
		Base: &data[0],
		Len:  uint64(len(data)),
	}
	remoteIov := unix.RemoteIovec{
		Base: uintptr(remoteAddr),
		Len:  len(data),
	}

	n, _, errno := unix.Syscall6(
		unix.SYS_PROCESS_VM_WRITEV,
		uintptr(pid),
		uintptr(unsafe.Pointer(&localIov)),
		uintptr(1),
		uintptr(unsafe.Pointer(&remoteIov)),
		uintptr(1),
		uintptr(0),
	)
	if errno != 0 {
		return 0, fmt.Errorf("process_vm_writev failed: %s (errno: %d)", errno.Error(), errno)
	}
	if int(n) != len(data) {
		return int(n), fmt.Errorf("partial write: %d of %d bytes", n, len(data))
	}
	return int(n), nil
}
