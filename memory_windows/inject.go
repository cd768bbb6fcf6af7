//go:build windows

package memory_windows

import (
	"fmt"
	"os"
	"unsafe"

	"memprobe/memory"

	"golang.org/x/sys/windows"
)

const (
	memCommit  = 0x1000
	memReserve = 0x2000
	memRelease = 0x8000
)

func virtualAllocEx(process windows.Handle, size int, protect uint32) (uintptr, error) {
	addr, _, err := procVirtualAllocEx.Call(
		uintptr(process),
		0,
		uintptr(size),
		memCommit|memReserve,
		uintptr(protect),
	)
	if addr == 0 {
		return 0, fmt.Errorf("VirtualAllocEx failed: %v", err)
	}
	return addr, nil
}

func virtualFreeEx(process windows.Handle, addr uintptr) {
	procVirtualFreeEx.Call(uintptr(process), addr, 0, memRelease)
}

func virtualProtectEx(process windows.Handle, addr uintptr, size int, protect uint32) error {
	var old uint32
	ret, _, err := procVirtualProtectEx.Call(
		uintptr(process),
		addr,
		uintptr(size),
		uintptr(protect),
		uintptr(unsafe.Pointer(&old)),
	)
	if ret == 0 {
		return fmt.Errorf("VirtualProtectEx failed: %v", err)
	}
	return nil
}

func createRemoteThread(process windows.Handle, entry, arg uintptr) (uint32, error) {
	var threadID uint32
	handle, _, err := procCreateRemoteThread.Call(
		uintptr(process),
		0,
		0,
		entry,
		arg,
		0,
		uintptr(unsafe.Pointer(&threadID)),
	)
	if handle == 0 {
		return 0, fmt.Errorf("CreateRemoteThread failed: %v", err)
	}
	windows.CloseHandle(windows.Handle(handle))
	return threadID, nil
}

func (b *WindowsBackend) openForInjection(pid memory.PID) (windows.Handle, error) {
	access := uint32(processCreateThread | processVMOperation | processVMRead | processVMWrite | processQueryInformation)
	handle, err := windows.OpenProcess(access, false, uint32(pid))
	if err != nil {
		if err == windows.ERROR_ACCESS_DENIED {
			return 0, &memory.PrivilegeError{
				Platform:    "windows",
				Remediation: "injection requires Administrator (run elevated)",
			}
		}
		return 0, &memory.TargetUnavailableError{PID: pid, Err: fmt.Errorf("OpenProcess failed: %w", err)}
	}
	return handle, nil
}

// InjectDLL writes the DLL path into the target and starts a remote
// thread at LoadLibraryW. The remote path buffer is freed on every exit
// path; the loader owns the module afterwards.
func (b *WindowsBackend) InjectDLL(pid memory.PID, path string) (uint32, error) {
	if _, err := os.Stat(path); err != nil {
		return 0, &memory.ValidationError{Field: "path", Detail: fmt.Sprintf("DLL not found: %s", path)}
	}

	pathUTF16, err := windows.UTF16FromString(path)
	if err != nil {
		return 0, &memory.ValidationError{Field: "path", Detail: err.Error()}
	}

	handle, err := b.openForInjection(pid)
	if err != nil {
		return 0, err
	}
	defer windows.CloseHandle(handle)

	// LoadLibraryW lives at the same address in every process because
	// kernel32 is always resident at a shared base.
	kernel32Name, _ := windows.UTF16PtrFromString("kernel32.dll")
	kernel32, err := windows.GetModuleHandle(kernel32Name)
	if err != nil {
		return 0, fmt.Errorf("GetModuleHandle(kernel32) failed: %w", err)
	}
	loadLibrary, err := windows.GetProcAddress(kernel32, "LoadLibraryW")
	if err != nil {
		return 0, fmt.Errorf("GetProcAddress(LoadLibraryW) failed: %w", err)
	}

	size := len(pathUTF16) * 2
	remote, err := virtualAllocEx(handle, size, windows.PAGE_READWRITE)
	if err != nil {
		return 0, err
	}
	defer virtualFreeEx(handle, remote)

	var written uintptr
	if err := windows.WriteProcessMemory(handle, remote, (*byte)(unsafe.Pointer(&pathUTF16[0])), uintptr(size), &written); err != nil {
		return 0, fmt.Errorf("WriteProcessMemory failed: %w", err)
	}

	threadID, err := createRemoteThread(handle, loadLibrary, remote)
	if err != nil {
		return 0, err
	}

	b.log.Infoln("Injected DLL", path, "into pid", pid, "thread", threadID)
	return threadID, nil
}

// InjectShellcode allocates a read-write buffer, writes the shellcode,
// flips the buffer to read-write-execute, then starts a remote thread
// at its base. The buffer is never requested as RWX atomically, and is
// never freed afterwards: the spawned thread is still executing it, so
// its lifetime belongs to the target.
func (b *WindowsBackend) InjectShellcode(pid memory.PID, shellcode []byte) (uint32, error) {
	if len(shellcode) == 0 {
		return 0, &memory.ValidationError{Field: "shellcode", Detail: "empty shellcode"}
	}

	handle, err := b.openForInjection(pid)
	if err != nil {
		return 0, err
	}
	defer windows.CloseHandle(handle)

	remote, err := virtualAllocEx(handle, len(shellcode), windows.PAGE_READWRITE)
	if err != nil {
		return 0, err
	}

	var written uintptr
	if err := windows.WriteProcessMemory(handle, remote, &shellcode[0], uintptr(len(shellcode)), &written); err != nil {
		virtualFreeEx(handle, remote)
		return 0, fmt.Errorf("WriteProcessMemory failed: %w", err)
	}

	if err := virtualProtectEx(handle, remote, len(shellcode), windows.PAGE_EXECUTE_READWRITE); err != nil {
		virtualFreeEx(handle, remote)
		return 0, err
	}

	threadID, err := createRemoteThread(handle, remote, 0)
	if err != nil {
		virtualFreeEx(handle, remote)
		return 0, err
	}

	b.log.Infoln("Injected", len(shellcode), "bytes of shellcode into pid", pid, "thread", threadID)
	return threadID, nil
}
