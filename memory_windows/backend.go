//go:build windows

// Package memory_windows implements the memory.Backend strategy for
// Windows targets through the Win32 process memory APIs.
package memory_windows

import (
	"fmt"
	"unsafe"

	"memprobe/memory"
	"memprobe/memory/regionmap"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
	"golang.org/x/sys/windows"
)

const (
	processCreateThread     = 0x0002
	processVMOperation      = 0x0008
	processVMRead           = 0x0010
	processVMWrite          = 0x0020
	processQueryInformation = 0x0400

	memFree = 0x10000
)

var (
	modkernel32            = windows.NewLazySystemDLL("kernel32.dll")
	procVirtualAllocEx     = modkernel32.NewProc("VirtualAllocEx")
	procVirtualFreeEx      = modkernel32.NewProc("VirtualFreeEx")
	procVirtualProtectEx   = modkernel32.NewProc("VirtualProtectEx")
	procCreateRemoteThread = modkernel32.NewProc("CreateRemoteThread")
)

// WindowsBackend implements the memory.Backend interface for Windows.
type WindowsBackend struct {
	log *logger.Logger
}

// NewBackend creates a new WindowsBackend.
func NewBackend() *WindowsBackend {
	return &WindowsBackend{
		log: logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "memory-windows")),
	}
}

func (b *WindowsBackend) Platform() string { return "windows" }

// open opens the target with the given access rights. Handles are
// per-call; the backend holds no target state between operations.
func (b *WindowsBackend) open(pid memory.PID, access uint32) (windows.Handle, error) {
	handle, err := windows.OpenProcess(access, false, uint32(pid))
	if err != nil {
		return 0, &memory.TargetUnavailableError{PID: pid, Err: fmt.Errorf("OpenProcess failed: %w", err)}
	}
	return handle, nil
}

func isReadableProtect(protect uint32) bool {
	switch protect & 0xFF {
	case windows.PAGE_READONLY,
		windows.PAGE_READWRITE,
		windows.PAGE_WRITECOPY,
		windows.PAGE_EXECUTE_READ,
		windows.PAGE_EXECUTE_READWRITE,
		windows.PAGE_EXECUTE_WRITECOPY:
		return true
	}
	return false
}

func isWritableProtect(protect uint32) bool {
	switch protect & 0xFF {
	case windows.PAGE_READWRITE,
		windows.PAGE_WRITECOPY,
		windows.PAGE_EXECUTE_READWRITE,
		windows.PAGE_EXECUTE_WRITECOPY:
		return true
	}
	return false
}

func isExecutableProtect(protect uint32) bool {
	switch protect & 0xFF {
	case windows.PAGE_EXECUTE,
		windows.PAGE_EXECUTE_READ,
		windows.PAGE_EXECUTE_READWRITE,
		windows.PAGE_EXECUTE_WRITECOPY:
		return true
	}
	return false
}

func stateName(state uint32) string {
	switch state {
	case windows.MEM_COMMIT:
		return "committed"
	case windows.MEM_RESERVE:
		return "reserved"
	case memFree:
		return "free"
	}
	return fmt.Sprintf("0x%X", state)
}

func kindName(typ uint32) string {
	switch typ {
	case 0x20000:
		return "private"
	case 0x40000:
		return "mapped"
	case 0x1000000:
		return "image"
	}
	return fmt.Sprintf("0x%X", typ)
}

func protectString(protect uint32) string {
	flags := []byte{'-', '-', '-'}
	if isReadableProtect(protect) {
		flags[0] = 'r'
	}
	if isWritableProtect(protect) {
		flags[1] = 'w'
	}
	if isExecutableProtect(protect) {
		flags[2] = 'x'
	}
	return string(flags)
}

// Regions walks the target address space with VirtualQueryEx in
// ascending virtual-address order.
func (b *WindowsBackend) Regions(pid memory.PID) ([]regionmap.Region, error) {
	handle, err := b.open(pid, processQueryInformation)
	if err != nil {
		return nil, err
	}
	defer windows.CloseHandle(handle)

	limits := memory.DefaultScanLimits()
	var regions []regionmap.Region
	var addr uintptr
	for i := 0; i < limits.MaxRegions; i++ {
		var mbi windows.MemoryBasicInformation
		if err := windows.VirtualQueryEx(handle, addr, &mbi, unsafe.Sizeof(mbi)); err != nil {
			break
		}
		if mbi.RegionSize == 0 {
			break
		}

		regions = append(regions, regionmap.Region{
			Base:       uint64(mbi.BaseAddress),
			Size:       uint64(mbi.RegionSize),
			State:      stateName(mbi.State),
			Protection: protectString(mbi.Protect),
			Kind:       kindName(mbi.Type),
			Readable:   mbi.State == windows.MEM_COMMIT && isReadableProtect(mbi.Protect) && mbi.Protect&windows.PAGE_GUARD == 0,
			Writable:   mbi.State == windows.MEM_COMMIT && isWritableProtect(mbi.Protect),
			Executable: mbi.State == windows.MEM_COMMIT && isExecutableProtect(mbi.Protect),
		})

		next := uintptr(mbi.BaseAddress) + uintptr(mbi.RegionSize)
		if next <= addr || uint64(next) > uint64(limits.AddressCeiling) {
			break
		}
		addr = next
	}
	return regions, nil
}

func (b *WindowsBackend) Read(pid memory.PID, addr memory.Address, size uint64) ([]byte, error) {
	if size == 0 {
		return []byte{}, nil
	}
	handle, err := b.open(pid, processVMRead|processQueryInformation)
	if err != nil {
		return nil, err
	}
	defer windows.CloseHandle(handle)

	buf := make([]byte, size)
	var bytesRead uintptr
	if err := windows.ReadProcessMemory(handle, uintptr(addr), &buf[0], uintptr(size), &bytesRead); err != nil {
		return nil, fmt.Errorf("ReadProcessMemory failed at %s: %w", addr.Hex(), err)
	}
	if uint64(bytesRead) != size {
		return nil, fmt.Errorf("read incomplete: expected %d, got %d", size, bytesRead)
	}
	return buf, nil
}

func (b *WindowsBackend) Write(pid memory.PID, addr memory.Address, data []byte) (int, error) {
	if len(data) == 0 {
		return 0, &memory.ValidationError{Field: "data", Detail: "empty write payload"}
	}
	handle, err := b.open(pid, processVMWrite|processVMOperation|processQueryInformation)
	if err != nil {
		return 0, err
	}
	defer windows.CloseHandle(handle)

	var bytesWritten uintptr
	if err := windows.WriteProcessMemory(handle, uintptr(addr), &data[0], uintptr(len(data)), &bytesWritten); err != nil {
		if err == windows.ERROR_ACCESS_DENIED {
			return 0, &memory.PrivilegeError{
				Platform:    "windows",
				Remediation: "writing another process's memory requires Administrator (run elevated)",
			}
		}
		return 0, fmt.Errorf("WriteProcessMemory failed at %s: %w", addr.Hex(), err)
	}
	return int(bytesWritten), nil
}

// Protection decodes the raw protection bitmask of the region
// containing addr.
func (b *WindowsBackend) Protection(pid memory.PID, addr memory.Address) (*memory.Protection, error) {
	handle, err := b.open(pid, processQueryInformation)
	if err != nil {
		return nil, err
	}
	defer windows.CloseHandle(handle)

	var mbi windows.MemoryBasicInformation
	if err := windows.VirtualQueryEx(handle, uintptr(addr), &mbi, unsafe.Sizeof(mbi)); err != nil {
		return nil, fmt.Errorf("VirtualQueryEx failed at %s: %w", addr.Hex(), err)
	}

	return &memory.Protection{
		Base:       memory.Address(mbi.BaseAddress),
		Size:       uint64(mbi.RegionSize),
		Raw:        mbi.Protect,
		Readable:   isReadableProtect(mbi.Protect),
		Writable:   isWritableProtect(mbi.Protect),
		Executable: isExecutableProtect(mbi.Protect),
		Guard:      mbi.Protect&windows.PAGE_GUARD != 0,
	}, nil
}

// Modules enumerates the target's loaded modules via psapi.
func (b *WindowsBackend) Modules(pid memory.PID) ([]memory.Module, error) {
	handle, err := b.open(pid, processQueryInformation|processVMRead)
	if err != nil {
		return nil, err
	}
	defer windows.CloseHandle(handle)

	handles := make([]windows.Handle, 1024)
	var needed uint32
	if err := windows.EnumProcessModules(handle, &handles[0], uint32(len(handles))*uint32(unsafe.Sizeof(handles[0])), &needed); err != nil {
		return nil, fmt.Errorf("EnumProcessModules failed: %w", err)
	}
	count := int(needed) / int(unsafe.Sizeof(handles[0]))
	if count > len(handles) {
		count = len(handles)
	}

	modules := make([]memory.Module, 0, count)
	for _, mod := range handles[:count] {
		var name [windows.MAX_PATH]uint16
		path := ""
		if err := windows.GetModuleFileNameEx(handle, mod, &name[0], uint32(len(name))); err == nil {
			path = windows.UTF16ToString(name[:])
		}

		var info windows.ModuleInfo
		if err := windows.GetModuleInformation(handle, mod, &info, uint32(unsafe.Sizeof(info))); err != nil {
			continue
		}

		modules = append(modules, memory.Module{
			Name: basename(path),
			Path: path,
			Base: memory.Address(info.BaseOfDll),
			Size: uint64(info.SizeOfImage),
		})
	}
	return modules, nil
}

func basename(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '\\' || path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}
