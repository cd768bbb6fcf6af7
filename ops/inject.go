package ops

import (
	"fmt"

	"memprobe/memory"
)

// maxShellcodeSize bounds a single shellcode payload at the boundary.
const maxShellcodeSize = 1 << 20

// InjectDLL loads a DLL into the target via a remote LoadLibrary
// thread. Windows only; every outcome is a structured record, never a
// thrown error.
func (t *Toolkit) InjectDLL(pid int, path string) InjectResult {
	if err := validatePID(pid); err != nil {
		return InjectResult{Error: err.Error()}
	}
	if path == "" {
		return InjectResult{Error: "invalid path: empty DLL path"}
	}

	if err := t.gate(); err != nil {
		return InjectResult{Error: err.Error()}
	}

	injector, ok := t.backend.(memory.Injector)
	if !ok {
		return InjectResult{Error: (&memory.PlatformUnsupportedError{
			Platform: t.backend.Platform(),
			Detail:   fmt.Sprintf("code injection is only supported on windows, not %s", t.backend.Platform()),
		}).Error()}
	}

	threadID, err := injector.InjectDLL(memory.PID(pid), path)
	if err != nil {
		return InjectResult{Error: err.Error()}
	}
	return InjectResult{Success: true, RemoteThreadID: threadID}
}

// InjectShellcode copies raw shellcode into the target and runs it on a
// remote thread. Windows only.
func (t *Toolkit) InjectShellcode(pid int, data string, encoding string) InjectResult {
	if err := validatePID(pid); err != nil {
		return InjectResult{Error: err.Error()}
	}
	shellcode, err := decodePayload(data, encoding)
	if err != nil {
		return InjectResult{Error: err.Error()}
	}
	if len(shellcode) == 0 || len(shellcode) > maxShellcodeSize {
		return InjectResult{Error: fmt.Sprintf("invalid shellcode: length %d outside [1, %d]", len(shellcode), maxShellcodeSize)}
	}

	if err := t.gate(); err != nil {
		return InjectResult{Error: err.Error()}
	}

	injector, ok := t.backend.(memory.Injector)
	if !ok {
		return InjectResult{Error: (&memory.PlatformUnsupportedError{
			Platform: t.backend.Platform(),
			Detail:   fmt.Sprintf("code injection is only supported on windows, not %s", t.backend.Platform()),
		}).Error()}
	}

	threadID, err := injector.InjectShellcode(memory.PID(pid), shellcode)
	if err != nil {
		return InjectResult{Error: err.Error()}
	}
	return InjectResult{Success: true, RemoteThreadID: threadID}
}
