package ops

import (
	"memprobe/memory"
)

// ListRegions enumerates the target's memory regions in ascending
// virtual-address order. The enumeration is recomputed per call; the
// target's address space is volatile.
func (t *Toolkit) ListRegions(pid int) RegionsResult {
	if err := validatePID(pid); err != nil {
		return RegionsResult{Error: err.Error()}
	}
	if err := t.gate(); err != nil {
		return RegionsResult{Error: err.Error()}
	}

	regions, err := t.backend.Regions(memory.PID(pid))
	if err != nil {
		return RegionsResult{Error: err.Error()}
	}

	out := make([]RegionInfo, 0, len(regions))
	for _, r := range regions {
		out = append(out, RegionInfo{
			Base:       memory.Address(r.Base).Hex(),
			Size:       r.Size,
			State:      r.State,
			Protection: r.Protection,
			Kind:       r.Kind,
			Readable:   r.Readable,
		})
	}
	return RegionsResult{Success: true, Regions: out}
}

// CheckProtection decodes the protection flags of the region containing
// the hex address.
func (t *Toolkit) CheckProtection(pid int, addrHex string) ProtectionResult {
	if err := validatePID(pid); err != nil {
		return ProtectionResult{Error: err.Error()}
	}
	addr, err := memory.ParseAddress(addrHex)
	if err != nil {
		return ProtectionResult{Error: err.Error()}
	}
	if err := t.gate(); err != nil {
		return ProtectionResult{Error: err.Error()}
	}

	prot, err := t.backend.Protection(memory.PID(pid), addr)
	if err != nil {
		return ProtectionResult{Error: err.Error()}
	}

	return ProtectionResult{
		Success:    true,
		Address:    addr.Hex(),
		Base:       prot.Base.Hex(),
		Size:       prot.Size,
		Raw:        prot.Raw,
		Readable:   prot.Readable,
		Writable:   prot.Writable,
		Executable: prot.Executable,
		Guard:      prot.Guard,
	}
}

// Modules enumerates the target's loaded modules.
func (t *Toolkit) Modules(pid int) ModulesResult {
	if err := validatePID(pid); err != nil {
		return ModulesResult{Error: err.Error()}
	}
	if err := t.gate(); err != nil {
		return ModulesResult{Error: err.Error()}
	}

	modules, err := t.backend.Modules(memory.PID(pid))
	if err != nil {
		return ModulesResult{Error: err.Error()}
	}

	out := make([]ModuleInfo, 0, len(modules))
	for _, m := range modules {
		out = append(out, ModuleInfo{
			Name: m.Name,
			Path: m.Path,
			Base: m.Base.Hex(),
			Size: m.Size,
		})
	}
	return ModulesResult{Success: true, Modules: out}
}
