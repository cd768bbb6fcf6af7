//go:build darwin

package memory_darwin

import (
	"encoding/hex"
	"fmt"
)

// The helper scripts run inside lldb's embedded Python, already
// attached to the target. Each prints exactly one marker-prefixed JSON
// line on stdout.

const scriptPrelude = `import json
import lldb

def emit(obj):
    print("` + resultMarker + `" + json.dumps(obj))

process = lldb.debugger.GetSelectedTarget().GetProcess()
if not process.IsValid():
    emit({"ok": False, "error": "no valid process"})
else:
`

func readScript(addr, size uint64) string {
	return scriptPrelude + fmt.Sprintf(`    err = lldb.SBError()
    data = process.ReadMemory(%d, %d, err)
    if err.Success():
        emit({"ok": True, "data": data.hex()})
    else:
        emit({"ok": False, "error": str(err)})
`, addr, size)
}

func writeScript(addr uint64, data []byte) string {
	return scriptPrelude + fmt.Sprintf(`    err = lldb.SBError()
    payload = bytes.fromhex("%s")
    n = process.WriteMemory(%d, payload, err)
    if err.Success():
        emit({"ok": True, "written": n})
    else:
        emit({"ok": False, "error": str(err)})
`, hex.EncodeToString(data), addr)
}

func regionsScript() string {
	return scriptPrelude + `    regions = []
    info_list = process.GetMemoryRegions()
    region = lldb.SBMemoryRegionInfo()
    for i in range(info_list.GetSize()):
        if not info_list.GetMemoryRegionAtIndex(i, region):
            continue
        base = region.GetRegionBase()
        size = region.GetRegionEnd() - base
        perms = ("r" if region.IsReadable() else "-") + \
                ("w" if region.IsWritable() else "-") + \
                ("x" if region.IsExecutable() else "-")
        regions.append({
            "base": base,
            "size": size,
            "perms": perms,
            "name": region.GetName() or "",
            "readable": region.IsReadable(),
            "writable": region.IsWritable(),
        })
    emit({"ok": True, "regions": regions})
`
}

func scanScript(needle []byte, maxMatches int) string {
	return scriptPrelude + fmt.Sprintf(`    needle = bytes.fromhex("%s")
    matches = []
    info_list = process.GetMemoryRegions()
    region = lldb.SBMemoryRegionInfo()
    for i in range(info_list.GetSize()):
        if len(matches) >= %d:
            break
        if not info_list.GetMemoryRegionAtIndex(i, region):
            continue
        if not region.IsReadable():
            continue
        base = region.GetRegionBase()
        size = region.GetRegionEnd() - base
        if size > %d:
            continue
        err = lldb.SBError()
        data = process.ReadMemory(base, size, err)
        if not err.Success():
            continue
        start = 0
        while len(matches) < %d:
            idx = data.find(needle, start)
            if idx < 0:
                break
            matches.append(base + idx)
            start = idx + 1
    emit({"ok": True, "matches": matches})
`, hex.EncodeToString(needle), maxMatches, maxScanRegion, maxMatches)
}

func modulesScript() string {
	return scriptPrelude + `    target = lldb.debugger.GetSelectedTarget()
    modules = []
    for i in range(target.GetNumModules()):
        mod = target.GetModuleAtIndex(i)
        spec = mod.GetFileSpec()
        header = mod.GetObjectFileHeaderAddress().GetLoadAddress(target)
        size = 0
        for j in range(mod.GetNumSections()):
            size += mod.GetSectionAtIndex(j).GetByteSize()
        modules.append({
            "name": spec.GetFilename() or "",
            "path": str(spec),
            "base": header,
            "size": size,
        })
    emit({"ok": True, "modules": modules})
`
}
