package ops

// Result records returned at the tool boundary. Every record carries at
// least success, and error text on failure; they are plain data and
// JSON-serializable. Binary payloads cross this boundary only as hex or
// base64 text.

// ScanStats summarizes a completed scan.
type ScanStats struct {
	PatternLength  int `json:"patternLength"`
	ResultsFound   int `json:"resultsFound"`
	RegionsVisited int `json:"regionsVisited,omitempty"`
}

// ScanResult reports pattern scan matches as hex addresses.
type ScanResult struct {
	Success   bool       `json:"success"`
	Addresses []string   `json:"addresses,omitempty"`
	Stats     *ScanStats `json:"stats,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// ReadResult carries bytes read from one address, hex-encoded.
type ReadResult struct {
	Success   bool   `json:"success"`
	Address   string `json:"address,omitempty"`
	Data      string `json:"data,omitempty"`
	BytesRead int    `json:"bytesRead,omitempty"`
	Error     string `json:"error,omitempty"`
}

// WriteResult reports one memory write.
type WriteResult struct {
	Success      bool   `json:"success"`
	Address      string `json:"address,omitempty"`
	BytesWritten int    `json:"bytesWritten,omitempty"`
	Error        string `json:"error,omitempty"`
}

// BatchWriteResult aggregates per-address write results. Success is
// true only when every patch applied.
type BatchWriteResult struct {
	Success bool          `json:"success"`
	Results []WriteResult `json:"results"`
	Failed  int           `json:"failed"`
	Error   string        `json:"error,omitempty"`
}

// ProtectionResult decodes the protection of the region containing one
// address.
type ProtectionResult struct {
	Success    bool   `json:"success"`
	Address    string `json:"address,omitempty"`
	Base       string `json:"base,omitempty"`
	Size       uint64 `json:"size,omitempty"`
	Raw        uint32 `json:"raw,omitempty"`
	Readable   bool   `json:"readable,omitempty"`
	Writable   bool   `json:"writable,omitempty"`
	Executable bool   `json:"executable,omitempty"`
	Guard      bool   `json:"guard,omitempty"`
	Error      string `json:"error,omitempty"`
}

// RegionInfo is one region at the boundary.
type RegionInfo struct {
	Base       string `json:"base"`
	Size       uint64 `json:"size"`
	State      string `json:"state"`
	Protection string `json:"protection"`
	Kind       string `json:"kind,omitempty"`
	Readable   bool   `json:"readable"`
}

// RegionsResult lists the target's memory regions.
type RegionsResult struct {
	Success bool         `json:"success"`
	Regions []RegionInfo `json:"regions,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// DumpResult carries a region window both as raw hex and as a rendered
// hexdump.
type DumpResult struct {
	Success   bool   `json:"success"`
	Address   string `json:"address,omitempty"`
	BytesRead int    `json:"bytesRead,omitempty"`
	Hex       string `json:"hex,omitempty"`
	Dump      string `json:"dump,omitempty"`
	Error     string `json:"error,omitempty"`
}

// InjectResult reports a remote injection.
type InjectResult struct {
	Success        bool   `json:"success"`
	RemoteThreadID uint32 `json:"remoteThreadId,omitempty"`
	Error          string `json:"error,omitempty"`
}

// ModuleInfo is one loaded module at the boundary.
type ModuleInfo struct {
	Name string `json:"name"`
	Path string `json:"path,omitempty"`
	Base string `json:"base"`
	Size uint64 `json:"size"`
}

// ModulesResult lists the target's loaded modules.
type ModulesResult struct {
	Success bool         `json:"success"`
	Modules []ModuleInfo `json:"modules,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// ProcessInfo is one running process at the boundary.
type ProcessInfo struct {
	PID     int32  `json:"pid"`
	Name    string `json:"name"`
	Exe     string `json:"exe,omitempty"`
	Cmdline string `json:"cmdline,omitempty"`
}

// ProcessListResult lists running processes.
type ProcessListResult struct {
	Success   bool          `json:"success"`
	Processes []ProcessInfo `json:"processes,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// MonitorResult reports a monitor registration.
type MonitorResult struct {
	Success   bool   `json:"success"`
	MonitorID string `json:"monitorId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// AvailabilityResult reports the platform privilege probe.
type AvailabilityResult struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
	Warning   string `json:"warning,omitempty"`
}
