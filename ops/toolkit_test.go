package ops

import (
	"encoding/hex"
	"errors"
	"testing"

	"memprobe/memory"
	"memprobe/memory/regionmap"
	"memprobe/pattern"
	"memprobe/privilege"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend is an in-memory Backend with call counting, so tests can
// assert that validation failures never reach platform dispatch.
type fakeBackend struct {
	platform string
	mem      map[memory.Address][]byte
	regions  []regionmap.Region
	modules  []memory.Module
	prot     *memory.Protection

	scanAddrs []memory.Address
	scanErr   error

	readCalls  int
	writeCalls int
	scanCalls  int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		platform: "testos",
		mem:      make(map[memory.Address][]byte),
	}
}

func (b *fakeBackend) Platform() string { return b.platform }

func (b *fakeBackend) Regions(pid memory.PID) ([]regionmap.Region, error) {
	return b.regions, nil
}

func (b *fakeBackend) Read(pid memory.PID, addr memory.Address, size uint64) ([]byte, error) {
	b.readCalls++
	data, ok := b.mem[addr]
	if !ok {
		return nil, memory.ErrAddressNotMapped
	}
	if uint64(len(data)) > size {
		data = data[:size]
	}
	return data, nil
}

func (b *fakeBackend) Write(pid memory.PID, addr memory.Address, data []byte) (int, error) {
	b.writeCalls++
	if _, ok := b.mem[addr]; !ok {
		return 0, memory.ErrAddressNotMapped
	}
	b.mem[addr] = data
	return len(data), nil
}

func (b *fakeBackend) Scan(pid memory.PID, pat pattern.Pattern, limits memory.ScanLimits) ([]memory.Address, memory.ScanStats, error) {
	b.scanCalls++
	if b.scanErr != nil {
		return nil, memory.ScanStats{}, b.scanErr
	}
	return b.scanAddrs, memory.ScanStats{
		PatternLength:  pat.Len(),
		ResultsFound:   len(b.scanAddrs),
		RegionsVisited: 1,
	}, nil
}

func (b *fakeBackend) Protection(pid memory.PID, addr memory.Address) (*memory.Protection, error) {
	if b.prot == nil {
		return nil, memory.ErrAddressNotMapped
	}
	return b.prot, nil
}

func (b *fakeBackend) Modules(pid memory.PID) ([]memory.Module, error) {
	return b.modules, nil
}

func alwaysAvailable() *privilege.Checker {
	return privilege.NewChecker(privilege.WithProbe(func() (privilege.Result, bool) {
		return privilege.Result{Available: true}, false
	}))
}

func newTestToolkit(b memory.Backend) *Toolkit {
	return New(WithBackend(b), WithPrivilegeChecker(alwaysAvailable()))
}

func TestUnknownPlatformFailsWithoutProbing(t *testing.T) {
	probes := 0
	checker := privilege.NewChecker(privilege.WithProbe(func() (privilege.Result, bool) {
		probes++
		return privilege.Result{Available: true}, false
	}))
	tk := New(WithBackend(memory.NewUnsupportedBackend("unknown")), WithPrivilegeChecker(checker))
	defer tk.Close()

	res := tk.Write(1234, "0x1000", "90", "hex")
	assert.False(t, res.Success)
	assert.Equal(t, "Memory operations not supported on platform: unknown", res.Error)
	assert.Equal(t, 0, probes, "unsupported platform must fail before any privilege probe")

	scan := tk.Scan(1234, "DE AD", "hex")
	assert.Equal(t, "Memory operations not supported on platform: unknown", scan.Error)
}

func TestValidationFailsBeforeDispatch(t *testing.T) {
	b := newFakeBackend()
	tk := newTestToolkit(b)
	defer tk.Close()

	assert.False(t, tk.Read(0, "0x1000", 4).Success, "pid zero")
	assert.False(t, tk.Read(-5, "0x1000", 4).Success, "negative pid")
	assert.False(t, tk.Read(123, "not-hex", 4).Success, "bad address")
	assert.False(t, tk.Read(123, "0x1000", 0).Success, "zero size")
	assert.False(t, tk.Read(123, "0x1000", maxReadSize+1).Success, "oversized read")
	assert.Equal(t, 0, b.readCalls)

	assert.False(t, tk.Write(123, "0x1000", "zz", "hex").Success, "bad hex payload")
	assert.False(t, tk.Write(123, "0x1000", "!!", "base64").Success, "bad base64 payload")
	assert.False(t, tk.Write(123, "0x1000", "90", "rot13").Success, "unknown encoding")
	assert.False(t, tk.Write(123, "0x1000", "", "hex").Success, "empty payload")
	assert.Equal(t, 0, b.writeCalls)
}

func TestPrivilegeGateBlocksDispatch(t *testing.T) {
	b := newFakeBackend()
	denied := privilege.NewChecker(privilege.WithProbe(func() (privilege.Result, bool) {
		return privilege.Result{Available: false, Reason: "run as root or grant CAP_SYS_PTRACE"}, false
	}))
	tk := New(WithBackend(b), WithPrivilegeChecker(denied))
	defer tk.Close()

	res := tk.Read(123, "0x1000", 4)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "insufficient privileges on testos")
	assert.Contains(t, res.Error, "CAP_SYS_PTRACE")
	assert.Equal(t, 0, b.readCalls)
}

func TestReadAndWrite(t *testing.T) {
	b := newFakeBackend()
	b.mem[0x1000] = []byte{0xDE, 0xAD, 0xBE, 0xEF}
	tk := newTestToolkit(b)
	defer tk.Close()

	res := tk.Read(123, "0x1000", 4)
	require.True(t, res.Success, res.Error)
	assert.Equal(t, "0x1000", res.Address)
	assert.Equal(t, "deadbeef", res.Data)
	assert.Equal(t, 4, res.BytesRead)

	w := tk.Write(123, "0x1000", "0xCA FE", "hex")
	require.True(t, w.Success, w.Error)
	assert.Equal(t, 2, w.BytesWritten)
	assert.Equal(t, []byte{0xCA, 0xFE}, b.mem[0x1000])

	// base64 payloads decode the same way.
	w = tk.Write(123, "0x1000", "kJA=", "base64")
	require.True(t, w.Success, w.Error)
	assert.Equal(t, []byte{0x90, 0x90}, b.mem[0x1000])

	miss := tk.Read(123, "0x9000", 4)
	assert.False(t, miss.Success)
	assert.Contains(t, miss.Error, "not mapped")
}

func TestBatchWriteIsolatesFailures(t *testing.T) {
	b := newFakeBackend()
	b.mem[0x1000] = []byte{0x00}
	b.mem[0x3000] = []byte{0x00}
	tk := newTestToolkit(b)
	defer tk.Close()

	res := tk.BatchWrite(123, []Patch{
		{Address: "0x1000", Data: "AA", Encoding: "hex"},
		{Address: "0x2000", Data: "BB", Encoding: "hex"}, // unmapped
		{Address: "0x3000", Data: "CC", Encoding: "hex"},
	})

	assert.False(t, res.Success)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, "1 of 3 patches failed", res.Error)
	require.Len(t, res.Results, 3)

	assert.True(t, res.Results[0].Success)
	assert.False(t, res.Results[1].Success)
	assert.True(t, res.Results[2].Success, "failure must not abort later patches")
	assert.Equal(t, []byte{0xAA}, b.mem[0x1000], "earlier patches stay applied")
	assert.Equal(t, []byte{0xCC}, b.mem[0x3000])
}

func TestBatchWriteEmpty(t *testing.T) {
	tk := newTestToolkit(newFakeBackend())
	defer tk.Close()

	res := tk.BatchWrite(123, nil)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "empty batch")
}

func TestScan(t *testing.T) {
	b := newFakeBackend()
	b.scanAddrs = []memory.Address{0x10010, 0x20020}
	tk := newTestToolkit(b)
	defer tk.Close()

	res := tk.Scan(123, "DE AD BE EF", "hex")
	require.True(t, res.Success, res.Error)
	assert.Equal(t, []string{"0x10010", "0x20020"}, res.Addresses)
	require.NotNil(t, res.Stats)
	assert.Equal(t, 4, res.Stats.PatternLength)
	assert.Equal(t, 2, res.Stats.ResultsFound)

	bad := tk.Scan(123, "?? ??", "hex")
	assert.False(t, bad.Success)
	assert.Contains(t, bad.Error, "no matchable bytes")
	assert.Equal(t, 1, b.scanCalls, "invalid pattern must not reach the backend")
}

func TestScanBackendError(t *testing.T) {
	b := newFakeBackend()
	b.scanErr = errors.New("scan blew up")
	tk := newTestToolkit(b)
	defer tk.Close()

	res := tk.Scan(123, "DE AD", "hex")
	assert.False(t, res.Success)
	assert.Equal(t, "scan blew up", res.Error)
}

func TestFilteredScanRequiresCandidates(t *testing.T) {
	b := newFakeBackend()
	tk := newTestToolkit(b)
	defer tk.Close()

	res := tk.FilteredScan(123, "DE AD", "hex", nil)
	assert.False(t, res.Success)
	assert.Equal(t, "No valid addresses provided", res.Error)

	res = tk.FilteredScan(123, "DE AD", "hex", []string{"zz", "also-bad"})
	assert.Equal(t, "No valid addresses provided", res.Error)
	assert.Equal(t, 0, b.scanCalls, "no candidates means no scan")
}

func TestFilteredScanIntersects(t *testing.T) {
	b := newFakeBackend()
	b.scanAddrs = []memory.Address{0x1000, 0x2000, 0x5000}
	tk := newTestToolkit(b)
	defer tk.Close()

	// 0x1010 is within the window of 0x1000; nothing is near 0x2000 or
	// 0x5000.
	res := tk.FilteredScan(123, "E8 03 00 00", "hex", []string{"0x1010", "bogus"})
	require.True(t, res.Success, res.Error)
	assert.Equal(t, []string{"0x1000"}, res.Addresses)
	assert.Equal(t, 1, res.Stats.ResultsFound)
	assert.Equal(t, 1, b.scanCalls, "filtered rescan runs exactly one scan")
}

func TestDumpRegion(t *testing.T) {
	b := newFakeBackend()
	b.mem[0x400000] = []byte("target string\x00\x01\x02")
	tk := newTestToolkit(b)
	defer tk.Close()

	res := tk.DumpRegion(123, "0x400000", 16)
	require.True(t, res.Success, res.Error)
	assert.Equal(t, hex.EncodeToString([]byte("target string\x00\x01\x02")), res.Hex)
	assert.Contains(t, res.Dump, "400000")
	assert.NotEmpty(t, res.Dump)
}

func TestListRegions(t *testing.T) {
	b := newFakeBackend()
	b.regions = []regionmap.Region{
		{Base: 0x400000, Size: 0x1000, State: "committed", Protection: "r-x", Kind: "image", Readable: true},
		{Base: 0x600000, Size: 0x2000, State: "committed", Protection: "rw-", Kind: "private", Readable: true},
	}
	tk := newTestToolkit(b)
	defer tk.Close()

	res := tk.ListRegions(123)
	require.True(t, res.Success, res.Error)
	require.Len(t, res.Regions, 2)
	assert.Equal(t, "0x400000", res.Regions[0].Base)
	assert.Equal(t, "image", res.Regions[0].Kind)
	assert.Equal(t, uint64(0x2000), res.Regions[1].Size)
}

func TestCheckProtection(t *testing.T) {
	b := newFakeBackend()
	b.prot = &memory.Protection{
		Base: 0x400000, Size: 0x1000, Raw: 0x20,
		Readable: true, Executable: true,
	}
	tk := newTestToolkit(b)
	defer tk.Close()

	res := tk.CheckProtection(123, "0x400123")
	require.True(t, res.Success, res.Error)
	assert.Equal(t, "0x400123", res.Address)
	assert.Equal(t, "0x400000", res.Base)
	assert.True(t, res.Readable)
	assert.True(t, res.Executable)
	assert.False(t, res.Writable)
}

func TestModules(t *testing.T) {
	b := newFakeBackend()
	b.modules = []memory.Module{
		{Name: "target.exe", Path: `C:\target.exe`, Base: 0x400000, Size: 0x5000},
	}
	tk := newTestToolkit(b)
	defer tk.Close()

	res := tk.Modules(123)
	require.True(t, res.Success, res.Error)
	require.Len(t, res.Modules, 1)
	assert.Equal(t, "target.exe", res.Modules[0].Name)
	assert.Equal(t, "0x400000", res.Modules[0].Base)
}

func TestInjectRequiresInjectorBackend(t *testing.T) {
	tk := newTestToolkit(newFakeBackend())
	defer tk.Close()

	res := tk.InjectShellcode(123, "9090C3", "hex")
	assert.False(t, res.Success)
	assert.Equal(t, "code injection is only supported on windows, not testos", res.Error)

	dll := tk.InjectDLL(123, `C:\payload.dll`)
	assert.False(t, dll.Success)
	assert.Equal(t, "code injection is only supported on windows, not testos", dll.Error)

	assert.False(t, tk.InjectDLL(123, "").Success, "empty path")
	assert.False(t, tk.InjectShellcode(123, "", "hex").Success, "empty shellcode")
}

func TestMonitorLifecycle(t *testing.T) {
	b := newFakeBackend()
	b.mem[0x1000] = []byte{0x01}
	tk := newTestToolkit(b)
	defer tk.Close()

	bad := tk.StartMonitor(123, "0x1000", 1, 5, nil)
	assert.False(t, bad.Success, "interval below 10ms")

	res := tk.StartMonitor(123, "0x1000", 1, 50, nil)
	require.True(t, res.Success, res.Error)
	assert.NotEmpty(t, res.MonitorID)
	assert.Equal(t, 1, tk.ActiveMonitors())

	assert.True(t, tk.StopMonitor(res.MonitorID))
	assert.False(t, tk.StopMonitor(res.MonitorID))
	assert.False(t, tk.StopMonitor("no-such-id"))
	assert.Equal(t, 0, tk.ActiveMonitors())
}

func TestAvailability(t *testing.T) {
	tk := New(
		WithBackend(newFakeBackend()),
		WithPrivilegeChecker(privilege.NewChecker(privilege.WithProbe(func() (privilege.Result, bool) {
			return privilege.Result{Available: false, Reason: "run elevated"}, false
		}))),
	)
	defer tk.Close()

	res := tk.Availability()
	assert.False(t, res.Available)
	assert.Equal(t, "run elevated", res.Reason)
}
