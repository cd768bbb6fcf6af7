package memory

import (
	"memprobe/memory/regionmap"
	"memprobe/pattern"
)

// UnsupportedBackend serves platforms the engine has no strategy for.
// Every operation fails with a PlatformUnsupportedError naming the
// platform, without touching the OS.
type UnsupportedBackend struct {
	platform string
}

// NewUnsupportedBackend returns a backend that rejects every operation
// for the named platform.
func NewUnsupportedBackend(platform string) *UnsupportedBackend {
	return &UnsupportedBackend{platform: platform}
}

func (b *UnsupportedBackend) Platform() string { return b.platform }

func (b *UnsupportedBackend) err() error {
	return &PlatformUnsupportedError{Platform: b.platform}
}

func (b *UnsupportedBackend) Regions(pid PID) ([]regionmap.Region, error) {
	return nil, b.err()
}

func (b *UnsupportedBackend) Read(pid PID, addr Address, size uint64) ([]byte, error) {
	return nil, b.err()
}

func (b *UnsupportedBackend) Write(pid PID, addr Address, data []byte) (int, error) {
	return 0, b.err()
}

func (b *UnsupportedBackend) Scan(pid PID, pat pattern.Pattern, limits ScanLimits) ([]Address, ScanStats, error) {
	return nil, ScanStats{}, b.err()
}

func (b *UnsupportedBackend) Protection(pid PID, addr Address) (*Protection, error) {
	return nil, b.err()
}

func (b *UnsupportedBackend) Modules(pid PID) ([]Module, error) {
	return nil, b.err()
}
