// Package ops exposes the memory engine as individually callable
// operations for an outer tool-routing layer. Every operation validates
// its inputs before any platform dispatch, catches engine errors, and
// returns a plain record with success and optional error text; nothing
// panics past this boundary.
package ops

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"memprobe/memory"
	"memprobe/monitor"
	"memprobe/privilege"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

// Toolkit owns the platform backend, the privilege checker and the
// monitor registry. Instances are independent: two Toolkits share no
// state, so multiple servers can coexist under test.
type Toolkit struct {
	backend  memory.Backend
	priv     *privilege.Checker
	monitors *monitor.Registry
	limits   memory.ScanLimits
	log      *logger.Logger
}

// Option configures a Toolkit.
type Option func(*Toolkit)

// WithBackend overrides the platform backend (tests, embedding).
func WithBackend(b memory.Backend) Option {
	return func(t *Toolkit) { t.backend = b }
}

// WithPrivilegeChecker overrides the privilege checker.
func WithPrivilegeChecker(c *privilege.Checker) Option {
	return func(t *Toolkit) { t.priv = c }
}

// WithScanLimits overrides the default scan bounds.
func WithScanLimits(limits memory.ScanLimits) Option {
	return func(t *Toolkit) { t.limits = limits }
}

// New creates a Toolkit for the current platform.
func New(opts ...Option) *Toolkit {
	t := &Toolkit{
		backend: defaultBackend(),
		priv:    privilege.NewChecker(),
		limits:  memory.DefaultScanLimits(),
		log:     logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "ops")),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.monitors = monitor.NewRegistry(t.backend.Read)
	return t
}

// Close stops all monitors owned by this Toolkit.
func (t *Toolkit) Close() {
	t.monitors.StopAll()
}

// Platform returns the platform tag of the active backend.
func (t *Toolkit) Platform() string {
	return t.backend.Platform()
}

// Availability runs the platform privilege probe.
func (t *Toolkit) Availability() AvailabilityResult {
	res := t.priv.Check()
	return AvailabilityResult{Available: res.Available, Reason: res.Reason, Warning: res.Warning}
}

// gate blocks privileged operations. Platform support is checked before
// privileges so an unsupported platform always reports as such, and
// neither check spawns target-process access.
func (t *Toolkit) gate() error {
	if _, unsupported := t.backend.(*memory.UnsupportedBackend); unsupported {
		return &memory.PlatformUnsupportedError{Platform: t.backend.Platform()}
	}
	res := t.priv.Check()
	if !res.Available {
		return &memory.PrivilegeError{Platform: t.backend.Platform(), Remediation: res.Reason}
	}
	if res.Warning != "" {
		t.log.Warn(res.Warning)
	}
	return nil
}

func validatePID(pid int) error {
	if pid <= 0 {
		return &memory.ValidationError{Field: "pid", Detail: fmt.Sprintf("must be a positive integer, got %d", pid)}
	}
	return nil
}

// decodePayload turns boundary text into bytes. Encoding is explicit on
// every call; malformed payloads fail before platform dispatch.
func decodePayload(data, encoding string) ([]byte, error) {
	switch strings.ToLower(encoding) {
	case "hex":
		cleaned := strings.TrimPrefix(strings.TrimSpace(data), "0x")
		cleaned = strings.ReplaceAll(cleaned, " ", "")
		decoded, err := hex.DecodeString(cleaned)
		if err != nil {
			return nil, &memory.ValidationError{Field: "data", Detail: fmt.Sprintf("invalid hex payload: %v", err)}
		}
		return decoded, nil
	case "base64":
		decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(data))
		if err != nil {
			return nil, &memory.ValidationError{Field: "data", Detail: fmt.Sprintf("invalid base64 payload: %v", err)}
		}
		return decoded, nil
	default:
		return nil, &memory.ValidationError{Field: "encoding", Detail: fmt.Sprintf("unknown encoding %q (want hex or base64)", encoding)}
	}
}
