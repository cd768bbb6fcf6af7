package memory

import (
	"errors"
	"fmt"
)

// ErrAddressNotMapped is returned when an address falls outside every
// mapped region of the target.
var ErrAddressNotMapped = errors.New("address not mapped")

// ValidationError marks malformed input rejected before any platform
// dispatch.
type ValidationError struct {
	Field  string
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Detail
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Detail)
}

// PrivilegeError marks an operation blocked by the OS privilege level.
// Remediation always names what the operator should do.
type PrivilegeError struct {
	Platform    string
	Remediation string
}

func (e *PrivilegeError) Error() string {
	return fmt.Sprintf("insufficient privileges on %s: %s", e.Platform, e.Remediation)
}

// PlatformUnsupportedError marks a permanently unsupported
// platform/operation combination. It is never retried.
type PlatformUnsupportedError struct {
	Platform string
	Detail   string // optional, overrides the default message
}

func (e *PlatformUnsupportedError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("Memory operations not supported on platform: %s", e.Platform)
}

// HelperProcessError marks a failure spawning or parsing an external
// privileged helper. Transient; the caller may retry.
type HelperProcessError struct {
	Helper string
	Err    error
}

func (e *HelperProcessError) Error() string {
	return fmt.Sprintf("helper process %s failed: %v", e.Helper, e.Err)
}

func (e *HelperProcessError) Unwrap() error { return e.Err }

// TargetUnavailableError marks a target process that is gone or denied
// access at the OS level.
type TargetUnavailableError struct {
	PID PID
	Err error
}

func (e *TargetUnavailableError) Error() string {
	return fmt.Sprintf("target process %d unavailable: %v", e.PID, e.Err)
}

func (e *TargetUnavailableError) Unwrap() error { return e.Err }
