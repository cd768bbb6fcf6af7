// Package pattern compiles user-supplied search specs into masked byte
// patterns for process memory scanning.
package pattern

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidPattern is returned when a spec compiles to a pattern with no
// matchable (non-wildcard) bytes.
var ErrInvalidPattern = errors.New("invalid pattern")

// Kind selects how a raw spec string is encoded into bytes.
type Kind string

const (
	KindHex    Kind = "hex"
	KindInt32  Kind = "int32"
	KindInt64  Kind = "int64"
	KindFloat  Kind = "float"
	KindDouble Kind = "double"
	KindString Kind = "string"
)

// Spec is the raw, user-facing description of a pattern.
type Spec struct {
	Raw  string
	Kind Kind
}

// Pattern is a byte pattern with a parallel inclusion mask. Mask[i] is
// false where any byte is acceptable at position i.
type Pattern struct {
	Bytes []byte
	Mask  []bool
}

// Len returns the pattern length in bytes.
func (p Pattern) Len() int {
	return len(p.Bytes)
}

// Matchable returns the number of non-wildcard positions.
func (p Pattern) Matchable() int {
	n := 0
	for _, m := range p.Mask {
		if m {
			n++
		}
	}
	return n
}

// IsLiteral reports whether the pattern contains no wildcards.
func (p Pattern) IsLiteral() bool {
	return p.Matchable() == len(p.Mask)
}

// String renders the pattern in "48 8B ?? 05" form.
func (p Pattern) String() string {
	var sb strings.Builder
	for i, b := range p.Bytes {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if p.Mask[i] {
			fmt.Fprintf(&sb, "%02X", b)
		} else {
			sb.WriteString("??")
		}
	}
	return sb.String()
}

func isWildcardToken(tok string) bool {
	switch tok {
	case "??", "?", "**":
		return true
	}
	return false
}

// Compile encodes a spec into a Pattern. It fails with ErrInvalidPattern
// when the result would have zero matchable bytes.
func Compile(spec Spec) (Pattern, error) {
	p, err := compile(spec, false)
	if err != nil {
		return Pattern{}, err
	}
	if p.Matchable() == 0 {
		return Pattern{}, fmt.Errorf("%w: no matchable bytes in %q", ErrInvalidPattern, spec.Raw)
	}
	return p, nil
}

// CompileLiteral encodes a spec into a wildcard-free Pattern by dropping
// wildcard tokens. This is lossy: "48 ?? 05" compiles to the two bytes
// 48 05 and can no longer express "any byte at offset 1". It exists for
// backends whose search primitive cannot express don't-care positions.
func CompileLiteral(spec Spec) (Pattern, error) {
	p, err := compile(spec, true)
	if err != nil {
		return Pattern{}, err
	}
	if p.Len() == 0 {
		return Pattern{}, fmt.Errorf("%w: no matchable bytes in %q", ErrInvalidPattern, spec.Raw)
	}
	return p, nil
}

func compile(spec Spec, dropWildcards bool) (Pattern, error) {
	switch spec.Kind {
	case KindHex:
		return compileHex(spec.Raw, dropWildcards)
	case KindInt32:
		v, err := strconv.ParseInt(strings.TrimSpace(spec.Raw), 10, 64)
		if err != nil {
			return Pattern{}, fmt.Errorf("%w: bad int32 literal %q: %v", ErrInvalidPattern, spec.Raw, err)
		}
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, uint32(int32(v)))
		return literal(buf), nil
	case KindInt64:
		// Out-of-range literals wrap per 64-bit signed semantics.
		v, err := strconv.ParseInt(strings.TrimSpace(spec.Raw), 10, 64)
		if err != nil {
			var uv uint64
			uv, uerr := strconv.ParseUint(strings.TrimSpace(spec.Raw), 10, 64)
			if uerr != nil {
				return Pattern{}, fmt.Errorf("%w: bad int64 literal %q: %v", ErrInvalidPattern, spec.Raw, err)
			}
			v = int64(uv)
		}
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, uint64(v))
		return literal(buf), nil
	case KindFloat:
		v, err := strconv.ParseFloat(strings.TrimSpace(spec.Raw), 32)
		if err != nil {
			return Pattern{}, fmt.Errorf("%w: bad float literal %q: %v", ErrInvalidPattern, spec.Raw, err)
		}
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(v)))
		return literal(buf), nil
	case KindDouble:
		v, err := strconv.ParseFloat(strings.TrimSpace(spec.Raw), 64)
		if err != nil {
			return Pattern{}, fmt.Errorf("%w: bad double literal %q: %v", ErrInvalidPattern, spec.Raw, err)
		}
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
		return literal(buf), nil
	case KindString:
		if spec.Raw == "" {
			return Pattern{}, fmt.Errorf("%w: empty string pattern", ErrInvalidPattern)
		}
		return literal([]byte(spec.Raw)), nil
	default:
		return Pattern{}, fmt.Errorf("%w: unknown pattern kind %q", ErrInvalidPattern, spec.Kind)
	}
}

func compileHex(raw string, dropWildcards bool) (Pattern, error) {
	tokens := strings.Fields(raw)
	if len(tokens) == 0 {
		return Pattern{}, fmt.Errorf("%w: empty hex pattern", ErrInvalidPattern)
	}

	p := Pattern{
		Bytes: make([]byte, 0, len(tokens)),
		Mask:  make([]bool, 0, len(tokens)),
	}
	for _, tok := range tokens {
		if isWildcardToken(tok) {
			if dropWildcards {
				continue
			}
			p.Bytes = append(p.Bytes, 0)
			p.Mask = append(p.Mask, false)
			continue
		}
		if len(tok) > 2 {
			return Pattern{}, fmt.Errorf("%w: hex token %q is not a byte", ErrInvalidPattern, tok)
		}
		v, err := strconv.ParseUint(tok, 16, 8)
		if err != nil {
			return Pattern{}, fmt.Errorf("%w: hex token %q: %v", ErrInvalidPattern, tok, err)
		}
		p.Bytes = append(p.Bytes, byte(v))
		p.Mask = append(p.Mask, true)
	}
	return p, nil
}

func literal(b []byte) Pattern {
	mask := make([]bool, len(b))
	for i := range mask {
		mask[i] = true
	}
	return Pattern{Bytes: b, Mask: mask}
}
