package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileHex(t *testing.T) {
	cases := []struct {
		name      string
		raw       string
		wantBytes []byte
		wantMask  []bool
		wantErr   bool
	}{
		{
			name:      "literal",
			raw:       "48 8B 05",
			wantBytes: []byte{0x48, 0x8B, 0x05},
			wantMask:  []bool{true, true, true},
		},
		{
			name:      "wildcards",
			raw:       "48 ?? 05 ?? 00",
			wantBytes: []byte{0x48, 0x00, 0x05, 0x00, 0x00},
			wantMask:  []bool{true, false, true, false, true},
		},
		{
			name:      "alternate wildcard tokens",
			raw:       "DE ? AD ** BE",
			wantBytes: []byte{0xDE, 0x00, 0xAD, 0x00, 0xBE},
			wantMask:  []bool{true, false, true, false, true},
		},
		{
			name:      "lower case",
			raw:       "de ad be ef",
			wantBytes: []byte{0xDE, 0xAD, 0xBE, 0xEF},
			wantMask:  []bool{true, true, true, true},
		},
		{name: "all wildcards", raw: "?? ?? ??", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
		{name: "non-hex token", raw: "48 GG 05", wantErr: true},
		{name: "token too long", raw: "48 8B05", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := Compile(Spec{Raw: tc.raw, Kind: KindHex})
			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidPattern)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantBytes, p.Bytes)
			assert.Equal(t, tc.wantMask, p.Mask)
		})
	}
}

func TestCompileNumericKinds(t *testing.T) {
	cases := []struct {
		name string
		kind Kind
		raw  string
		want []byte
	}{
		{"int32 positive", KindInt32, "1000", []byte{0xE8, 0x03, 0x00, 0x00}},
		{"int32 negative", KindInt32, "-1", []byte{0xFF, 0xFF, 0xFF, 0xFF}},
		{"int64", KindInt64, "1000", []byte{0xE8, 0x03, 0, 0, 0, 0, 0, 0}},
		{"int64 unsigned wrap", KindInt64, "18446744073709551615", []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}},
		{"float", KindFloat, "1.5", []byte{0x00, 0x00, 0xC0, 0x3F}},
		{"double", KindDouble, "1.5", []byte{0, 0, 0, 0, 0, 0, 0xF8, 0x3F}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := Compile(Spec{Raw: tc.raw, Kind: tc.kind})
			require.NoError(t, err)
			assert.Equal(t, tc.want, p.Bytes)
			assert.True(t, p.IsLiteral())
		})
	}
}

func TestCompileString(t *testing.T) {
	p, err := Compile(Spec{Raw: "PlayerName", Kind: KindString})
	require.NoError(t, err)
	assert.Equal(t, []byte("PlayerName"), p.Bytes)
	assert.Equal(t, 10, p.Matchable())

	_, err = Compile(Spec{Raw: "", Kind: KindString})
	assert.ErrorIs(t, err, ErrInvalidPattern)
}

func TestCompileUnknownKind(t *testing.T) {
	_, err := Compile(Spec{Raw: "48", Kind: Kind("uint128")})
	assert.ErrorIs(t, err, ErrInvalidPattern)
}

func TestCompileBadNumericLiterals(t *testing.T) {
	for _, kind := range []Kind{KindInt32, KindInt64, KindFloat, KindDouble} {
		_, err := Compile(Spec{Raw: "not-a-number", Kind: kind})
		assert.ErrorIs(t, err, ErrInvalidPattern, "kind %s", kind)
	}
}

func TestCompileLiteralDropsWildcards(t *testing.T) {
	p, err := CompileLiteral(Spec{Raw: "48 ?? 05", Kind: KindHex})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x48, 0x05}, p.Bytes)
	assert.True(t, p.IsLiteral())

	// A spec with nothing but wildcards has no literal rendering.
	_, err = CompileLiteral(Spec{Raw: "?? ??", Kind: KindHex})
	assert.ErrorIs(t, err, ErrInvalidPattern)
}

func TestPatternString(t *testing.T) {
	p, err := Compile(Spec{Raw: "48 ?? 05", Kind: KindHex})
	require.NoError(t, err)
	assert.Equal(t, "48 ?? 05", p.String())
	assert.Equal(t, 3, p.Len())
	assert.Equal(t, 2, p.Matchable())
	assert.False(t, p.IsLiteral())
}
