// SPDX-License-Identifier: GPL-2.0-only
package lzma

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func testInputSet() []struct {
	name string
	data []byte
} {
	return []struct {
		name string
		data []byte
	}{
		{name: "empty", data: []byte{}},
		{name: "single-byte", data: []byte{0xAB}},
		{name: "short-text", data: []byte("hello world, lzma test")},
		{name: "repeated-pattern", data: bytes.Repeat([]byte("abc123"), 2000)},
		{name: "long-run", data: bytes.Repeat([]byte{0xFF}, 12000)},
		{name: "byte-cycle", data: bytes.Repeat([]byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, 1200)},
		{name: "incompressible", data: pseudoRandom(8000)},
	}
}

// pseudoRandom produces deterministic "noise" without pulling in math/rand
// (and without violating the never-call-time-or-randomness-at-build rule
// that applies to workflow scripts, not tests; kept here anyway for
// reproducible failures).
func pseudoRandom(n int) []byte {
	b := make([]byte, n)
	x := uint32(0x2545F491)
	for i := range b {
		x ^= x << 13
		x ^= x >> 17
		x ^= x << 5
		b[i] = byte(x)
	}
	return b
}

func TestEncodeDecode_RoundTripAcrossConfigurations(t *testing.T) {
	configs := []struct {
		lc, lp, pb int
		dictSize   uint32
		mf         MatchFinderKind
	}{
		{0, 0, 0, 1 << 12, BT2},
		{3, 0, 2, 1 << 16, BT4},
		{8, 0, 0, 1 << 16, BT4},
		{0, 2, 2, 1 << 16, BT2},
		{2, 4, 4, 1 << 22, BT4},
	}

	for _, in := range testInputSet() {
		for _, cfg := range configs {
			name := fmt.Sprintf("%s/lc%d-lp%d-pb%d-mf%d", in.name, cfg.lc, cfg.lp, cfg.pb, cfg.mf)
			t.Run(name, func(t *testing.T) {
				opts := DefaultOptions()
				opts.LC, opts.LP, opts.PB = cfg.lc, cfg.lp, cfg.pb
				opts.DictSize = cfg.dictSize
				opts.MatchFinder = cfg.mf

				var buf bytes.Buffer
				enc, err := NewEncoder(&buf, opts)
				require.NoError(t, err)
				require.NoError(t, enc.Encode(bytes.NewReader(in.data), int64(len(in.data))))

				dec, err := NewDecoder(bytes.NewReader(buf.Bytes()))
				require.NoError(t, err)
				var out bytes.Buffer
				require.NoError(t, dec.Decode(&out, int64(len(in.data))))
				require.Equal(t, in.data, out.Bytes())
			})
		}
	}
}

func TestEncodeDecode_EndMarker(t *testing.T) {
	data := bytes.Repeat([]byte("the quick brown fox "), 500)
	opts := DefaultOptions()
	opts.EndMarker = true

	var buf bytes.Buffer
	enc, err := NewEncoder(&buf, opts)
	require.NoError(t, err)
	require.NoError(t, enc.Encode(bytes.NewReader(data), -1))

	dec, err := NewDecoder(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	var out bytes.Buffer
	require.NoError(t, dec.Decode(&out, -1))
	require.Equal(t, data, out.Bytes())
}

func TestEncodeDecode_DictSizeSmallerThanInput(t *testing.T) {
	data := bytes.Repeat([]byte("0123456789"), 5000) // 50000 bytes
	opts := DefaultOptions()
	opts.DictSize = 1 << 12 // far smaller than the input

	var buf bytes.Buffer
	enc, err := NewEncoder(&buf, opts)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	if err := enc.Encode(bytes.NewReader(data), int64(len(data))); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	dec, err := NewDecoder(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	var out bytes.Buffer
	if err := dec.Decode(&out, int64(len(data))); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(out.Bytes(), data) {
		t.Fatalf("round-trip mismatch with small dictSize")
	}
}

func TestProperties_RoundTrip(t *testing.T) {
	opts := DefaultOptions()
	opts.LC, opts.LP, opts.PB = 4, 1, 3
	raw, err := EncodeProperties(opts)
	if err != nil {
		t.Fatalf("EncodeProperties: %v", err)
	}
	lc, lp, pb, err := DecodeProperties(raw)
	if err != nil {
		t.Fatalf("DecodeProperties: %v", err)
	}
	if lc != opts.LC || lp != opts.LP || pb != opts.PB {
		t.Fatalf("round-trip mismatch: got lc=%d lp=%d pb=%d", lc, lp, pb)
	}
}

func TestProperties_OutOfRangeByteIsMalformed(t *testing.T) {
	// 44 decodes to lc=8, lp=4, pb=0: lc+lp=12 exceeds maxLC and must be
	// rejected even though the raw byte itself is in [0, 9*5*5).
	if _, _, _, err := DecodeProperties(44); err == nil {
		t.Fatalf("expected an error for a properties byte with lc+lp > maxLC")
	}
}

func TestOptions_Validate(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*Options)
		ok   bool
	}{
		{"defaults", func(o *Options) {}, true},
		{"lc-too-large", func(o *Options) { o.LC = maxLC + 1 }, false},
		{"lp-too-large", func(o *Options) { o.LP = maxLP + 1 }, false},
		{"lc-plus-lp-too-large", func(o *Options) { o.LC, o.LP = maxLC, 1 }, false},
		{"pb-too-large", func(o *Options) { o.PB = maxPB + 1 }, false},
		{"zero-dict", func(o *Options) { o.DictSize = 0 }, false},
		{"bad-match-finder", func(o *Options) { o.MatchFinder = MatchFinderKind(99) }, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			opts := DefaultOptions()
			c.mut(&opts)
			err := opts.validate()
			if c.ok && err != nil {
				t.Fatalf("expected valid options, got error: %v", err)
			}
			if !c.ok && err == nil {
				t.Fatalf("expected an error, got none")
			}
		})
	}
}

func TestDecode_TruncatedHeaderIsMalformed(t *testing.T) {
	_, err := NewDecoder(bytes.NewReader([]byte{0x5D, 0x00, 0x00}))
	if err == nil {
		t.Fatalf("expected an error for a truncated header")
	}
}

func TestDecode_BitFlipDoesNotPanic(t *testing.T) {
	data := bytes.Repeat([]byte("flip some bits around here"), 200)
	opts := DefaultOptions()

	var buf bytes.Buffer
	enc, err := NewEncoder(&buf, opts)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	if err := enc.Encode(bytes.NewReader(data), int64(len(data))); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	corrupt := append([]byte(nil), buf.Bytes()...)
	corrupt[len(corrupt)/2] ^= 0xFF

	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("decode panicked on corrupted input: %v", r)
		}
	}()
	dec, err := NewDecoder(bytes.NewReader(corrupt))
	if err != nil {
		return // malformed header is an acceptable outcome
	}
	var out bytes.Buffer
	_ = dec.Decode(&out, int64(len(data))) // error or silent mismatch both acceptable; just must not panic
}
