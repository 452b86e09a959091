// SPDX-License-Identifier: GPL-2.0-only

package lzma

// Options configures an Encoder.
type Options struct {
	// DictSize bounds how far back matches may reference, in bytes.
	DictSize uint32
	// LC, LP, PB select the literal-context, literal-position, and
	// position-state bit widths.
	LC, LP, PB int
	// FastBytes is the "nice length" past which the parser stops searching
	// for a longer match at the current position.
	FastBytes int
	// MatchFinder selects BT2 or BT4.
	MatchFinder MatchFinderKind
	// EndMarker requests an explicit end-of-stream distance marker instead of
	// relying on the caller-supplied uncompressed size.
	EndMarker bool
}

// DefaultOptions returns the reference LZMA SDK's default configuration:
// 8 MiB dictionary, lc=3, lp=0, pb=2, 32 fast bytes, BT4.
func DefaultOptions() Options {
	return Options{
		DictSize:    1 << 23,
		LC:          3,
		LP:          0,
		PB:          2,
		FastBytes:   32,
		MatchFinder: BT4,
	}
}

// validate checks Options against the format's hard bounds.
func (o Options) validate() error {
	if o.LC < 0 || o.LC > maxLC {
		return configError("lc", "lc must be in [0, %d]", maxLC)
	}
	if o.LP < 0 || o.LP > maxLP {
		return configError("lp", "lp must be in [0, %d]", maxLP)
	}
	if o.LC+o.LP > maxLC {
		return configError("lc+lp", "lc+lp must not exceed %d", maxLC)
	}
	if o.PB < 0 || o.PB > maxPB {
		return configError("pb", "pb must be in [0, %d]", maxPB)
	}
	if o.DictSize == 0 {
		return configError("dictSize", "dictSize must be nonzero")
	}
	fb := o.FastBytes
	if fb == 0 {
		fb = 32
	}
	if fb < minFastBytes || fb > maxFastBytes {
		return configError("fastBytes", "fastBytes must be in [%d, %d]", minFastBytes, maxFastBytes)
	}
	if o.MatchFinder != BT2 && o.MatchFinder != BT4 {
		return configError("matchFinder", "unknown match finder kind")
	}
	return nil
}

func (o Options) normalized() Options {
	if o.FastBytes == 0 {
		o.FastBytes = 32
	}
	return o
}
