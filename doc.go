// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/woozymasta/lzo (teacher), generalized to LZMA.

/*
Package lzma implements the LZMA encoder/decoder subsystem: the LZ match finder,
the binary arithmetic range coder, the price-optimal parser, and the probability
model state machine used by the canonical LZMA stream format.

# Decode

	dec, err := lzma.NewDecoder(r)
	err = dec.Decode(w, outputSize) // outputSize == -1 means "read until end marker"

# Encode

	enc, err := lzma.NewEncoder(w, lzma.DefaultOptions())
	err = enc.Encode(r, inputSize) // inputSize == -1 means "unknown, write an end marker"

Options control the dictionary size and the lc/lp/pb context-bit split, the
parser's fast-bytes threshold, and which match-finder variant (BT2 or BT4) backs
the search. See Options and DefaultOptions.

The GZIP/Deflate codecs, the ar/tar archive containers, and checksum primitives
live in sibling packages (gzip, ar, tar, checksum) and interact with this package
only through io.Reader/io.Writer, matching the LZMA stream's role as one
collaborator among several in a larger archive toolkit.
*/
package lzma
