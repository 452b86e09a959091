// SPDX-License-Identifier: GPL-2.0-only

// Package lzw decodes (but does not encode) LZW member streams so an archive
// reader can extract them alongside LZMA members, without this module ever
// needing to write LZW itself.
package lzw

import (
	"compress/lzw"
	"io"
)

// Order mirrors compress/lzw's bit-order constants, re-exported so callers
// never need to import compress/lzw directly.
type Order = lzw.Order

const (
	LSB = lzw.LSB
	MSB = lzw.MSB
)

// Decompress decodes an LZW member from r into w, using the given bit order
// and code-word width (5 for legacy .Z members, 8 for GIF-style streams).
func Decompress(w io.Writer, r io.Reader, order Order, litWidth int) error {
	lr := lzw.NewReader(r, order, litWidth)
	defer lr.Close()
	_, err := io.Copy(w, lr)
	return err
}
