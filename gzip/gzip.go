// SPDX-License-Identifier: GPL-2.0-only

// Package gzip adapts github.com/klauspost/compress/gzip to the byte-source/
// byte-sink roles a collaborator occupies alongside the LZMA core in a larger
// archive toolkit.
package gzip

import (
	"io"

	kgzip "github.com/klauspost/compress/gzip"
)

// Compress gzips every byte from r into w at the given klauspost/compress
// level (kgzip.BestSpeed..kgzip.BestCompression).
func Compress(w io.Writer, r io.Reader, level int) error {
	gw, err := kgzip.NewWriterLevel(w, level)
	if err != nil {
		return err
	}
	if _, err := io.Copy(gw, r); err != nil {
		gw.Close()
		return err
	}
	return gw.Close()
}

// Decompress ungzips every byte from r into w.
func Decompress(w io.Writer, r io.Reader) error {
	gr, err := kgzip.NewReader(r)
	if err != nil {
		return err
	}
	defer gr.Close()
	_, err = io.Copy(w, gr)
	return err
}
