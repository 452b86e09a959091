// SPDX-License-Identifier: GPL-2.0-only
package gzip

import (
	"bytes"
	"testing"
)

func TestCompressDecompress_RoundTrip(t *testing.T) {
	cases := [][]byte{
		{},
		[]byte("hello gzip"),
		bytes.Repeat([]byte("abcdefgh"), 4096),
	}
	for _, data := range cases {
		var compressed, out bytes.Buffer
		if err := Compress(&compressed, bytes.NewReader(data), 6); err != nil {
			t.Fatalf("Compress: %v", err)
		}
		if err := Decompress(&out, bytes.NewReader(compressed.Bytes())); err != nil {
			t.Fatalf("Decompress: %v", err)
		}
		if !bytes.Equal(out.Bytes(), data) {
			t.Fatalf("round-trip mismatch: got %d bytes want %d bytes", out.Len(), len(data))
		}
	}
}
