// SPDX-License-Identifier: GPL-2.0-only
package lzw

import (
	"bytes"
	stdlzw "compress/lzw"
	"testing"
)

func TestDecompress_RoundTripAgainstStdlibWriter(t *testing.T) {
	data := []byte("lzw round trip through the standard library writer")

	var compressed bytes.Buffer
	w := stdlzw.NewWriter(&compressed, stdlzw.LSB, 8)
	if _, err := w.Write(data); err != nil {
		t.Fatalf("stdlib lzw.Writer.Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("stdlib lzw.Writer.Close: %v", err)
	}

	var out bytes.Buffer
	if err := Decompress(&out, bytes.NewReader(compressed.Bytes()), LSB, 8); err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(out.Bytes(), data) {
		t.Fatalf("round-trip mismatch: got %q want %q", out.Bytes(), data)
	}
}
