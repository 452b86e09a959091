// SPDX-License-Identifier: GPL-2.0-only
package archiveutil

import (
	"bytes"
	"testing"

	lzma "github.com/CaveSystems/cave-compression-sub001"
)

func TestCompressBytesDecompressBytes_RoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte("archiveutil round trip payload "), 300)
	opts := lzma.DefaultOptions()

	stream, err := CompressBytes(data, opts)
	if err != nil {
		t.Fatalf("CompressBytes: %v", err)
	}
	out, err := DecompressBytes(stream, int64(len(data)))
	if err != nil {
		t.Fatalf("DecompressBytes: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Fatalf("round-trip mismatch: got %d bytes want %d bytes", len(out), len(data))
	}
}

func TestCompressBlocksParallel_RoundTrip(t *testing.T) {
	blocks := [][]byte{
		[]byte("block one payload"),
		bytes.Repeat([]byte("block two "), 500),
		[]byte{},
		bytes.Repeat([]byte{0xAA}, 4096),
	}
	opts := lzma.DefaultOptions()

	streams, err := CompressBlocksParallel(blocks, opts)
	if err != nil {
		t.Fatalf("CompressBlocksParallel: %v", err)
	}
	sizes := make([]int64, len(blocks))
	for i, b := range blocks {
		sizes[i] = int64(len(b))
	}
	out, err := DecompressBlocksParallel(streams, sizes)
	if err != nil {
		t.Fatalf("DecompressBlocksParallel: %v", err)
	}
	if len(out) != len(blocks) {
		t.Fatalf("expected %d results, got %d", len(blocks), len(out))
	}
	for i := range blocks {
		if !bytes.Equal(out[i], blocks[i]) {
			t.Fatalf("block %d mismatch: got %q want %q", i, out[i], blocks[i])
		}
	}
}
