// SPDX-License-Identifier: GPL-2.0-only
package checksum

import (
	"bytes"
	"hash/crc32"
	"io"
	"testing"
)

func TestCRC32_MatchesStdlib(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")
	got, err := CRC32Of(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("CRC32Of: %v", err)
	}
	want := crc32.ChecksumIEEE(data)
	if got != want {
		t.Fatalf("CRC32Of = %08x, want %08x", got, want)
	}
}

func TestAdler32_WriterAccumulates(t *testing.T) {
	a := NewAdler32()
	a.Write([]byte("abc"))
	a.Write([]byte("def"))
	if a.Sum32() == 0 {
		t.Fatalf("expected a nonzero Adler-32 sum")
	}
}

func TestCRC32_MultiWriterUsage(t *testing.T) {
	c := NewCRC32()
	var buf bytes.Buffer
	mw := io.MultiWriter(c, &buf)
	mw.Write([]byte("streamed through a multiwriter"))
	if buf.Len() == 0 || c.Sum32() == 0 {
		t.Fatalf("expected both the buffer and checksum to observe the write")
	}
}
