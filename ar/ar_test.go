// SPDX-License-Identifier: GPL-2.0-only
package ar

import (
	"bytes"
	"io"
	"testing"
)

func TestWriterReader_RoundTrip(t *testing.T) {
	members := []struct {
		name string
		mode uint32
		data []byte
	}{
		{"debian-binary", 0644, []byte("2.0\n")},
		{"control.tar.gz", 0644, bytes.Repeat([]byte{0x1f, 0x8b}, 3)},
		{"data.tar.xz", 0644, []byte("x")}, // odd length, exercises padding
	}

	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	for _, m := range members {
		if err := w.WriteHeader(&Header{Name: m.name, Size: int64(len(m.data)), Mode: m.mode}); err != nil {
			t.Fatalf("WriteHeader(%s): %v", m.name, err)
		}
		if _, err := w.Write(m.data); err != nil {
			t.Fatalf("Write(%s): %v", m.name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r, err := NewReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	for _, want := range members {
		hdr, err := r.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if hdr.Name != want.name || hdr.Size != int64(len(want.data)) {
			t.Fatalf("header mismatch: got %+v want name=%s size=%d", hdr, want.name, len(want.data))
		}
		got, err := io.ReadAll(r)
		if err != nil {
			t.Fatalf("ReadAll(%s): %v", want.name, err)
		}
		if !bytes.Equal(got, want.data) {
			t.Fatalf("data mismatch for %s: got %q want %q", want.name, got, want.data)
		}
	}
	if _, err := r.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF after last member, got %v", err)
	}
}

func TestReader_RejectsBadMagic(t *testing.T) {
	_, err := NewReader(bytes.NewReader([]byte("not an ar archive")))
	if err == nil {
		t.Fatalf("expected an error for a bad magic")
	}
}
