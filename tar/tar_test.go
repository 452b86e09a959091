// SPDX-License-Identifier: GPL-2.0-only
package tar

import (
	"archive/tar"
	"bytes"
	"io"
	"testing"
)

func TestWriteAllVisit_RoundTrip(t *testing.T) {
	entries := []Entry{
		{Name: "a.txt", Mode: 0644, Size: 5, Data: bytes.NewReader([]byte("hello"))},
		{Name: "b.txt", Mode: 0600, Size: 0, Data: bytes.NewReader(nil)},
	}

	var buf bytes.Buffer
	if err := WriteAll(&buf, entries); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	var gotNames []string
	var gotBodies [][]byte
	err := Visit(&buf, func(hdr *tar.Header, body io.Reader) error {
		gotNames = append(gotNames, hdr.Name)
		b, err := io.ReadAll(body)
		if err != nil {
			return err
		}
		gotBodies = append(gotBodies, b)
		return nil
	})
	if err != nil {
		t.Fatalf("Visit: %v", err)
	}
	if len(gotNames) != 2 || gotNames[0] != "a.txt" || gotNames[1] != "b.txt" {
		t.Fatalf("unexpected names: %v", gotNames)
	}
	if string(gotBodies[0]) != "hello" || len(gotBodies[1]) != 0 {
		t.Fatalf("unexpected bodies: %q %q", gotBodies[0], gotBodies[1])
	}
}
