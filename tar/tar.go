// SPDX-License-Identifier: GPL-2.0-only

// Package tar provides thin convenience wrappers around archive/tar for
// building a member list that this module's lzma package then compresses.
package tar

import (
	"archive/tar"
	"io"
)

// Entry is one file to be written into a tar stream.
type Entry struct {
	Name string
	Mode int64
	Size int64
	Data io.Reader
}

// WriteAll writes entries as a tar stream to w.
func WriteAll(w io.Writer, entries []Entry) error {
	tw := tar.NewWriter(w)
	for _, e := range entries {
		hdr := &tar.Header{Name: e.Name, Mode: e.Mode, Size: e.Size}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if _, err := io.Copy(tw, e.Data); err != nil {
			return err
		}
	}
	return tw.Close()
}

// Visit calls fn for every member of the tar stream read from r, in order.
func Visit(r io.Reader, fn func(hdr *tar.Header, body io.Reader) error) error {
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(hdr, tr); err != nil {
			return err
		}
	}
}
