// SPDX-License-Identifier: GPL-2.0-only

// Package checksum provides running CRC-32 and Adler-32 checksums, the kind
// of trivial collaborator archive formats typically pair with an
// LZMA-compressed payload.
package checksum

import (
	"hash"
	"hash/adler32"
	"hash/crc32"
	"io"
)

// CRC32 wraps hash/crc32 behind an io.Writer so it can sit in an io.MultiWriter
// alongside a compressor.
type CRC32 struct{ h hash.Hash32 }

func NewCRC32() *CRC32 { return &CRC32{h: crc32.NewIEEE()} }

func (c *CRC32) Write(p []byte) (int, error) { return c.h.Write(p) }
func (c *CRC32) Sum32() uint32                { return c.h.Sum32() }

// Adler32 wraps hash/adler32, the checksum used by zlib-family containers.
type Adler32 struct{ h hash.Hash32 }

func NewAdler32() *Adler32 { return &Adler32{h: adler32.New()} }

func (a *Adler32) Write(p []byte) (int, error) { return a.h.Write(p) }
func (a *Adler32) Sum32() uint32                { return a.h.Sum32() }

// CRC32Of returns the CRC-32 of every byte r yields.
func CRC32Of(r io.Reader) (uint32, error) {
	c := NewCRC32()
	if _, err := io.Copy(c, r); err != nil {
		return 0, err
	}
	return c.Sum32(), nil
}
