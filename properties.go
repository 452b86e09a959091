// SPDX-License-Identifier: GPL-2.0-only

package lzma

import (
	"encoding/binary"
	"io"
)

// headerSize is the fixed 13-byte LZMA stream header: 1 properties byte, a
// 4-byte little-endian dictionary size, and an 8-byte little-endian
// uncompressed size.
const headerSize = 13

// unknownSize marks an LZMA header's size field as "unknown; rely on the
// end-of-stream marker".
const unknownSize = ^uint64(0)

// EncodeProperties packs lc/lp/pb into the single LZMA properties byte:
// (pb*5 + lp)*9 + lc.
func EncodeProperties(o Options) (byte, error) {
	if err := o.validate(); err != nil {
		return 0, err
	}
	return byte((o.PB*5+o.LP)*9 + o.LC), nil
}

// DecodeProperties unpacks the LZMA properties byte into lc, lp, pb.
func DecodeProperties(b byte) (lc, lp, pb int, err error) {
	d := int(b)
	if d >= 9*5*(maxPB+1) {
		return 0, 0, 0, malformed("properties byte %d out of range", b)
	}
	lc = d % 9
	d /= 9
	lp = d % 5
	pb = d / 5
	if lc+lp > maxLC {
		return 0, 0, 0, malformed("decoded lc+lp=%d exceeds %d", lc+lp, maxLC)
	}
	if pb > maxPB {
		return 0, 0, 0, malformed("decoded pb=%d exceeds %d", pb, maxPB)
	}
	return lc, lp, pb, nil
}

// writeHeader serializes the 13-byte LZMA header.
func writeHeader(w io.Writer, o Options, uncompressedSize int64) error {
	props, err := EncodeProperties(o)
	if err != nil {
		return err
	}
	var buf [headerSize]byte
	buf[0] = props
	binary.LittleEndian.PutUint32(buf[1:5], o.DictSize)
	size := uint64(uncompressedSize)
	if o.EndMarker {
		size = unknownSize
	}
	binary.LittleEndian.PutUint64(buf[5:13], size)
	if _, err := w.Write(buf[:]); err != nil {
		return sinkClosed(err)
	}
	return nil
}

// header holds a parsed 13-byte LZMA stream header.
type header struct {
	lc, lp, pb int
	dictSize   uint32
	size       uint64 // unknownSize if absent
}

func parseHeader(raw [headerSize]byte) (header, error) {
	lc, lp, pb, err := DecodeProperties(raw[0])
	if err != nil {
		return header{}, err
	}
	return header{
		lc:       lc,
		lp:       lp,
		pb:       pb,
		dictSize: binary.LittleEndian.Uint32(raw[1:5]),
		size:     binary.LittleEndian.Uint64(raw[5:13]),
	}, nil
}
