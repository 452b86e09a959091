// SPDX-License-Identifier: GPL-2.0-only

package lzma

import (
	"io"

	"github.com/CaveSystems/cave-compression-sub001/internal/log"
)

// Decoder turns an LZMA stream back into the original bytes.
type Decoder struct {
	source io.Reader
	hdr    header
	model  *lzmaModel
	win    *outputWindow
	rc     *rangeDecoder

	propsSet bool
	pos      uint32
	logger   *log.Logger
}

// NewDecoder reads the 13-byte header from r and prepares a Decoder. Call
// Decode to produce output; call Train first for solid-mode continuations.
func NewDecoder(r io.Reader) (*Decoder, error) {
	var raw [headerSize]byte
	if _, err := io.ReadFull(r, raw[:]); err != nil {
		return nil, malformed("truncated LZMA header: %v", err)
	}
	hdr, err := parseHeader(raw)
	if err != nil {
		return nil, err
	}
	logger := log.New()
	logger.SetLevel(log.LevelWarn)
	d := &Decoder{source: r, hdr: hdr, logger: logger}
	d.model = newModel(hdr.lc, hdr.lp, hdr.pb)
	d.propsSet = true
	return d, nil
}

// SetLogLevel adjusts the verbosity of this Decoder's driver logging; the
// default level reports warnings and errors only.
func (d *Decoder) SetLogLevel(level log.Level) {
	d.logger.SetLevel(level)
}

// SetProperties overrides the header this Decoder parsed at construction,
// for callers that received the 13 bytes out of band.
func (d *Decoder) SetProperties(raw [headerSize]byte) error {
	hdr, err := parseHeader(raw)
	if err != nil {
		return err
	}
	d.hdr = hdr
	d.model = newModel(hdr.lc, hdr.lp, hdr.pb)
	d.propsSet = true
	return nil
}

// DeclaredSize reports the uncompressed size carried in the stream header.
// ok is false when the header declares an unknown size, in which case a
// caller must either know the size out of band or rely on an end marker.
func (d *Decoder) DeclaredSize() (size int64, ok bool) {
	if d.hdr.size == unknownSize {
		return 0, false
	}
	return int64(d.hdr.size), true
}

// Train pre-seeds the output dictionary from src without emitting anything,
// letting a solid-mode stream continue a previous block's back-references.
func (d *Decoder) Train(src io.Reader) error {
	if d.win == nil {
		d.win = newOutputWindow(d.hdr.dictSize, io.Discard)
	}
	return d.win.train(src)
}

// Decode writes the decompressed bytes to w. When the header declares a size,
// that many bytes are decoded and a non-negative outputSize is not consulted;
// when the header's size is unknownSize, or outputSize is negative, decoding
// runs until the end-of-stream marker is reached.
func (d *Decoder) Decode(w io.Writer, outputSize int64) error {
	if !d.propsSet {
		return invalidOperation("decoder properties not set")
	}
	if d.win == nil {
		d.win = newOutputWindow(d.hdr.dictSize, w)
	} else {
		d.win.setSink(w)
	}

	rc, err := newRangeDecoder(d.source)
	if err != nil {
		return err
	}
	d.rc = rc

	useMarker := d.hdr.size == unknownSize || outputSize < 0
	target := outputSize
	if d.hdr.size != unknownSize {
		target = int64(d.hdr.size)
	}

	const blockSize = 1 << 12
	lastLogged := d.pos

	for {
		if !useMarker && d.win.total >= target {
			break
		}
		ps := posState(d.pos, d.hdr.pb)
		st := d.model.state

		isMatch, err := d.rc.decodeBit(&d.model.isMatch[st][ps])
		if err != nil {
			d.logger.Warn("decoding isMatch bit at pos=%d: %v", d.pos, err)
			return err
		}
		if isMatch == 0 {
			if err := d.decodeLiteral(st, ps); err != nil {
				d.logger.Warn("decoding literal at pos=%d: %v", d.pos, err)
				return err
			}
		} else {
			isRep, err := d.rc.decodeBit(&d.model.isRep[st])
			if err != nil {
				d.logger.Warn("decoding isRep bit at pos=%d: %v", d.pos, err)
				return err
			}
			if isRep == 0 {
				done, err := d.decodeNewMatch(st, ps, useMarker)
				if err != nil {
					d.logger.Warn("decoding new match at pos=%d: %v", d.pos, err)
					return err
				}
				if done {
					break
				}
			} else if err := d.decodeRepMatch(st, ps); err != nil {
				d.logger.Warn("decoding rep match at pos=%d: %v", d.pos, err)
				return err
			}
		}

		if d.pos-lastLogged >= blockSize {
			d.logger.Debug("block boundary: pos=%d", d.pos)
			lastLogged = d.pos
		}
	}

	if err := d.win.flush(); err != nil {
		d.logger.Warn("flushing output window: %v", err)
		return err
	}
	return nil
}

func (d *Decoder) decodeLiteral(st lzmaState, ps uint32) error {
	var prevByte byte
	if d.pos > 0 {
		prevByte = d.win.getByte(1)
	}
	litProbs := d.model.litCoder.ctx(d.pos, prevByte)

	var symbol byte
	var err error
	if !st.isCharState() {
		matchByte := d.win.getByte(d.model.reps[0] + 1)
		symbol, err = decodeLiteralMatched(d.rc, litProbs, matchByte)
	} else {
		symbol, err = decodeLiteralNormal(d.rc, litProbs)
	}
	if err != nil {
		return err
	}
	if err := d.win.putByte(symbol); err != nil {
		return err
	}
	d.model.state = st.updateChar()
	d.pos++
	return nil
}

// decodeNewMatch reads a length and a brand-new distance; it returns
// done=true when the decoded distance is the end-of-stream sentinel.
func (d *Decoder) decodeNewMatch(st lzmaState, ps uint32, useMarker bool) (bool, error) {
	lenSymbol, err := d.model.lenCoder.decode(d.rc, ps)
	if err != nil {
		return false, err
	}
	length := lenSymbol + matchMinLen

	dist, err := d.model.distCoder.decode(d.rc, lenToPosState(length))
	if err != nil {
		return false, err
	}

	if dist == endMarkerDistance {
		if !useMarker {
			return false, malformed("unexpected end-of-stream marker")
		}
		return true, nil
	}

	if !d.win.checkDistance(dist + 1) {
		return false, malformed("match distance %d precedes start of stream", dist)
	}

	d.model.reps.pushNew(dist)
	if err := d.win.copyMatch(dist+1, length); err != nil {
		return false, err
	}
	d.model.state = st.updateMatch()
	d.pos += length
	return false, nil
}

func (d *Decoder) decodeRepMatch(st lzmaState, ps uint32) error {
	repG0, err := d.rc.decodeBit(&d.model.isRepG0[st])
	if err != nil {
		return err
	}
	var repIndex int
	var length uint32

	if repG0 == 0 {
		rep0Long, err := d.rc.decodeBit(&d.model.isRep0Long[st][ps])
		if err != nil {
			return err
		}
		if rep0Long == 0 {
			// Short rep: exactly one byte from rep0.
			if err := d.win.putByte(d.win.getByte(d.model.reps[0] + 1)); err != nil {
				return err
			}
			d.model.state = st.updateShortRep()
			d.pos++
			return nil
		}
		repIndex = 0
	} else {
		repG1, err := d.rc.decodeBit(&d.model.isRepG1[st])
		if err != nil {
			return err
		}
		if repG1 == 0 {
			repIndex = 1
		} else {
			repG2, err := d.rc.decodeBit(&d.model.isRepG2[st])
			if err != nil {
				return err
			}
			if repG2 == 0 {
				repIndex = 2
			} else {
				repIndex = 3
			}
		}
	}

	lenSymbol, err := d.model.repLenCoder.decode(d.rc, ps)
	if err != nil {
		return err
	}
	length = lenSymbol + matchMinLen

	dist := d.model.reps[repIndex]
	if !d.win.checkDistance(dist + 1) {
		return malformed("rep distance %d precedes start of stream", dist)
	}
	d.model.reps.promote(repIndex)
	if err := d.win.copyMatch(dist+1, length); err != nil {
		return err
	}
	d.model.state = st.updateRep()
	d.pos += length
	return nil
}
