// SPDX-License-Identifier: GPL-2.0-only

package lzma

import (
	"io"

	"github.com/CaveSystems/cave-compression-sub001/internal/log"
)

// Encoder turns a byte stream into an LZMA stream.
type Encoder struct {
	sink io.Writer
	opts Options

	win   *inputWindow
	mf    *matchFinder
	model *lzmaModel
	rc    *rangeEncoder

	opt       []optNode
	streamPos uint32 // absolute position of opt[0] during the current parseChunk
	pos       uint32 // absolute position of the next byte to emit

	headerWritten bool
	progress      func(fraction float64, label string)
	logger        *log.Logger
}

// NewEncoder validates opts and prepares an Encoder writing to w. No header
// is written until WriteProperties or the first Encode call.
func NewEncoder(w io.Writer, opts Options) (*Encoder, error) {
	opts = opts.normalized()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	logger := log.New()
	logger.SetLevel(log.LevelWarn)
	return &Encoder{
		sink:   w,
		opts:   opts,
		model:  newModel(opts.LC, opts.LP, opts.PB),
		rc:     newRangeEncoder(w),
		opt:    make([]optNode, optimalArraySize+matchMaxLen+1),
		logger: logger,
	}, nil
}

// SetProgress registers a callback invoked after every optimal-parse chunk is
// emitted, with fraction in [0, 1] when the input size is known.
func (e *Encoder) SetProgress(fn func(fraction float64, label string)) {
	e.progress = fn
}

// SetLogLevel adjusts the verbosity of this Encoder's driver logging; the
// default level reports warnings and errors only.
func (e *Encoder) SetLogLevel(level log.Level) {
	e.logger.SetLevel(level)
}

// WriteProperties writes the 13-byte header ahead of Encode, for callers that
// need the header available before the full input size is known; it requires
// Options.EndMarker since no size can yet be declared.
func (e *Encoder) WriteProperties() error {
	if e.headerWritten {
		return invalidOperation("properties already written")
	}
	if !e.opts.EndMarker {
		return invalidOperation("WriteProperties requires Options.EndMarker; otherwise Encode writes the header once inputSize is known")
	}
	if err := writeHeader(e.sink, e.opts, 0); err != nil {
		return err
	}
	e.headerWritten = true
	return nil
}

// Encode compresses every byte r yields. inputSize must equal the number of
// bytes r will produce unless Options.EndMarker is set, in which case it is
// informational only (used for progress reporting) and may be zero. A negative
// inputSize declares the size unknown and turns on the end marker. Without an
// end marker, input that ends before inputSize bytes fails with
// ErrSourceExhausted.
func (e *Encoder) Encode(r io.Reader, inputSize int64) error {
	if inputSize < 0 {
		e.opts.EndMarker = true
	}
	if !e.headerWritten {
		if err := writeHeader(e.sink, e.opts, inputSize); err != nil {
			e.logger.Warn("writing header: %v", err)
			return err
		}
		e.headerWritten = true
	}

	e.win = newInputWindow(r, e.opts.DictSize)
	e.mf = acquireMatchFinder(e.win, e.opts.DictSize, e.opts.MatchFinder, e.opts.FastBytes)
	defer releaseMatchFinder(e.mf)
	e.model.invalidatePriceCaches()
	e.pos = 0

	var produced int64
	for {
		ops, err := e.parseChunk()
		if err != nil {
			e.logger.Warn("parsing chunk at pos=%d: %v", e.pos, err)
			return err
		}
		if len(ops) == 0 {
			break
		}
		for _, o := range ops {
			if err := e.emit(o); err != nil {
				e.logger.Warn("emitting op at pos=%d: %v", e.pos, err)
				return err
			}
		}
		produced += chunkByteLen(ops)
		e.logger.Debug("block boundary: pos=%d produced=%d", e.pos, produced)
		if e.progress != nil && inputSize > 0 {
			e.progress(float64(produced)/float64(inputSize), "encoding")
		}
	}

	if !e.opts.EndMarker && produced < inputSize {
		err := sourceExhausted("input ended after %d of %d declared bytes", produced, inputSize)
		e.logger.Warn("%v", err)
		return err
	}

	if e.opts.EndMarker {
		if err := e.emitEndMarker(); err != nil {
			e.logger.Warn("emitting end marker: %v", err)
			return err
		}
	}
	return e.rc.flush()
}

func chunkByteLen(ops []op) int64 {
	var n int64
	for _, o := range ops {
		switch o.kind {
		case opLiteral, opShortRep:
			n++
		default:
			n += int64(o.len)
		}
	}
	return n
}

// byteAt returns the input byte at absolute position p, read through the
// still-resident window (valid as long as win.pos - p does not exceed the
// configured dictionary size, which parseChunk's lookahead bound guarantees).
func (e *Encoder) byteAt(p uint32) byte {
	return e.win.indexByte(int32(p) - int32(e.win.pos))
}

// emit applies one chosen parse step to the live model and range coder,
// advancing e.pos and e.model.state/reps exactly as the decoder will.
func (e *Encoder) emit(o op) error {
	ps := posState(e.pos, e.model.pb)
	st := e.model.state

	switch o.kind {
	case opLiteral:
		symbol := e.byteAt(e.pos)
		var prevByte byte
		if e.pos > 0 {
			prevByte = e.byteAt(e.pos - 1)
		}
		if err := e.rc.encodeBit(&e.model.isMatch[st][ps], 0); err != nil {
			return err
		}
		litProbs := e.model.litCoder.ctx(e.pos, prevByte)
		var err error
		if !st.isCharState() {
			matchByte := e.byteAt(e.pos - e.model.reps[0] - 1)
			err = encodeLiteralMatched(e.rc, litProbs, symbol, matchByte)
		} else {
			err = encodeLiteralNormal(e.rc, litProbs, symbol)
		}
		if err != nil {
			return err
		}
		e.model.state = st.updateChar()
		e.pos++

	case opShortRep:
		if err := e.rc.encodeBit(&e.model.isMatch[st][ps], 1); err != nil {
			return err
		}
		if err := e.rc.encodeBit(&e.model.isRep[st], 1); err != nil {
			return err
		}
		if err := e.rc.encodeBit(&e.model.isRepG0[st], 0); err != nil {
			return err
		}
		if err := e.rc.encodeBit(&e.model.isRep0Long[st][ps], 0); err != nil {
			return err
		}
		e.model.state = st.updateShortRep()
		e.pos++

	case opRep:
		if err := e.rc.encodeBit(&e.model.isMatch[st][ps], 1); err != nil {
			return err
		}
		if err := e.rc.encodeBit(&e.model.isRep[st], 1); err != nil {
			return err
		}
		if err := e.encodeRepIndex(o.repIndex, ps); err != nil {
			return err
		}
		e.model.reps.promote(o.repIndex)
		if err := e.model.repLenCoder.encode(e.rc, o.len-matchMinLen, ps); err != nil {
			return err
		}
		e.model.repLenCoder.touch(ps)
		e.model.state = st.updateRep()
		e.pos += o.len

	case opMatch:
		if err := e.rc.encodeBit(&e.model.isMatch[st][ps], 1); err != nil {
			return err
		}
		if err := e.rc.encodeBit(&e.model.isRep[st], 0); err != nil {
			return err
		}
		if err := e.model.lenCoder.encode(e.rc, o.len-matchMinLen, ps); err != nil {
			return err
		}
		e.model.lenCoder.touch(ps)
		if err := e.model.distCoder.encode(e.rc, o.dist, lenToPosState(o.len)); err != nil {
			return err
		}
		e.model.distCoder.touch()
		e.model.reps.pushNew(o.dist)
		e.model.state = st.updateMatch()
		e.pos += o.len
	}
	return nil
}

func (e *Encoder) encodeRepIndex(r int, ps uint32) error {
	st := e.model.state
	if r == 0 {
		if err := e.rc.encodeBit(&e.model.isRepG0[st], 0); err != nil {
			return err
		}
		return e.rc.encodeBit(&e.model.isRep0Long[st][ps], 1)
	}
	if err := e.rc.encodeBit(&e.model.isRepG0[st], 1); err != nil {
		return err
	}
	if r == 1 {
		return e.rc.encodeBit(&e.model.isRepG1[st], 0)
	}
	if err := e.rc.encodeBit(&e.model.isRepG1[st], 1); err != nil {
		return err
	}
	if r == 2 {
		return e.rc.encodeBit(&e.model.isRepG2[st], 0)
	}
	return e.rc.encodeBit(&e.model.isRepG2[st], 1)
}

// emitEndMarker writes the sentinel match (length symbol 0, i.e. length 2, at
// endMarkerDistance) the decoder recognizes as end-of-stream.
func (e *Encoder) emitEndMarker() error {
	ps := posState(e.pos, e.model.pb)
	st := e.model.state
	if err := e.rc.encodeBit(&e.model.isMatch[st][ps], 1); err != nil {
		return err
	}
	if err := e.rc.encodeBit(&e.model.isRep[st], 0); err != nil {
		return err
	}
	if err := e.model.lenCoder.encode(e.rc, 0, ps); err != nil {
		return err
	}
	return e.model.distCoder.encode(e.rc, endMarkerDistance, lenToPosState(matchMinLen))
}
