// SPDX-License-Identifier: GPL-2.0-only

package lzma

import "io"

// inputWindow buffers encoder input so the match finder can look back up to
// dictSize bytes and look ahead up to matchMaxLen bytes, pulling more data
// from source on demand and discarding bytes no longer reachable.
type inputWindow struct {
	source io.Reader
	eof    bool

	buf  []byte // holds absolute stream range [base, base+len(buf))
	base uint32 // absolute position of buf[0]

	pos       uint32 // absolute position of the match finder's cursor
	streamPos uint32 // absolute position one past the last buffered byte

	keepBefore uint32 // bytes of history to retain behind pos (== dictSize)
	keepAfter  uint32 // bytes of lookahead to keep buffered ahead of pos
}

// inputWindowChunk is the buffer capacity beyond dictSize of history and
// matchMaxLen of lookahead; it lets readBlock pull input in larger reads
// between moveBlock compactions.
const inputWindowChunk = 1 << 16

func newInputWindow(r io.Reader, dictSize uint32) *inputWindow {
	w := &inputWindow{
		source:     r,
		keepBefore: dictSize,
		keepAfter:  matchMaxLen,
	}
	cap := dictSize + w.keepAfter + inputWindowChunk
	w.buf = make([]byte, 0, cap)
	return w
}

// readBlock pulls more bytes from source until the buffer holds at least
// keepAfter bytes ahead of pos or the source is exhausted.
func (w *inputWindow) readBlock() error {
	if w.eof {
		return nil
	}
	for !w.eof && w.streamPos-w.pos < w.keepAfter {
		need := cap(w.buf) - len(w.buf)
		if need == 0 {
			w.moveBlock()
			need = cap(w.buf) - len(w.buf)
			if need == 0 {
				break
			}
		}
		chunk := make([]byte, need)
		n, err := w.source.Read(chunk)
		if n > 0 {
			w.buf = append(w.buf, chunk[:n]...)
			w.streamPos += uint32(n)
		}
		if err != nil {
			if err == io.EOF {
				w.eof = true
				return nil
			}
			return sourceExhausted("reading encoder input: %v", err)
		}
	}
	return nil
}

// moveBlock discards buffered bytes older than keepBefore behind pos,
// shifting the remainder to the front of buf and bumping base.
func (w *inputWindow) moveBlock() {
	if w.pos <= w.base+w.keepBefore {
		return
	}
	drop := w.pos - w.keepBefore - w.base
	if drop == 0 {
		return
	}
	copy(w.buf, w.buf[drop:])
	w.buf = w.buf[:uint32(len(w.buf))-drop]
	w.base += drop
}

// movePos advances the match finder cursor by one byte, refilling the buffer
// as needed.
func (w *inputWindow) movePos() error {
	w.pos++
	if w.pos-w.base > uint32(len(w.buf))/2 {
		w.moveBlock()
	}
	return w.readBlock()
}

// availableBytes returns how many bytes remain between pos and the end of the
// (possibly not yet fully read) stream; it triggers a readBlock first so the
// count reflects true availability when not at eof.
func (w *inputWindow) availableBytes() (uint32, error) {
	if err := w.readBlock(); err != nil {
		return 0, err
	}
	return w.streamPos - w.pos, nil
}

// indexByte returns the byte at pos+offset (offset may be negative to read
// history).
func (w *inputWindow) indexByte(offset int32) byte {
	idx := int32(w.pos-w.base) + offset
	return w.buf[idx]
}

// matchLen compares the bytes at pos against the bytes at pos-dist, up to
// limit bytes, returning how many matched.
func (w *inputWindow) matchLen(dist uint32, limit uint32) uint32 {
	return w.matchLenFrom(0, dist, limit)
}

// matchLenFrom is matchLen but measured from pos+startOffset instead of pos,
// for callers (the optimal parser) that evaluate a position the match finder
// has already advanced past.
func (w *inputWindow) matchLenFrom(startOffset int32, dist uint32, limit uint32) uint32 {
	start := int32(w.pos-w.base) + startOffset
	if start < 0 || dist == 0 || int64(start)-int64(dist) < 0 {
		return 0
	}
	back := int(start) - int(dist)
	cur := int(start)
	avail := uint32(len(w.buf)) - uint32(cur)
	if limit > avail {
		limit = avail
	}
	var n uint32
	for n < limit && w.buf[back+int(n)] == w.buf[cur+int(n)] {
		n++
	}
	return n
}

// isDataAtPos reports whether pos still has at least one unconsumed byte.
func (w *inputWindow) isDataAtPos() bool {
	return w.pos < w.streamPos
}
