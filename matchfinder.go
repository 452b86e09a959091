// SPDX-License-Identifier: GPL-2.0-only

package lzma

// MatchFinderKind selects the match-finder algorithm.
type MatchFinderKind int

const (
	// BT2 seeds the binary tree directly from a 2-byte hash: cheaper, finds
	// fewer short matches.
	BT2 MatchFinderKind = iota
	// BT4 adds 3-byte and 4-byte hash tables ahead of the tree, catching
	// short matches the tree itself is too coarse to find quickly.
	BT4
)

// matchPair is one candidate match: len bytes may be copied from
// dist+1 bytes behind the match finder's current position.
type matchPair struct {
	len  uint32
	dist uint32 // zero-based distance
}

// matchFinder maintains a binary tree of suffixes of the input window, rooted
// one node per window position, ordered by the byte immediately following the
// longest common prefix with the position being inserted.
type matchFinder struct {
	win  *inputWindow
	kind MatchFinderKind

	historySize   uint32 // == dictSize
	cyclicBufSize uint32 // historySize + 1
	cutValue      uint32
	niceLen       uint32

	son []uint32 // 2 entries (left, right child) per cyclic slot

	hash2 []uint32 // BT2, BT4: direct 2-byte quick-check table
	hash3 []uint32 // BT4 only: direct 3-byte quick-check table
	hash4 []uint32 // BT4 only: main hash seeding the tree
}

func newMatchFinder(win *inputWindow, dictSize uint32, kind MatchFinderKind, niceLen int) *matchFinder {
	cyclic := dictSize + 1
	mf := &matchFinder{
		win:           win,
		kind:          kind,
		historySize:   dictSize,
		cyclicBufSize: cyclic,
		cutValue:      defaultCutValueBase + uint32(niceLen)/2,
		niceLen:       uint32(niceLen),
		son:           make([]uint32, 2*cyclic),
		hash2:         make([]uint32, hash2Size),
	}
	for i := range mf.son {
		mf.son[i] = noMatchPos
	}
	for i := range mf.hash2 {
		mf.hash2[i] = noMatchPos
	}
	if kind == BT4 {
		mf.hash3 = make([]uint32, hash3Size)
		mf.hash4 = make([]uint32, hash4Size)
		for i := range mf.hash3 {
			mf.hash3[i] = noMatchPos
		}
		for i := range mf.hash4 {
			mf.hash4[i] = noMatchPos
		}
	}
	return mf
}

func hash2Index(b0, b1 byte) uint32 {
	return (uint32(b1)<<8 | uint32(b0)) & (hash2Size - 1)
}

func hash3Index(b0, b1, b2 byte) uint32 {
	h := uint32(b0) ^ uint32(b1)<<8 ^ uint32(b2)<<16
	h *= 0x9E3779B1
	return h >> (32 - hash3Bits)
}

func hash4Index(b0, b1, b2, b3 byte) uint32 {
	h := uint32(b0) | uint32(b1)<<8 | uint32(b2)<<16 | uint32(b3)<<24
	h *= 2654435761
	return h >> (32 - hash4Bits)
}

// insert walks the binary tree rooted at the cyclic slot for curPos, comparing
// the suffix starting at curPos against every candidate it visits, re-linking
// nodes so the tree stays correctly ordered, and (when collect is true)
// recording every new longest match it discovers.
func (mf *matchFinder) insert(curPos uint32, seed uint32, lenLimit uint32, collect bool) []matchPair {
	cyclicPos := curPos % mf.cyclicBufSize
	ptr0 := cyclicPos*2 + 1
	ptr1 := cyclicPos * 2

	var len0, len1 uint32
	var matches []matchPair
	maxLen := uint32(0)

	curMatch := seed
	count := mf.cutValue
	for curMatch != noMatchPos && count > 0 {
		delta := curPos - curMatch
		if delta == 0 || delta > mf.historySize {
			break
		}
		count--

		candCyclic := curMatch % mf.cyclicBufSize
		pair := candCyclic * 2

		length := len0
		if len1 < length {
			length = len1
		}
		for length < lenLimit && mf.win.indexByte(int32(length)) == mf.win.indexByte(int32(length)-int32(delta)) {
			length++
		}

		if length > maxLen {
			maxLen = length
			if collect && length >= matchMinLen {
				matches = append(matches, matchPair{len: length, dist: delta - 1})
			}
			if length == lenLimit {
				mf.son[ptr1] = mf.son[pair]
				mf.son[ptr0] = mf.son[pair+1]
				return matches
			}
		}

		if mf.win.indexByte(int32(length)-int32(delta)) < mf.win.indexByte(int32(length)) {
			mf.son[ptr1] = curMatch
			ptr1 = pair + 1
			len1 = length
			curMatch = mf.son[pair+1]
		} else {
			mf.son[ptr0] = curMatch
			ptr0 = pair
			len0 = length
			curMatch = mf.son[pair]
		}
	}
	mf.son[ptr0] = noMatchPos
	mf.son[ptr1] = noMatchPos
	return matches
}

// getMatches returns every new-longest-length match found at the current
// window position, then advances the window by one byte.
func (mf *matchFinder) getMatches() ([]matchPair, error) {
	avail, err := mf.win.availableBytes()
	if err != nil {
		return nil, err
	}
	if avail < minMatchLen2 {
		return nil, mf.advance()
	}
	lenLimit := avail
	if lenLimit > matchMaxLen {
		lenLimit = matchMaxLen
	}

	curPos := mf.win.pos
	b0 := mf.win.indexByte(0)
	b1 := mf.win.indexByte(1)
	h2 := hash2Index(b0, b1)

	var matches []matchPair
	seed := mf.hash2[h2]
	mf.hash2[h2] = curPos

	if mf.kind == BT4 && avail >= minMatchLen4 {
		b2 := mf.win.indexByte(2)
		b3 := mf.win.indexByte(3)
		h3 := hash3Index(b0, b1, b2)
		h4 := hash4Index(b0, b1, b2, b3)

		if c3 := mf.hash3[h3]; c3 != noMatchPos && curPos-c3 <= mf.historySize {
			if l := mf.win.matchLen(curPos-c3, lenLimit); l >= minMatchLen3 {
				matches = append(matches, matchPair{len: l, dist: curPos - c3 - 1})
			}
		}
		mf.hash3[h3] = curPos

		seed = mf.hash4[h4]
		mf.hash4[h4] = curPos
	} else if mf.kind != BT4 {
		if seed != noMatchPos && curPos-seed <= mf.historySize {
			if l := mf.win.matchLen(curPos-seed, lenLimit); l >= minMatchLen2 {
				matches = append(matches, matchPair{len: l, dist: curPos - seed - 1})
			}
		}
	}

	treeMatches := mf.insert(curPos, seed, lenLimit, true)
	matches = append(matches, treeMatches...)
	matches = dedupGrowingMatches(matches)

	if err := mf.win.movePos(); err != nil {
		return nil, err
	}
	return matches, nil
}

// dedupGrowingMatches collapses the match list to strictly-increasing lengths
// (callers only ever want the shortest distance for each achievable length,
// which is what the tree walk already produces in order).
func dedupGrowingMatches(matches []matchPair) []matchPair {
	out := matches[:0]
	best := uint32(0)
	for _, m := range matches {
		if m.len > best {
			out = append(out, m)
			best = m.len
		}
	}
	return out
}

// skip advances the match finder by n positions without collecting matches,
// still inserting each position into the tree so later matches can reference
// it.
func (mf *matchFinder) skip(n uint32) error {
	for i := uint32(0); i < n; i++ {
		avail, err := mf.win.availableBytes()
		if err != nil {
			return err
		}
		if avail < minMatchLen2 {
			if err := mf.advance(); err != nil {
				return err
			}
			continue
		}
		lenLimit := avail
		if lenLimit > matchMaxLen {
			lenLimit = matchMaxLen
		}
		curPos := mf.win.pos
		b0 := mf.win.indexByte(0)
		b1 := mf.win.indexByte(1)
		h2 := hash2Index(b0, b1)
		seed := mf.hash2[h2]
		mf.hash2[h2] = curPos

		if mf.kind == BT4 && avail >= minMatchLen4 {
			b2 := mf.win.indexByte(2)
			b3 := mf.win.indexByte(3)
			h3 := hash3Index(b0, b1, b2)
			h4 := hash4Index(b0, b1, b2, b3)
			mf.hash3[h3] = curPos
			seed = mf.hash4[h4]
			mf.hash4[h4] = curPos
		}

		mf.insert(curPos, seed, lenLimit, false)
		if err := mf.win.movePos(); err != nil {
			return err
		}
	}
	return nil
}

// advance moves the window forward by one byte without touching the hash
// tables or tree, used once fewer than minMatchLen2 bytes remain.
func (mf *matchFinder) advance() error {
	return mf.win.movePos()
}
