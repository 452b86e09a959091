// SPDX-License-Identifier: GPL-2.0-only

package lzma

// opKind distinguishes the four ways the encoder can advance the input
// position.
type opKind int

const (
	opLiteral opKind = iota
	opMatch
	opRep
	opShortRep
)

// op is one decoded step of the chosen parse: encoder.go replays a slice of
// these against the live model and range coder.
type op struct {
	kind     opKind
	len      uint32 // full match/rep length (>=matchMinLen); unused for literal/shortRep
	dist     uint32 // zero-based distance; valid for opMatch
	repIndex int    // which rep slot; valid for opRep

	// viaLiteral marks a rep edge priced as a literal immediately followed
	// by the rep match, using the reps as they stood before the literal.
	// reconstructPath synthesizes the implicit literal op ahead of it.
	viaLiteral bool
}

// optNode is one slot of the optimal-parse DP table: the cheapest known way
// to reach this many bytes past the window's start, together with enough of
// the arrival state to both reconstruct the path and keep pricing rep-matches
// correctly along it.
type optNode struct {
	reached  bool
	price    uint32
	posPrev  uint32
	edge     op
	state    lzmaState
	reps     repDistances
}

// fastBytesShortcut reports whether a match-finder candidate of length len2
// reaches niceLen; parseChunk then prices no longer candidates at that
// position. The DP relaxation itself still runs over the whole chunk.
func fastBytesShortcut(len2 uint32, niceLen int) bool {
	return len2 >= uint32(niceLen)
}

// parseChunk runs one forward relaxation pass starting at the window's
// current position, advancing the match finder in lockstep, and returns the
// chosen sequence of ops to emit; emit then advances the model state/reps.
func (e *Encoder) parseChunk() ([]op, error) {
	avail, err := e.win.availableBytes()
	if err != nil {
		return nil, err
	}
	if avail == 0 {
		return nil, nil
	}
	e.streamPos = e.win.pos

	limit := avail
	if limit > optimalArraySize {
		limit = optimalArraySize
	}
	// Cap lookahead so emit's later byteAt(e.pos) reads never fall outside
	// the window's retained history once the match finder has advanced past
	// them (window_encoder.go's keepBefore == the configured dictionary size).
	if maxLookahead := e.opts.DictSize / 2; limit > maxLookahead && maxLookahead >= matchMaxLen {
		limit = maxLookahead
	}

	opt := e.opt[:limit+1]
	for i := range opt {
		opt[i] = optNode{}
	}
	opt[0] = optNode{reached: true, price: 0, state: e.model.state, reps: e.model.reps}

	finalIdx := uint32(0)

	for i := uint32(0); i < limit; i++ {
		cur := opt[i]
		if !cur.reached {
			continue
		}

		remaining, err := e.win.availableBytes()
		if err != nil {
			return nil, err
		}
		if remaining == 0 {
			finalIdx = i
			break
		}

		matches, err := e.mf.getMatches()
		if err != nil {
			return nil, err
		}
		finalIdx = i + 1

		ps := posState(e.streamPos+i, e.model.pb)

		symbol := e.win.indexByte(-1)
		var prevByte byte
		if e.streamPos+i > 0 {
			prevByte = e.win.indexByte(-2)
		}
		useMatched := !cur.state.isCharState()
		var matchByte byte
		if useMatched {
			matchByte = e.win.indexByte(-2 - int32(cur.reps[0]))
		}
		litProbs := e.model.litCoder.ctx(e.streamPos+i, prevByte)

		litPrice := cur.price +
			bitPrice(e.model.isMatch[cur.state][ps], 0) +
			literalPrice(litProbs, symbol, useMatched, matchByte)
		newLitState := cur.state.updateChar()
		e.relax(opt, i+1, litPrice, i, op{kind: opLiteral}, newLitState, cur.reps)

		// Literal followed immediately by a rep match on the pre-literal
		// reps. The DP's own relaxation from node i+1 may arrive there via a
		// cheaper edge with different reps, so this combined price is worked
		// out here rather than assumed.
		if remaining > matchMinLen {
			repPs := posState(e.streamPos+i+1, e.model.pb)
			for r := 0; r < numRepDistances; r++ {
				dist := cur.reps[r]
				if dist+1 > e.streamPos+i+1 {
					continue
				}
				l := e.win.matchLenFrom(0, dist+1, remaining-1)
				if l < matchMinLen {
					continue
				}
				basePrice := litPrice +
					bitPrice(e.model.isMatch[newLitState][repPs], 1) +
					bitPrice(e.model.isRep[newLitState], 1)
				switch r {
				case 0:
					basePrice += bitPrice(e.model.isRepG0[newLitState], 1) + bitPrice(e.model.isRep0Long[newLitState][repPs], 1)
				case 1:
					basePrice += bitPrice(e.model.isRepG0[newLitState], 1) + bitPrice(e.model.isRepG1[newLitState], 1)
				case 2:
					basePrice += bitPrice(e.model.isRepG0[newLitState], 1) + bitPrice(e.model.isRepG1[newLitState], 1) + bitPrice(e.model.isRepG2[newLitState], 0)
				case 3:
					basePrice += bitPrice(e.model.isRepG0[newLitState], 1) + bitPrice(e.model.isRepG1[newLitState], 1) + bitPrice(e.model.isRepG2[newLitState], 1)
				}
				for length := uint32(matchMinLen); length <= l; length++ {
					lenState := length - matchMinLen
					price := basePrice + e.model.repLenCoder.price(lenState, repPs)
					e.model.repLenCoder.touch(repPs)
					newReps := cur.reps
					newReps.promote(r)
					newState := newLitState.updateRep()
					e.relax(opt, i+1+length, price, i, op{kind: opRep, len: length, repIndex: r, viaLiteral: true}, newState, newReps)
				}
			}
		}

		// Short rep: one byte copied from rep0.
		if cur.reps[0]+1 <= e.streamPos+i && e.win.matchLenFrom(-1, cur.reps[0]+1, 1) == 1 {
			srPrice := cur.price +
				bitPrice(e.model.isMatch[cur.state][ps], 1) +
				bitPrice(e.model.isRep[cur.state], 1) +
				bitPrice(e.model.isRepG0[cur.state], 0) +
				bitPrice(e.model.isRep0Long[cur.state][ps], 0)
			newState := cur.state.updateShortRep()
			e.relax(opt, i+1, srPrice, i, op{kind: opShortRep}, newState, cur.reps)
		}

		// Rep matches: try extending each of the four known distances.
		for r := 0; r < numRepDistances; r++ {
			dist := cur.reps[r]
			if dist+1 > e.streamPos+i {
				continue
			}
			l := e.win.matchLenFrom(-1, dist+1, remaining)
			if l < matchMinLen {
				continue
			}
			if l > remaining {
				l = remaining
			}
			basePrice := cur.price +
				bitPrice(e.model.isMatch[cur.state][ps], 1) +
				bitPrice(e.model.isRep[cur.state], 1)
			switch r {
			case 0:
				basePrice += bitPrice(e.model.isRepG0[cur.state], 1) + bitPrice(e.model.isRep0Long[cur.state][ps], 1)
			case 1:
				basePrice += bitPrice(e.model.isRepG0[cur.state], 1) + bitPrice(e.model.isRepG1[cur.state], 1)
			case 2:
				basePrice += bitPrice(e.model.isRepG0[cur.state], 1) + bitPrice(e.model.isRepG1[cur.state], 1) + bitPrice(e.model.isRepG2[cur.state], 0)
			case 3:
				basePrice += bitPrice(e.model.isRepG0[cur.state], 1) + bitPrice(e.model.isRepG1[cur.state], 1) + bitPrice(e.model.isRepG2[cur.state], 1)
			}
			for length := uint32(matchMinLen); length <= l; length++ {
				lenState := length - matchMinLen
				price := basePrice + e.model.repLenCoder.price(lenState, ps)
				e.model.repLenCoder.touch(ps)
				newReps := cur.reps
				newReps.promote(r)
				newState := cur.state.updateRep()
				e.relax(opt, i+length, price, i, op{kind: opRep, len: length, repIndex: r}, newState, newReps)
			}
		}

		// New matches found by the match finder at this position.
		for _, cand := range matches {
			if cand.len < matchMinLen {
				continue
			}
			maxLen := cand.len
			if maxLen > remaining {
				maxLen = remaining
			}
			for length := uint32(matchMinLen); length <= maxLen; length++ {
				ls := length - matchMinLen
				distPrice := e.model.distCoder.priceDistance(cand.dist, lenToPosState(length))
				e.model.distCoder.touch()
				price := cur.price +
					bitPrice(e.model.isMatch[cur.state][ps], 1) +
					bitPrice(e.model.isRep[cur.state], 0) +
					e.model.lenCoder.price(ls, ps) +
					distPrice
				e.model.lenCoder.touch(ps)
				var newReps repDistances
				newReps.pushNew(cand.dist)
				newState := cur.state.updateMatch()
				e.relax(opt, i+length, price, i, op{kind: opMatch, len: length, dist: cand.dist}, newState, newReps)
			}
			if fastBytesShortcut(cand.len, e.opts.FastBytes) {
				break
			}
		}
	}

	return e.reconstructPath(opt, finalIdx), nil
}

// relax records a cheaper way to reach opt[idx], if price beats what's there.
func (e *Encoder) relax(opt []optNode, idx uint32, price uint32, from uint32, edge op, state lzmaState, reps repDistances) {
	if idx >= uint32(len(opt)) {
		return
	}
	if opt[idx].reached && opt[idx].price <= price {
		return
	}
	opt[idx] = optNode{reached: true, price: price, posPrev: from, edge: edge, state: state, reps: reps}
}

// reconstructPath walks opt[] backward from finalIdx to 0 and returns the
// chosen ops in forward order.
func (e *Encoder) reconstructPath(opt []optNode, finalIdx uint32) []op {
	if finalIdx == 0 {
		return nil
	}
	var rev []op
	i := finalIdx
	for i > 0 {
		node := opt[i]
		rev = append(rev, node.edge)
		if node.edge.viaLiteral {
			rev = append(rev, op{kind: opLiteral})
		}
		i = node.posPrev
	}
	ops := make([]op, len(rev))
	for i, o := range rev {
		ops[len(rev)-1-i] = o
	}
	return ops
}
