// SPDX-License-Identifier: GPL-2.0-only

package lzma

// distanceCoder encodes/decodes match distances via a 6-bit posSlot tree per
// length-state, followed by either a reverse bit-tree (slots 4..13), or
// direct+align bits (slots >= 14).
type distanceCoder struct {
	posSlot [numLenToPosStates][]prob // 6-bit trees, 64 entries each
	posDecoders []prob                // flat array addressed by (dist - posSlot) + m
	align       []prob                // 4-bit reverse tree

	// price caches, rebuilt periodically. slotOnlyPrices holds
	// the posSlot bit-tree cost alone; fullDistPrices additionally bakes in the
	// reverse-bit-tree cost for every distance small enough to be fully cached
	// (< numFullDistances); larger distances combine slotOnlyPrices with a live
	// direct-bits price and the small alignPrices cache at encode time.
	slotOnlyPrices  [numLenToPosStates][1 << numPosSlotBits]uint32
	fullDistPrices  [numLenToPosStates][numFullDistances]uint32
	alignPrices     [alignTableSize]uint32
	matchPriceCnt   int
	alignPriceCnt   int
}

func newDistanceCoder() *distanceCoder {
	dc := &distanceCoder{
		posDecoders: newProbs(numFullDistances - endPosModelIndex + 1),
		align:       newProbs(alignTableSize),
	}
	for i := range dc.posSlot {
		dc.posSlot[i] = newProbs(1 << numPosSlotBits)
	}
	return dc
}

// getPosSlot returns the 6-bit slot value for a zero-based distance: slots
// 0..3 are exact small distances; larger distances are binned by their bit
// length into slots 4..63.
func getPosSlot(dist uint32) uint32 {
	if dist < 4 {
		return dist
	}
	n := uint32(31)
	for (dist>>n)&1 == 0 {
		n--
	}
	// n is now the index of the highest set bit.
	return (n << 1) | ((dist >> (n - 1)) & 1)
}

// encode writes the zero-based distance dist using the posSlot tree of
// lenState (lenToPosState of the match length).
func (dc *distanceCoder) encode(rc *rangeEncoder, dist uint32, lenState uint32) error {
	slot := getPosSlot(dist)
	bitTreeEncode(rc, dc.posSlot[lenState], numPosSlotBits, slot)

	if slot < startPosModelIndex {
		return nil
	}

	numDirectBits := int(slot>>1) - 1
	base := (2 | (slot & 1)) << uint(numDirectBits)
	rest := dist - base

	if slot < endPosModelIndex {
		reverseBitTreeEncode(rc, dc.posDecoders, int(base-slot), numDirectBits, rest)
		return nil
	}

	if err := rc.encodeDirectBits(rest>>numAlignBits, numDirectBits-numAlignBits); err != nil {
		return err
	}
	reverseBitTreeEncode(rc, dc.align, 0, numAlignBits, rest&(alignTableSize-1))
	return nil
}

// decode reads a zero-based distance for the given length-state.
func (dc *distanceCoder) decode(rc *rangeDecoder, lenState uint32) (uint32, error) {
	slot, err := bitTreeDecode(rc, dc.posSlot[lenState], numPosSlotBits)
	if err != nil {
		return 0, err
	}
	if slot < startPosModelIndex {
		return slot, nil
	}

	numDirectBits := int(slot>>1) - 1
	dist := (2 | (slot & 1)) << uint(numDirectBits)

	if slot < endPosModelIndex {
		rest, err := reverseBitTreeDecode(rc, dc.posDecoders, int(uint32(dist)-slot), numDirectBits)
		if err != nil {
			return 0, err
		}
		return dist + rest, nil
	}

	direct, err := rc.decodeDirectBits(numDirectBits - numAlignBits)
	if err != nil {
		return 0, err
	}
	dist += direct << numAlignBits
	align, err := reverseBitTreeDecode(rc, dc.align, 0, numAlignBits)
	if err != nil {
		return 0, err
	}
	return dist + align, nil
}

// priceDistance returns the cached price of distance dist at lenState,
// amortized across slotOnlyPrices/fullDistPrices/alignPrices.
func (dc *distanceCoder) priceDistance(dist uint32, lenState uint32) uint32 {
	if dc.matchPriceCnt <= 0 {
		dc.updateDistancePrices()
	}
	if dist < numFullDistances {
		return dc.fullDistPrices[lenState][dist]
	}
	if dc.alignPriceCnt <= 0 {
		dc.updateAlignPrices()
	}
	slot := getPosSlot(dist)
	numDirectBits := int(slot>>1) - 1
	return dc.slotOnlyPrices[lenState][slot] +
		directBitsPrice(numDirectBits-numAlignBits) +
		dc.alignPrices[dist&(alignTableSize-1)]
}

// touch marks one match-distance price lookup against the periodic refresh
// counters.
func (dc *distanceCoder) touch() {
	dc.matchPriceCnt--
	dc.alignPriceCnt--
}

// updateDistancePrices rebuilds slotOnlyPrices and fullDistPrices for every
// length-state.
func (dc *distanceCoder) updateDistancePrices() {
	for ls := 0; ls < numLenToPosStates; ls++ {
		for slot := uint32(0); slot < 1<<numPosSlotBits; slot++ {
			dc.slotOnlyPrices[ls][slot] = bitTreePrice(dc.posSlot[ls], numPosSlotBits, slot)
		}
		for dist := uint32(0); dist < numFullDistances; dist++ {
			slot := getPosSlot(dist)
			price := dc.slotOnlyPrices[ls][slot]
			if slot >= startPosModelIndex && slot < endPosModelIndex {
				numDirectBits := int(slot>>1) - 1
				base := (2 | (slot & 1)) << uint(numDirectBits)
				price += reverseBitTreePrice(dc.posDecoders, int(base-slot), numDirectBits, dist-base)
			}
			dc.fullDistPrices[ls][dist] = price
		}
	}
	dc.matchPriceCnt = matchPriceRefreshInterval
}

// updateAlignPrices rebuilds alignPrices.
func (dc *distanceCoder) updateAlignPrices() {
	for i := range dc.alignPrices {
		dc.alignPrices[i] = reverseBitTreePrice(dc.align, 0, numAlignBits, uint32(i))
	}
	dc.alignPriceCnt = alignPriceRefreshInterval
}

const (
	matchPriceRefreshInterval = 128
	alignPriceRefreshInterval = 16
)
