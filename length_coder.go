// SPDX-License-Identifier: GPL-2.0-only

package lzma

// lengthCoder implements the three-level length choice: a "low" tree for
// lengths 2..9, a "mid" tree for 10..17, and a shared "high" tree for 18..273,
// selected by two single-bit choice models. Each posState gets its own low/mid
// tree; the high tree is shared.
type lengthCoder struct {
	choice  prob
	choice2 prob
	low     [numPosStatesMax][]prob // 3-bit trees, 8 symbols each
	mid     [numPosStatesMax][]prob // 3-bit trees, 8 symbols each
	high    []prob                  // 8-bit tree, 256 symbols

	// prices is the per-symbol bit-price cache, indexed
	// [posState][symbol]; counters track when to rebuild it.
	prices     [numPosStatesMax][numLenSymbols]uint32
	counters   [numPosStatesMax]int
}

func newLengthCoder() *lengthCoder {
	lc := &lengthCoder{
		choice:  probInitValue,
		choice2: probInitValue,
		high:    newProbs(1 << numHighLenBits),
	}
	for i := range lc.low {
		lc.low[i] = newProbs(1 << numLowMidLenBits)
		lc.mid[i] = newProbs(1 << numLowMidLenBits)
	}
	return lc
}

const (
	numLowMidLenBits = 3
	numHighLenBits   = 8
)

// encode writes symbol (0..numLenSymbols-1, i.e. length-matchMinLen) for the
// given posState.
func (lc *lengthCoder) encode(rc *rangeEncoder, symbol uint32, ps uint32) error {
	if symbol < numLowLenSymbols {
		if err := rc.encodeBit(&lc.choice, 0); err != nil {
			return err
		}
		bitTreeEncode(rc, lc.low[ps], numLowMidLenBits, symbol)
		return nil
	}
	if err := rc.encodeBit(&lc.choice, 1); err != nil {
		return err
	}
	symbol -= numLowLenSymbols
	if symbol < numMidLenSymbols {
		if err := rc.encodeBit(&lc.choice2, 0); err != nil {
			return err
		}
		bitTreeEncode(rc, lc.mid[ps], numLowMidLenBits, symbol)
		return nil
	}
	if err := rc.encodeBit(&lc.choice2, 1); err != nil {
		return err
	}
	bitTreeEncode(rc, lc.high, numHighLenBits, symbol-numMidLenSymbols)
	return nil
}

// decode reads a length symbol (0..numLenSymbols-1); add matchMinLen for the
// actual length.
func (lc *lengthCoder) decode(rc *rangeDecoder, ps uint32) (uint32, error) {
	bit, err := rc.decodeBit(&lc.choice)
	if err != nil {
		return 0, err
	}
	if bit == 0 {
		return bitTreeDecode(rc, lc.low[ps], numLowMidLenBits)
	}
	bit2, err := rc.decodeBit(&lc.choice2)
	if err != nil {
		return 0, err
	}
	if bit2 == 0 {
		v, err := bitTreeDecode(rc, lc.mid[ps], numLowMidLenBits)
		if err != nil {
			return 0, err
		}
		return v + numLowLenSymbols, nil
	}
	v, err := bitTreeDecode(rc, lc.high, numHighLenBits)
	if err != nil {
		return 0, err
	}
	return v + numLowLenSymbols + numMidLenSymbols, nil
}

// updatePrices rebuilds the price table for one posState.
func (lc *lengthCoder) updatePrices(ps uint32) {
	choice0Price := bitPrice(lc.choice, 0)
	choice1Price := bitPrice(lc.choice, 1)
	choice2_0 := choice1Price + bitPrice(lc.choice2, 0)
	choice2_1 := choice1Price + bitPrice(lc.choice2, 1)

	for sym := uint32(0); sym < numLowLenSymbols; sym++ {
		lc.prices[ps][sym] = choice0Price + bitTreePrice(lc.low[ps], numLowMidLenBits, sym)
	}
	for sym := uint32(0); sym < numMidLenSymbols; sym++ {
		lc.prices[ps][numLowLenSymbols+sym] = choice2_0 + bitTreePrice(lc.mid[ps], numLowMidLenBits, sym)
	}
	for sym := uint32(0); sym < numHighLenSymbols; sym++ {
		lc.prices[ps][numLowLenSymbols+numMidLenSymbols+sym] = choice2_1 + bitTreePrice(lc.high, numHighLenBits, sym)
	}
	lc.counters[ps] = lengthPriceRefreshInterval
}

// lengthPriceRefreshInterval is the amortization window: the price cache for
// a posState is rebuilt once its counter reaches zero.
const lengthPriceRefreshInterval = 1 << numLowMidLenBits

// price returns the cached price of encoding length symbol (0-based, i.e.
// length-matchMinLen) at the given posState, refreshing the cache if it has gone
// stale for this posState.
func (lc *lengthCoder) price(symbol uint32, ps uint32) uint32 {
	if lc.counters[ps] <= 0 {
		lc.updatePrices(ps)
	}
	return lc.prices[ps][symbol]
}

func (lc *lengthCoder) touch(ps uint32) {
	lc.counters[ps]--
}
