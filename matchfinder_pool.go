// SPDX-License-Identifier: GPL-2.0-only

package lzma

import "sync"

type matchFinderPoolKey struct {
	dictSize uint32
	kind     MatchFinderKind
}

var matchFinderPools sync.Map // matchFinderPoolKey -> *sync.Pool

func matchFinderPoolFor(key matchFinderPoolKey) *sync.Pool {
	if p, ok := matchFinderPools.Load(key); ok {
		return p.(*sync.Pool)
	}
	p := &sync.Pool{}
	actual, _ := matchFinderPools.LoadOrStore(key, p)
	return actual.(*sync.Pool)
}

// acquireMatchFinder returns a matchFinder pooled for (dictSize, kind),
// reconfigured for niceLen, if one is available, or builds a fresh one; its tables are always reset to
// empty before use so stale entries from a previous stream can't leak
// matches across unrelated data.
func acquireMatchFinder(win *inputWindow, dictSize uint32, kind MatchFinderKind, niceLen int) *matchFinder {
	key := matchFinderPoolKey{dictSize: dictSize, kind: kind}
	pool := matchFinderPoolFor(key)
	if v := pool.Get(); v != nil {
		mf := v.(*matchFinder)
		mf.win = win
		mf.niceLen = uint32(niceLen)
		mf.cutValue = defaultCutValueBase + uint32(niceLen)/2
		resetMatchFinderTables(mf)
		return mf
	}
	return newMatchFinder(win, dictSize, kind, niceLen)
}

func resetMatchFinderTables(mf *matchFinder) {
	for i := range mf.son {
		mf.son[i] = noMatchPos
	}
	for i := range mf.hash2 {
		mf.hash2[i] = noMatchPos
	}
	for i := range mf.hash3 {
		mf.hash3[i] = noMatchPos
	}
	for i := range mf.hash4 {
		mf.hash4[i] = noMatchPos
	}
}

// releaseMatchFinder returns mf to its pool, dropping the window reference so
// the GC can reclaim it independently of the (much larger) hash tables.
func releaseMatchFinder(mf *matchFinder) {
	if mf == nil {
		return
	}
	key := matchFinderPoolKey{dictSize: mf.historySize, kind: mf.kind}
	mf.win = nil
	matchFinderPoolFor(key).Put(mf)
}
