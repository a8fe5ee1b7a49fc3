package btreeindex

import (
	"sync"

	"github.com/ValentinKolb/aKV/lib/index"
	"github.com/google/btree"
)

// btree degree, chosen per the btree package's recommendation for
// small in-memory items
const defaultDegree = 32

// item is a single index entry. Items are ordered by score, with the key
// as tie-break so that entries with equal scores still have a total order
// (required by the tree, not guaranteed to callers).
type item struct {
	score int64
	key   string
}

func less(a, b item) bool {
	if a.score != b.score {
		return a.score < b.score
	}
	return a.key < b.key
}

// NewBTreeIndex creates a new in-process ordered index backed by a B-tree.
func NewBTreeIndex() index.IIndex {
	return &btreeIndexImpl{
		tree:   btree.NewG[item](defaultDegree, less),
		scores: make(map[string]int64),
	}
}

// btreeIndexImpl implements index.IIndex with a B-tree ordered by score
// plus a key->score map for O(1) score lookups on Upsert and Remove.
type btreeIndexImpl struct {
	mu     sync.RWMutex
	tree   *btree.BTreeG[item]
	scores map[string]int64
}

// --------------------------------------------------------------------------
// Interface Methods (docu see index/interface.go)
// --------------------------------------------------------------------------

func (idx *btreeIndexImpl) Upsert(key string, score int64) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	// drop the old tree entry if the key is already indexed
	if oldScore, ok := idx.scores[key]; ok {
		idx.tree.Delete(item{score: oldScore, key: key})
	}

	idx.tree.ReplaceOrInsert(item{score: score, key: key})
	idx.scores[key] = score
}

func (idx *btreeIndexImpl) Remove(key string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	score, ok := idx.scores[key]
	if !ok {
		return
	}

	idx.tree.Delete(item{score: score, key: key})
	delete(idx.scores, key)
}

func (idx *btreeIndexImpl) RangeDesc(startRank, stopRank int) []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if startRank < 0 {
		startRank = 0
	}
	if stopRank < startRank {
		return nil
	}

	keys := make([]string, 0, stopRank-startRank+1)
	rank := 0
	idx.tree.Descend(func(it item) bool {
		if rank > stopRank {
			return false
		}
		if rank >= startRank {
			keys = append(keys, it.key)
		}
		rank++
		return true
	})

	return keys
}

func (idx *btreeIndexImpl) AllDesc() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	keys := make([]string, 0, idx.tree.Len())
	idx.tree.Descend(func(it item) bool {
		keys = append(keys, it.key)
		return true
	})

	return keys
}

func (idx *btreeIndexImpl) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.tree.Len()
}
