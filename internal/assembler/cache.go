package assembler

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/bobbinhq/bobbin/internal/chunk"
	"github.com/bobbinhq/bobbin/internal/storage"
)

// couplingCacheSize bounds the per-call LRU; it only needs to cover
// the seed files of a single Assemble invocation, which is small
// relative to a repo's total file count.
const couplingCacheSize = 256

// couplingCache memoizes Store.GetCoupling lookups for the lifetime of
// a single Assemble/AssembleFromSeeds call, since Phase 2 can look up
// the same file's coupling more than once when several seed files
// couple to an overlapping set of others. It is never shared across
// calls.
type couplingCache struct {
	store *storage.Store
	cache *lru.Cache[string, []chunk.FileCoupling]
}

func newCouplingCache(store *storage.Store) *couplingCache {
	c, _ := lru.New[string, []chunk.FileCoupling](couplingCacheSize)
	return &couplingCache{store: store, cache: c}
}

func (c *couplingCache) get(repo, file string, limit int) ([]chunk.FileCoupling, error) {
	key := repo + "\x00" + file
	if v, ok := c.cache.Get(key); ok {
		return v, nil
	}
	v, err := c.store.GetCoupling(repo, file, limit)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, v)
	return v, nil
}
