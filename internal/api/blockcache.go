package api

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// blockKey identifies one block on one chain
type blockKey struct {
	chainID uint64
	number  uint64
}

// blockCache is an LRU cache of block timestamps. Block headers are
// immutable once mined, so entries never expire.
type blockCache struct {
	cache *lru.Cache[blockKey, uint64]
}

func newBlockCache(size int) (*blockCache, error) {
	cache, err := lru.New[blockKey, uint64](size)
	if err != nil {
		return nil, err
	}
	return &blockCache{cache: cache}, nil
}

func (bc *blockCache) get(chainID, number uint64) (uint64, bool) {
	return bc.cache.Get(blockKey{chainID: chainID, number: number})
}

func (bc *blockCache) set(chainID, number, timestamp uint64) {
	bc.cache.Add(blockKey{chainID: chainID, number: number}, timestamp)
}
