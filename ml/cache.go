package ml

import (
	"encoding/binary"
	"hash/fnv"

	"studenteval/evaluation"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedTrainer memoizes fitted classifiers by the exact training set.
// A changed, added or removed record yields a new fingerprint and a fresh fit.
type CachedTrainer struct {
	next  Trainer
	cache *lru.Cache[uint64, Classifier]
}

func NewCachedTrainer(next Trainer, size int) (*CachedTrainer, error) {
	if size <= 0 {
		size = 8
	}
	cache, err := lru.New[uint64, Classifier](size)
	if err != nil {
		return nil, err
	}
	return &CachedTrainer{next: next, cache: cache}, nil
}

func (c *CachedTrainer) Train(records []evaluation.Record) (Classifier, error) {
	key := fingerprint(records)
	if model, ok := c.cache.Get(key); ok {
		return model, nil
	}
	model, err := c.next.Train(records)
	if err != nil || model == nil {
		return model, err
	}
	c.cache.Add(key, model)
	return model, nil
}

func (c *CachedTrainer) Len() int {
	return c.cache.Len()
}

func fingerprint(records []evaluation.Record) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	put := func(v int64) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	}
	for _, rec := range records {
		put(rec.ID)
		put(int64(rec.Attendance))
		put(int64(rec.Classwork))
		put(int64(rec.Socialization))
		put(int64(rec.Neatness))
		h.Write([]byte(rec.Result))
		h.Write([]byte{0})
	}
	return h.Sum64()
}
