package dtype

import (
	"github.com/dgraph-io/ristretto"
	"github.com/pkg/errors"
)

// ParseCache memoizes Parse results by type spec text.
// Successful parses only, errors are always recomputed.
type ParseCache struct {
	cache *ristretto.Cache
	opts  []ParseOption
}

func NewParseCache(maxEntries int64, opts ...ParseOption) (*ParseCache, error) {
	if maxEntries <= 0 {
		return nil, errors.Errorf("parse cache size must be positive, got %d", maxEntries)
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, errors.Wrap(err, "couldn't initialize type cache")
	}

	return &ParseCache{
		cache: cache,
		opts:  opts,
	}, nil
}

func (c *ParseCache) Parse(text string) (Type, error) {
	if cached, ok := c.cache.Get(text); ok {
		return cached.(Type), nil
	}

	t, err := Parse(text, c.opts...)
	if err != nil {
		return Type{}, err
	}
	// The set may be dropped by ristretto's admission policy, that's fine.
	c.cache.Set(text, t, 1)

	return t, nil
}

func (c *ParseCache) Close() {
	c.cache.Close()
}
