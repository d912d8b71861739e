package resolve

import (
	"github.com/beevik/etree"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

const defaultCacheSize = 4096

// Cache memoizes lookups by identifier. One help run queries the same
// member several times (synopsis, description, each parameter), so the
// rewrite below only happens once per identifier. Misses are cached too.
// Recomputing after eviction is harmless; the chain below is pure.
type Cache struct {
	next Lookup
	lru  *lru.Cache[string, *etree.Element]
	sf   singleflight.Group
}

func NewCache(next Lookup, size int) *Cache {
	if size <= 0 {
		size = defaultCacheSize
	}
	c, _ := lru.New[string, *etree.Element](size)
	return &Cache{next: next, lru: c}
}

func (c *Cache) Comments(t Target) (*etree.Element, error) {
	if frag, ok := c.lru.Get(t.ID); ok {
		return copyFragment(frag), nil
	}

	v, err, _ := c.sf.Do(t.ID, func() (any, error) {
		if frag, ok := c.lru.Get(t.ID); ok {
			return frag, nil
		}
		frag, err := c.next.Comments(t)
		if err != nil {
			return nil, err
		}
		c.lru.Add(t.ID, frag)
		return frag, nil
	})
	if err != nil {
		return nil, err
	}
	frag, _ := v.(*etree.Element)
	return copyFragment(frag), nil
}

// copyFragment hands each caller its own tree; the cached instance must
// stay pristine.
func copyFragment(e *etree.Element) *etree.Element {
	if e == nil {
		return nil
	}
	return e.Copy()
}
