package categorizer

import (
	"container/list"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/ternarybob/libram/internal/models"
)

// cacheKeyPrefix is how much leading content feeds the cache key hash. Two
// pages agreeing on their first 500 characters share a categorization.
const cacheKeyPrefix = 500

// cacheKey derives a deterministic key from the game context and a hash of
// the content prefix.
func cacheKey(content string, meta models.GameMetadata) string {
	prefix := content
	if len(prefix) > cacheKeyPrefix {
		prefix = prefix[:cacheKeyPrefix]
	}
	h := fnv.New64a()
	h.Write([]byte(prefix))
	return fmt.Sprintf("%s_%s_%s_%x", meta.GameType, meta.Edition, meta.BookType, h.Sum64())
}

type cacheEntry struct {
	key   string
	value models.CategorizationResult
}

// resultCache is a bounded LRU over categorization results. Safe for
// concurrent use; eviction drops the least recently touched entry once the
// bound is exceeded.
type resultCache struct {
	mu      sync.Mutex
	maxSize int
	order   *list.List
	items   map[string]*list.Element
}

func newResultCache(maxSize int) *resultCache {
	if maxSize < 1 {
		maxSize = 1
	}
	return &resultCache{
		maxSize: maxSize,
		order:   list.New(),
		items:   make(map[string]*list.Element),
	}
}

func (c *resultCache) Get(key string) (models.CategorizationResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return models.CategorizationResult{}, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*cacheEntry).value, true
}

// Put inserts or refreshes an entry. Last write wins; a concurrent duplicate
// insert is wasted work, not an error.
func (c *resultCache) Put(key string, value models.CategorizationResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		elem.Value.(*cacheEntry).value = value
		c.order.MoveToFront(elem)
		return
	}

	c.items[key] = c.order.PushFront(&cacheEntry{key: key, value: value})
	if c.order.Len() > c.maxSize {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*cacheEntry).key)
	}
}

func (c *resultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
