package cache

import (
	"container/list"
	"context"
	"path"
	"sync"
	"time"
)

// cacheItem represents one entry in the in-memory store
type cacheItem struct {
	key       string
	value     []byte
	expiresAt time.Time // zero means no expiry
	element   *list.Element
}

// MemoryStore implements Store with an LRU map bounded by maxEntries and
// per-entry TTL. It backs deployments without Redis and the test suites.
type MemoryStore struct {
	maxEntries int
	items      map[string]*cacheItem
	lruList    *list.List
	mu         sync.Mutex
}

// NewMemoryStore creates an in-memory cache holding at most maxEntries items.
func NewMemoryStore(maxEntries int) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = 1024
	}
	return &MemoryStore{
		maxEntries: maxEntries,
		items:      make(map[string]*cacheItem),
		lruList:    list.New(),
	}
}

func (ms *MemoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	item, exists := ms.items[key]
	if !exists {
		return nil, false
	}

	if !item.expiresAt.IsZero() && time.Now().After(item.expiresAt) {
		ms.deleteItem(item)
		return nil, false
	}

	ms.lruList.MoveToFront(item.element)
	return item.value, true
}

func (ms *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) bool {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	if item, exists := ms.items[key]; exists {
		item.value = value
		item.expiresAt = expiresAt
		ms.lruList.MoveToFront(item.element)
		return true
	}

	item := &cacheItem{
		key:       key,
		value:     value,
		expiresAt: expiresAt,
	}
	item.element = ms.lruList.PushFront(item)
	ms.items[key] = item

	if len(ms.items) > ms.maxEntries {
		ms.evictOldest()
	}

	return true
}

func (ms *MemoryStore) Delete(_ context.Context, key string) bool {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	item, exists := ms.items[key]
	if !exists {
		return false
	}
	ms.deleteItem(item)
	return true
}

// InvalidatePattern deletes all keys matching "<prefix>:<pattern>" using
// glob semantics, mirroring the Redis SCAN MATCH behavior.
func (ms *MemoryStore) InvalidatePattern(_ context.Context, pattern string) int {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	fullPattern := KeyPrefix + ":" + pattern
	var matched []*cacheItem
	for key, item := range ms.items {
		if ok, err := path.Match(fullPattern, key); err == nil && ok {
			matched = append(matched, item)
		}
	}
	for _, item := range matched {
		ms.deleteItem(item)
	}
	return len(matched)
}

// Size returns the current number of entries.
func (ms *MemoryStore) Size() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return len(ms.items)
}

func (ms *MemoryStore) evictOldest() {
	element := ms.lruList.Back()
	if element != nil {
		ms.deleteItem(element.Value.(*cacheItem))
	}
}

func (ms *MemoryStore) deleteItem(item *cacheItem) {
	delete(ms.items, item.key)
	ms.lruList.Remove(item.element)
}
