package cache

import (
	"container/list"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"
)

type memoryItem struct {
	key        string
	data       []byte
	expiration time.Time
}

// MemoryCache implements Service in process memory with LRU eviction.
type MemoryCache struct {
	mu       sync.RWMutex
	items    map[string]*list.Element
	order    *list.List
	maxSize  int
	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewMemoryCache creates an in-memory cache.
func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	cfg := &MemoryConfig{
		MaxSize:         1000,
		CleanupInterval: time.Minute,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	c := &MemoryCache{
		items:   make(map[string]*list.Element),
		order:   list.New(),
		maxSize: cfg.MaxSize,
		stopCh:  make(chan struct{}),
	}

	go c.cleanupLoop(cfg.CleanupInterval)
	return c
}

// Close stops the cleanup loop.
func (c *MemoryCache) Close() error {
	c.stopOnce.Do(func() {
		close(c.stopCh)
	})
	return nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if expiration <= 0 {
		expiration = 7 * 24 * time.Hour
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		item := el.Value.(*memoryItem)
		item.data = data
		item.expiration = time.Now().Add(expiration)
		c.order.MoveToFront(el)
		return nil
	}

	if c.order.Len() >= c.maxSize {
		c.evictOldest()
	}

	item := &memoryItem{
		key:        key,
		data:       data,
		expiration: time.Now().Add(expiration),
	}
	c.items[key] = c.order.PushFront(item)
	return nil
}

func (c *MemoryCache) Get(_ context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	el, ok := c.items[key]
	if !ok {
		c.mu.Unlock()
		return ErrCacheMiss
	}

	item := el.Value.(*memoryItem)
	if time.Now().After(item.expiration) {
		c.removeElement(el)
		c.mu.Unlock()
		return ErrCacheMiss
	}

	c.order.MoveToFront(el)
	data := item.data
	c.mu.Unlock()

	return json.Unmarshal(data, dest)
}

func (c *MemoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range keys {
		if el, ok := c.items[key]; ok {
			c.removeElement(el)
		}
	}
	return nil
}

func (c *MemoryCache) DeleteByPattern(_ context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")

	c.mu.Lock()
	defer c.mu.Unlock()

	for key, el := range c.items {
		if strings.HasPrefix(key, prefix) {
			c.removeElement(el)
		}
	}
	return nil
}

func (c *MemoryCache) Exists(_ context.Context, keys ...string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := time.Now()
	for _, key := range keys {
		if el, ok := c.items[key]; ok {
			if now.Before(el.Value.(*memoryItem).expiration) {
				return true, nil
			}
		}
	}
	return false, nil
}

func (c *MemoryCache) TryLock(_ context.Context, key string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = time.Minute
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		if time.Now().Before(el.Value.(*memoryItem).expiration) {
			return false, nil
		}
		c.removeElement(el)
	}

	item := &memoryItem{
		key:        key,
		data:       []byte(`"locked"`),
		expiration: time.Now().Add(ttl),
	}
	c.items[key] = c.order.PushFront(item)
	return true, nil
}

func (c *MemoryCache) Unlock(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.removeElement(el)
	}
	return nil
}

// caller must hold mu
func (c *MemoryCache) evictOldest() {
	if el := c.order.Back(); el != nil {
		c.removeElement(el)
	}
}

// caller must hold mu
func (c *MemoryCache) removeElement(el *list.Element) {
	c.order.Remove(el)
	delete(c.items, el.Value.(*memoryItem).key)
}

func (c *MemoryCache) cleanupLoop(interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stopCh:
			return
		}
	}
}

func (c *MemoryCache) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for _, el := range c.items {
		if now.After(el.Value.(*memoryItem).expiration) {
			c.removeElement(el)
		}
	}
}
