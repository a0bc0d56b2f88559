// Package cache keeps short-lived in-process counters, used for rate
// limiting when Redis is disabled.
package cache

import (
	"context"
	"sync"
	"time"
)

type Item struct {
	Count      int64
	Expiration int64
}

// Counters is a set of fixed-window counters keyed by string.
type Counters struct {
	items map[string]Item
	mu    sync.Mutex
	now   func() time.Time

	stop chan struct{}
	once sync.Once
}

// NewCounters starts a store whose expired windows are swept every gcInterval.
func NewCounters(gcInterval time.Duration) *Counters {
	c := &Counters{
		items: make(map[string]Item),
		now:   time.Now,
		stop:  make(chan struct{}),
	}
	if gcInterval > 0 {
		go c.startGC(gcInterval)
	}
	return c
}

// Incr adds one to key's counter and returns the new count. A key whose
// window has passed starts again at one with a fresh window.
func (c *Counters) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now().UnixNano()
	item, found := c.items[key]
	if !found || now > item.Expiration {
		item = Item{Expiration: now + window.Nanoseconds()}
	}
	item.Count++
	c.items[key] = item

	return item.Count, nil
}

func (c *Counters) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Close stops the sweeper.
func (c *Counters) Close() error {
	c.once.Do(func() { close(c.stop) })
	return nil
}

func (c *Counters) startGC(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *Counters) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now().UnixNano()
	for k, v := range c.items {
		if now > v.Expiration {
			delete(c.items, k)
		}
	}
}
