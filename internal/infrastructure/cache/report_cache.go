package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultReportPrefix = "sfa:report:"

// RedisReportCache stores computed dashboards as JSON under a key prefix
type RedisReportCache struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisReportCache creates a report cache over an existing client
func NewRedisReportCache(client redis.UniversalClient, keyPrefix string) *RedisReportCache {
	if keyPrefix == "" {
		keyPrefix = defaultReportPrefix
	}
	return &RedisReportCache{client: client, keyPrefix: keyPrefix}
}

// Get decodes the cached value into dest. It reports false on a miss.
func (c *RedisReportCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read report cache: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to decode cached report: %w", err)
	}
	return true, nil
}

// Set stores value for ttl
func (c *RedisReportCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return c.client.Set(ctx, c.keyPrefix+key, data, ttl).Err()
}

// Invalidate drops every cached report
func (c *RedisReportCache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.keyPrefix+"*", 200).Iterator()
	batch := make([]string, 0, 200)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := c.client.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan report cache: %w", err)
	}
	if len(batch) > 0 {
		return c.client.Del(ctx, batch...).Err()
	}
	return nil
}

type cachedReport struct {
	data      []byte
	expiresAt time.Time
}

// InMemoryReportCache keeps reports in process memory.
// A background goroutine drops expired entries until Close is called.
type InMemoryReportCache struct {
	mu        sync.RWMutex
	entries   map[string]cachedReport
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryReportCache creates a cache and starts its cleanup loop
func NewInMemoryReportCache() *InMemoryReportCache {
	c := &InMemoryReportCache{
		entries:  make(map[string]cachedReport),
		stopChan: make(chan struct{}),
	}
	c.wg.Add(1)
	go c.cleanupLoop()
	return c
}

// Get decodes the cached value into dest. It reports false on a miss or expiry.
func (c *InMemoryReportCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(e.expiresAt) {
		return false, nil
	}
	if err := json.Unmarshal(e.data, dest); err != nil {
		return false, fmt.Errorf("failed to decode cached report: %w", err)
	}
	return true, nil
}

// Set stores value for ttl
func (c *InMemoryReportCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	c.mu.Lock()
	c.entries[key] = cachedReport{data: data, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

// Invalidate drops every cached report
func (c *InMemoryReportCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	c.entries = make(map[string]cachedReport)
	c.mu.Unlock()
	return nil
}

// Size returns the number of stored entries, expired ones included
func (c *InMemoryReportCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the cleanup goroutine
func (c *InMemoryReportCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

func (c *InMemoryReportCache) cleanupLoop() {
	defer c.wg.Done()
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stopChan:
			return
		}
	}
}

func (c *InMemoryReportCache) cleanup() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}
