package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory é um cache local ao processo com expiração por TTL
type Memory struct {
	mu      sync.Mutex
	version int64
	items   *gocache.Cache
}

func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}

	cleanup := 2 * ttl
	if ttl == gocache.NoExpiration {
		cleanup = 0
	}

	return &Memory{items: gocache.New(ttl, cleanup)}
}

func memoryKey(version int64, key string) string {
	return fmt.Sprintf("v%d:%s", version, key)
}

func (m *Memory) Version(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.version, nil
}

func (m *Memory) Get(_ context.Context, version int64, key string, dest interface{}) (bool, error) {
	raw, ok := m.items.Get(memoryKey(version, key))
	if !ok {
		return false, nil
	}

	if err := json.Unmarshal(raw.([]byte), dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set descarta a gravação quando a versão já foi invalidada
func (m *Memory) Set(_ context.Context, version int64, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if version != m.version {
		return nil
	}

	m.items.SetDefault(memoryKey(version, key), raw)
	return nil
}

func (m *Memory) Invalidate(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.version++
	m.items.Flush()
	return nil
}
