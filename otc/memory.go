package otc

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

type entry struct {
	code  string
	tries int
}

// Memory keeps codes in process. Used when no Redis is configured, so codes do
// not survive a restart or cross instances.
type Memory struct {
	mu    sync.Mutex
	cache *ristretto.Cache[string, *entry]
	ttl   time.Duration
}

func NewMemory(ttl time.Duration) (*Memory, error) {
	c, err := ristretto.NewCache(&ristretto.Config[string, *entry]{
		NumCounters: 10_000,
		MaxCost:     1_000,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create code cache: %w", err)
	}
	return &Memory{cache: c, ttl: ttl}, nil
}

func (m *Memory) Issue(_ context.Context, p Purpose, email string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.cache.SetWithTTL(key(p, email), &entry{code: code}, 1, m.ttl) {
		return "", fmt.Errorf("code cache rejected entry")
	}
	m.cache.Wait()
	return code, nil
}

func (m *Memory) Redeem(_ context.Context, p Purpose, email, code string) error {
	k := key(p, email)

	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.cache.Get(k)
	if !ok {
		return ErrInvalidCode
	}
	if !sameCode(e.code, code) {
		e.tries++
		if e.tries >= MaxAttempts {
			m.cache.Del(k)
		}
		return ErrInvalidCode
	}
	m.cache.Del(k)
	return nil
}

func (m *Memory) Close() error {
	m.cache.Close()
	return nil
}
