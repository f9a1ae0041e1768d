package session

import (
	"context"
	"sync"
	"time"
)

// memoryStore 进程内会话存储，带 TTL 过期清理
type memoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	ttl     time.Duration
	done    chan struct{}
	once    sync.Once
}

type memoryEntry struct {
	mu        sync.Mutex // 串行化同一 key 的读改写
	value     string
	expiresAt time.Time
}

// NewMemoryStore 创建内存会话存储
// ttl <= 0 时条目永不过期（仍可被显式删除）
func NewMemoryStore(ttl time.Duration) Store {
	s := &memoryStore{
		entries: make(map[string]*memoryEntry),
		ttl:     ttl,
		done:    make(chan struct{}),
	}
	if ttl > 0 {
		go s.sweep()
	}
	return s
}

// sweep 周期性清理过期条目
func (s *memoryStore) sweep() {
	interval := s.ttl / 2
	if interval > time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			for key, e := range s.entries {
				if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
					delete(s.entries, key)
				}
			}
			s.mu.Unlock()
		}
	}
}

// entry 取出或创建条目；过期条目视同不存在
func (s *memoryStore) entry(key string, create bool) *memoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if ok && !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		delete(s.entries, key)
		ok = false
	}
	if !ok {
		if !create {
			return nil
		}
		e = &memoryEntry{}
		s.entries[key] = e
	}
	return e
}

func (s *memoryStore) Get(_ context.Context, key string) (string, error) {
	e := s.entry(key, false)
	if e == nil {
		return "", nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.value, nil
}

func (s *memoryStore) Update(_ context.Context, key string, fn func(current string) (string, error)) error {
	e := s.entry(key, true)
	e.mu.Lock()
	defer e.mu.Unlock()

	next, err := fn(e.value)
	if err != nil {
		return err
	}
	if next == "" {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil
	}
	e.value = next
	if s.ttl > 0 {
		e.expiresAt = time.Now().Add(s.ttl)
	}
	return nil
}

func (s *memoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Close() error {
	s.once.Do(func() { close(s.done) })
	return nil
}
