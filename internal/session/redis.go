package session

import (
	"context"
	"sync"
	"time"

	"skillpath/backend/pkg/redis"
)

// redisStore 基于 Redis 的会话存储
// 读改写的串行化依赖进程内 per-key 互斥锁（单实例部署假设，
// 与内存实现保持一致的并发语义）
type redisStore struct {
	client *redis.Client
	ttl    time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewRedisStore 创建 Redis 会话存储
func NewRedisStore(client *redis.Client, ttl time.Duration) Store {
	return &redisStore{
		client: client,
		ttl:    ttl,
		locks:  make(map[string]*sync.Mutex),
	}
}

const keyPrefix = "session:"

func (s *redisStore) keyLock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

func (s *redisStore) Get(ctx context.Context, key string) (string, error) {
	return s.client.Get(ctx, keyPrefix+key)
}

func (s *redisStore) Update(ctx context.Context, key string, fn func(current string) (string, error)) error {
	l := s.keyLock(key)
	l.Lock()
	defer l.Unlock()

	current, err := s.client.Get(ctx, keyPrefix+key)
	if err != nil {
		return err
	}
	next, err := fn(current)
	if err != nil {
		return err
	}
	if next == "" {
		return s.client.Del(ctx, keyPrefix+key)
	}
	return s.client.Set(ctx, keyPrefix+key, next, s.ttl)
}

func (s *redisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, keyPrefix+key)
}

func (s *redisStore) Close() error { return nil }
