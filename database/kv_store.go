package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"healthwatch-backend/config"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// KVStore is the persisted key-value port used for rate-limit state and the
// sync checkpoint. Values survive restarts of the same installation; they are
// not shared across installations.
type KVStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// NewKVStore selects the configured backend
func NewKVStore(cfg *config.Config) KVStore {
	switch cfg.KVBackend {
	case "redis":
		return NewRedisKVStore(cfg)
	default:
		return NewGormKVStore(GetDB())
	}
}

// =============================================================================
// SQLite-backed store (default)
// =============================================================================

// KVEntry is a single key-value row in the main database
type KVEntry struct {
	Key   string `gorm:"primaryKey"`
	Value string
}

// TableName implements the GORM tabler interface.
func (KVEntry) TableName() string { return "kv_entries" }

type GormKVStore struct {
	db *gorm.DB
}

// NewGormKVStore creates a key-value store backed by the main database
func NewGormKVStore(db *gorm.DB) *GormKVStore {
	return &GormKVStore{db: db}
}

func (s *GormKVStore) Get(key string) (string, bool, error) {
	var entry KVEntry
	err := s.db.Where("key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return entry.Value, true, nil
}

func (s *GormKVStore) Set(key, value string) error {
	entry := KVEntry{Key: key, Value: value}
	if err := s.db.Save(&entry).Error; err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

func (s *GormKVStore) Delete(key string) error {
	if err := s.db.Delete(&KVEntry{}, "key = ?", key).Error; err != nil {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	return nil
}

// =============================================================================
// Redis-backed store
// =============================================================================

type RedisKVStore struct {
	client *redis.Client
}

// NewRedisKVStore creates a key-value store backed by Redis
func NewRedisKVStore(cfg *config.Config) *RedisKVStore {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Printf("Redis ping failed (%v), state persistence may be unavailable", err)
	}
	return &RedisKVStore{client: client}
}

func (s *RedisKVStore) Get(key string) (string, bool, error) {
	value, err := s.client.Get(context.Background(), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return value, true, nil
}

func (s *RedisKVStore) Set(key, value string) error {
	if err := s.client.Set(context.Background(), key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

func (s *RedisKVStore) Delete(key string) error {
	if err := s.client.Del(context.Background(), key).Err(); err != nil {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	return nil
}

// =============================================================================
// In-memory store
// =============================================================================

// MemoryKVStore holds values for the process lifetime only. Used in tests and
// as a degraded fallback when no persistent backend is reachable.
type MemoryKVStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryKVStore() *MemoryKVStore {
	return &MemoryKVStore{values: make(map[string]string)}
}

func (s *MemoryKVStore) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	return value, ok, nil
}

func (s *MemoryKVStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemoryKVStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}
