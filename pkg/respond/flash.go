package respond

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// DefaultFlashTTL bounds how long an unread flash message is kept.
const DefaultFlashTTL = 10 * time.Minute

// FlashStore keeps messages that must survive exactly one render.
type FlashStore interface {
	// Put stores msg and returns the read-once key.
	Put(ctx context.Context, msg Message) (string, error)
	// Take returns and removes the message stored under key.
	Take(ctx context.Context, key string) (Message, bool)
}

// MemoryFlashStore is an in-process FlashStore backed by go-cache.
type MemoryFlashStore struct {
	mu    sync.Mutex
	cache *gocache.Cache
	ttl   time.Duration
}

// NewMemoryFlashStore creates a store whose entries expire after ttl.
func NewMemoryFlashStore(ttl time.Duration) *MemoryFlashStore {
	if ttl <= 0 {
		ttl = DefaultFlashTTL
	}
	return &MemoryFlashStore{
		cache: gocache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

// Put implements FlashStore.
func (s *MemoryFlashStore) Put(_ context.Context, msg Message) (string, error) {
	key := uuid.NewString()
	s.cache.Set(key, msg, s.ttl)
	return key, nil
}

// Take implements FlashStore.
func (s *MemoryFlashStore) Take(_ context.Context, key string) (Message, bool) {
	if key == "" {
		return Message{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	value, found := s.cache.Get(key)
	if !found {
		return Message{}, false
	}
	s.cache.Delete(key)
	msg, ok := value.(Message)
	return msg, ok
}
