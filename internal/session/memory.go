package session

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps sessions in process memory. Entries expire after the
// idle timeout and are removed by Evict.
type MemoryStore struct {
	items *cache.Cache
	locks keyedMutex
	now   func() time.Time
}

func NewMemoryStore(idle time.Duration) *MemoryStore {
	return &MemoryStore{
		items: cache.New(idle, 0),
		now:   time.Now,
	}
}

func (s *MemoryStore) Update(ctx context.Context, callID string, fn func(*CallSession) error) error {
	unlock := s.locks.Lock(callID)
	defer unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	var current *CallSession
	if v, ok := s.items.Get(callID); ok {
		current = v.(*CallSession).Clone()
	} else {
		current = newCallSession(callID, s.now())
	}

	if err := fn(current); err != nil {
		return err
	}
	current.LastActivity = s.now()
	s.items.Set(callID, current, cache.DefaultExpiration)
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, callID string) (*CallSession, bool, error) {
	v, ok := s.items.Get(callID)
	if !ok {
		return nil, false, nil
	}
	return v.(*CallSession).Clone(), true, nil
}

func (s *MemoryStore) Delete(ctx context.Context, callID string) error {
	s.items.Delete(callID)
	return nil
}

func (s *MemoryStore) Evict(ctx context.Context) (int, error) {
	before := s.items.ItemCount()
	s.items.DeleteExpired()
	evicted := before - s.items.ItemCount()
	if evicted < 0 {
		evicted = 0
	}
	return evicted, nil
}

func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	return len(s.items.Items()), nil
}

func (s *MemoryStore) Close() error {
	s.items.Flush()
	return nil
}
