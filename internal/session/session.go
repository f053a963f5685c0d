package session

import (
	"context"
	"sync"
	"time"

	"restoivr/internal/entities"
)

// CallSession is the dialogue state of one phone call.
type CallSession struct {
	CallID       string         `json:"call_id"`
	CallerNumber string         `json:"caller_number"`
	Mode         entities.Mode  `json:"mode"`
	Draft        entities.Draft `json:"draft"`
	// Awaiting is the step whose question was asked last, StepNone if none.
	Awaiting entities.Step `json:"awaiting"`
	// Retries counts consecutive unparseable answers to Awaiting.
	Retries      int       `json:"retries"`
	NoInput      int       `json:"no_input"`
	MenuRepeats  int       `json:"menu_repeats"`
	Greeted      bool      `json:"greeted"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
}

func newCallSession(callID string, now time.Time) *CallSession {
	return &CallSession{
		CallID:       callID,
		Mode:         entities.ModeMenu,
		CreatedAt:    now,
		LastActivity: now,
	}
}

// Clone returns a deep copy.
func (s *CallSession) Clone() *CallSession {
	c := *s
	c.Draft = s.Draft.Clone()
	return &c
}

// Store keeps call sessions between webhook requests.
type Store interface {
	// Update runs fn on the session of callID, creating it when absent.
	// Updates of the same call are serialized. When fn fails nothing is saved.
	Update(ctx context.Context, callID string, fn func(*CallSession) error) error
	Get(ctx context.Context, callID string) (*CallSession, bool, error)
	Delete(ctx context.Context, callID string) error
	// Evict drops idle sessions and returns how many went away.
	Evict(ctx context.Context) (int, error)
	Count(ctx context.Context) (int, error)
	Close() error
}

// keyedMutex hands out one mutex per key and forgets it once unused.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func (k *keyedMutex) Lock(key string) (unlock func()) {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*refMutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
