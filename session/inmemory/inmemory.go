package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/Mahesh1735/research-agent-core/models"
)

type entry struct {
	state     *models.ConversationState
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Store keeps conversation states in process memory. A zero TTL never expires.
type Store struct {
	sessions map[string]entry
	ttl      time.Duration
	mu       sync.RWMutex
	now      func() time.Time
}

func NewInMemorySessionStore(ttl time.Duration) *Store {
	return &Store{sessions: make(map[string]entry), ttl: ttl, now: time.Now}
}

func (store *Store) Load(_ context.Context, threadID string) (*models.ConversationState, error) {
	store.mu.RLock()
	e, ok := store.sessions[threadID]
	store.mu.RUnlock()
	if !ok {
		return nil, models.ErrThreadNotFound
	}
	if e.expired(store.now()) {
		store.dropIfExpired(threadID)
		return nil, models.ErrThreadNotFound
	}
	return e.state.Clone(), nil
}

// dropIfExpired re-checks under the write lock so a Checkpoint that landed
// after the read is kept.
func (store *Store) dropIfExpired(threadID string) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if cur, ok := store.sessions[threadID]; ok && cur.expired(store.now()) {
		delete(store.sessions, threadID)
	}
}

func (store *Store) Checkpoint(_ context.Context, state *models.ConversationState) error {
	e := entry{state: state.Clone()}
	if store.ttl > 0 {
		e.expiresAt = store.now().Add(store.ttl)
	}
	store.mu.Lock()
	defer store.mu.Unlock()
	store.sessions[state.ThreadID] = e
	return nil
}

func (store *Store) Close() error { return nil }

// PruneExpired drops every entry whose TTL has passed.
func (store *Store) PruneExpired(_ context.Context) (int64, error) {
	now := store.now()
	store.mu.Lock()
	defer store.mu.Unlock()
	var n int64
	for id, e := range store.sessions {
		if e.expired(now) {
			delete(store.sessions, id)
			n++
		}
	}
	return n, nil
}
