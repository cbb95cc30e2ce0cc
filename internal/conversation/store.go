package conversation

import (
	"sync"
	"time"

	"github.com/fernwell/ledgerchat/internal/model"
)

// PendingStore holds at most one pending operation per user and
// serializes message processing per user. It is in-process and
// non-durable; a multi-instance deployment needs it replaced with a
// shared keyed store.
type PendingStore struct {
	pending map[string]*model.PendingOperation
	locks   map[string]*sync.Mutex
	stopCh  chan struct{}
	ttl     time.Duration
	mu      sync.Mutex
}

// NewPendingStore creates a store. A zero ttl means pending operations
// never expire, matching the base behavior; a positive ttl starts a
// sweeper that abandons operations idle longer than ttl.
func NewPendingStore(ttl time.Duration) *PendingStore {
	s := &PendingStore{
		pending: make(map[string]*model.PendingOperation),
		locks:   make(map[string]*sync.Mutex),
		stopCh:  make(chan struct{}),
		ttl:     ttl,
	}
	if ttl > 0 {
		go s.sweep()
	}
	return s
}

// Acquire locks the per-user mutex, guaranteeing one in-flight message
// per user. The returned func releases it. Different users are fully
// independent.
func (s *PendingStore) Acquire(userID string) func() {
	s.mu.Lock()
	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// Get returns the user's pending operation, or nil.
func (s *PendingStore) Get(userID string) *model.PendingOperation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending[userID]
}

// Put stores the user's pending operation, replacing any existing one.
func (s *PendingStore) Put(p *model.PendingOperation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[p.UserID] = p
}

// Clear removes the user's pending operation in one step. It is the
// only way a pending operation ends: commit, abandonment, or reset all
// land here.
func (s *PendingStore) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, userID)
}

// Len reports how many users currently have a pending operation.
func (s *PendingStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// sweep abandons pending operations idle longer than the ttl.
func (s *PendingStore) sweep() {
	ticker := time.NewTicker(s.ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			for userID, p := range s.pending {
				if now.Sub(p.UpdatedAt) > s.ttl {
					delete(s.pending, userID)
				}
			}
			s.mu.Unlock()
		}
	}
}

// Close stops the sweeper if one is running.
func (s *PendingStore) Close() {
	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}
}
