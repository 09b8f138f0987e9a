package registry

import (
	"sync"

	"github.com/bsteffaniak/chadreview-relay/internal/domain/model"
)

// SubscriptionSet is the per-connection Subscription Index from spec.md
// §4.C: a set of PR keys guarded by a lock fine enough that ingress
// lookups (Contains) do not contend with the session's own mutations
// (Add/Remove). Read-mostly, hence RWMutex — the same tradeoff the teacher
// makes for its session map in registry.Cell.
//
// Deliberately NOT a global reverse index: webhook URLs are already
// instance-addressed, so the relay never broadcasts one delivery to
// multiple connections (spec.md §4.C).
type SubscriptionSet struct {
	mu   sync.RWMutex
	keys map[model.PRKey]struct{}
}

func NewSubscriptionSet() *SubscriptionSet {
	return &SubscriptionSet{keys: make(map[model.PRKey]struct{})}
}

// Add is idempotent.
func (s *SubscriptionSet) Add(key model.PRKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[key] = struct{}{}
}

// Remove of an unknown key is a silent no-op.
func (s *SubscriptionSet) Remove(key model.PRKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, key)
}

// Contains answers "is PR key subscribed?" for the ingress filter step
// (spec.md §4.D step 5).
func (s *SubscriptionSet) Contains(key model.PRKey) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.keys[key]
	return ok
}

// Len reports the number of subscribed keys (used by tests and stats).
func (s *SubscriptionSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.keys)
}
