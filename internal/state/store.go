package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/krispamB/marquillapp/internal/api"
)

// Snapshot represents the latest backend data available to the UI.
type Snapshot struct {
	Posts               []api.Post
	Metrics             api.PostMetrics
	HasMetrics          bool
	AccountID           string
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive refresh failures
}

// IsOffline returns true when the API has been unreachable for multiple
// refreshes.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored snapshot. When err is non-nil the previous data
// is kept but the error is recorded for visibility.
func (s *Store) Update(accountID string, posts []api.Post, metrics *api.PostMetrics, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.AccountID = accountID
	s.snapshot.Posts = clonePosts(posts)
	if metrics != nil {
		s.snapshot.Metrics = *metrics
		s.snapshot.HasMetrics = true
	} else {
		s.snapshot.HasMetrics = false
	}
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Posts = clonePosts(s.snapshot.Posts)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func clonePosts(posts []api.Post) []api.Post {
	if len(posts) == 0 {
		return nil
	}
	dup := make([]api.Post, len(posts))
	copy(dup, posts)
	return dup
}
