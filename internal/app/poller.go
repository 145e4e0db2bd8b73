package app

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/krispamB/marquillapp/internal/api"
	"github.com/krispamB/marquillapp/internal/state"
)

const defaultRefreshInterval = 30 * time.Second

// postFetcher is the slice of api.Service the refresher uses.
type postFetcher interface {
	FetchPosts(ctx context.Context, query api.PostQuery) ([]api.Post, error)
	FetchPostMetrics(ctx context.Context, accountID string) (api.PostMetrics, error)
}

// Refresher keeps the store in sync with the backend for the selected
// account. The UI can change the account or force an immediate refresh; both
// wake the loop without waiting for the next tick.
type Refresher struct {
	store    *state.Store
	client   postFetcher
	interval time.Duration
	now      func() time.Time

	mu        sync.Mutex
	accountID string

	kick chan struct{}
}

// NewRefresher builds a refresher for the given account.
func NewRefresher(store *state.Store, client postFetcher, accountID string, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	return &Refresher{
		store:     store,
		client:    client,
		interval:  interval,
		now:       time.Now,
		accountID: accountID,
		kick:      make(chan struct{}, 1),
	}
}

// Start launches the background loop. It returns immediately and stops when
// the context is cancelled.
func (r *Refresher) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			r.Refresh(ctx)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			case <-r.kick:
			}
		}
	}()
}

// SetAccount switches the refreshed account and wakes the loop.
func (r *Refresher) SetAccount(accountID string) {
	r.mu.Lock()
	changed := r.accountID != accountID
	r.accountID = accountID
	r.mu.Unlock()
	if changed {
		r.Kick()
	}
}

// AccountID returns the currently refreshed account.
func (r *Refresher) AccountID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.accountID
}

// Kick requests an immediate refresh without blocking.
func (r *Refresher) Kick() {
	select {
	case r.kick <- struct{}{}:
	default:
	}
}

// Refresh runs one fetch cycle: this month's posts plus account metrics.
// Without an account there is nothing to fetch and the store is left alone.
func (r *Refresher) Refresh(ctx context.Context) {
	accountID := r.AccountID()
	if accountID == "" {
		return
	}
	month := r.now().Format("2006-01")

	posts, err := r.client.FetchPosts(ctx, api.PostQuery{AccountID: accountID, Month: month})
	if err != nil {
		r.store.Update(accountID, nil, nil, err)
		log.Printf("posts refresh failed: %v", err)
		return
	}
	metrics, err := r.client.FetchPostMetrics(ctx, accountID)
	if err != nil {
		r.store.Update(accountID, nil, nil, err)
		log.Printf("metrics refresh failed: %v", err)
		return
	}
	r.store.Update(accountID, posts, &metrics, nil)
}
