// Package state provides thread-safe state management for marquill.
//
// # Overview
//
// This package implements a simple but thread-safe store for sharing posts
// and account metrics between the background refresher and the UI. It acts
// as the coordination point where backend refreshes meet UI rendering.
//
// # Architecture
//
// The package follows a producer-consumer pattern:
//
//	Producer (Refresher):          Consumer (UI):
//	┌────────────────┐            ┌────────────────┐
//	│ FetchPosts()   │            │                │
//	│ FetchMetrics() │            │                │
//	│      ↓         │            │                │
//	│ store.Update() │───────────→│ store.Snapshot()│
//	│      ↓         │  (mutex)   │      ↓         │
//	│  repeat...     │            │  render UI     │
//	└────────────────┘            └────────────────┘
//
// The Store mediates between these two independent goroutines, ensuring:
//   - Atomic updates (no partial/torn reads)
//   - No data races (mutex-protected access)
//   - Immutable snapshots (defensive copying)
//
// # Update Semantics
//
// The Update method has special error handling behavior:
//
//	// Success case: Replace entire snapshot
//	store.Update(accountID, posts, metrics, nil)
//	→ snapshot.Posts = posts
//	→ snapshot.Metrics = metrics
//	→ snapshot.LastError = nil
//	→ snapshot.LastUpdated = now
//
//	// Error case: Keep old data, record error
//	store.Update(accountID, nil, nil, err)
//	→ snapshot.Posts = <unchanged>
//	→ snapshot.Metrics = <unchanged>
//	→ snapshot.LastError = err
//	→ snapshot.LastUpdated = now
//
// This ensures the UI always has the most recent successful data to display,
// while also being informed of refresh failures. Two or more consecutive
// failures flip the snapshot's IsOffline signal so the header can show an
// offline badge instead of flashing errors on a single blip.
//
// # Defensive Copying
//
// Both Update and Snapshot perform copies to prevent shared state:
//
//   - Post slices are cloned (not just slice header)
//   - Error values are copied (not shared pointers)
//   - Metrics struct is copied by value
//
// # Usage Example
//
//	// Refresher goroutine:
//	store := &state.Store{}
//	for {
//		posts, err1 := client.FetchPosts(ctx, query)
//		metrics, err2 := client.FetchPostMetrics(ctx, accountID)
//		err := errors.Join(err1, err2)
//		store.Update(accountID, posts, metrics, err)
//		time.Sleep(interval)
//	}
//
//	// UI goroutine:
//	ticker := time.NewTicker(time.Second)
//	for range ticker.C {
//		snap := store.Snapshot()
//		renderUI(snap)
//	}
//
// # Testing Considerations
//
// The Store is safe to construct with zero value:
//
//	store := &state.Store{}  // Ready to use immediately
//
// Snapshot() returns a zero Snapshot if never updated, and updates are
// atomic and immediately visible.
package state
