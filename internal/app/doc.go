// Package app provides the orchestration layer for marquill.
//
// # Overview
//
// This package wires together configuration, the auth session, the backend
// refresher, state management, and the UI to create the complete marquill
// TUI experience. It serves as the composition root where all dependencies
// are initialized and connected.
//
// # Architecture
//
// The app package follows a simple initialization pattern:
//
//  1. Load configuration from ~/.config/marquill/config.toml
//  2. Load the auth session from ~/.config/marquill/session.toml (fatal when absent)
//  3. Initialize the backend API client with the session token
//  4. Open the image URN cache and create shared state.Store
//  5. Launch the background refresher for posts and metrics
//  6. Start the TUI and block until user exits or context cancels
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()        Read marquill config
//	       ├─────> session.Load()       Require a signed-in session
//	       ├─────> api.NewClient()      Create backend HTTP client
//	       ├─────> imagecache.NewStore() Open URN resolution cache
//	       ├─────> state.Store{}        Shared state container
//	       ├─────> Refresher.Start()    Launch background updates
//	       └─────> ui.Run()             Start TUI (blocks)
//
//	Background Refresher Loop:
//	┌─────────────────────────────────────────┐
//	│ Refresher.Start() goroutine             │
//	│  ├─> FetchPosts()                       │
//	│  ├─> FetchPostMetrics()                 │
//	│  └─> store.Update()  (atomic)           │
//	│      └─> UI reads store.Snapshot()      │
//	└─────────────────────────────────────────┘
//
// # Refresh Behavior
//
// The refresher runs continuously in the background at a configurable
// interval (default: 30 seconds). On each cycle it fetches this month's
// posts and the account metrics for the selected account, then updates the
// shared state.Store atomically. Errors are logged and recorded in the
// snapshot; the loop keeps going. Account switches and explicit Kick calls
// wake the loop without waiting for the next tick.
//
// Note that the composer's draft generation polling is separate: its 3
// second cadence and wall-clock budget live in the composer session and are
// driven by the UI event loop, not by this refresher.
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Configuration file invalid
//   - No auth session (session.ErrNotAuthenticated)
//   - API client or image cache initialization failure
//
// Recoverable errors (logged, refreshing continues):
//   - Periodic post or metrics fetch failures
//   - Network timeouts during refresh
//
// # Usage Example
//
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//
//	if err := app.Run(ctx, app.Options{}); err != nil {
//		log.Fatalf("marquill failed: %v", err)
//	}
package app
