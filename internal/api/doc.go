// Package api provides an HTTP client for the Marquill backend.
//
// # Overview
//
// This package defines the API client the TUI uses for everything the product
// does remotely: listing posts, reading metrics, starting AI draft generation
// jobs, polling their progress, updating and publishing posts, uploading
// images, resolving LinkedIn media URNs, and requesting OAuth authorization
// URLs for account connection. No business logic lives client-side; this is a
// typed transport layer.
//
// # Architecture
//
// The package is split into two files:
//
//   - client.go: HTTP client implementation and request/response handling
//   - types.go: Data structures mirroring the Marquill API schema
//
// The Service interface covers the full endpoint surface and is implemented
// by *Client. The composer and UI depend on Service so tests can substitute
// in-memory fakes.
//
// # Client Usage
//
// Create a client using the API base URL from configuration and the session
// access token:
//
//	client, err := api.NewClient("http://localhost:3500/api/v1", token)
//	if err != nil {
//		log.Fatalf("failed to create client: %v", err)
//	}
//
//	created, err := client.CreateDraft(ctx, accountID, api.CreateDraftRequest{
//		Input:       "Write about remote work",
//		ContentType: "quickPostLinkedin",
//	})
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation and timeout control
//   - Set Accept: application/json and User-Agent headers
//   - Attach the session's access_token cookie (the same identity the web
//     dashboard sends)
//   - Have a 15-second timeout (configurable via http.Client)
//
// # Error Handling
//
// Failed requests (HTTP >= 400) attempt to decode a JSON {message} body and
// fall back to an endpoint-specific default message; the result is an
// *APIError whose Message is safe to show directly in the UI feedback
// banner. Transport failures and decode failures are wrapped with context
// about what failed. Context cancellation surfaces as the usual wrapped
// context error so callers can suppress it.
package api
