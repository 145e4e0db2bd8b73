// Package config handles loading and parsing the marquill configuration file.
//
// # Overview
//
// This package reads marquill's TOML configuration to discover the backend
// API endpoint, the Unsplash access key for the stock photo picker, and the
// background refresh cadence.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/marquill/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// The Unsplash access key additionally falls back to the
// MARQUILL_UNSPLASH_ACCESS_KEY environment variable so it can stay out of
// config files that live in dotfile repos.
//
// # Default Values
//
//   - Config file: ~/.config/marquill/config.toml
//   - API base: http://localhost:3500/api/v1
//   - Refresh interval: 30 seconds (clamped to a 5 second minimum)
//
// # TOML Format
//
// Example config.toml:
//
//	api_base = "https://backend.example.com/api/v1"
//	unsplash_access_key = "..."
//	refresh_seconds = 60
//
// All fields are optional. Tilde expansion is performed on the config path.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors
//
// Missing config files are NOT an error - defaults are used instead, so
// marquill works out-of-the-box against a locally running backend.
package config
