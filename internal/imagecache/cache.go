// Package imagecache caches LinkedIn media URN resolutions on disk so post
// previews do not re-resolve the same time-limited download URLs on every
// render.
package imagecache

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	cacheEnvVar = "MARQUILL_CACHE_DIR"
	cacheSubdir = "marquill/images"
	entrySuffix = ".json"
)

// Entry is one cached URN resolution. ExpiresAt is Unix milliseconds, as
// reported by the backend alongside the download URL.
type Entry struct {
	DownloadURL string `json:"downloadUrl"`
	ExpiresAt   int64  `json:"downloadUrlExpiresAt"`
}

// Expired reports whether the cached URL is no longer usable at now. Entries
// without a URL or without an expiry are unusable.
func (e Entry) Expired(now time.Time) bool {
	if e.DownloadURL == "" || e.ExpiresAt <= 0 {
		return true
	}
	return !now.Before(time.UnixMilli(e.ExpiresAt))
}

// Store persists URN resolutions as one JSON file per URN under the user
// cache directory. Every failure mode reads as a miss: a missing file, a
// corrupt file, and an unwritable directory all degrade to re-resolving
// over the network.
type Store struct {
	dir string
}

// NewStore opens the cache directory, honoring MARQUILL_CACHE_DIR for tests
// and falling back to a temp-dir location when no user cache dir exists.
func NewStore() (*Store, error) {
	dir := os.Getenv(cacheEnvVar)
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			base = filepath.Join(os.TempDir(), "marquill-cache")
		}
		dir = filepath.Join(base, cacheSubdir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

// NewStoreAt opens a cache rooted at an explicit directory.
func NewStoreAt(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

// Get returns the cached entry for urn if it exists, is well formed, and has
// not expired. Corrupt entries are removed so they never shadow a fresh
// resolution.
func (s *Store) Get(urn string, now time.Time) (Entry, bool) {
	path := s.pathFor(urn)
	data, err := os.ReadFile(path)
	if err != nil {
		return Entry{}, false
	}
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		os.Remove(path)
		return Entry{}, false
	}
	if entry.Expired(now) {
		return Entry{}, false
	}
	return entry, true
}

// Put stores a resolution for urn. Write failures are ignored; the cache is
// an optimization, not a source of truth.
func (s *Store) Put(urn string, entry Entry) {
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	_ = os.WriteFile(s.pathFor(urn), data, 0o644)
}

func (s *Store) pathFor(urn string) string {
	return filepath.Join(s.dir, cacheKey(urn)+entrySuffix)
}

// cacheKey turns a URN into a safe filename. URNs are colon-separated
// identifiers; anything that survives sanitization keeps a readable name,
// the rest hashes.
func cacheKey(urn string) string {
	key := strings.TrimSpace(urn)
	key = strings.ReplaceAll(key, ":", "-")
	key = strings.ReplaceAll(key, "/", "-")
	key = strings.ReplaceAll(key, "..", "-")
	if key == "" || len(key) > 200 {
		sum := sha1.Sum([]byte(urn))
		return hex.EncodeToString(sum[:])
	}
	return key
}
