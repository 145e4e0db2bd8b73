package imagecache

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/krispamB/marquillapp/internal/api"
)

// ErrNoPreview means none of the post's media references resolved to a
// usable download URL.
var ErrNoPreview = errors.New("no media reference resolved to a download url")

// imageResolver is the one api.Service method the resolver needs.
type imageResolver interface {
	ResolveLinkedinImage(ctx context.Context, urn string) (api.LinkedinImage, error)
}

// Resolver turns post media URNs into previewable download URLs, consulting
// the store before the network. Download URLs are time limited, so every hit
// is checked against its expiry and stale entries trigger a fresh resolution.
type Resolver struct {
	store *Store
	api   imageResolver
	now   func() time.Time
}

// NewResolver builds a resolver over the given cache and API client.
func NewResolver(store *Store, svc imageResolver) *Resolver {
	return &Resolver{store: store, api: svc, now: time.Now}
}

// Resolve returns the first usable download URL among urns, trying them in
// order. Individual failures move on to the next URN; ErrNoPreview is
// returned only when every reference fails.
func (r *Resolver) Resolve(ctx context.Context, urns []string) (string, error) {
	var lastErr error
	for _, urn := range urns {
		urn = strings.TrimSpace(urn)
		if urn == "" {
			continue
		}
		if entry, ok := r.store.Get(urn, r.now()); ok {
			return entry.DownloadURL, nil
		}
		img, err := r.api.ResolveLinkedinImage(ctx, urn)
		if err != nil {
			lastErr = err
			continue
		}
		if img.DownloadURL == "" {
			continue
		}
		r.store.Put(urn, Entry{DownloadURL: img.DownloadURL, ExpiresAt: img.DownloadURLExpiresAt})
		return img.DownloadURL, nil
	}
	if lastErr != nil {
		return "", lastErr
	}
	return "", ErrNoPreview
}
