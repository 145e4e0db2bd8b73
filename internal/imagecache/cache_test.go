package imagecache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/krispamB/marquillapp/internal/api"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStoreAt(t.TempDir())
	if err != nil {
		t.Fatalf("NewStoreAt: %v", err)
	}
	return store
}

func TestStore_RoundTripAndExpiry(t *testing.T) {
	store := newTestStore(t)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	urn := "urn:li:image:C4D03AQE"

	if _, ok := store.Get(urn, now); ok {
		t.Fatalf("Get on empty store = hit")
	}

	store.Put(urn, Entry{DownloadURL: "https://cdn/one.jpg", ExpiresAt: now.Add(time.Hour).UnixMilli()})
	entry, ok := store.Get(urn, now)
	if !ok || entry.DownloadURL != "https://cdn/one.jpg" {
		t.Fatalf("Get = %+v, %v", entry, ok)
	}

	// At and past the expiry instant the entry is a miss.
	if _, ok := store.Get(urn, now.Add(time.Hour)); ok {
		t.Fatalf("Get at expiry instant = hit")
	}
	if _, ok := store.Get(urn, now.Add(2*time.Hour)); ok {
		t.Fatalf("Get past expiry = hit")
	}
}

func TestStore_CorruptEntryIsMissAndRemoved(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStoreAt(dir)
	if err != nil {
		t.Fatalf("NewStoreAt: %v", err)
	}
	urn := "urn:li:image:bad"
	path := store.pathFor(urn)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed corrupt entry: %v", err)
	}

	if _, ok := store.Get(urn, time.Now()); ok {
		t.Fatalf("corrupt entry reported as hit")
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("corrupt entry not removed: %v", err)
	}
}

func TestStore_EntriesMissingFieldsAreMisses(t *testing.T) {
	store := newTestStore(t)
	now := time.Now()

	store.Put("urn:li:image:nourl", Entry{ExpiresAt: now.Add(time.Hour).UnixMilli()})
	if _, ok := store.Get("urn:li:image:nourl", now); ok {
		t.Fatalf("entry without URL = hit")
	}
	store.Put("urn:li:image:noexpiry", Entry{DownloadURL: "https://cdn/x.jpg"})
	if _, ok := store.Get("urn:li:image:noexpiry", now); ok {
		t.Fatalf("entry without expiry = hit")
	}
}

func TestCacheKey_Sanitization(t *testing.T) {
	key := cacheKey("urn:li:image:../../etc/passwd")
	if filepath.Base(key) != key {
		t.Fatalf("cacheKey produced a path, not a name: %q", key)
	}
	for _, r := range key {
		if r == ':' || r == '/' {
			t.Fatalf("cacheKey kept unsafe rune in %q", key)
		}
	}
	if cacheKey("urn:li:image:1") == cacheKey("urn:li:image:2") {
		t.Fatalf("distinct URNs collided")
	}
}

type fakeResolverAPI struct {
	responses map[string]api.LinkedinImage
	errs      map[string]error
	calls     []string
}

func (f *fakeResolverAPI) ResolveLinkedinImage(_ context.Context, urn string) (api.LinkedinImage, error) {
	f.calls = append(f.calls, urn)
	if err, ok := f.errs[urn]; ok {
		return api.LinkedinImage{}, err
	}
	return f.responses[urn], nil
}

func TestResolver_CacheFirstThenNetwork(t *testing.T) {
	store := newTestStore(t)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc := &fakeResolverAPI{responses: map[string]api.LinkedinImage{
		"urn:li:image:1": {DownloadURL: "https://cdn/fresh.jpg", DownloadURLExpiresAt: now.Add(time.Hour).UnixMilli()},
	}}
	r := NewResolver(store, svc)
	r.now = func() time.Time { return now }

	url, err := r.Resolve(context.Background(), []string{"urn:li:image:1"})
	if err != nil || url != "https://cdn/fresh.jpg" {
		t.Fatalf("Resolve = %q, %v", url, err)
	}
	if len(svc.calls) != 1 {
		t.Fatalf("network calls = %d, want 1", len(svc.calls))
	}

	// Second resolve within the expiry window is served from the store.
	url, err = r.Resolve(context.Background(), []string{"urn:li:image:1"})
	if err != nil || url != "https://cdn/fresh.jpg" {
		t.Fatalf("cached Resolve = %q, %v", url, err)
	}
	if len(svc.calls) != 1 {
		t.Fatalf("cached resolve hit the network: %d calls", len(svc.calls))
	}

	// Past the expiry the store entry is dead and the network is asked again.
	r.now = func() time.Time { return now.Add(2 * time.Hour) }
	svc.responses["urn:li:image:1"] = api.LinkedinImage{
		DownloadURL:          "https://cdn/renewed.jpg",
		DownloadURLExpiresAt: now.Add(3 * time.Hour).UnixMilli(),
	}
	url, err = r.Resolve(context.Background(), []string{"urn:li:image:1"})
	if err != nil || url != "https://cdn/renewed.jpg" {
		t.Fatalf("post-expiry Resolve = %q, %v", url, err)
	}
	if len(svc.calls) != 2 {
		t.Fatalf("network calls = %d, want 2", len(svc.calls))
	}
}

func TestResolver_TriesURNsInOrder(t *testing.T) {
	store := newTestStore(t)
	now := time.Now()
	svc := &fakeResolverAPI{
		errs: map[string]error{"urn:li:image:dead": errors.New("410 gone")},
		responses: map[string]api.LinkedinImage{
			"urn:li:image:ok": {DownloadURL: "https://cdn/ok.jpg", DownloadURLExpiresAt: now.Add(time.Hour).UnixMilli()},
		},
	}
	r := NewResolver(store, svc)

	url, err := r.Resolve(context.Background(), []string{"urn:li:image:dead", "", "urn:li:image:ok"})
	if err != nil || url != "https://cdn/ok.jpg" {
		t.Fatalf("Resolve = %q, %v", url, err)
	}
	if len(svc.calls) != 2 {
		t.Fatalf("calls = %v, want dead then ok", svc.calls)
	}
}

func TestResolver_AllFail(t *testing.T) {
	store := newTestStore(t)
	wantErr := errors.New("backend down")
	svc := &fakeResolverAPI{errs: map[string]error{"urn:li:image:1": wantErr}}
	r := NewResolver(store, svc)

	if _, err := r.Resolve(context.Background(), []string{"urn:li:image:1"}); !errors.Is(err, wantErr) {
		t.Fatalf("Resolve error = %v, want %v", err, wantErr)
	}
	if _, err := r.Resolve(context.Background(), nil); !errors.Is(err, ErrNoPreview) {
		t.Fatalf("Resolve(nil) error = %v, want ErrNoPreview", err)
	}
}
