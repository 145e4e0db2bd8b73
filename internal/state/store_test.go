package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/krispamB/marquillapp/internal/api"
)

func TestStore_UpdateAndSnapshotClone(t *testing.T) {
	var s Store

	metrics := &api.PostMetrics{Total: 7}
	posts := []api.Post{{ID: "p1"}, {ID: "p2"}}

	before := time.Now()
	s.Update("acct-1", posts, metrics, nil)

	snap := s.Snapshot()
	if !snap.HasMetrics || snap.Metrics.Total != 7 {
		t.Fatalf("snapshot metrics = %#v, want Total=7 HasMetrics=true", snap.Metrics)
	}
	if snap.AccountID != "acct-1" {
		t.Fatalf("AccountID = %q, want acct-1", snap.AccountID)
	}
	if len(snap.Posts) != 2 || snap.Posts[0].ID != "p1" {
		t.Fatalf("snapshot posts = %#v, want 2 items", snap.Posts)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}

	// Returned snapshot should be independent of the stored one.
	snap.Posts[0].ID = "mutated"
	snap2 := s.Snapshot()
	if snap2.Posts[0].ID != "p1" {
		t.Fatalf("Snapshot should clone posts; got id %q want p1", snap2.Posts[0].ID)
	}
}

func TestStore_UpdateErrorKeepsPreviousData(t *testing.T) {
	var s Store

	s.Update("acct-1", []api.Post{{ID: "p1"}}, &api.PostMetrics{Total: 1}, nil)
	prev := s.Snapshot()

	before := time.Now()
	origErr := errors.New("boom")
	s.Update("acct-1", nil, nil, origErr)

	snap := s.Snapshot()
	if snap.HasMetrics != prev.HasMetrics || snap.Metrics.Total != prev.Metrics.Total {
		t.Fatalf("metrics changed on error: got %#v want %#v", snap.Metrics, prev.Metrics)
	}
	if len(snap.Posts) != 1 || snap.Posts[0].ID != "p1" {
		t.Fatalf("posts changed on error: got %#v want %#v", snap.Posts, prev.Posts)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	// Initially zero failures
	snap := s.Snapshot()
	if snap.ConsecutiveFailures != 0 {
		t.Fatalf("ConsecutiveFailures = %d, want 0", snap.ConsecutiveFailures)
	}
	if snap.IsOffline() {
		t.Fatal("IsOffline() = true, want false with 0 failures")
	}

	// First failure
	s.Update("", nil, nil, errors.New("fail 1"))
	snap = s.Snapshot()
	if snap.ConsecutiveFailures != 1 {
		t.Fatalf("ConsecutiveFailures = %d, want 1", snap.ConsecutiveFailures)
	}
	if snap.IsOffline() {
		t.Fatal("IsOffline() = true, want false with 1 failure")
	}

	// Second failure - now offline
	s.Update("", nil, nil, errors.New("fail 2"))
	snap = s.Snapshot()
	if snap.ConsecutiveFailures != 2 {
		t.Fatalf("ConsecutiveFailures = %d, want 2", snap.ConsecutiveFailures)
	}
	if !snap.IsOffline() {
		t.Fatal("IsOffline() = false, want true with 2 failures")
	}

	// Third failure - still offline
	s.Update("", nil, nil, errors.New("fail 3"))
	snap = s.Snapshot()
	if snap.ConsecutiveFailures != 3 {
		t.Fatalf("ConsecutiveFailures = %d, want 3", snap.ConsecutiveFailures)
	}
	if !snap.IsOffline() {
		t.Fatal("IsOffline() = false, want true with 3 failures")
	}

	// Success resets counter
	s.Update("acct-1", nil, &api.PostMetrics{}, nil)
	snap = s.Snapshot()
	if snap.ConsecutiveFailures != 0 {
		t.Fatalf("ConsecutiveFailures = %d, want 0 after success", snap.ConsecutiveFailures)
	}
	if snap.IsOffline() {
		t.Fatal("IsOffline() = true, want false after success")
	}
}
