package domain

import (
	"testing"
	"time"
)

func TestViewerSession_SnapshotIsolation(t *testing.T) {
	sess := NewViewerSession("sess-1", "go/basics.md", 1, []*Bookmark{
		{ID: "bm-1", Title: "first"},
	})

	snapshot := sess.Bookmarks()
	sess.Add(&Bookmark{ID: "bm-2", Title: "second"})

	if len(snapshot) != 1 {
		t.Fatalf("expected the earlier snapshot to stay at 1 bookmark, got %d", len(snapshot))
	}
	if len(sess.Bookmarks()) != 2 {
		t.Fatalf("expected the session to hold 2 bookmarks, got %d", len(sess.Bookmarks()))
	}
}

func TestViewerSession_Remove(t *testing.T) {
	sess := NewViewerSession("sess-1", "go/basics.md", 1, []*Bookmark{
		{ID: "bm-1"},
		{ID: "bm-2"},
	})

	if !sess.Remove("bm-1") {
		t.Fatalf("expected removal of a present bookmark to report true")
	}
	if sess.Remove("bm-1") {
		t.Fatalf("expected removal of an absent bookmark to report false")
	}
	if len(sess.Bookmarks()) != 1 {
		t.Fatalf("expected 1 bookmark left, got %d", len(sess.Bookmarks()))
	}
}

func TestViewerSession_OwnsItsBookmarks(t *testing.T) {
	seed := &Bookmark{ID: "bm-1", Title: "first"}
	sess := NewViewerSession("sess-1", "go/basics.md", 1, []*Bookmark{seed})

	// Mutating the caller's struct after construction must not leak in.
	seed.Title = "changed"
	if b := sess.Find("bm-1"); b.Title != "first" {
		t.Fatalf("expected the session to own its copy, got title %q", b.Title)
	}

	// Mutating a handed-out snapshot must not leak back.
	snapshot := sess.Bookmarks()
	snapshot[0].Title = "scribbled"
	if b := sess.Find("bm-1"); b.Title != "first" {
		t.Fatalf("expected snapshot writes to stay in the snapshot, got title %q", b.Title)
	}

	added := &Bookmark{ID: "bm-2", Title: "second"}
	sess.Add(added)
	added.Title = "changed"
	if b := sess.Find("bm-2"); b.Title != "second" {
		t.Fatalf("expected Add to copy the bookmark, got title %q", b.Title)
	}
}

func TestViewerSession_SetLastAccessed(t *testing.T) {
	sess := NewViewerSession("sess-1", "go/basics.md", 1, []*Bookmark{
		{ID: "bm-1", Title: "first"},
	})

	before := sess.Bookmarks()
	at := time.Date(2026, time.August, 30, 10, 0, 0, 0, time.UTC)

	if !sess.SetLastAccessed("bm-1", at) {
		t.Fatalf("expected the update of a present bookmark to report true")
	}
	if sess.SetLastAccessed("bm-9", at) {
		t.Fatalf("expected the update of an absent bookmark to report false")
	}

	if b := sess.Find("bm-1"); !b.LastAccessedAt.Equal(at) {
		t.Fatalf("expected the stored timestamp to change, got %v", b.LastAccessedAt)
	}
	if !before[0].LastAccessedAt.IsZero() {
		t.Fatalf("expected the earlier snapshot to keep its timestamp, got %v", before[0].LastAccessedAt)
	}
}

func TestViewerSession_Find(t *testing.T) {
	sess := NewViewerSession("sess-1", "go/basics.md", 1, []*Bookmark{
		{ID: "bm-1", Title: "first"},
	})

	if b := sess.Find("bm-1"); b == nil || b.Title != "first" {
		t.Fatalf("expected to find bm-1, got %+v", b)
	}
	if b := sess.Find("bm-9"); b != nil {
		t.Fatalf("expected nil for an unknown id, got %+v", b)
	}
}
