package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/refracthq/refract/internal/config"
	"github.com/refracthq/refract/internal/db"
	"github.com/refracthq/refract/internal/logging"
	"github.com/refracthq/refract/internal/review"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "store_test.db")
	database, err := db.Open(&config.StorageConfig{DatabasePath: dbPath})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	s, err := NewStore(database, logging.NewNoopLogger())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	return s
}

func testThread() *review.ReviewThread {
	return &review.ReviewThread{
		Location: review.FileRange{
			Path: "internal/app/server.go",
			Side: review.SideHead,
			Range: review.Range{
				Start: review.Position{Line: 10, Column: 1},
				End:   review.Position{Line: 12, Column: 1},
			},
		},
		Comments: []review.ReviewComment{
			{Author: "alice", Body: "this needs a nil check", Severity: review.SeverityWarning},
		},
	}
}

func TestStore_SessionRoundTrip(t *testing.T) {
	s := newTestStore(t)

	session, err := s.CreateSession("local-git", "remote-42", "")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if session.ID == "" {
		t.Fatal("session ID is empty")
	}

	loaded, err := s.GetSession(session.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if loaded.PluginID != "local-git" {
		t.Errorf("plugin ID = %q, want local-git", loaded.PluginID)
	}
	if loaded.RemoteID != "remote-42" {
		t.Errorf("remote ID = %q, want remote-42", loaded.RemoteID)
	}
	if !loaded.CreatedAt.Equal(session.CreatedAt) {
		t.Errorf("created at = %v, want %v", loaded.CreatedAt, session.CreatedAt)
	}

	_, err = s.GetSession("no-such-session")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetSession(missing) = %v, want ErrNotFound", err)
	}
}

func TestStore_CreateSessionValidation(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.CreateSession("", "", ""); err == nil {
		t.Fatal("expected error for empty plugin ID")
	}
}

func TestStore_ThreadRoundTrip(t *testing.T) {
	s := newTestStore(t)

	thread := testThread()
	if err := s.SaveThread(thread); err != nil {
		t.Fatalf("SaveThread failed: %v", err)
	}
	if thread.ID == "" {
		t.Fatal("thread ID was not assigned")
	}

	loaded, err := s.GetThread(thread.ID)
	if err != nil {
		t.Fatalf("GetThread failed: %v", err)
	}
	if loaded.Location.Path != thread.Location.Path {
		t.Errorf("path = %q, want %q", loaded.Location.Path, thread.Location.Path)
	}
	if loaded.Location.Side != review.SideHead {
		t.Errorf("side = %q, want head", loaded.Location.Side)
	}
	if loaded.Location.Range.Start.Line != 10 || loaded.Location.Range.End.Line != 12 {
		t.Errorf("range = %+v, want lines 10-12", loaded.Location.Range)
	}
	if loaded.Resolved {
		t.Error("new thread reported resolved")
	}
	if len(loaded.Comments) != 1 {
		t.Fatalf("expected 1 comment, got %d", len(loaded.Comments))
	}
	comment := loaded.Comments[0]
	if comment.Author != "alice" || comment.Body != "this needs a nil check" || comment.Severity != review.SeverityWarning {
		t.Errorf("comment = %+v", comment)
	}

	// Saving again with a changed location updates in place.
	loaded.Location.Range.End.Line = 15
	if err := s.SaveThread(loaded); err != nil {
		t.Fatalf("SaveThread update failed: %v", err)
	}
	updated, err := s.GetThread(thread.ID)
	if err != nil {
		t.Fatalf("GetThread failed: %v", err)
	}
	if updated.Location.Range.End.Line != 15 {
		t.Errorf("updated end line = %d, want 15", updated.Location.Range.End.Line)
	}
	if len(updated.Comments) != 1 {
		t.Errorf("update duplicated comments: %d", len(updated.Comments))
	}
}

func TestStore_ListThreadsByPath(t *testing.T) {
	s := newTestStore(t)

	first := testThread()
	if err := s.SaveThread(first); err != nil {
		t.Fatalf("SaveThread failed: %v", err)
	}

	second := testThread()
	second.Location.Path = "cmd/refract/main.go"
	if err := s.SaveThread(second); err != nil {
		t.Fatalf("SaveThread failed: %v", err)
	}

	all, err := s.ListThreads("")
	if err != nil {
		t.Fatalf("ListThreads failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 threads, got %d", len(all))
	}

	filtered, err := s.ListThreads("cmd/refract/main.go")
	if err != nil {
		t.Fatalf("ListThreads(path) failed: %v", err)
	}
	if len(filtered) != 1 {
		t.Fatalf("expected 1 filtered thread, got %d", len(filtered))
	}
	if filtered[0].ID != second.ID {
		t.Errorf("filtered thread = %s, want %s", filtered[0].ID, second.ID)
	}
}

func TestStore_ResolveThread(t *testing.T) {
	s := newTestStore(t)

	thread := testThread()
	if err := s.SaveThread(thread); err != nil {
		t.Fatalf("SaveThread failed: %v", err)
	}

	if err := s.ResolveThread(thread.ID); err != nil {
		t.Fatalf("ResolveThread failed: %v", err)
	}

	loaded, err := s.GetThread(thread.ID)
	if err != nil {
		t.Fatalf("GetThread failed: %v", err)
	}
	if !loaded.Resolved {
		t.Error("thread not marked resolved")
	}

	err = s.ResolveThread("no-such-thread")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("ResolveThread(missing) = %v, want ErrNotFound", err)
	}
}

func TestStore_AddComment(t *testing.T) {
	s := newTestStore(t)

	thread := testThread()
	if err := s.SaveThread(thread); err != nil {
		t.Fatalf("SaveThread failed: %v", err)
	}

	comment, err := s.AddComment(thread.ID, review.CommentDraft{Body: "agreed, fixing"})
	if err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}
	if comment.ID == "" {
		t.Fatal("comment ID is empty")
	}
	if comment.Severity != review.SeverityInfo {
		t.Errorf("default severity = %q, want info", comment.Severity)
	}

	loaded, err := s.GetThread(thread.ID)
	if err != nil {
		t.Fatalf("GetThread failed: %v", err)
	}
	if len(loaded.Comments) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(loaded.Comments))
	}

	// Missing thread and empty body are rejected.
	if _, err := s.AddComment("no-such-thread", review.CommentDraft{Body: "x"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("AddComment(missing thread) = %v, want ErrNotFound", err)
	}
	if _, err := s.AddComment(thread.ID, review.CommentDraft{}); err == nil {
		t.Fatal("expected error for empty body")
	}
}
