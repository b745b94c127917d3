package bolt

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/internal/infrastructure/boltdb"
)

func newTestRepo(t *testing.T) *SessionRepository {
	t.Helper()
	store, err := boltdb.Open(filepath.Join(t.TempDir(), "sessions.db"), SessionBucket)
	if err != nil {
		t.Fatalf("open bolt: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewSessionRepository(store, time.Hour)
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	session := &domain.Session{ID: "s1", UserID: "u1"}
	if err := repo.Save(ctx, session); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if session.ExpiresAt.IsZero() {
		t.Fatal("Save should default ExpiresAt")
	}

	got, err := repo.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.UserID != "u1" {
		t.Fatalf("user id = %q", got.UserID)
	}

	if err := repo.Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.Get(ctx, "s1"); err != domain.ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestExpiredSessionsAreHiddenAndPurged(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return base }

	if err := repo.Save(ctx, &domain.Session{ID: "old", UserID: "u1", CreatedAt: base, ExpiresAt: base.Add(time.Minute)}); err != nil {
		t.Fatalf("Save old: %v", err)
	}
	if err := repo.Save(ctx, &domain.Session{ID: "new", UserID: "u1", CreatedAt: base, ExpiresAt: base.Add(time.Hour)}); err != nil {
		t.Fatalf("Save new: %v", err)
	}

	repo.now = func() time.Time { return base.Add(10 * time.Minute) }

	if _, err := repo.Get(ctx, "old"); err != domain.ErrSessionNotFound {
		t.Fatalf("expired session should be hidden, got %v", err)
	}

	removed, err := repo.PurgeExpired(ctx)
	if err != nil {
		t.Fatalf("PurgeExpired: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if size, _ := repo.store.Size(SessionBucket); size != 1 {
		t.Fatalf("size = %d, want 1", size)
	}
}

func TestExtendMovesExpiry(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return base }

	if err := repo.Save(ctx, &domain.Session{ID: "s", UserID: "u"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := repo.Extend(ctx, "s", 7200); err != nil {
		t.Fatalf("Extend: %v", err)
	}
	got, err := repo.Get(ctx, "s")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if want := base.Add(2 * time.Hour); !got.ExpiresAt.Equal(want) {
		t.Fatalf("expires = %v, want %v", got.ExpiresAt, want)
	}
	if err := repo.Extend(ctx, "missing", 10); err != domain.ErrSessionNotFound {
		t.Fatalf("extend missing: %v", err)
	}
}

func TestPurgeRemovesUndecodableEntries(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	if err := repo.store.Put(SessionBucket, "junk", "not a session"); err != nil {
		t.Fatalf("Put junk: %v", err)
	}
	if err := repo.Save(ctx, &domain.Session{ID: "live", UserID: "u1"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	removed, err := repo.PurgeExpired(ctx)
	if err != nil {
		t.Fatalf("PurgeExpired: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if _, err := repo.Get(ctx, "live"); err != nil {
		t.Fatalf("live session purged: %v", err)
	}
}
