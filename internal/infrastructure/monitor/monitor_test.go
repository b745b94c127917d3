package monitor

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestRefreshRecordsEveryCheck(t *testing.T) {
	m := New(map[string]Check{
		"sqlite":   func(context.Context) error { return nil },
		"sessions": func(context.Context) error { return errors.New("closed") },
	}, 0, zaptest.NewLogger(t))

	if m.IsOnline() {
		t.Fatal("no checks have run yet")
	}

	m.Refresh()
	status := m.GetStatus()
	if !status.Services["sqlite"] || status.Services["sessions"] {
		t.Fatalf("unexpected status: %+v", status.Services)
	}
	if m.IsOnline() {
		t.Fatal("a failing check must mark the monitor offline")
	}
	if status.LastCheck.IsZero() {
		t.Fatal("LastCheck not set")
	}
}

func TestNilDependenciesReportNotConfigured(t *testing.T) {
	for name, check := range map[string]Check{
		"postgres": PostgresCheck(nil),
		"redis":    RedisCheck(nil),
		"sqlite":   SQLiteCheck(nil),
		"bolt":     BoltCheck(nil, "sessions"),
	} {
		if err := check(context.Background()); !errors.Is(err, errNotConfigured) {
			t.Errorf("%s: expected errNotConfigured, got %v", name, err)
		}
	}
}
