package view

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/fastygo/taskboard/internal/app/adapter"
	"github.com/fastygo/taskboard/internal/app/session"
)

func names(rows []CategoryRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Category.Name
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestCategoryMountPhases(t *testing.T) {
	ctx := context.Background()
	backend := newMemoryBackend()
	v := NewCategoryView(categoryRepo{backend}, zaptest.NewLogger(t))

	if err := v.Mount(ctx, session.State{}); err != nil || v.Phase() != PhaseLoading {
		t.Fatalf("unresolved: phase %v, err %v", v.Phase(), err)
	}
	if err := v.Mount(ctx, session.State{Status: session.Absent}); err != nil || v.Phase() != PhaseUnauthorized {
		t.Fatalf("absent: phase %v, err %v", v.Phase(), err)
	}
	if v.Message() == "" {
		t.Fatal("unauthorized view needs a message")
	}
	if backend.calls != 0 {
		t.Fatalf("no request expected before sign-in, got %d", backend.calls)
	}
	if err := v.Add(ctx); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("Add while unauthorized: %v", err)
	}

	if err := v.Mount(ctx, signedIn("u1")); err != nil || v.Phase() != PhaseEmpty {
		t.Fatalf("signed in: phase %v, err %v", v.Phase(), err)
	}
}

func TestCategoryWorkScenario(t *testing.T) {
	ctx := context.Background()
	v := NewCategoryView(categoryRepo{newMemoryBackend()}, zaptest.NewLogger(t))
	if err := v.Mount(ctx, signedIn("u1")); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	v.SetNewName("Work")
	if err := v.Add(ctx); err != nil {
		t.Fatalf("Add: %v", err)
	}
	rows := v.Rows()
	if len(rows) != 1 || rows[0].Category.Name != "Work" || rows[0].Category.UserID != "u1" {
		t.Fatalf("rows = %+v", rows)
	}
	if v.NewName() != "" {
		t.Fatal("form not cleared after add")
	}
	if v.Phase() != PhaseListing {
		t.Fatalf("phase = %v", v.Phase())
	}
}

func TestCategoryChangesKeepNameOrder(t *testing.T) {
	ctx := context.Background()
	v := NewCategoryView(categoryRepo{newMemoryBackend()}, zaptest.NewLogger(t))
	if err := v.Mount(ctx, signedIn("u1")); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	for _, name := range []string{"Work", "Errands", "Home"} {
		v.SetNewName(name)
		if err := v.Add(ctx); err != nil {
			t.Fatalf("Add(%s): %v", name, err)
		}
	}
	if got := names(v.Rows()); !equal(got, []string{"Errands", "Home", "Work"}) {
		t.Fatalf("after adds: %v", got)
	}

	errands := v.Rows()[0].Category.ID
	if err := v.BeginEdit(errands); err != nil {
		t.Fatalf("BeginEdit: %v", err)
	}
	if err := v.SetDraft(errands, "Zoo"); err != nil {
		t.Fatalf("SetDraft: %v", err)
	}
	if err := v.Save(ctx, errands); err != nil {
		t.Fatalf("Save: %v", err)
	}
	rows := v.Rows()
	if got := names(rows); !equal(got, []string{"Home", "Work", "Zoo"}) {
		t.Fatalf("after rename: %v", got)
	}
	if rows[2].Editing {
		t.Fatal("saved row still editing")
	}

	if err := v.Delete(ctx, rows[1].Category.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := names(v.Rows()); !equal(got, []string{"Home", "Zoo"}) {
		t.Fatalf("after delete: %v", got)
	}
}

func TestCategoryEditIsLocal(t *testing.T) {
	ctx := context.Background()
	backend := newMemoryBackend()
	v := NewCategoryView(categoryRepo{backend}, zaptest.NewLogger(t))
	if err := v.Mount(ctx, signedIn("u1")); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	v.SetNewName("Work")
	if err := v.Add(ctx); err != nil {
		t.Fatalf("Add: %v", err)
	}
	id := v.Rows()[0].Category.ID
	calls := backend.calls

	if err := v.SetDraft(id, "x"); !errors.Is(err, ErrNotEditing) {
		t.Fatalf("SetDraft outside edit mode: %v", err)
	}
	if err := v.BeginEdit(id); err != nil {
		t.Fatalf("BeginEdit: %v", err)
	}
	if err := v.SetDraft(id, "Office"); err != nil {
		t.Fatalf("SetDraft: %v", err)
	}
	if err := v.CancelEdit(id); err != nil {
		t.Fatalf("CancelEdit: %v", err)
	}
	row := v.Rows()[0]
	if row.Editing || row.Category.Name != "Work" {
		t.Fatalf("cancel left %+v", row)
	}
	if backend.calls != calls {
		t.Fatal("edit toggling must not hit the backend")
	}
	if err := v.BeginEdit("missing"); !errors.Is(err, ErrUnknownRow) {
		t.Fatalf("BeginEdit(missing): %v", err)
	}
}

func TestCategoryFailuresLeaveStateUnchanged(t *testing.T) {
	ctx := context.Background()
	backend := newMemoryBackend()
	v := NewCategoryView(categoryRepo{backend}, zaptest.NewLogger(t))
	if err := v.Mount(ctx, signedIn("u1")); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	v.SetNewName("Work")
	if err := v.Add(ctx); err != nil {
		t.Fatalf("Add: %v", err)
	}
	id := v.Rows()[0].Category.ID

	v.SetNewName("   ")
	var verr *adapter.ValidationError
	if err := v.Add(ctx); !errors.As(err, &verr) {
		t.Fatalf("blank add: %v", err)
	}
	if v.NewName() != "   " {
		t.Fatal("form cleared after a rejected add")
	}

	backend.fail = true
	v.SetNewName("Home")
	if err := v.Add(ctx); !errors.Is(err, errBackend) {
		t.Fatalf("Add: %v", err)
	}
	if !errors.Is(v.LastError(), errBackend) {
		t.Fatal("failure not recorded")
	}
	if v.NewName() != "Home" {
		t.Fatal("form cleared after a failed add")
	}

	if err := v.BeginEdit(id); err != nil {
		t.Fatalf("BeginEdit: %v", err)
	}
	if err := v.SetDraft(id, "Office"); err != nil {
		t.Fatalf("SetDraft: %v", err)
	}
	if err := v.Save(ctx, id); !errors.Is(err, errBackend) {
		t.Fatalf("Save: %v", err)
	}
	if err := v.Delete(ctx, id); !errors.Is(err, errBackend) {
		t.Fatalf("Delete: %v", err)
	}

	rows := v.Rows()
	if len(rows) != 1 || rows[0].Category.Name != "Work" || !rows[0].Editing || rows[0].Draft != "Office" {
		t.Fatalf("rows changed after failures: %+v", rows)
	}
}
