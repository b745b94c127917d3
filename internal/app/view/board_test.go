package view

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/internal/app/adapter"
	"github.com/fastygo/taskboard/internal/app/session"
)

func newBoard(t *testing.T) (*TaskBoard, *memoryBackend) {
	t.Helper()
	backend := newMemoryBackend()
	b := NewTaskBoard(taskRepo{backend}, categoryRepo{backend}, zaptest.NewLogger(t))
	b.today = func() domain.Date { return domain.MustParseDate("2024-06-01") }
	b.ResetForm()
	return b, backend
}

func columnTitles(columns []Column) map[string][]string {
	out := map[string][]string{}
	for _, c := range columns {
		titles := []string{}
		for _, t := range c.Tasks {
			titles = append(titles, t.Title)
		}
		out[c.Title] = titles
	}
	return out
}

func TestBoardMountPhases(t *testing.T) {
	ctx := context.Background()
	b, backend := newBoard(t)

	if err := b.Mount(ctx, session.State{}); err != nil || b.Phase() != PhaseLoading {
		t.Fatalf("unresolved: %v %v", b.Phase(), err)
	}
	if err := b.Mount(ctx, session.State{Status: session.Absent}); err != nil || b.Phase() != PhaseUnauthorized {
		t.Fatalf("absent: %v %v", b.Phase(), err)
	}
	if backend.calls != 0 {
		t.Fatalf("requests before sign-in: %d", backend.calls)
	}
	if err := b.Mount(ctx, signedIn("u1")); err != nil || b.Phase() != PhaseEmpty {
		t.Fatalf("signed in: %v %v", b.Phase(), err)
	}
	if backend.calls != 2 {
		t.Fatalf("expected tasks and categories to load, got %d calls", backend.calls)
	}
}

func TestBoardBuyMilkScenario(t *testing.T) {
	ctx := context.Background()
	b, _ := newBoard(t)
	if err := b.Mount(ctx, signedIn("u1")); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	form := b.Form()
	if !form.DueDate.Equal(domain.MustParseDate("2024-06-01")) || form.CategoryID != nil || form.Completed {
		t.Fatalf("form defaults = %+v", form)
	}
	form.Title = "Buy milk"
	b.SetForm(form)
	if err := b.Add(ctx); err != nil {
		t.Fatalf("Add: %v", err)
	}

	tasks := b.Tasks()
	if len(tasks) != 1 || tasks[0].CategoryID != nil || tasks[0].Completed {
		t.Fatalf("tasks = %+v", tasks)
	}
	if b.Form().Title != "" {
		t.Fatal("form not reset after add")
	}

	columns := b.Columns()
	if columns[0].CategoryID != nil || columns[0].Title != UncategorizedTitle {
		t.Fatalf("first column = %+v", columns[0])
	}
	if len(columns[0].Tasks) != 1 || columns[0].Tasks[0].Title != "Buy milk" {
		t.Fatalf("uncategorized = %+v", columns[0].Tasks)
	}
}

func TestBoardBlankTitleMakesNoRequest(t *testing.T) {
	ctx := context.Background()
	b, backend := newBoard(t)
	if err := b.Mount(ctx, signedIn("u1")); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	calls := backend.calls

	b.SetForm(adapter.TaskFields{Title: "   ", DueDate: domain.MustParseDate("2024-06-01")})
	var verr *adapter.ValidationError
	if err := b.Add(ctx); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if backend.calls != calls || len(b.Tasks()) != 0 {
		t.Fatal("blank title reached the backend or changed the list")
	}
	if b.Form().Title != "   " {
		t.Fatal("form reset after a rejected add")
	}
}

func TestBoardChangingCategoryMovesCard(t *testing.T) {
	ctx := context.Background()
	b, backend := newBoard(t)
	work, _ := categoryRepo{backend}.Create(ctx, "u1", "Work")
	if err := b.Mount(ctx, signedIn("u1")); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	b.SetForm(adapter.TaskFields{Title: "Report", DueDate: domain.MustParseDate("2024-06-02")})
	if err := b.Add(ctx); err != nil {
		t.Fatalf("Add: %v", err)
	}
	id := b.Tasks()[0].ID

	if err := b.BeginEdit(id); err != nil {
		t.Fatalf("BeginEdit: %v", err)
	}
	draft, err := b.Draft(id)
	if err != nil {
		t.Fatalf("Draft: %v", err)
	}
	draft.CategoryID = &work.ID
	draft.Completed = true
	if err := b.SetDraft(id, draft); err != nil {
		t.Fatalf("SetDraft: %v", err)
	}
	if err := b.Save(ctx, id); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got := columnTitles(b.Columns())
	if len(got[UncategorizedTitle]) != 0 || len(got["Work"]) != 1 || got["Work"][0] != "Report" {
		t.Fatalf("columns = %v", got)
	}
	card := b.Cards()[0]
	if card.Editing || !card.Task.Completed {
		t.Fatalf("card = %+v", card)
	}
}

func TestBoardFailedSaveStaysInEditMode(t *testing.T) {
	ctx := context.Background()
	b, backend := newBoard(t)
	if err := b.Mount(ctx, signedIn("u1")); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	b.SetForm(adapter.TaskFields{Title: "Report", DueDate: domain.MustParseDate("2024-06-02")})
	if err := b.Add(ctx); err != nil {
		t.Fatalf("Add: %v", err)
	}
	id := b.Tasks()[0].ID
	if err := b.BeginEdit(id); err != nil {
		t.Fatalf("BeginEdit: %v", err)
	}
	draft, _ := b.Draft(id)
	draft.Title = "Final report"
	_ = b.SetDraft(id, draft)

	backend.fail = true
	if err := b.Save(ctx, id); !errors.Is(err, errBackend) {
		t.Fatalf("Save: %v", err)
	}
	card := b.Cards()[0]
	if !card.Editing || card.Draft.Title != "Final report" || card.Task.Title != "Report" {
		t.Fatalf("card after failed save = %+v", card)
	}
	if !errors.Is(b.LastError(), errBackend) {
		t.Fatal("failure not recorded")
	}
	if err := b.Delete(ctx, id); !errors.Is(err, errBackend) || len(b.Tasks()) != 1 {
		t.Fatalf("failed delete changed the list: %v", err)
	}
}

func TestBoardOrphanedTask(t *testing.T) {
	ctx := context.Background()
	b, backend := newBoard(t)
	home, _ := categoryRepo{backend}.Create(ctx, "u1", "Home")
	_, _ = taskRepo{backend}.Create(ctx, "u1", adapter.TaskFields{
		Title: "Water plants", DueDate: domain.MustParseDate("2024-06-01"), CategoryID: &home.ID,
	})
	_ = categoryRepo{backend}.Delete(ctx, home.ID)

	if err := b.Mount(ctx, signedIn("u1")); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	columns := b.Columns()
	if len(columns) != 1 || len(columns[0].Tasks) != 1 {
		t.Fatalf("orphan not shown as uncategorized: %+v", columns)
	}

	id := b.Tasks()[0].ID
	if err := b.BeginEdit(id); err != nil {
		t.Fatalf("BeginEdit: %v", err)
	}
	draft, _ := b.Draft(id)
	if draft.CategoryID != nil {
		t.Fatalf("draft kept dangling category %q", *draft.CategoryID)
	}
}

func TestBoardKeepsDueDateOrder(t *testing.T) {
	ctx := context.Background()
	b, _ := newBoard(t)
	if err := b.Mount(ctx, signedIn("u1")); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	for _, f := range []adapter.TaskFields{
		{Title: "later", DueDate: domain.MustParseDate("2024-06-10")},
		{Title: "sooner", DueDate: domain.MustParseDate("2024-06-03")},
		{Title: "same day", DueDate: domain.MustParseDate("2024-06-03")},
	} {
		b.SetForm(f)
		if err := b.Add(ctx); err != nil {
			t.Fatalf("Add(%s): %v", f.Title, err)
		}
	}
	tasks := b.Tasks()
	if tasks[0].Title != "sooner" || tasks[1].Title != "same day" || tasks[2].Title != "later" {
		t.Fatalf("order = %s, %s, %s", tasks[0].Title, tasks[1].Title, tasks[2].Title)
	}

	if err := b.Delete(ctx, tasks[1].ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(b.Tasks()) != 2 {
		t.Fatalf("tasks after delete = %d", len(b.Tasks()))
	}
}

func TestPartitionIsTotal(t *testing.T) {
	a, c, ghost := "a", "c", "ghost"
	categories := []domain.Category{{ID: "a", Name: "Alpha"}, {ID: "b", Name: "Beta"}, {ID: "c", Name: "Gamma"}}
	tasks := []domain.Task{
		{ID: "1", CategoryID: &a},
		{ID: "2"},
		{ID: "3", CategoryID: &ghost},
		{ID: "4", CategoryID: &c},
		{ID: "5", CategoryID: &a},
	}

	columns := Partition(tasks, categories)
	if len(columns) != 4 {
		t.Fatalf("columns = %d", len(columns))
	}
	wantTitles := []string{UncategorizedTitle, "Alpha", "Beta", "Gamma"}
	seen := map[string]int{}
	for i, col := range columns {
		if col.Title != wantTitles[i] {
			t.Fatalf("column %d = %q", i, col.Title)
		}
		for _, task := range col.Tasks {
			seen[task.ID]++
		}
	}
	if len(seen) != len(tasks) {
		t.Fatalf("union = %v", seen)
	}
	for id, n := range seen {
		if n != 1 {
			t.Fatalf("task %s appears %d times", id, n)
		}
	}
	if len(columns[0].Tasks) != 2 || len(columns[1].Tasks) != 2 || len(columns[2].Tasks) != 0 {
		t.Fatalf("unexpected distribution: %+v", columns)
	}
}
