package sqlite

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"github.com/fastygo/taskboard/domain"
	sqliteInfra "github.com/fastygo/taskboard/internal/infrastructure/sqlite"
	"github.com/fastygo/taskboard/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := sqliteInfra.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { sqliteInfra.Close(db) })
	return db
}

func TestUserRepositoryRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	user := &domain.User{Email: "Ana@Example.com", PasswordHash: "x", Role: domain.RoleUser, Status: domain.UserStatusActive}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.Email != "ana@example.com" {
		t.Fatalf("email not normalized: %q", user.Email)
	}

	got, err := repo.GetByEmail(ctx, "ANA@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("id = %q, want %q", got.ID, user.ID)
	}

	err = repo.Create(ctx, &domain.User{Email: "ana@example.com", PasswordHash: "y"})
	if err != domain.ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	if _, err := repo.GetByID(ctx, "nope"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestCategoryRepositoryOrdersAndScopes(t *testing.T) {
	ctx := context.Background()
	repo := NewCategoryRepository(newTestDB(t))

	for _, c := range []domain.Category{
		{UserID: "U1", Name: "Work"},
		{UserID: "U1", Name: "Home"},
		{UserID: "U2", Name: "Alpha"},
		{UserID: "U1", Name: "Home"},
	} {
		c := c
		if _, err := repo.Create(ctx, &c); err != nil {
			t.Fatalf("Create %s: %v", c.Name, err)
		}
	}

	list, err := repo.List(ctx, repository.CategoryFilter{UserID: "U1"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var names []string
	for _, c := range list {
		names = append(names, c.Name)
		if c.UserID != "U1" {
			t.Fatalf("leaked category of %s", c.UserID)
		}
	}
	if got := strings.Join(names, ","); got != "Home,Home,Work" {
		t.Fatalf("names = %s", got)
	}

	empty, err := repo.List(ctx, repository.CategoryFilter{UserID: "U3"})
	if err != nil {
		t.Fatalf("List empty: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", empty)
	}
}

func TestCategoryRepositoryUpdateDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewCategoryRepository(newTestDB(t))

	created, err := repo.Create(ctx, &domain.Category{UserID: "U1", Name: "Work"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected server-assigned id")
	}

	if _, err := repo.Update(ctx, &domain.Category{ID: created.ID, UserID: "U2", Name: "Hijack"}); err != domain.ErrCategoryNotFound {
		t.Fatalf("foreign update should look missing, got %v", err)
	}

	updated, err := repo.Update(ctx, &domain.Category{ID: created.ID, UserID: "U1", Name: "Office"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Office" || updated.UserID != "U1" {
		t.Fatalf("updated = %+v", updated)
	}

	if err := repo.Delete(ctx, "U2", created.ID); err != domain.ErrCategoryNotFound {
		t.Fatalf("foreign delete should look missing, got %v", err)
	}
	if err := repo.Delete(ctx, "U1", created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, "U1", created.ID); err != domain.ErrCategoryNotFound {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestTaskRepositoryFullRowUpdateAndOrdering(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	tasks := NewTaskRepository(db)
	categories := NewCategoryRepository(db)

	work, err := categories.Create(ctx, &domain.Category{UserID: "U1", Name: "Work"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	later, err := tasks.Create(ctx, &domain.Task{UserID: "U1", Title: "Later", DueDate: domain.MustParseDate("2024-03-01")})
	if err != nil {
		t.Fatalf("create later: %v", err)
	}
	sooner, err := tasks.Create(ctx, &domain.Task{UserID: "U1", Title: "Buy milk", DueDate: domain.MustParseDate("2024-01-01")})
	if err != nil {
		t.Fatalf("create sooner: %v", err)
	}
	if sooner.CategoryID != nil {
		t.Fatalf("expected uncategorized task, got %v", *sooner.CategoryID)
	}

	list, err := tasks.List(ctx, repository.TaskFilter{UserID: "U1"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != sooner.ID || list[1].ID != later.ID {
		t.Fatalf("unexpected order: %+v", list)
	}

	sooner.CategoryID = &work.ID
	sooner.Completed = true
	sooner.Description = "2 litres"
	updated, err := tasks.Update(ctx, sooner)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.CategoryID == nil || *updated.CategoryID != work.ID || !updated.Completed || updated.Description != "2 litres" {
		t.Fatalf("updated = %+v", updated)
	}

	updated.CategoryID = nil
	cleared, err := tasks.Update(ctx, updated)
	if err != nil {
		t.Fatalf("Update clear: %v", err)
	}
	if cleared.CategoryID != nil {
		t.Fatal("category should be cleared")
	}

	// deleting the category leaves referencing tasks alone
	later.CategoryID = &work.ID
	if _, err := tasks.Update(ctx, later); err != nil {
		t.Fatalf("Update later: %v", err)
	}
	if err := categories.Delete(ctx, "U1", work.ID); err != nil {
		t.Fatalf("delete category: %v", err)
	}
	orphan, err := tasks.GetByID(ctx, "U1", later.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if orphan.CategoryID == nil || *orphan.CategoryID != work.ID {
		t.Fatal("orphaned reference should be preserved")
	}

	if err := tasks.Delete(ctx, "U1", later.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := tasks.Delete(ctx, "U1", later.ID); err != domain.ErrTaskNotFound {
		t.Fatalf("second delete: %v", err)
	}
}
