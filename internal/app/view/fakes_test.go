package view

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/internal/app/adapter"
	"github.com/fastygo/taskboard/internal/app/session"
)

var errBackend = errors.New("backend down")

// memoryBackend stands in for the adapters, validating like they do.
type memoryBackend struct {
	categories map[string]domain.Category
	tasks      map[string]domain.Task
	seq        int
	calls      int
	fail       bool
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{categories: map[string]domain.Category{}, tasks: map[string]domain.Task{}}
}

func (m *memoryBackend) id(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s%d", prefix, m.seq)
}

type categoryRepo struct{ *memoryBackend }

func (r categoryRepo) List(_ context.Context, ownerID string) ([]domain.Category, error) {
	r.calls++
	if r.fail {
		return nil, errBackend
	}
	out := []domain.Category{}
	for _, c := range r.categories {
		if c.UserID == ownerID {
			out = append(out, c)
		}
	}
	adapter.SortCategories(out)
	return out, nil
}

func (r categoryRepo) Create(_ context.Context, ownerID, name string) (domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Category{}, &adapter.ValidationError{Field: "name", Message: "category name is required"}
	}
	r.calls++
	if r.fail {
		return domain.Category{}, errBackend
	}
	c := domain.Category{ID: r.id("c"), UserID: ownerID, Name: name}
	r.categories[c.ID] = c
	return c, nil
}

func (r categoryRepo) Update(_ context.Context, id, name string) (domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Category{}, &adapter.ValidationError{Field: "name", Message: "category name is required"}
	}
	r.calls++
	if r.fail {
		return domain.Category{}, errBackend
	}
	c := r.categories[id]
	c.Name = name
	r.categories[id] = c
	return c, nil
}

func (r categoryRepo) Delete(_ context.Context, id string) error {
	r.calls++
	if r.fail {
		return errBackend
	}
	delete(r.categories, id)
	return nil
}

type taskRepo struct{ *memoryBackend }

func (r taskRepo) List(_ context.Context, ownerID string) ([]domain.Task, error) {
	r.calls++
	if r.fail {
		return nil, errBackend
	}
	out := []domain.Task{}
	for i := 1; i <= r.seq; i++ {
		if t, ok := r.tasks[fmt.Sprintf("t%d", i)]; ok && t.UserID == ownerID {
			out = append(out, t)
		}
	}
	adapter.SortTasks(out)
	return out, nil
}

func (r taskRepo) Create(_ context.Context, ownerID string, f adapter.TaskFields) (domain.Task, error) {
	if strings.TrimSpace(f.Title) == "" {
		return domain.Task{}, &adapter.ValidationError{Field: "title", Message: "task title is required"}
	}
	r.calls++
	if r.fail {
		return domain.Task{}, errBackend
	}
	t := domain.Task{
		ID:          r.id("t"),
		UserID:      ownerID,
		Title:       strings.TrimSpace(f.Title),
		Description: f.Description,
		DueDate:     f.DueDate,
		Completed:   f.Completed,
		CategoryID:  domain.NormalizeID(f.CategoryID),
	}
	r.tasks[t.ID] = t
	return t, nil
}

func (r taskRepo) Update(_ context.Context, id string, f adapter.TaskFields) (domain.Task, error) {
	if strings.TrimSpace(f.Title) == "" {
		return domain.Task{}, &adapter.ValidationError{Field: "title", Message: "task title is required"}
	}
	r.calls++
	if r.fail {
		return domain.Task{}, errBackend
	}
	t := r.tasks[id]
	t.Title = strings.TrimSpace(f.Title)
	t.Description = f.Description
	t.DueDate = f.DueDate
	t.Completed = f.Completed
	t.CategoryID = domain.NormalizeID(f.CategoryID)
	r.tasks[id] = t
	return t, nil
}

func (r taskRepo) Delete(_ context.Context, id string) error {
	r.calls++
	if r.fail {
		return errBackend
	}
	delete(r.tasks, id)
	return nil
}

func signedIn(id string) session.State {
	return session.State{Status: session.Present, User: &session.User{ID: id, Email: id + "@example.com"}}
}
