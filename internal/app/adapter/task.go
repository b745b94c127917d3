package adapter

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/pkg/client"
)

// TaskBackend is the slice of the backend client used for tasks.
type TaskBackend interface {
	ListTasks(ctx context.Context, userID string) ([]domain.Task, error)
	CreateTask(ctx context.Context, userID string, in client.TaskInput) (*domain.Task, error)
	UpdateTask(ctx context.Context, id string, in client.TaskInput) (*domain.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// TaskFields is the editable part of a task. An empty CategoryID means
// uncategorized.
type TaskFields struct {
	Title       string
	Description string
	DueDate     domain.Date
	Completed   bool
	CategoryID  *string
}

// FieldsOf copies the editable fields of t.
func FieldsOf(t domain.Task) TaskFields {
	fields := TaskFields{
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Completed:   t.Completed,
	}
	if t.CategoryID != nil {
		id := *t.CategoryID
		fields.CategoryID = &id
	}
	return fields
}

type TaskAdapter struct {
	backend TaskBackend
	logger  *zap.Logger
	today   func() domain.Date
}

func NewTaskAdapter(backend TaskBackend, logger *zap.Logger) *TaskAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaskAdapter{backend: backend, logger: logger, today: domain.Today}
}

// List returns the owner's tasks sorted by due date.
func (a *TaskAdapter) List(ctx context.Context, ownerID string) ([]domain.Task, error) {
	tasks, err := a.backend.ListTasks(ctx, ownerID)
	if err != nil {
		return nil, a.fail("list tasks", err)
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	SortTasks(tasks)
	return tasks, nil
}

// Create inserts a task. A zero due date means today.
func (a *TaskAdapter) Create(ctx context.Context, ownerID string, fields TaskFields) (domain.Task, error) {
	if fields.DueDate.IsZero() {
		fields.DueDate = a.today()
	}
	in, err := taskInput(fields)
	if err != nil {
		return domain.Task{}, err
	}
	created, err := a.backend.CreateTask(ctx, ownerID, in)
	if err != nil {
		return domain.Task{}, a.fail("create task", err)
	}
	return *created, nil
}

// Update replaces title, description, due date, completion and category
// together. Concurrent updates resolve to the last writer.
func (a *TaskAdapter) Update(ctx context.Context, id string, fields TaskFields) (domain.Task, error) {
	in, err := taskInput(fields)
	if err != nil {
		return domain.Task{}, err
	}
	updated, err := a.backend.UpdateTask(ctx, id, in)
	if err != nil {
		return domain.Task{}, a.fail("update task", err)
	}
	return *updated, nil
}

func (a *TaskAdapter) Delete(ctx context.Context, id string) error {
	if err := a.backend.DeleteTask(ctx, id); err != nil {
		return a.fail("delete task", err)
	}
	return nil
}

func (a *TaskAdapter) fail(op string, err error) error {
	a.logger.Warn("backend call failed", zap.String("op", op), zap.Error(err))
	return &RepositoryError{Op: op, Err: err}
}

func taskInput(fields TaskFields) (client.TaskInput, error) {
	title := strings.TrimSpace(fields.Title)
	if title == "" {
		return client.TaskInput{}, &ValidationError{Field: "title", Message: "task title is required"}
	}
	if fields.DueDate.IsZero() {
		return client.TaskInput{}, &ValidationError{Field: "due_date", Message: "task due date is required"}
	}
	return client.TaskInput{
		Title:       title,
		Description: fields.Description,
		DueDate:     fields.DueDate,
		Completed:   fields.Completed,
		CategoryID:  domain.NormalizeID(fields.CategoryID),
	}, nil
}

// SortTasks orders by due date, keeping insertion order within a day.
func SortTasks(tasks []domain.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].DueDate.Before(tasks[j].DueDate)
	})
}
