package view

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/internal/app/adapter"
	"github.com/fastygo/taskboard/internal/app/session"
)

// UncategorizedTitle heads the column of tasks without a known category.
const UncategorizedTitle = "Uncategorized"

// TaskCard is a persisted task plus its edit state.
type TaskCard struct {
	Task    domain.Task
	Editing bool
	Draft   adapter.TaskFields
}

// Column groups tasks under one category. CategoryID is nil for the
// uncategorized column.
type Column struct {
	CategoryID *string
	Title      string
	Tasks      []domain.Task
}

type TaskBoard struct {
	tasks      TaskRepository
	categories CategoryRepository
	logger     *zap.Logger
	today      func() domain.Date

	ownerID       string
	phase         Phase
	cards         []TaskCard
	categoryItems []domain.Category
	form          adapter.TaskFields
	lastErr       error
}

func NewTaskBoard(tasks TaskRepository, categories CategoryRepository, logger *zap.Logger) *TaskBoard {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &TaskBoard{
		tasks:      tasks,
		categories: categories,
		logger:     logger,
		today:      domain.Today,
	}
	b.ResetForm()
	return b
}

// Mount loads tasks and categories for a signed-in user.
func (b *TaskBoard) Mount(ctx context.Context, state session.State) error {
	b.cards = nil
	b.categoryItems = nil
	b.lastErr = nil
	switch state.Status {
	case session.Unresolved:
		b.phase = PhaseLoading
		return nil
	case session.Absent:
		b.ownerID = ""
		b.phase = PhaseUnauthorized
		return nil
	}

	b.ownerID = state.UserID()
	b.phase = PhaseLoading

	tasks, err := b.tasks.List(ctx, b.ownerID)
	if err != nil {
		b.settle()
		return b.fail("load tasks", err)
	}
	b.cards = make([]TaskCard, 0, len(tasks))
	for _, t := range tasks {
		b.cards = append(b.cards, TaskCard{Task: t})
	}

	categories, err := b.categories.List(ctx, b.ownerID)
	if err != nil {
		b.settle()
		return b.fail("load categories", err)
	}
	b.categoryItems = categories
	b.settle()
	return nil
}

func (b *TaskBoard) Phase() Phase { return b.phase }

func (b *TaskBoard) Message() string {
	if b.phase == PhaseUnauthorized {
		return "sign in to see your tasks"
	}
	return ""
}

func (b *TaskBoard) LastError() error { return b.lastErr }

// Cards returns a copy of the cards in due-date order.
func (b *TaskBoard) Cards() []TaskCard {
	out := make([]TaskCard, len(b.cards))
	copy(out, b.cards)
	return out
}

// Tasks returns the persisted tasks in due-date order.
func (b *TaskBoard) Tasks() []domain.Task {
	out := make([]domain.Task, len(b.cards))
	for i, c := range b.cards {
		out[i] = c.Task
	}
	return out
}

func (b *TaskBoard) Categories() []domain.Category {
	out := make([]domain.Category, len(b.categoryItems))
	copy(out, b.categoryItems)
	return out
}

func (b *TaskBoard) Form() adapter.TaskFields { return b.form }

func (b *TaskBoard) SetForm(fields adapter.TaskFields) { b.form = fields }

// ResetForm restores the creation form defaults: due today, no category,
// not completed.
func (b *TaskBoard) ResetForm() {
	b.form = adapter.TaskFields{DueDate: b.today()}
}

// Add creates a task from the form and resets the form on success.
func (b *TaskBoard) Add(ctx context.Context) error {
	if err := b.authorized(); err != nil {
		return err
	}
	created, err := b.tasks.Create(ctx, b.ownerID, b.form)
	if err != nil {
		return b.fail("create task", err)
	}
	b.cards = append(b.cards, TaskCard{Task: created})
	b.sortCards()
	b.ResetForm()
	b.lastErr = nil
	b.settle()
	return nil
}

// BeginEdit copies the task into a draft. A reference to a category that
// no longer exists starts as no category.
func (b *TaskBoard) BeginEdit(id string) error {
	i := b.index(id)
	if i < 0 {
		return ErrUnknownRow
	}
	draft := adapter.FieldsOf(b.cards[i].Task)
	if draft.CategoryID != nil && !b.knownCategory(*draft.CategoryID) {
		draft.CategoryID = nil
	}
	b.cards[i].Editing = true
	b.cards[i].Draft = draft
	return nil
}

func (b *TaskBoard) CancelEdit(id string) error {
	i := b.index(id)
	if i < 0 {
		return ErrUnknownRow
	}
	b.cards[i].Editing = false
	b.cards[i].Draft = adapter.TaskFields{}
	return nil
}

func (b *TaskBoard) SetDraft(id string, fields adapter.TaskFields) error {
	i := b.index(id)
	if i < 0 {
		return ErrUnknownRow
	}
	if !b.cards[i].Editing {
		return ErrNotEditing
	}
	b.cards[i].Draft = fields
	return nil
}

// Draft returns the draft of a card in edit mode.
func (b *TaskBoard) Draft(id string) (adapter.TaskFields, error) {
	i := b.index(id)
	if i < 0 {
		return adapter.TaskFields{}, ErrUnknownRow
	}
	if !b.cards[i].Editing {
		return adapter.TaskFields{}, ErrNotEditing
	}
	return b.cards[i].Draft, nil
}

// Save persists the whole draft. On failure the card stays in edit mode
// with its draft intact.
func (b *TaskBoard) Save(ctx context.Context, id string) error {
	if err := b.authorized(); err != nil {
		return err
	}
	i := b.index(id)
	if i < 0 {
		return ErrUnknownRow
	}
	if !b.cards[i].Editing {
		return ErrNotEditing
	}
	updated, err := b.tasks.Update(ctx, id, b.cards[i].Draft)
	if err != nil {
		return b.fail("update task", err)
	}
	b.cards[i] = TaskCard{Task: updated}
	b.sortCards()
	b.lastErr = nil
	return nil
}

// Delete removes the card once the backend confirms.
func (b *TaskBoard) Delete(ctx context.Context, id string) error {
	if err := b.authorized(); err != nil {
		return err
	}
	if b.index(id) < 0 {
		return ErrUnknownRow
	}
	if err := b.tasks.Delete(ctx, id); err != nil {
		return b.fail("delete task", err)
	}
	if i := b.index(id); i >= 0 {
		b.cards = append(b.cards[:i], b.cards[i+1:]...)
	}
	b.lastErr = nil
	b.settle()
	return nil
}

// Columns partitions the current tasks. It is recomputed on every call.
func (b *TaskBoard) Columns() []Column {
	return Partition(b.Tasks(), b.categoryItems)
}

// Partition groups tasks into the uncategorized column followed by one
// column per category, in the given category order. Tasks whose category
// is unset or unknown land in the uncategorized column, so every task
// appears exactly once.
func Partition(tasks []domain.Task, categories []domain.Category) []Column {
	columns := make([]Column, 0, len(categories)+1)
	columns = append(columns, Column{Title: UncategorizedTitle, Tasks: []domain.Task{}})

	position := make(map[string]int, len(categories))
	for _, c := range categories {
		if _, dup := position[c.ID]; dup {
			continue
		}
		id := c.ID
		position[id] = len(columns)
		columns = append(columns, Column{CategoryID: &id, Title: c.Name, Tasks: []domain.Task{}})
	}

	for _, t := range tasks {
		target := 0
		if t.CategoryID != nil {
			if i, ok := position[*t.CategoryID]; ok {
				target = i
			}
		}
		columns[target].Tasks = append(columns[target].Tasks, t)
	}
	return columns
}

func (b *TaskBoard) knownCategory(id string) bool {
	for _, c := range b.categoryItems {
		if c.ID == id {
			return true
		}
	}
	return false
}

func (b *TaskBoard) authorized() error {
	if b.ownerID == "" {
		return ErrUnauthorized
	}
	return nil
}

func (b *TaskBoard) index(id string) int {
	for i := range b.cards {
		if b.cards[i].Task.ID == id {
			return i
		}
	}
	return -1
}

func (b *TaskBoard) sortCards() {
	sort.SliceStable(b.cards, func(i, j int) bool {
		return b.cards[i].Task.DueDate.Before(b.cards[j].Task.DueDate)
	})
}

func (b *TaskBoard) settle() {
	if len(b.cards) == 0 {
		b.phase = PhaseEmpty
		return
	}
	b.phase = PhaseListing
}

func (b *TaskBoard) fail(op string, err error) error {
	b.lastErr = err
	b.logger.Warn("task board operation failed", zap.String("op", op), zap.Error(err))
	return err
}
