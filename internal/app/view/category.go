package view

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/internal/app/session"
)

// CategoryRow is a persisted category plus its edit state.
type CategoryRow struct {
	Category domain.Category
	Editing  bool
	Draft    string
}

type CategoryView struct {
	repo   CategoryRepository
	logger *zap.Logger

	ownerID string
	phase   Phase
	rows    []CategoryRow
	newName string
	lastErr error
}

func NewCategoryView(repo CategoryRepository, logger *zap.Logger) *CategoryView {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CategoryView{repo: repo, logger: logger}
}

// Mount loads the owner's categories once the session is known. An
// unresolved session keeps the view loading; an absent one makes it
// unauthorized without any request.
func (v *CategoryView) Mount(ctx context.Context, state session.State) error {
	v.rows = nil
	v.lastErr = nil
	switch state.Status {
	case session.Unresolved:
		v.phase = PhaseLoading
		return nil
	case session.Absent:
		v.ownerID = ""
		v.phase = PhaseUnauthorized
		return nil
	}

	v.ownerID = state.UserID()
	v.phase = PhaseLoading
	categories, err := v.repo.List(ctx, v.ownerID)
	if err != nil {
		v.phase = PhaseEmpty
		return v.fail("load categories", err)
	}
	v.rows = make([]CategoryRow, 0, len(categories))
	for _, c := range categories {
		v.rows = append(v.rows, CategoryRow{Category: c})
	}
	v.settle()
	return nil
}

func (v *CategoryView) Phase() Phase { return v.phase }

// Message is the fixed text shown instead of the list when unauthorized.
func (v *CategoryView) Message() string {
	if v.phase == PhaseUnauthorized {
		return "sign in to manage your categories"
	}
	return ""
}

// Rows returns a copy of the rows in name order.
func (v *CategoryView) Rows() []CategoryRow {
	out := make([]CategoryRow, len(v.rows))
	copy(out, v.rows)
	return out
}

func (v *CategoryView) LastError() error { return v.lastErr }

func (v *CategoryView) NewName() string { return v.newName }

func (v *CategoryView) SetNewName(name string) { v.newName = name }

// Add creates a category from the new-name field. The field is cleared
// only when the backend accepted the row.
func (v *CategoryView) Add(ctx context.Context) error {
	if err := v.authorized(); err != nil {
		return err
	}
	created, err := v.repo.Create(ctx, v.ownerID, v.newName)
	if err != nil {
		return v.fail("create category", err)
	}
	v.rows = append(v.rows, CategoryRow{Category: created})
	v.sortRows()
	v.newName = ""
	v.lastErr = nil
	v.settle()
	return nil
}

func (v *CategoryView) BeginEdit(id string) error {
	i := v.index(id)
	if i < 0 {
		return ErrUnknownRow
	}
	v.rows[i].Editing = true
	v.rows[i].Draft = v.rows[i].Category.Name
	return nil
}

func (v *CategoryView) CancelEdit(id string) error {
	i := v.index(id)
	if i < 0 {
		return ErrUnknownRow
	}
	v.rows[i].Editing = false
	v.rows[i].Draft = ""
	return nil
}

func (v *CategoryView) SetDraft(id, name string) error {
	i := v.index(id)
	if i < 0 {
		return ErrUnknownRow
	}
	if !v.rows[i].Editing {
		return ErrNotEditing
	}
	v.rows[i].Draft = name
	return nil
}

// Save persists the draft and leaves edit mode on success.
func (v *CategoryView) Save(ctx context.Context, id string) error {
	if err := v.authorized(); err != nil {
		return err
	}
	i := v.index(id)
	if i < 0 {
		return ErrUnknownRow
	}
	if !v.rows[i].Editing {
		return ErrNotEditing
	}
	updated, err := v.repo.Update(ctx, id, v.rows[i].Draft)
	if err != nil {
		return v.fail("update category", err)
	}
	v.rows[i] = CategoryRow{Category: updated}
	v.sortRows()
	v.lastErr = nil
	return nil
}

// Delete removes the row, edit state included, once the backend confirms.
func (v *CategoryView) Delete(ctx context.Context, id string) error {
	if err := v.authorized(); err != nil {
		return err
	}
	if v.index(id) < 0 {
		return ErrUnknownRow
	}
	if err := v.repo.Delete(ctx, id); err != nil {
		return v.fail("delete category", err)
	}
	if i := v.index(id); i >= 0 {
		v.rows = append(v.rows[:i], v.rows[i+1:]...)
	}
	v.lastErr = nil
	v.settle()
	return nil
}

func (v *CategoryView) authorized() error {
	if v.ownerID == "" {
		return ErrUnauthorized
	}
	return nil
}

func (v *CategoryView) index(id string) int {
	for i := range v.rows {
		if v.rows[i].Category.ID == id {
			return i
		}
	}
	return -1
}

func (v *CategoryView) sortRows() {
	sort.SliceStable(v.rows, func(i, j int) bool {
		return v.rows[i].Category.Name < v.rows[j].Category.Name
	})
}

func (v *CategoryView) settle() {
	if len(v.rows) == 0 {
		v.phase = PhaseEmpty
		return
	}
	v.phase = PhaseListing
}

func (v *CategoryView) fail(op string, err error) error {
	v.lastErr = err
	v.logger.Warn("category view operation failed", zap.String("op", op), zap.Error(err))
	return err
}
