// Package view holds the screen state machines of the terminal front-end.
// Local lists only change after the backend acknowledges a write; the
// per-row editing flags and drafts are the only purely local state.
package view

import (
	"context"
	"errors"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/internal/app/adapter"
)

type Phase int

const (
	PhaseLoading Phase = iota
	PhaseUnauthorized
	PhaseEmpty
	PhaseListing
)

func (p Phase) String() string {
	switch p {
	case PhaseUnauthorized:
		return "unauthorized"
	case PhaseEmpty:
		return "empty"
	case PhaseListing:
		return "listing"
	default:
		return "loading"
	}
}

var (
	ErrUnauthorized = errors.New("you must be signed in")
	ErrUnknownRow   = errors.New("no such row")
	ErrNotEditing   = errors.New("row is not being edited")
)

// CategoryRepository is implemented by adapter.CategoryAdapter.
type CategoryRepository interface {
	List(ctx context.Context, ownerID string) ([]domain.Category, error)
	Create(ctx context.Context, ownerID, name string) (domain.Category, error)
	Update(ctx context.Context, id, name string) (domain.Category, error)
	Delete(ctx context.Context, id string) error
}

// TaskRepository is implemented by adapter.TaskAdapter.
type TaskRepository interface {
	List(ctx context.Context, ownerID string) ([]domain.Task, error)
	Create(ctx context.Context, ownerID string, fields adapter.TaskFields) (domain.Task, error)
	Update(ctx context.Context, id string, fields adapter.TaskFields) (domain.Task, error)
	Delete(ctx context.Context, id string) error
}
