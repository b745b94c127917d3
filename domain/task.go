package domain

import (
	"strings"
	"time"
)

// Task represents a user-owned activity item. A nil CategoryID means the
// task is uncategorized.
type Task struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     Date      `json:"due_date"`
	Completed   bool      `json:"completed"`
	CategoryID  *string   `json:"category_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate trims the title, normalizes the category reference and rejects
// a task without a title or due date.
func (t *Task) Validate() error {
	if t == nil {
		return ErrInvalidPayload
	}
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return Invalid("task title is required")
	}
	if t.DueDate.IsZero() {
		return Invalid("task due date is required")
	}
	t.CategoryID = NormalizeID(t.CategoryID)
	return nil
}

// HasCategory reports whether the task references a category.
func (t *Task) HasCategory() bool {
	return t != nil && t.CategoryID != nil
}

// NormalizeID maps an empty or blank reference to nil.
func NormalizeID(id *string) *string {
	if id == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*id)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// StringPtr returns nil for the empty string.
func StringPtr(s string) *string {
	return NormalizeID(&s)
}
