package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestDateJSON(t *testing.T) {
	var task Task
	if err := json.Unmarshal([]byte(`{"title":"x","due_date":"2024-01-01","category_id":null}`), &task); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := task.DueDate.String(); got != "2024-01-01" {
		t.Fatalf("due date = %q, want 2024-01-01", got)
	}

	out, err := json.Marshal(struct {
		Due Date `json:"due"`
	}{Due: task.DueDate})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"due":"2024-01-01"}` {
		t.Fatalf("marshal = %s", out)
	}
}

func TestDateRejectsGarbage(t *testing.T) {
	var d Date
	err := json.Unmarshal([]byte(`"01/02/2024"`), &d)
	if !IsDomainError(err, ErrCodeInvalid) {
		t.Fatalf("expected INVALID error, got %v", err)
	}
}

func TestNewDateTruncates(t *testing.T) {
	d := NewDate(time.Date(2024, 3, 9, 23, 59, 0, 0, time.FixedZone("x", 3600)))
	if d.String() != "2024-03-09" {
		t.Fatalf("got %s", d)
	}
	if !d.Before(MustParseDate("2024-03-10")) {
		t.Fatal("expected 2024-03-09 before 2024-03-10")
	}
}

func TestTaskValidate(t *testing.T) {
	blank := "  "
	tests := []struct {
		name    string
		task    Task
		wantErr bool
	}{
		{name: "ok", task: Task{Title: "Buy milk", DueDate: MustParseDate("2024-01-01")}},
		{name: "blank title", task: Task{Title: "   ", DueDate: MustParseDate("2024-01-01")}, wantErr: true},
		{name: "no date", task: Task{Title: "Buy milk"}, wantErr: true},
		{name: "blank category", task: Task{Title: "a", DueDate: MustParseDate("2024-01-01"), CategoryID: &blank}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := tt.task
			err := task.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && task.CategoryID != nil && *task.CategoryID == "" {
				t.Fatal("blank category id should be normalized to nil")
			}
		})
	}
}

func TestTaskValidateTrimsTitle(t *testing.T) {
	task := Task{Title: "  Buy milk \t", DueDate: MustParseDate("2024-01-01")}
	if err := task.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if task.Title != "Buy milk" {
		t.Fatalf("title = %q, want trimmed", task.Title)
	}
}

func TestCategoryValidateTrims(t *testing.T) {
	c := Category{Name: "  Work "}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if c.Name != "Work" {
		t.Fatalf("name = %q", c.Name)
	}
	if err := (&Category{Name: " "}).Validate(); !IsDomainError(err, ErrCodeInvalid) {
		t.Fatalf("expected INVALID, got %v", err)
	}
}

func TestIsDomainErrorWrapped(t *testing.T) {
	err := WrapError(ErrCodeInternal, "db down", errors.New("boom"))
	wrapped := errors.Join(errors.New("context"), err)
	if !IsDomainError(wrapped, ErrCodeInternal) {
		t.Fatal("expected wrapped domain error to be detected")
	}
	if IsDomainError(errors.New("plain"), ErrCodeInternal) {
		t.Fatal("plain error must not match")
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Ana@Example.COM "); got != "ana@example.com" {
		t.Fatalf("got %q", got)
	}
}
