package cli

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fastygo/taskboard/internal/app/session"
	"github.com/fastygo/taskboard/internal/app/view"
)

const (
	formatText = "text"
	formatYAML = "yaml"

	shortIDLen = 8
)

type sessionOut struct {
	Status string `yaml:"status"`
	Email  string `yaml:"email,omitempty"`
	UserID string `yaml:"user_id,omitempty"`
}

type categoryOut struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Editing bool   `yaml:"editing,omitempty"`
	Draft   string `yaml:"draft,omitempty"`
}

type taskOut struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
	DueDate     string `yaml:"due_date"`
	Completed   bool   `yaml:"completed"`
	CategoryID  string `yaml:"category_id,omitempty"`
	Editing     bool   `yaml:"editing,omitempty"`
}

type columnOut struct {
	CategoryID string    `yaml:"category_id,omitempty"`
	Title      string    `yaml:"title"`
	Tasks      []taskOut `yaml:"tasks"`
}

type renderer struct {
	out    io.Writer
	format string
}

func (r renderer) yaml(v interface{}) error {
	enc := yaml.NewEncoder(r.out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func (r renderer) session(state session.State) error {
	out := sessionOut{Status: state.Status.String()}
	if state.User != nil {
		out.Email = state.User.Email
		out.UserID = state.User.ID
	}
	if r.format == formatYAML {
		return r.yaml(out)
	}
	switch state.Status {
	case session.Present:
		fmt.Fprintf(r.out, "Signed in as %s\n", out.Email)
	case session.Absent:
		fmt.Fprintln(r.out, "Not signed in")
	default:
		fmt.Fprintln(r.out, "Checking session...")
	}
	return nil
}

func (r renderer) categories(v *view.CategoryView) error {
	rows := v.Rows()
	out := make([]categoryOut, 0, len(rows))
	for _, row := range rows {
		out = append(out, categoryOut{
			ID:      row.Category.ID,
			Name:    row.Category.Name,
			Editing: row.Editing,
			Draft:   row.Draft,
		})
	}
	if r.format == formatYAML {
		return r.yaml(out)
	}

	switch v.Phase() {
	case view.PhaseLoading:
		fmt.Fprintln(r.out, "Loading...")
		return nil
	case view.PhaseUnauthorized:
		fmt.Fprintln(r.out, v.Message())
		return nil
	}
	fmt.Fprintf(r.out, "Categories (%d)\n", len(out))
	if len(out) == 0 {
		fmt.Fprintln(r.out, "  no categories yet")
	}
	for _, c := range out {
		line := fmt.Sprintf("  %s  %s", shortID(c.ID), c.Name)
		if c.Editing {
			line += fmt.Sprintf("  [editing: %q]", c.Draft)
		}
		fmt.Fprintln(r.out, line)
	}
	return nil
}

func (r renderer) board(b *view.TaskBoard) error {
	editing := make(map[string]bool)
	for _, card := range b.Cards() {
		editing[card.Task.ID] = card.Editing
	}

	columns := b.Columns()
	out := make([]columnOut, 0, len(columns))
	for _, col := range columns {
		c := columnOut{Title: col.Title, Tasks: make([]taskOut, 0, len(col.Tasks))}
		if col.CategoryID != nil {
			c.CategoryID = *col.CategoryID
		}
		for _, t := range col.Tasks {
			item := taskOut{
				ID:          t.ID,
				Title:       t.Title,
				Description: t.Description,
				DueDate:     t.DueDate.String(),
				Completed:   t.Completed,
				Editing:     editing[t.ID],
			}
			if t.CategoryID != nil {
				item.CategoryID = *t.CategoryID
			}
			c.Tasks = append(c.Tasks, item)
		}
		out = append(out, c)
	}
	if r.format == formatYAML {
		return r.yaml(out)
	}

	switch b.Phase() {
	case view.PhaseLoading:
		fmt.Fprintln(r.out, "Loading...")
		return nil
	case view.PhaseUnauthorized:
		fmt.Fprintln(r.out, b.Message())
		return nil
	case view.PhaseEmpty:
		fmt.Fprintln(r.out, "No tasks yet")
		return nil
	}
	for _, col := range out {
		fmt.Fprintf(r.out, "== %s (%d) ==\n", col.Title, len(col.Tasks))
		for _, t := range col.Tasks {
			mark := " "
			if t.Completed {
				mark = "x"
			}
			line := fmt.Sprintf("  [%s] %s  %s  due %s", mark, shortID(t.ID), t.Title, t.DueDate)
			if t.Editing {
				line += "  [editing]"
			}
			fmt.Fprintln(r.out, line)
			if t.Description != "" {
				fmt.Fprintf(r.out, "        %s\n", strings.ReplaceAll(t.Description, "\n", "\n        "))
			}
		}
	}
	return nil
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}
