package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/fastygo/taskboard/api/transport"
	"github.com/fastygo/taskboard/domain"
)

// TaskInput is the full editable row of a task.
type TaskInput struct {
	Title       string
	Description string
	DueDate     domain.Date
	Completed   bool
	CategoryID  *string
}

func (in TaskInput) request(userID string) transport.TaskRequest {
	req := transport.TaskRequest{
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Completed:   in.Completed,
		CategoryID:  domain.NormalizeID(in.CategoryID),
	}
	if !in.DueDate.IsZero() {
		req.DueDate = in.DueDate.String()
	}
	return req
}

func ownerQuery(path, userID string) string {
	return path + "?" + url.Values{"user_id": {userID}}.Encode()
}

// ListCategories returns the owner's categories ordered by name.
func (c *Client) ListCategories(ctx context.Context, userID string) ([]domain.Category, error) {
	categories := []domain.Category{}
	if err := c.do(ctx, http.MethodGet, ownerQuery("/api/v1/categories", userID), nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) CreateCategory(ctx context.Context, userID, name string) (*domain.Category, error) {
	var category domain.Category
	req := transport.CategoryRequest{UserID: userID, Name: name}
	if err := c.do(ctx, http.MethodPost, "/api/v1/categories", req, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id, name string) (*domain.Category, error) {
	var category domain.Category
	req := transport.CategoryRequest{Name: name}
	if err := c.do(ctx, http.MethodPut, "/api/v1/categories/"+url.PathEscape(id), req, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/categories/"+url.PathEscape(id), nil, nil)
}

// ListTasks returns the owner's tasks ordered by due date.
func (c *Client) ListTasks(ctx context.Context, userID string) ([]domain.Task, error) {
	tasks := []domain.Task{}
	if err := c.do(ctx, http.MethodGet, ownerQuery("/api/v1/tasks", userID), nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, userID string, in TaskInput) (*domain.Task, error) {
	var task domain.Task
	if err := c.do(ctx, http.MethodPost, "/api/v1/tasks", in.request(userID), &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask replaces every editable field of the task.
func (c *Client) UpdateTask(ctx context.Context, id string, in TaskInput) (*domain.Task, error) {
	var task domain.Task
	if err := c.do(ctx, http.MethodPut, "/api/v1/tasks/"+url.PathEscape(id), in.request(""), &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/tasks/"+url.PathEscape(id), nil, nil)
}
