package domain

import (
	"strings"
	"time"
)

// Category is a user-owned label tasks can be grouped by.
type Category struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate trims the name in place and rejects empty names. Duplicate names
// are allowed.
func (c *Category) Validate() error {
	if c == nil {
		return ErrInvalidPayload
	}
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return Invalid("category name is required")
	}
	return nil
}
