package domain

import (
	"errors"
	"time"
)

// ErrCategoryAlreadyExists is returned when a create collides on the unique
// slug.
var ErrCategoryAlreadyExists = errors.New("category already exists")

// Category is a curated grouping of deals. Categories are managed through the
// admin API only; the refresh pipeline references them but never mutates them.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// UpdateCategoryRequest carries a partial category update. Nil fields are
// left untouched.
type UpdateCategoryRequest struct {
	ID       string  `json:"-"`
	Name     *string `json:"name"`
	Slug     *string `json:"slug"`
	IsActive *bool   `json:"is_active"`
}
