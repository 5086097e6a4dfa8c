package repository

import (
	"time"

	"github.com/harukisb/todo-tracking-api/internal/models"
)

// TodoRepository defines the interface for todo data access
type TodoRepository interface {
	// Create creates a new todo
	Create(todo *models.Todo) error

	// FindByID finds a todo by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Todo, error)

	// List retrieves todos with filtering and pagination
	List(filter TodoFilter) ([]models.Todo, int64, error)

	// Update updates a todo
	Update(todo *models.Todo) error

	// Delete removes a todo and its attachment records, returning the
	// stored file names of the removed attachments
	Delete(id uint64) ([]string, error)

	// AddAttachments links attachment records to a todo
	AddAttachments(attachments []models.Attachment) error

	// ListAttachments returns the attachments of a todo ordered by creation
	ListAttachments(todoID uint64) ([]models.Attachment, error)
}

// TodoFilter holds filtering options for listing todos
type TodoFilter struct {
	// ViewerID scopes results to todos the viewer is assigned to or created.
	// Nil means no scoping (admin).
	ViewerID    *uint64
	DueDateFrom *time.Time
	DueDateTo   *time.Time
	Search      string
	Page        int
	PageSize    int
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// List returns all users
	List() ([]models.User, error)

	// Update updates a user
	Update(user *models.User) error
}
