package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harukisb/todo-tracking-api/internal/models"
	"github.com/harukisb/todo-tracking-api/internal/policy"
	"github.com/harukisb/todo-tracking-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTitleRequired        = errors.New("title is required")
	ErrAssigneeNotFound     = errors.New("assigned user does not exist")
	ErrTodoNotFound         = errors.New("todo not found")
	ErrTodoPermissionDenied = errors.New("not permitted to perform this action on the todo")
)

// TodoService handles todo business logic. Permission checks go through the
// policy package.
type TodoService struct {
	todoRepo repository.TodoRepository
	userRepo repository.UserRepository
}

// NewTodoService creates a new TodoService
func NewTodoService(todoRepo repository.TodoRepository, userRepo repository.UserRepository) *TodoService {
	return &TodoService{
		todoRepo: todoRepo,
		userRepo: userRepo,
	}
}

// ListTodosInput represents filters for listing todos
type ListTodosInput struct {
	Actor       policy.Actor
	DueDateFrom *time.Time
	DueDateTo   *time.Time
	Search      string
	Page        int
	PageSize    int
}

// CreateTodoInput represents input for creating a todo
type CreateTodoInput struct {
	Actor       policy.Actor
	Title       string
	Description string
	AssignedTo  uint64
	DueDate     *time.Time
}

// ListTodos returns one page of todos visible to the actor plus the total
// matching count. Non-admins only ever see todos they are assigned to or
// created.
func (s *TodoService) ListTodos(input ListTodosInput) ([]models.Todo, int64, error) {
	filter := repository.TodoFilter{
		DueDateFrom: input.DueDateFrom,
		DueDateTo:   input.DueDateTo,
		Search:      input.Search,
		Page:        input.Page,
		PageSize:    input.PageSize,
	}

	if !input.Actor.IsAdmin() {
		viewerID := input.Actor.ID
		filter.ViewerID = &viewerID
	}

	todos, total, err := s.todoRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list todos: %w", err)
	}

	return todos, total, nil
}

// GetTodo returns a todo if the actor may read it.
func (s *TodoService) GetTodo(actor policy.Actor, todoID uint64) (*models.Todo, error) {
	todo, err := s.todoRepo.FindByID(todoID, "Assignee", "Creator", "Attachments")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to find todo: %w", err)
	}

	if !policy.CanRead(actor, todo) {
		return nil, ErrTodoPermissionDenied
	}

	return todo, nil
}

// CreateTodo creates a new todo. The assignee is resolved through the policy:
// non-admins are always self-assigned, admins may pick any existing user.
func (s *TodoService) CreateTodo(input CreateTodoInput) (*models.Todo, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}

	assignedTo := policy.ResolveAssignee(input.Actor, input.AssignedTo)

	if _, err := s.userRepo.FindByID(assignedTo); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssigneeNotFound
		}
		return nil, fmt.Errorf("failed to verify assignee: %w", err)
	}

	todo := &models.Todo{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		AssignedTo:  assignedTo,
		CreatedBy:   input.Actor.ID,
		DueDate:     input.DueDate,
	}

	if err := s.todoRepo.Create(todo); err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	return s.todoRepo.FindByID(todo.ID, "Assignee", "Creator")
}

// UpdateCompletion sets the completed flag if the actor is the assignee or an
// admin.
func (s *TodoService) UpdateCompletion(actor policy.Actor, todoID uint64, completed bool) (*models.Todo, error) {
	todo, err := s.todoRepo.FindByID(todoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to find todo: %w", err)
	}

	if !policy.CanUpdateCompletion(actor, todo) {
		return nil, ErrTodoPermissionDenied
	}

	todo.Completed = completed

	if err := s.todoRepo.Update(todo); err != nil {
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}

	return s.todoRepo.FindByID(todo.ID, "Assignee", "Creator", "Attachments")
}

// DeleteTodo removes a todo. Admin only. The stored attachment file names are
// returned so the caller can remove the files from disk as well.
func (s *TodoService) DeleteTodo(actor policy.Actor, todoID uint64) ([]string, error) {
	todo, err := s.todoRepo.FindByID(todoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to find todo: %w", err)
	}

	if !policy.CanDelete(actor, todo) {
		return nil, ErrTodoPermissionDenied
	}

	fileNames, err := s.todoRepo.Delete(todoID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete todo: %w", err)
	}

	return fileNames, nil
}
