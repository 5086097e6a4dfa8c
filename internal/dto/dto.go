package dto

import (
	"time"

	"github.com/harukisb/todo-tracking-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64      `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     models.Role `json:"role"`
}

// LoginResponse is returned after successful authentication
type LoginResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// AttachmentDTO represents an attachment in API responses
type AttachmentDTO struct {
	ID           uint64    `json:"id"`
	FileName     string    `json:"file_name"`
	OriginalName string    `json:"original_name"`
	CreatedAt    time.Time `json:"created_at"`
}

// TodoDTO represents a todo in API responses
type TodoDTO struct {
	ID          uint64          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Completed   bool            `json:"completed"`
	AssignedTo  uint64          `json:"assigned_to"`
	CreatedBy   uint64          `json:"created_by"`
	DueDate     *time.Time      `json:"due_date"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Assignee    *UserDTO        `json:"assignee,omitempty"`
	Creator     *UserDTO        `json:"creator,omitempty"`
	Attachments []AttachmentDTO `json:"attachments,omitempty"`
}

// TodoListResponse is one page of todos plus the total matching count
type TodoListResponse struct {
	Count int64     `json:"count"`
	Todos []TodoDTO `json:"todos"`
}

// UploadResponse lists the generated storage names of uploaded files
type UploadResponse struct {
	FileNames []string `json:"fileNames"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}
}

// ToAttachmentDTO converts an Attachment model to AttachmentDTO
func ToAttachmentDTO(attachment models.Attachment) AttachmentDTO {
	return AttachmentDTO{
		ID:           attachment.ID,
		FileName:     attachment.FileName,
		OriginalName: attachment.OriginalName,
		CreatedAt:    attachment.CreatedAt,
	}
}

// ToTodoDTO converts a Todo model to TodoDTO
func ToTodoDTO(todo models.Todo) TodoDTO {
	dto := TodoDTO{
		ID:          todo.ID,
		Title:       todo.Title,
		Description: todo.Description,
		Completed:   todo.Completed,
		AssignedTo:  todo.AssignedTo,
		CreatedBy:   todo.CreatedBy,
		DueDate:     todo.DueDate,
		CreatedAt:   todo.CreatedAt,
		UpdatedAt:   todo.UpdatedAt,
	}

	// Include assignee and creator if preloaded
	if todo.Assignee.ID != 0 {
		assignee := ToUserDTO(todo.Assignee)
		dto.Assignee = &assignee
	}
	if todo.Creator.ID != 0 {
		creator := ToUserDTO(todo.Creator)
		dto.Creator = &creator
	}

	if len(todo.Attachments) > 0 {
		dto.Attachments = make([]AttachmentDTO, len(todo.Attachments))
		for i, attachment := range todo.Attachments {
			dto.Attachments[i] = ToAttachmentDTO(attachment)
		}
	}

	return dto
}

// ToTodoListResponse converts a page of todos to TodoListResponse
func ToTodoListResponse(todos []models.Todo, count int64) TodoListResponse {
	items := make([]TodoDTO, len(todos))
	for i, todo := range todos {
		items[i] = ToTodoDTO(todo)
	}

	return TodoListResponse{
		Count: count,
		Todos: items,
	}
}
