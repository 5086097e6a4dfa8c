package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harukisb/todo-tracking-api/internal/dto"
	apierrors "github.com/harukisb/todo-tracking-api/internal/errors"
	"github.com/harukisb/todo-tracking-api/internal/logger"
	"github.com/harukisb/todo-tracking-api/internal/middleware"
	"github.com/harukisb/todo-tracking-api/internal/services"
	"github.com/harukisb/todo-tracking-api/internal/utils"
)

const dateLayout = "2006-01-02"

// TodoHandler coordinates todo HTTP handlers.
type TodoHandler struct {
	todoService       *services.TodoService
	attachmentService *services.AttachmentService
}

// NewTodoHandler creates a new TodoHandler
func NewTodoHandler(todoService *services.TodoService, attachmentService *services.AttachmentService) *TodoHandler {
	return &TodoHandler{
		todoService:       todoService,
		attachmentService: attachmentService,
	}
}

// ListTodos returns the todos visible to the current user, filtered by an
// inclusive due-date window and a case-insensitive search over title and
// description, one page at a time ordered by due date.
func (h *TodoHandler) ListTodos(c *gin.Context) {
	actor, exists := middleware.GetIdentity(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	input := services.ListTodosInput{
		Actor:  actor,
		Search: c.Query("search"),
	}

	if raw := c.Query("startDate"); raw != "" {
		from, err := time.Parse(dateLayout, raw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid startDate, expected YYYY-MM-DD")
			return
		}
		input.DueDateFrom = &from
	}
	if raw := c.Query("endDate"); raw != "" {
		to, err := time.Parse(dateLayout, raw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid endDate, expected YYYY-MM-DD")
			return
		}
		// Inclusive window: cover the whole end day.
		endOfDay := to.Add(24*time.Hour - time.Nanosecond)
		input.DueDateTo = &endOfDay
	}

	params := utils.GetPaginationParams(c)
	input.Page = params.Page
	input.PageSize = params.PageSize

	todos, count, err := h.todoService.ListTodos(input)
	if err != nil {
		logger.Errorf("list todos: %v", err)
		apierrors.InternalError(c, "Failed to fetch todos")
		return
	}

	c.JSON(http.StatusOK, dto.ToTodoListResponse(todos, count))
}

// CreateTodo creates a new todo assigned per the access policy.
func (h *TodoHandler) CreateTodo(c *gin.Context) {
	actor, exists := middleware.GetIdentity(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTodoRequest struct {
		Title       string     `json:"title" binding:"required"`
		Description string     `json:"description"`
		AssignedTo  uint64     `json:"assignedTo"`
		DueDate     *time.Time `json:"dueDate"`
	}

	var req CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	todo, err := h.todoService.CreateTodo(services.CreateTodoInput{
		Actor:       actor,
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		DueDate:     req.DueDate,
	})
	if err != nil {
		respondTodoError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTodoDTO(*todo))
}

// UpdateCompletion toggles the completed flag of a todo.
func (h *TodoHandler) UpdateCompletion(c *gin.Context) {
	actor, exists := middleware.GetIdentity(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	todoID, ok := parseIDParam(c)
	if !ok {
		return
	}

	type UpdateCompletionRequest struct {
		Completed *bool `json:"completed" binding:"required"`
	}

	var req UpdateCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	todo, err := h.todoService.UpdateCompletion(actor, todoID, *req.Completed)
	if err != nil {
		respondTodoError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTodoDTO(*todo))
}

// DeleteTodo removes a todo and its stored attachment files.
func (h *TodoHandler) DeleteTodo(c *gin.Context) {
	actor, exists := middleware.GetIdentity(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	todoID, ok := parseIDParam(c)
	if !ok {
		return
	}

	fileNames, err := h.todoService.DeleteTodo(actor, todoID)
	if err != nil {
		respondTodoError(c, err)
		return
	}

	h.attachmentService.RemoveFiles(fileNames)

	c.Status(http.StatusNoContent)
}

// Upload attaches one or more files to a todo.
func (h *TodoHandler) Upload(c *gin.Context) {
	actor, exists := middleware.GetIdentity(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	todoID, ok := parseIDParam(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		apierrors.BadRequest(c, "Invalid multipart form")
		return
	}

	fileNames, err := h.attachmentService.SaveFiles(actor, todoID, form.File["files"])
	if err != nil {
		respondTodoError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UploadResponse{FileNames: fileNames})
}

func parseIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid todo ID")
		return 0, false
	}
	return id, true
}

func respondTodoError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrAssigneeNotFound),
		errors.Is(err, services.ErrNoFilesUploaded):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrTodoPermissionDenied):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrTodoNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		logger.Errorf("todo handler: %v", err)
		apierrors.InternalError(c, "")
	}
}
