package repository

import (
	"github.com/harukisb/todo-tracking-api/internal/database"
	"github.com/harukisb/todo-tracking-api/internal/models"
	"github.com/harukisb/todo-tracking-api/internal/utils"
	"gorm.io/gorm"
)

// GormTodoRepository is a GORM implementation of TodoRepository
type GormTodoRepository struct {
	db *gorm.DB
}

// NewTodoRepository creates a new TodoRepository
func NewTodoRepository(db *gorm.DB) TodoRepository {
	return &GormTodoRepository{db: db}
}

// Create creates a new todo
func (r *GormTodoRepository) Create(todo *models.Todo) error {
	return r.db.Create(todo).Error
}

// FindByID finds a todo by ID with optional preloading
func (r *GormTodoRepository) FindByID(id uint64, preload ...string) (*models.Todo, error) {
	var todo models.Todo
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&todo, id).Error; err != nil {
		return nil, err
	}

	return &todo, nil
}

// List retrieves todos with filtering and pagination, ordered by due date
// ascending with undated todos last.
func (r *GormTodoRepository) List(filter TodoFilter) ([]models.Todo, int64, error) {
	var todos []models.Todo

	query := r.db.Model(&models.Todo{})

	if filter.ViewerID != nil {
		query = query.Where("todos.assigned_to = ? OR todos.created_by = ?", *filter.ViewerID, *filter.ViewerID)
	}
	if filter.DueDateFrom != nil {
		query = query.Where("todos.due_date >= ?", *filter.DueDateFrom)
	}
	if filter.DueDateTo != nil {
		query = query.Where("todos.due_date <= ?", *filter.DueDateTo)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("LOWER(todos.title) LIKE LOWER(?) OR LOWER(todos.description) LIKE LOWER(?)", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("CASE WHEN todos.due_date IS NULL THEN 1 ELSE 0 END, todos.due_date ASC, todos.id ASC")

	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			Offset:   (filter.Page - 1) * filter.PageSize,
		}))
	}

	if err := listQuery.Preload("Assignee").Preload("Creator").Preload("Attachments").Find(&todos).Error; err != nil {
		return nil, 0, err
	}

	return todos, total, nil
}

// Update updates a todo
func (r *GormTodoRepository) Update(todo *models.Todo) error {
	return r.db.Save(todo).Error
}

// Delete removes a todo together with its attachment records in one
// transaction and returns the stored file names so the caller can clean up
// the files on disk.
func (r *GormTodoRepository) Delete(id uint64) ([]string, error) {
	var fileNames []string

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var attachments []models.Attachment
		if err := tx.Where("todo_id = ?", id).Find(&attachments).Error; err != nil {
			return err
		}
		for _, a := range attachments {
			fileNames = append(fileNames, a.FileName)
		}

		if err := tx.Where("todo_id = ?", id).Delete(&models.Attachment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Todo{}, id).Error
	})
	if err != nil {
		return nil, err
	}

	return fileNames, nil
}

// AddAttachments links attachment records to a todo
func (r *GormTodoRepository) AddAttachments(attachments []models.Attachment) error {
	return r.db.Create(&attachments).Error
}

// ListAttachments returns the attachments of a todo ordered by creation
func (r *GormTodoRepository) ListAttachments(todoID uint64) ([]models.Attachment, error) {
	var attachments []models.Attachment
	if err := r.db.Where("todo_id = ?", todoID).Order("id ASC").Find(&attachments).Error; err != nil {
		return nil, err
	}
	return attachments, nil
}
