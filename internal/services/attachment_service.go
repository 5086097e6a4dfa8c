package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/harukisb/todo-tracking-api/internal/logger"
	"github.com/harukisb/todo-tracking-api/internal/models"
	"github.com/harukisb/todo-tracking-api/internal/policy"
	"github.com/harukisb/todo-tracking-api/internal/repository"
	"github.com/harukisb/todo-tracking-api/internal/utils"
	"gorm.io/gorm"
)

var ErrNoFilesUploaded = errors.New("no files uploaded")

// AttachmentService stores uploaded files under generated names and links
// them to todos.
type AttachmentService struct {
	todoRepo  repository.TodoRepository
	uploadDir string
}

// NewAttachmentService creates a new AttachmentService
func NewAttachmentService(todoRepo repository.TodoRepository, uploadDir string) *AttachmentService {
	return &AttachmentService{
		todoRepo:  todoRepo,
		uploadDir: uploadDir,
	}
}

// SaveFiles persists each uploaded file under a collision-resistant generated
// name and records the attachments on the todo. The actor must be allowed to
// read the todo. Returns the generated names in upload order.
func (s *AttachmentService) SaveFiles(actor policy.Actor, todoID uint64, files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 {
		return nil, ErrNoFilesUploaded
	}

	todo, err := s.todoRepo.FindByID(todoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to find todo: %w", err)
	}

	if !policy.CanUpload(actor, todo) {
		return nil, ErrTodoPermissionDenied
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	fileNames := make([]string, 0, len(files))
	attachments := make([]models.Attachment, 0, len(files))

	for _, fh := range files {
		name, err := utils.GenerateStorageName(fh.Filename)
		if err != nil {
			return nil, fmt.Errorf("failed to generate storage name: %w", err)
		}

		if err := s.writeFile(fh, filepath.Join(s.uploadDir, name)); err != nil {
			return nil, fmt.Errorf("failed to store %s: %w", fh.Filename, err)
		}

		fileNames = append(fileNames, name)
		attachments = append(attachments, models.Attachment{
			TodoID:       todo.ID,
			FileName:     name,
			OriginalName: fh.Filename,
		})
	}

	if err := s.todoRepo.AddAttachments(attachments); err != nil {
		// File writes are not transactional with the record insert; remove
		// what was written so a failed upload leaves no orphans.
		s.RemoveFiles(fileNames)
		return nil, fmt.Errorf("failed to record attachments: %w", err)
	}

	return fileNames, nil
}

// RemoveFiles deletes stored files, logging failures instead of aborting.
func (s *AttachmentService) RemoveFiles(fileNames []string) {
	for _, name := range fileNames {
		path := filepath.Join(s.uploadDir, filepath.Base(name))
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Warningf("failed to remove attachment file %s: %v", path, err)
		}
	}
}

func (s *AttachmentService) writeFile(fh *multipart.FileHeader, dst string) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, src)
	return err
}
