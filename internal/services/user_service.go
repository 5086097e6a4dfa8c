package services

import (
	"errors"
	"fmt"

	"github.com/harukisb/todo-tracking-api/internal/models"
	"github.com/harukisb/todo-tracking-api/internal/policy"
	"github.com/harukisb/todo-tracking-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrInvalidRole = errors.New("role must be admin or user")
	ErrNotAdmin    = errors.New("only admins can manage users")
)

// UserService handles account administration.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ListUsers returns all accounts. Admin only.
func (s *UserService) ListUsers(actor policy.Actor) ([]models.User, error) {
	if !policy.CanManageUsers(actor) {
		return nil, ErrNotAdmin
	}

	users, err := s.userRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

// UpdateRole changes a user's role. Admin only; the target must exist and the
// role must be a known value. Nothing is mutated on a failed check.
func (s *UserService) UpdateRole(actor policy.Actor, userID uint64, role models.Role) (*models.User, error) {
	if !policy.CanManageUsers(actor) {
		return nil, ErrNotAdmin
	}

	if !role.IsValid() {
		return nil, ErrInvalidRole
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	user.Role = role

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}
