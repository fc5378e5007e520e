package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/stockmaster/inventory-app/internal/hash"
	"github.com/stockmaster/inventory-app/internal/logging"
	"github.com/stockmaster/inventory-app/internal/models"
	"github.com/stockmaster/inventory-app/internal/repo"
)

// UserService covers the plain user CRUD surface. Creation shares the signup
// rules, so it delegates to AuthService.
type UserService struct {
	Repo *repo.GormRepo
	Auth *AuthService
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.Repo.GetUsers(ctx)
}

func (s *UserService) Create(ctx context.Context, username, password string) (*Account, error) {
	return s.Auth.SignUp(ctx, username, password)
}

// Update replaces the username and optionally the password. A nil password
// means "leave the stored hash alone"; an empty string is rejected rather
// than treated as absent.
func (s *UserService) Update(ctx context.Context, id uint, username string, password *string) error {
	l := logging.FromContext(ctx).With("svc", "users.update", "user_id", id)

	if username == "" {
		return fmt.Errorf("username is required: %w", ErrValidation)
	}
	if password != nil && *password == "" {
		return fmt.Errorf("password must not be empty: %w", ErrValidation)
	}

	var pwHash *string
	if password != nil {
		h, err := hash.HashPassword(*password)
		if err != nil {
			l.Error("update_failed", "status", 500, "reason", "cannot hash password", "error", err)
			return err
		}
		pwHash = &h
	}

	if err := s.Repo.UpdateUser(ctx, id, username, pwHash); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return err
	}
	return nil
}

func (s *UserService) Delete(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return err
	}
	return nil
}
