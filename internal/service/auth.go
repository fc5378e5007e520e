package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/stockmaster/inventory-app/internal/events"
	"github.com/stockmaster/inventory-app/internal/hash"
	"github.com/stockmaster/inventory-app/internal/logging"
	"github.com/stockmaster/inventory-app/internal/models"
	"github.com/stockmaster/inventory-app/internal/repo"
)

// AuthService owns the credential contract: bcrypt hashing on signup,
// verification on login. It never returns or logs a password hash.
type AuthService struct {
	Repo     *repo.GormRepo
	Producer *events.Producer
}

// Account is what auth operations hand back to callers: the identifier and
// the username, nothing derived from the password.
type Account struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

func (s *AuthService) SignUp(ctx context.Context, username, password string) (*Account, error) {
	l := logging.FromContext(ctx).With("svc", "auth.signup")

	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required: %w", ErrValidation)
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("signup_failed", "status", 500, "reason", "cannot hash password", "error", err)
		return nil, err
	}

	user := models.User{
		Username:     username,
		PasswordHash: pwHash,
	}
	if err := s.Repo.CreateUserIfNotExists(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExists) {
			l.Warn("signup_failed", "status", 400, "reason", "username taken", "username", username)
			return nil, fmt.Errorf("username %q: %w", username, ErrUserExists)
		}
		l.Error("signup_failed", "status", 500, "error", err)
		return nil, err
	}

	s.publish(ctx, events.TopicUserEvents, user.ID, map[string]any{
		"type":     "user_registered",
		"user_id":  user.ID,
		"username": user.Username,
	})

	return &Account{ID: user.ID, Username: user.Username}, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*Account, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	user, err := s.Repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "unknown username")
			return nil, fmt.Errorf("username %q: %w", username, ErrUserNotFound)
		}
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "password mismatch")
		return nil, ErrInvalidCredentials
	}

	s.publish(ctx, events.TopicUserEvents, user.ID, map[string]any{
		"type":     "user_logged_in",
		"user_id":  user.ID,
		"username": user.Username,
	})

	return &Account{ID: user.ID, Username: user.Username}, nil
}

func (s *AuthService) publish(ctx context.Context, topic string, userID uint, event map[string]any) {
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Producer.PublishEvent(pubCtx, topic, fmt.Sprint(userID), event); err != nil {
		logging.FromContext(ctx).Error("event_publish_failed", "topic", topic, "error", err)
	}
}
