// Package service implements the application's business logic.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"inkwell/internal/auth"
	"inkwell/internal/cache"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/validation"
)

const takenMessage = "That user already exists."

// RegistrationService handles account creation and credential checks.
type RegistrationService struct {
	userRepo repository.UserRepository
	codec    *auth.SessionCodec
}

// RegisterInput is the raw signup form submission.
type RegisterInput struct {
	Username string
	Password string
	Verify   string
	Email    string
}

// RegisterResult is the outcome of a successful registration: the persisted
// user and a session token already bound to it.
type RegisterResult struct {
	User  *models.User
	Token string
}

// NewRegistrationService creates a new registration service.
func NewRegistrationService(userRepo repository.UserRepository, codec *auth.SessionCodec) *RegistrationService {
	return &RegistrationService{userRepo: userRepo, codec: codec}
}

// takenConflict is the uniform "username already taken" rejection, whether
// the duplicate was found in the store or inferred from the advisory marker.
func takenConflict() *models.AppError {
	conflict := models.NewConflictError(takenMessage)
	conflict.Fields = map[string]string{"username": takenMessage}
	return conflict
}

// Register validates the signup input, guards against concurrent duplicate
// registrations with the advisory Redis marker, persists the user, and issues
// a session token.
//
// All format violations are collected rather than short-circuited; the verify
// field is only evaluated when the password itself is valid. A username
// already present in the store is a conflict, not a format error. The
// advisory marker closes most of the window between the uniqueness check and
// the write: at most one concurrent registration wins it, and the loser gets
// the same conflict as an authoritative duplicate.
func (s *RegistrationService) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	fields := validation.ValidateSignup(validation.SignupInput{
		Username: in.Username,
		Password: in.Password,
		Verify:   in.Verify,
		Email:    in.Email,
	})
	if len(fields) > 0 {
		return nil, models.NewFieldValidationError(fields)
	}

	// Authoritative uniqueness check against the store.
	existing, err := s.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, fmt.Errorf("username lookup: %w", err)
	}
	if existing != nil {
		return nil, takenConflict()
	}

	lockToken, acquired, err := cache.AcquireSignupLock(ctx, in.Username)
	if err != nil {
		return nil, fmt.Errorf("signup lock: %w", err)
	}
	if !acquired {
		middleware.SignupConflicts.Inc()
		return nil, takenConflict()
	}
	defer cache.ReleaseSignupLock(ctx, in.Username, lockToken)

	user := &models.User{
		Username:     in.Username,
		PasswordHash: auth.HashPassword(in.Username, in.Password, ""),
		Email:        in.Email,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	middleware.Logger.InfoContext(ctx, "user registered", slog.String("username", user.Username))

	return &RegisterResult{
		User:  user,
		Token: s.codec.Issue(user.ID),
	}, nil
}

// Authenticate looks the user up by username and verifies the password
// against the stored hash. It returns (nil, nil) on any credential mismatch;
// there is no lockout or attempt counting.
func (s *RegistrationService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("username lookup: %w", err)
	}
	if user == nil {
		return nil, nil
	}
	if !auth.CheckPassword(username, password, user.PasswordHash) {
		return nil, nil
	}
	return user, nil
}

// IssueSession returns a signed session token for the given user.
func (s *RegistrationService) IssueSession(user *models.User) string {
	return s.codec.Issue(user.ID)
}
