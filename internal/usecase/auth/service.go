package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	errs "github.com/trackteam/action-tracker/errors"
	"github.com/trackteam/action-tracker/internal/domain/entities"
	"github.com/trackteam/action-tracker/internal/domain/repositories"
	"github.com/trackteam/action-tracker/pkg/jwt"
)

// TokenPair is the result of a successful registration or login
type TokenPair struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// Service handles registration, login, and user administration
type Service interface {
	Register(ctx context.Context, email, password, name string, role entities.UserRole) (*entities.User, *TokenPair, error)
	Login(ctx context.Context, email, password string) (*entities.User, *TokenPair, error)
	Me(ctx context.Context, userID uuid.UUID) (*entities.User, error)

	ListUsers(ctx context.Context) ([]*entities.PublicUser, error)
	UpdateRole(ctx context.Context, userID uuid.UUID, role entities.UserRole) (*entities.User, error)
	ResetPassword(ctx context.Context, userID uuid.UUID, password string) (*entities.User, error)
}

type service struct {
	userRepo   repositories.UserRepository
	jwtManager *jwt.Manager
	logger     *zap.Logger
}

// NewService constructs the auth service
func NewService(userRepo repositories.UserRepository, jwtManager *jwt.Manager, logger *zap.Logger) Service {
	return &service{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		logger:     logger,
	}
}

// Register creates a user and returns tokens. The display name falls back to
// the email local part; the role must be one of the known roles.
func (s *service) Register(ctx context.Context, email, password, name string, role entities.UserRole) (*entities.User, *TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, nil, errs.ErrInvalidArgument("email and password are required")
	}
	if len(password) < 6 {
		return nil, nil, errs.ErrInvalidArgument("password must be at least 6 characters")
	}
	if !role.IsValid() {
		return nil, nil, errs.ErrInvalidArgument("invalid role")
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, nil, errs.ErrUserAlreadyExists(email)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) && !errors.Is(err, entities.ErrUserNotFound) {
		return nil, nil, errs.ErrDBQueryFailed("users.find_by_email", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, errs.ErrInternal(err)
	}

	user := entities.NewUser(email, strings.TrimSpace(name), role)
	user.PasswordHash = string(hash)

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, nil, errs.ErrDBQueryFailed("users.create", err)
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))
	return user, tokens, nil
}

// Login verifies credentials and returns tokens. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *service) Login(ctx context.Context, email, password string) (*entities.User, *TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, nil, errs.ErrInvalidArgument("email and password are required")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, entities.ErrUserNotFound) {
			return nil, nil, errs.ErrInvalidCredentials()
		}
		return nil, nil, errs.ErrDBQueryFailed("users.find_by_email", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil, errs.ErrInvalidCredentials()
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// Me returns the user behind an authenticated id
func (s *service) Me(ctx context.Context, userID uuid.UUID) (*entities.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, entities.ErrUserNotFound) {
			return nil, errs.ErrUserNotFound()
		}
		return nil, errs.ErrDBQueryFailed("users.find", err)
	}
	return user, nil
}

// ListUsers returns every user without password hashes. The admin check
// happens in the routing layer.
func (s *service) ListUsers(ctx context.Context) ([]*entities.PublicUser, error) {
	users, err := s.userRepo.Snapshot(ctx)
	if err != nil {
		return nil, errs.ErrDBQueryFailed("users.snapshot", err)
	}
	out := make([]*entities.PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].ToPublic())
	}
	return out, nil
}

// UpdateRole changes a user's role. Admin only, enforced by the router.
func (s *service) UpdateRole(ctx context.Context, userID uuid.UUID, role entities.UserRole) (*entities.User, error) {
	if !role.IsValid() {
		return nil, errs.ErrInvalidArgument("invalid role")
	}

	user, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Role = role
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, errs.ErrDBQueryFailed("users.update", err)
	}

	s.logger.Info("user role updated",
		zap.String("user_id", userID.String()),
		zap.String("role", string(role)))
	return user, nil
}

// ResetPassword sets a new password for a user. Admin only, enforced by the
// router.
func (s *service) ResetPassword(ctx context.Context, userID uuid.UUID, password string) (*entities.User, error) {
	if len(strings.TrimSpace(password)) < 6 {
		return nil, errs.ErrInvalidArgument("password must be at least 6 characters")
	}

	user, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errs.ErrInternal(err)
	}
	user.PasswordHash = string(hash)

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, errs.ErrDBQueryFailed("users.update", err)
	}

	s.logger.Info("user password reset", zap.String("user_id", userID.String()))
	return user, nil
}

func (s *service) issueTokens(user *entities.User) (*TokenPair, error) {
	access, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, errs.ErrInternal(err)
	}
	refresh, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, errs.ErrInternal(err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
