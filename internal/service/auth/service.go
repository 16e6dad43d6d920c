package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mamadbah2/cctvstore/internal/apperr"
	"github.com/mamadbah2/cctvstore/internal/domain/models"
	"github.com/mamadbah2/cctvstore/internal/repository/mongodb"
	"github.com/mamadbah2/cctvstore/pkg/token"
)

const (
	minPasswordLength = 6
	// bcrypt only accepts up to 72 bytes.
	maxPasswordLength = 72
)

var (
	ErrEmailTaken         = apperr.Conflict("EMAIL_TAKEN", "a user with this email already exists")
	ErrInvalidCredentials = apperr.Unauthorized("INVALID_CREDENTIALS", "invalid email or password")
	ErrInvalidToken       = apperr.Unauthorized("INVALID_TOKEN", "authentication required")
	ErrUserNotFound       = apperr.NotFound("USER_NOT_FOUND", "user not found")
	ErrMissingFields      = apperr.Validation("MISSING_FIELDS", "name, email and password are required")
	ErrWeakPassword       = apperr.Validation("WEAK_PASSWORD", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	ErrPasswordTooLong    = apperr.Validation("PASSWORD_TOO_LONG", fmt.Sprintf("password must be at most %d bytes", maxPasswordLength))
)

// UserStore is the persistence the auth service needs.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, user models.User) error
	Delete(ctx context.Context, id string) error
}

// RegisterParams are the inputs for creating an account.
type RegisterParams struct {
	Name     string
	Email    string
	Password string
}

// UpdateUserParams carries optional profile changes; nil fields are kept.
type UpdateUserParams struct {
	Name     *string
	Email    *string
	Password *string
}

// Service implements registration, login and user administration.
type Service struct {
	users  UserStore
	tokens *token.Manager
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a new auth service instance.
func NewService(users UserStore, tokens *token.Manager, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{users: users, tokens: tokens, logger: logger, now: time.Now}
}

// Register creates a user account. It backs both self sign-up and admin add.
func (s *Service) Register(ctx context.Context, params RegisterParams) (models.User, error) {
	name := strings.TrimSpace(params.Name)
	email := normalizeEmail(params.Email)
	if name == "" || email == "" || params.Password == "" {
		return models.User{}, ErrMissingFields
	}
	if err := checkPassword(params.Password); err != nil {
		return models.User{}, err
	}

	hash, err := hashPassword(params.Password)
	if err != nil {
		return models.User{}, apperr.Internal(err)
	}

	now := s.now().UTC()
	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, mongodb.ErrDuplicate) {
			return models.User{}, ErrEmailTaken.Wrap(err)
		}
		return models.User{}, apperr.Internal(fmt.Errorf("create user: %w", err))
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID.Hex()))
	return user, nil
}

// Login verifies credentials and issues a session token.
func (s *Service) Login(ctx context.Context, email, password string) (models.User, string, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return models.User{}, "", ErrInvalidCredentials
		}
		return models.User{}, "", apperr.Internal(fmt.Errorf("find user: %w", err))
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.logger.Warn("login rejected", zap.String("user_id", user.ID.Hex()))
		return models.User{}, "", ErrInvalidCredentials
	}

	signed, err := s.tokens.Generate(user.ID.Hex(), user.Email)
	if err != nil {
		return models.User{}, "", apperr.Internal(err)
	}

	return user, signed, nil
}

// Authenticate validates a session token.
func (s *Service) Authenticate(tokenString string) (*token.Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}
	claims, err := s.tokens.Validate(tokenString)
	if err != nil {
		return nil, ErrInvalidToken.Wrap(err)
	}
	return claims, nil
}

// TokenTTL is the lifetime of issued session tokens.
func (s *Service) TokenTTL() time.Duration {
	return s.tokens.TTL()
}

func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return users, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return models.User{}, userError(err)
	}
	return user, nil
}

// UpdateUser applies profile edits. A new password is re-hashed.
func (s *Service) UpdateUser(ctx context.Context, id string, params UpdateUserParams) (models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return models.User{}, userError(err)
	}

	if params.Name != nil {
		if name := strings.TrimSpace(*params.Name); name != "" {
			user.Name = name
		}
	}
	if params.Email != nil {
		if email := normalizeEmail(*params.Email); email != "" {
			user.Email = email
		}
	}
	if params.Password != nil && *params.Password != "" {
		if err := checkPassword(*params.Password); err != nil {
			return models.User{}, err
		}
		hash, err := hashPassword(*params.Password)
		if err != nil {
			return models.User{}, apperr.Internal(err)
		}
		user.PasswordHash = hash
	}
	user.UpdatedAt = s.now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, mongodb.ErrDuplicate) {
			return models.User{}, ErrEmailTaken.Wrap(err)
		}
		return models.User{}, userError(err)
	}
	return user, nil
}

func (s *Service) DeleteUser(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return userError(err)
	}
	s.logger.Info("user deleted", zap.String("user_id", id))
	return nil
}

func userError(err error) error {
	if errors.Is(err, mongodb.ErrNotFound) {
		return ErrUserNotFound.Wrap(err)
	}
	return apperr.Internal(err)
}

func checkPassword(password string) error {
	switch {
	case len(password) < minPasswordLength:
		return ErrWeakPassword
	case len(password) > maxPasswordLength:
		return ErrPasswordTooLong
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
