package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/ZicoForREAL/fullstackAPP/internal/models"
	"github.com/ZicoForREAL/fullstackAPP/internal/repository"
	"github.com/ZicoForREAL/fullstackAPP/pkg/utils"
	"github.com/rs/zerolog"
)

var (
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

const minPasswordLength = 8

type userStore interface {
	Users() repository.UserRepository
}

type AccountService struct {
	store  userStore
	logger zerolog.Logger
}

func NewAccountService(store userStore, logger zerolog.Logger) *AccountService {
	return &AccountService{store: store, logger: logger}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// Register creates a coach or client account. Admins are only provisioned
// through EnsureAdmin.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	errs := ValidationErrors{}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		errs.Add("name", required("name"))
	} else if utf8.RuneCountInString(name) > maxTitleLength {
		errs.Add("name", "The name field must not be greater than 255 characters.")
	}

	email, err := NormalizeEmail(input.Email)
	if err != nil {
		errs.Add("email", "The email field must be a valid email address.")
	}

	if len(input.Password) < minPasswordLength {
		errs.Add("password", "The password field must be at least 8 characters.")
	}

	role, ok := models.ParseRole(input.Role)
	if !ok || role == models.RoleAdmin {
		errs.Add("role", "The selected role is invalid.")
	}

	if err := errs.orNil(); err != nil {
		return nil, err
	}

	return s.create(ctx, name, email, input.Password, role)
}

func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.store.Users().GetByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !utils.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *AccountService) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// EnsureAdmin creates the bootstrap administrator unless an account with the
// email already exists. It reports whether a new account was created.
func (s *AccountService) EnsureAdmin(ctx context.Context, name, email, password string) (bool, error) {
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return false, fmt.Errorf("default admin email: %w", err)
	}
	if len(password) < minPasswordLength {
		return false, fmt.Errorf("default admin password must be at least %d characters", minPasswordLength)
	}
	if strings.TrimSpace(name) == "" {
		name = "Administrator"
	}

	if _, err := s.store.Users().GetByEmail(ctx, normalized); err == nil {
		return false, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return false, fmt.Errorf("lookup default admin: %w", err)
	}

	if _, err := s.create(ctx, strings.TrimSpace(name), normalized, password, models.RoleAdmin); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return false, nil
		}
		return false, err
	}
	s.logger.Info().Str("email", normalized).Msg("default admin account created")
	return true, nil
}

func (s *AccountService) create(ctx context.Context, name, email, password string, role models.Role) (*models.User, error) {
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.store.Users().Create(ctx, repository.CreateUserInput{
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func NormalizeEmail(value string) (string, error) {
	parsed, err := mail.ParseAddress(strings.TrimSpace(value))
	if err != nil {
		return "", err
	}
	return strings.ToLower(parsed.Address), nil
}
