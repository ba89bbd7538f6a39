package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"video-catalog/core/token"
	"video-catalog/core/validation"
	"video-catalog/feature/accounts/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrInvalidCredentials is returned by Login for unknown users and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUsernameTaken is returned when registering an existing username.
	ErrUsernameTaken = errors.New("username already exists")
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// Tokens issues and revokes session tokens.
type Tokens interface {
	Issue(subject token.Subject) (string, *token.Claims, error)
	Revoke(ctx context.Context, claims *token.Claims) error
}

// RegisterInput is the registration request body.
type RegisterInput struct {
	Username string `json:"username" validate:"required,max=150,printascii"`
	Email    string `json:"email" validate:"omitempty,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginInput is the login request body.
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Session is returned after a successful register or login.
type Session struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// Service handles account operations.
type Service struct {
	db     *gorm.DB
	tokens Tokens
	logger *zap.Logger
	cost   int
}

// NewService creates a new accounts service.
func NewService(db *gorm.DB, tokens Tokens, logger *zap.Logger) *Service {
	return &Service{db: db, tokens: tokens, logger: logger, cost: bcrypt.DefaultCost}
}

// Register creates a regular user and opens a session for it.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := validation.ValidateStruct(&in); err != nil {
		return nil, err
	}
	user, err := s.create(ctx, in.Username, in.Email, in.Password, false)
	if err != nil {
		return nil, err
	}
	return s.session(user)
}

// Login checks credentials and opens a session.
func (s *Service) Login(ctx context.Context, in LoginInput) (*Session, error) {
	if err := validation.ValidateStruct(&in); err != nil {
		return nil, err
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(in.Username)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.session(&user)
}

// Logout revokes the token of the current session.
func (s *Service) Logout(ctx context.Context, claims *token.Claims) error {
	if claims == nil {
		return token.ErrInvalid
	}
	return s.tokens.Revoke(ctx, claims)
}

// IsAdmin returns the stored admin flag of a user.
func (s *Service) IsAdmin(ctx context.Context, userID uint) (bool, error) {
	var user models.User
	err := s.db.WithContext(ctx).Select("id", "is_admin").First(&user, userID).Error
	if err != nil {
		return false, fmt.Errorf("failed to find user %d: %w", userID, err)
	}
	return user.IsAdmin, nil
}

// CreateUser creates a user directly, bypassing registration rules other than
// username uniqueness. Used by the CLI to bootstrap admins.
func (s *Service) CreateUser(ctx context.Context, username, password string, admin bool) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required")
	}
	return s.create(ctx, username, "", password, admin)
}

func (s *Service) create(ctx context.Context, username, email, password string, admin bool) (*models.User, error) {
	// The max=72 rule counts characters; bcrypt counts bytes.
	if len(password) > maxPasswordBytes {
		return nil, passwordTooLong()
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, passwordTooLong()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		IsAdmin:      admin,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User created", zap.Uint("user_id", user.ID), zap.String("username", user.Username), zap.Bool("admin", admin))
	return user, nil
}

func passwordTooLong() error {
	return &validation.RequestValidationError{Fields: []validation.FieldError{{
		Field:   "password",
		Tag:     "max",
		Param:   "72",
		Message: "password must be at most 72 bytes",
	}}}
}

func (s *Service) session(user *models.User) (*Session, error) {
	signed, claims, err := s.tokens.Issue(token.Subject{
		UserID:   user.ID,
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
	})
	if err != nil {
		return nil, err
	}
	return &Session{Token: signed, ExpiresAt: claims.ExpiresAt.Time, User: user}, nil
}
