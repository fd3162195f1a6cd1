package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"civicsync-be/apperrors"
	"civicsync-be/models"
	"civicsync-be/store"
	"civicsync-be/utils"
)

// AuthUser is the user block of authentication responses.
type AuthUser struct {
	ID    string          `json:"id"`
	Email string          `json:"email"`
	Name  string          `json:"name"`
	Role  models.UserRole `json:"role"`
}

// AuthResult is returned by register and login.
type AuthResult struct {
	User  AuthUser `json:"user"`
	Token string   `json:"token"`
}

// AuthService registers users and issues tokens.
type AuthService struct {
	store      store.Store
	tokens     *utils.TokenManager
	bcryptCost int
	log        *slog.Logger
	now        Clock
}

func NewAuthService(st store.Store, tokens *utils.TokenManager, bcryptCost int, log *slog.Logger) *AuthService {
	return &AuthService{
		store:      st,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		log:        loggerOrDefault(log),
		now:        systemClock,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user with role "user" and signs them in.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	user, err := s.createUser(ctx, name, email, password, models.RoleUser)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// CreateAdmin creates a user with role "admin".
func (s *AuthService) CreateAdmin(ctx context.Context, name, email, password string) (*models.User, error) {
	return s.createUser(ctx, name, email, password, models.RoleAdmin)
}

func (s *AuthService) createUser(ctx context.Context, name, email, password string, role models.UserRole) (*models.User, error) {
	email = normalizeEmail(email)
	if _, err := s.store.Users().FindByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflictError("Email already registered")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	now := s.now()
	user := &models.User{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Email:     email,
		Password:  password,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := user.HashPassword(s.bcryptCost); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperrors.NewConflictError("Email already registered")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.InfoContext(ctx, "user registered", "user_id", user.ID, "role", role)
	return user, nil
}

// Login checks the credentials and returns a fresh token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.store.Users().FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NewUnauthorizedError("Invalid credentials")
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !user.ComparePassword(password) {
		return nil, apperrors.NewUnauthorizedError("Invalid credentials")
	}
	return s.issue(user)
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.store.Users().FindByID(ctx, userID)
	if err != nil {
		return nil, storeError(err, msgUserNotFound)
	}
	return user, nil
}

// Verify checks a token and returns its claims. It is the token verifier
// of the auth middleware.
func (s *AuthService) Verify(token string) (*utils.Claims, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("Invalid or expired token")
	}
	return claims, nil
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResult{
		User:  AuthUser{ID: user.ID, Email: user.Email, Name: user.Name, Role: user.Role},
		Token: token,
	}, nil
}
