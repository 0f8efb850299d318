// Package auth manages operator accounts and their bearer tokens. Every
// account has the same rights.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mamadbah2/tillbook/internal/domain/models"
	"github.com/mamadbah2/tillbook/internal/repository"
)

const minPasswordLength = 6

// Service authenticates operators and manages their accounts.
type Service struct {
	store  repository.UserRepository
	tokens *TokenManager
	now    func() time.Time
	newID  func() string
	cost   int
	logger *zap.Logger
}

// NewService wires the auth service.
func NewService(store repository.UserRepository, tokens *TokenManager, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		tokens: tokens,
		now:    time.Now,
		newID:  uuid.NewString,
		cost:   bcrypt.DefaultCost,
		logger: logger,
	}
}

// Session is a successful login.
type Session struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      models.User `json:"user"`
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return models.Validationf("password must be at least %d characters", minPasswordLength)
	}
	return nil
}

// CreateUser adds an active account.
func (s *Service) CreateUser(ctx context.Context, username, password string) (models.User, error) {
	username = normalizeUsername(username)
	if username == "" {
		return models.User{}, models.Validationf("username is required")
	}
	if err := validatePassword(password); err != nil {
		return models.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		ID:           s.newID(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
		Active:       true,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			return models.User{}, &models.Error{Kind: models.KindConflict, Message: fmt.Sprintf("username %q is taken", username)}
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user created", zap.String("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// Authenticate checks credentials, records the login and issues a token.
// Unknown users, wrong passwords and inactive accounts all fail the same way.
func (s *Service) Authenticate(ctx context.Context, username, password string) (Session, error) {
	user, err := s.store.FindUserByUsername(ctx, normalizeUsername(username))
	if errors.Is(err, models.ErrNotFound) {
		return Session{}, models.ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, fmt.Errorf("find user: %w", err)
	}
	if !user.Active {
		return Session{}, models.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Info("login rejected", zap.String("username", user.Username))
		return Session{}, models.ErrInvalidCredentials
	}

	now := s.now()
	user.LastLogin = &now
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return Session{}, fmt.Errorf("record login: %w", err)
	}

	token, expires, err := s.tokens.IssueToken(user)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, ExpiresAt: expires, User: user}, nil
}

// Verify resolves a bearer token to its active user.
func (s *Service) Verify(ctx context.Context, token string) (models.User, error) {
	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		return models.User{}, &models.Error{Kind: models.KindUnauthorized, Message: "invalid or expired token"}
	}
	user, err := s.store.GetUser(ctx, claims.Subject)
	if errors.Is(err, models.ErrNotFound) {
		return models.User{}, &models.Error{Kind: models.KindUnauthorized, Message: "unknown user"}
	}
	if err != nil {
		return models.User{}, fmt.Errorf("load user: %w", err)
	}
	if !user.Active {
		return models.User{}, &models.Error{Kind: models.KindUnauthorized, Message: "account is disabled"}
	}
	return user, nil
}

// ChangePassword sets a new password.
func (s *Service) ChangePassword(ctx context.Context, id, password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// DeleteUser removes an account. The last account cannot be removed.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	if _, err := s.store.GetUser(ctx, id); err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	count, err := s.store.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count <= 1 {
		return models.ErrLastUser
	}
	if err := s.store.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// ListUsers returns every account.
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// EnsureDefaultUser creates the bootstrap account when there is none.
func (s *Service) EnsureDefaultUser(ctx context.Context, username, password string) error {
	count, err := s.store.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}
	if _, err := s.CreateUser(ctx, username, password); err != nil {
		return err
	}
	s.logger.Warn("default user created; change its password", zap.String("username", normalizeUsername(username)))
	return nil
}
