package auth

import (
	"context"
	"errors"
	"time"

	"leafscan-backend/internal/database"
	"leafscan-backend/internal/models"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password.
	// Callers must surface the same response for either so failed logins
	// reveal nothing about which emails are registered.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
)

// Service handles authentication logic
type Service struct {
	users  *database.UserRepo
	tokens *TokenService
}

// NewService creates a new auth service
func NewService(users *database.UserRepo, tokens *TokenService) *Service {
	return &Service{users: users, tokens: tokens}
}

// Session represents an issued token alongside its owner
type Session struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

// TokenTTL returns the lifetime of issued tokens.
func (s *Service) TokenTTL() time.Duration {
	return s.tokens.TTL()
}

// Register validates registration input, stores the new user and issues a
// session token. Nothing is persisted when validation fails.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*Session, error) {
	first, last, err := ValidateRegistration(req.Password, req.FirstName, req.LastName)
	if err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    first,
		LastName:     last,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, database.ErrEmailExists) {
			// Lost the race with a concurrent registration
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return s.issue(user)
}

// Login authenticates credentials and issues a session token. Unknown
// email and wrong password both return ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

// ResolveToken verifies a raw token and maps its subject to a live user
// record. It performs no writes. A cryptographically valid token whose
// subject no longer exists fails with ErrUserNotFound rather than passing
// as anonymous.
func (s *Service) ResolveToken(ctx context.Context, raw string) (*models.User, error) {
	claims, err := s.tokens.Verify(raw)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

func (s *Service) issue(user *models.User) (*Session, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Token: token, ExpiresAt: expiresAt}, nil
}
