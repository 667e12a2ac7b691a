package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/ozhegov/product-api/internal/authz"
	"github.com/ozhegov/product-api/internal/hash"
	"github.com/ozhegov/product-api/internal/logging"
	"github.com/ozhegov/product-api/internal/models"
	"github.com/ozhegov/product-api/internal/repo"
	"github.com/ozhegov/product-api/internal/tokens"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrRefreshExpired      = errors.New("refresh token expired")
	ErrUserExists          = repo.ErrUserExists
	ErrUnknownRefreshToken = repo.ErrUnknownRefreshToken
)

type AuthService struct {
	Repo            *repo.GormRepo
	Issuer          *tokens.Issuer
	RefreshTokenTTL time.Duration
}

type TokenPair struct {
	Token        string
	RefreshToken string
	AccessExp    time.Time
}

type RegisterInput struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Email     string
	Role      string
}

// Authenticate verifies username and password. A missing user and a
// wrong password are indistinguishable to the caller. No side effects:
// nothing is persisted until IssueSession.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.authenticate", "username", username)

	if username == "" || password == "" {
		return nil, ErrValidation
	}

	user, err := s.Repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("authenticate failed", "reason", "unknown username")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("authenticate failed", "reason", "password mismatch")
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// IssueSession mints an access+refresh pair and persists the refresh
// token on the user row, overwriting any prior value. One live refresh
// token per user.
func (s *AuthService) IssueSession(ctx context.Context, user *models.User) (*TokenPair, error) {
	access, accessExp, err := s.Issuer.IssueAccess(user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	refresh, err := tokens.NewRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	refreshExp := time.Now().Add(s.RefreshTokenTTL)
	if err := s.Repo.SetRefreshToken(ctx, user.ID, refresh, refreshExp); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &TokenPair{Token: access, RefreshToken: refresh, AccessExp: accessExp}, nil
}

// Refresh exchanges a stored refresh token for a new pair. Rotation is a
// compare-and-swap on the stored value, so each token is good for at
// most one successful exchange.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	user, err := s.Repo.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repo.ErrUnknownRefreshToken) {
			l.Warn("refresh failed", "reason", "unknown token")
			return nil, ErrUnknownRefreshToken
		}
		return nil, fmt.Errorf("find refresh token: %w", err)
	}

	if user.RefreshTokenExpiry != nil && user.RefreshTokenExpiry.Before(time.Now()) {
		l.Warn("refresh failed", "reason", "token expired")
		return nil, ErrRefreshExpired
	}

	access, accessExp, err := s.Issuer.IssueAccess(user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	newRefresh, err := tokens.NewRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	refreshExp := time.Now().Add(s.RefreshTokenTTL)
	if err := s.Repo.RotateRefreshToken(ctx, user.ID, refreshToken, newRefresh, refreshExp); err != nil {
		if errors.Is(err, repo.ErrUnknownRefreshToken) {
			l.Warn("refresh failed", "reason", "lost rotation race")
			return nil, ErrUnknownRefreshToken
		}
		return nil, fmt.Errorf("rotate refresh token: %w", err)
	}

	return &TokenPair{Token: access, RefreshToken: newRefresh, AccessExp: accessExp}, nil
}

// Register creates the user and immediately issues a session. Role
// assignment is server-controlled: an empty role defaults to User and
// elevated roles can't be self-assigned.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, *TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register", "username", in.Username)

	if in.Username == "" || in.Password == "" {
		return nil, nil, ErrValidation
	}

	role := in.Role
	if role == "" {
		role = string(authz.RoleUser)
	}
	if role != string(authz.RoleUser) {
		l.Warn("register rejected", "reason", "role not assignable", "role", role)
		return nil, nil, fmt.Errorf("%w: role %q is not assignable at registration", ErrValidation, role)
	}

	pwHash, err := hash.HashPassword(in.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     in.Username,
		PasswordHash: pwHash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Role:         role,
	}

	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrUserExists) {
			l.Warn("register rejected", "reason", "duplicate username")
			return nil, nil, ErrUserExists
		}
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	pair, err := s.IssueSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}
