package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lendease/internal/adapters/persistence/models"
	"lendease/internal/adapters/persistence/repositories"
	"lendease/internal/adapters/persistence/revocation"
	"lendease/internal/config"
	"lendease/internal/core/domain"
	"lendease/internal/core/validation"
	"lendease/internal/pkg/jwt"
	"lendease/internal/pkg/password"
)

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User         *models.UserResponse `json:"user"`
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
}

// AuthService is the session manager: it issues, refreshes and revokes
// credential pairs bound to a user identity. The revocation list is the
// only shared mutable state it touches beyond the user store.
type AuthService struct {
	userRepo repositories.UserRepository
	revoked  revocation.List
	cfg      *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repositories.UserRepository, revoked revocation.List, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		revoked:  revoked,
		cfg:      cfg,
	}
}

// Login authenticates a user by normalized email. A wrong email, a wrong
// password and a disabled account all fail identically, so the response
// never leaks which part was wrong.
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, validation.NormalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, domain.ErrInvalidCredentials
	}

	if !password.Verify(input.Password, user.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	tokens, err := s.Issue(user)
	if err != nil {
		return nil, err
	}

	log.Printf("user logged in: %s", user.Username)

	return &AuthResponse{
		User:         user.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// Issue signs a credential pair for the user: a short-lived access token
// embedding id, kind and role, and a long-lived refresh token embedding a
// unique token id for the revocation list.
func (s *AuthService) Issue(user *models.User) (*domain.TokenPair, error) {
	accessToken, err := jwt.GenerateAccessToken(
		user.ID,
		string(user.Kind),
		string(user.Role),
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return nil, err
	}

	refreshToken, err := jwt.GenerateRefreshToken(
		user.ID,
		uuid.New().String(),
		s.cfg.JWT.RefreshSecret,
		s.cfg.JWT.RefreshTokenDays,
	)
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh mints a fresh access token from a live refresh token without
// re-authenticating credentials. A malformed, expired or revoked token
// fails with ErrTokenInvalid.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		return "", domain.ErrTokenInvalid
	}

	isRevoked, err := s.revoked.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		return "", err
	}
	if isRevoked {
		return "", domain.ErrTokenInvalid
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrTokenInvalid
		}
		return "", err
	}
	if !user.IsActive {
		return "", domain.ErrTokenInvalid
	}

	return jwt.GenerateAccessToken(
		user.ID,
		string(user.Kind),
		string(user.Role),
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessTokenMins,
	)
}

// Logout revokes a refresh token. Revocation is idempotent: unknown,
// already-revoked and malformed tokens are silently accepted, since the
// session they named is dead either way.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := jwt.ParseRefreshClaimsUnverified(refreshToken)
	if err != nil || claims.TokenID == "" {
		return nil
	}

	ttl := time.Duration(s.cfg.JWT.RefreshTokenDays) * 24 * time.Hour
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}

	if err := s.revoked.Revoke(ctx, claims.TokenID, ttl); err != nil {
		return err
	}

	log.Printf("refresh token revoked: %s", password.HashToken(refreshToken)[:12])
	return nil
}

// GetUserByID gets a user by ID
func (s *AuthService) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
