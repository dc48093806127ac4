package service

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"github.com/Skotchmaster/product_api/internal/hash"
	"github.com/Skotchmaster/product_api/internal/models"
	"github.com/Skotchmaster/product_api/internal/token"
)

type AuthService struct {
	DB     *gorm.DB
	Tokens *token.Service
	Log    *slog.Logger
}

type LoginResult struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Verify checks email+password against the stored hash. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Verify(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.Log.Error("credential lookup failed", "error", err)
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.Verify(ctx, email, password)
	if err != nil {
		return nil, err
	}

	accessToken, expiresIn, err := s.Tokens.Issue(models.Principal{ID: user.ID, Role: user.Role})
	if err != nil {
		s.Log.Error("token signing failed", "error", err)
		return nil, err
	}

	s.Log.Info("login", "user_id", user.ID)
	return &LoginResult{AccessToken: accessToken, ExpiresIn: expiresIn}, nil
}

// ResolvePrincipal validates a raw bearer token and re-resolves its subject
// against current user storage. A validly signed token whose subject was
// deleted since issuance fails with ErrPrincipalNotFound.
func (s *AuthService) ResolvePrincipal(ctx context.Context, raw string) (*models.Principal, error) {
	p, err := s.Tokens.Validate(raw)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := s.DB.WithContext(ctx).Select("id").Where("id = ?", p.ID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPrincipalNotFound
		}
		s.Log.Error("principal lookup failed", "user_id", p.ID, "error", err)
		return nil, err
	}

	return p, nil
}
