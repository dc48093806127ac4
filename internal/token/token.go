package token

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Skotchmaster/product_api/internal/models"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
)

type AccessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Service issues and validates HS256 access tokens carrying the subject id
// and role. Whether the subject still exists is the caller's concern.
type Service struct {
	Secret []byte
	TTL    time.Duration
}

func (s *Service) Issue(p models.Principal) (string, int64, error) {
	exp := time.Now().Add(s.TTL)
	claims := AccessClaims{
		Role: p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(p.ID), 10),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tkn.SignedString(s.Secret)
	if err != nil {
		return "", 0, err
	}

	return signed, int64(s.TTL.Seconds()), nil
}

func (s *Service) Validate(raw string) (*models.Principal, error) {
	var claims AccessClaims
	tkn, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return s.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !tkn.Valid {
		return nil, ErrTokenInvalid
	}

	sub, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	return &models.Principal{ID: uint(sub), Role: claims.Role}, nil
}
