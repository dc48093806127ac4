package service

import (
	"errors"

	"github.com/Skotchmaster/product_api/internal/models"
)

// Terminal outcomes of the resource services. None of these are retried;
// they are policy or data-state facts, not transient failures.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPrincipalNotFound  = errors.New("principal no longer exists")
	ErrNotFound           = errors.New("not found")
	ErrEmailTaken         = errors.New("email already exists")
	ErrValidation         = errors.New("validation failed")
)

// principalID is only for log fields; 0 means anonymous.
func principalID(p *models.Principal) uint {
	if p == nil {
		return 0
	}
	return p.ID
}
