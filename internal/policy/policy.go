// Package policy holds the access-control decision table for users and
// products. Decisions are pure functions over the acting principal and the
// target's ownership; nothing here touches storage.
package policy

import (
	"errors"

	"github.com/Skotchmaster/product_api/internal/models"
)

var (
	ErrUnauthenticated     = errors.New("authentication required")
	ErrForbidden           = errors.New("forbidden")
	ErrSelfDeleteForbidden = errors.New("you cannot delete your own account")
)

// CanCreateProduct requires a principal. The caller must set the product
// owner to the principal id regardless of any client-supplied value.
func CanCreateProduct(p *models.Principal) error {
	if p == nil {
		return ErrUnauthenticated
	}
	return nil
}

// CanMutateProduct allows update/delete for the owner or an admin.
func CanMutateProduct(p *models.Principal, ownerID uint) error {
	if p == nil {
		return ErrUnauthenticated
	}
	if p.ID == ownerID || p.IsAdmin() {
		return nil
	}
	return ErrForbidden
}

// CanUpdateUser allows update for the target user themselves or an admin.
func CanUpdateUser(p *models.Principal, targetID uint) error {
	if p == nil {
		return ErrUnauthenticated
	}
	if p.ID == targetID || p.IsAdmin() {
		return nil
	}
	return ErrForbidden
}

// CanDeleteUser allows delete for admins only. The self-delete guard runs
// before the role check, so every principal targeting their own account gets
// the guard error, admins included.
func CanDeleteUser(p *models.Principal, targetID uint) error {
	if p == nil {
		return ErrUnauthenticated
	}
	if p.ID == targetID {
		return ErrSelfDeleteForbidden
	}
	if !p.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// CanViewUserDetails reports whether the viewer may see the target user's
// email and role. Anonymous viewers and unrelated users get the masked
// projection.
func CanViewUserDetails(p *models.Principal, targetID uint) bool {
	if p == nil {
		return false
	}
	return p.IsAdmin() || p.ID == targetID
}
