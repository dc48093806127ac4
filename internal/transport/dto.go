package transport

import (
	"github.com/Skotchmaster/product_api/internal/models"
)

// MaskStrategy picks how a user's email is shown to non-privileged viewers:
// full omission (default) or partial character redaction.
type MaskStrategy string

const (
	MaskOmit    MaskStrategy = "omit"
	MaskPartial MaskStrategy = "partial"
)

// UserDTO is the external user projection. Email and Role are pointers so
// that a masked projection drops them from the JSON entirely.
type UserDTO struct {
	ID        uint    `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     *string `json:"email,omitempty"`
	Role      *string `json:"role,omitempty"`
}

// NewUserDTO projects a user for a viewer. Privileged viewers (admin or the
// subject itself) see email and role; everyone else gets the projection the
// configured strategy allows. Role is never shown to unprivileged viewers.
func NewUserDTO(u *models.User, privileged bool, strategy MaskStrategy) UserDTO {
	dto := UserDTO{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
	if privileged {
		email := u.Email
		role := u.Role
		dto.Email = &email
		dto.Role = &role
		return dto
	}
	if strategy == MaskPartial {
		masked := MaskEmail(u.Email)
		dto.Email = &masked
	}
	return dto
}

type ProductDTO struct {
	ID          uint   `json:"id"`
	UserID      uint   `json:"user_id"`
	Number      string `json:"number"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func NewProductDTO(p *models.Product) ProductDTO {
	return ProductDTO{
		ID:          p.ID,
		UserID:      p.UserID,
		Number:      p.Number,
		Title:       p.Title,
		Description: p.Description,
	}
}
