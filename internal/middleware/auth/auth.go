package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/product_api/internal/models"
	"github.com/Skotchmaster/product_api/internal/service"
	"github.com/Skotchmaster/product_api/internal/transport"
)

const principalKey = "principal"

type Middleware struct {
	Auth *service.AuthService
}

// Require rejects requests without a valid bearer token whose subject still
// exists. The resolved principal lands in the echo context.
func (m *Middleware) Require(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, ok := bearerToken(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, transport.Fail("missing bearer token"))
		}

		p, err := m.Auth.ResolvePrincipal(c.Request().Context(), raw)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, transport.Fail(err.Error()))
		}

		c.Set(principalKey, p)
		return next(c)
	}
}

// Optional lets anonymous requests through, but a supplied token must still
// be valid: a broken token is a 401, not silent anonymity.
func (m *Middleware) Optional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, ok := bearerToken(c)
		if !ok {
			return next(c)
		}

		p, err := m.Auth.ResolvePrincipal(c.Request().Context(), raw)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, transport.Fail(err.Error()))
		}

		c.Set(principalKey, p)
		return next(c)
	}
}

// Principal returns the authenticated principal, or nil for anonymous
// requests.
func Principal(c echo.Context) *models.Principal {
	if p, ok := c.Get(principalKey).(*models.Principal); ok {
		return p
	}
	return nil
}

func bearerToken(c echo.Context) (string, bool) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return raw, raw != ""
}
