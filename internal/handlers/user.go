package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/product_api/internal/middleware/auth"
	"github.com/Skotchmaster/product_api/internal/service"
	"github.com/Skotchmaster/product_api/internal/transport"
)

type UserHandler struct {
	Users *service.UserService
}

func (h *UserHandler) List(c echo.Context) error {
	page, err := h.Users.List(c.Request().Context(), pageQuery(c), auth.Principal(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, transport.OK("Users retrieved successfully", page))
}

func (h *UserHandler) Get(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, transport.Fail("invalid id"))
	}

	dto, err := h.Users.Get(c.Request().Context(), id, auth.Principal(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, transport.OK("User retrieved successfully", dto))
}

// Create is open registration; no principal is required.
func (h *UserHandler) Create(c echo.Context) error {
	var req service.CreateUserInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, transport.Fail("invalid request body"))
	}

	dto, err := h.Users.Create(c.Request().Context(), req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, transport.OK("User created successfully", dto))
}

func (h *UserHandler) Update(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, transport.Fail("invalid id"))
	}

	var req service.UpdateUserInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, transport.Fail("invalid request body"))
	}

	dto, err := h.Users.Update(c.Request().Context(), id, req, auth.Principal(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, transport.OK("User updated successfully", dto))
}

func (h *UserHandler) Delete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, transport.Fail("invalid id"))
	}

	if err := h.Users.Delete(c.Request().Context(), id, auth.Principal(c)); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, transport.OK("User deleted successfully", nil))
}
