package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/product_api/internal/middleware/auth"
	"github.com/Skotchmaster/product_api/internal/service"
	"github.com/Skotchmaster/product_api/internal/transport"
)

type ProductHandler struct {
	Products *service.ProductService
}

func (h *ProductHandler) List(c echo.Context) error {
	page, err := h.Products.List(c.Request().Context(), pageQuery(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, transport.OK("Products retrieved successfully", page))
}

func (h *ProductHandler) Get(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, transport.Fail("invalid id"))
	}

	dto, err := h.Products.Get(c.Request().Context(), id)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, transport.OK("Product retrieved successfully", dto))
}

func (h *ProductHandler) Create(c echo.Context) error {
	var req service.CreateProductInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, transport.Fail("invalid request body"))
	}

	dto, err := h.Products.Create(c.Request().Context(), req, auth.Principal(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, transport.OK("Product created successfully", dto))
}

func (h *ProductHandler) Update(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, transport.Fail("invalid id"))
	}

	var req service.UpdateProductInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, transport.Fail("invalid request body"))
	}

	dto, err := h.Products.Update(c.Request().Context(), id, req, auth.Principal(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, transport.OK("Product updated successfully", dto))
}

func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, transport.Fail("invalid id"))
	}

	if err := h.Products.Delete(c.Request().Context(), id, auth.Principal(c)); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, transport.OK("Product deleted successfully", nil))
}
