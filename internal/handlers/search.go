package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/product_api/internal/search"
	"github.com/Skotchmaster/product_api/internal/transport"
)

type SearchHandler struct {
	Search *search.Client
}

func (h *SearchHandler) Products(c echo.Context) error {
	if !h.Search.Enabled() {
		return c.JSON(http.StatusServiceUnavailable, transport.Fail("search is not configured"))
	}

	q := c.QueryParam("q")
	if q == "" {
		return c.JSON(http.StatusBadRequest, transport.Fail("query parameter q is required"))
	}

	pq := pageQuery(c)
	pq.Clamp()

	total, products, err := h.Search.Search(c.Request().Context(), q, pq.Offset, pq.Limit)
	if err != nil {
		return errorResponse(c, err)
	}

	dtos := make([]transport.ProductDTO, len(products))
	for i := range products {
		dtos[i] = transport.NewProductDTO(&products[i])
	}

	page := transport.Page[transport.ProductDTO]{Items: dtos, Total: total, Limit: pq.Limit, Offset: pq.Offset}
	return c.JSON(http.StatusOK, transport.OK("Products retrieved successfully", page))
}
