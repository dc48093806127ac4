package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/product_api/internal/logging"
	"github.com/Skotchmaster/product_api/internal/policy"
	"github.com/Skotchmaster/product_api/internal/service"
	"github.com/Skotchmaster/product_api/internal/token"
	"github.com/Skotchmaster/product_api/internal/transport"
)

// errorResponse maps service/policy outcomes to HTTP statuses. Unexpected
// errors surface as a generic 500; internals never reach the body.
func errorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrPrincipalNotFound),
		errors.Is(err, token.ErrTokenExpired),
		errors.Is(err, token.ErrTokenInvalid),
		errors.Is(err, policy.ErrUnauthenticated):
		return c.JSON(http.StatusUnauthorized, transport.Fail(err.Error()))
	case errors.Is(err, policy.ErrSelfDeleteForbidden):
		return c.JSON(http.StatusBadRequest, transport.Fail(err.Error()))
	case errors.Is(err, policy.ErrForbidden):
		return c.JSON(http.StatusForbidden, transport.Fail(err.Error()))
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, transport.Fail(err.Error()))
	case errors.Is(err, service.ErrEmailTaken):
		return c.JSON(http.StatusConflict, transport.Fail(err.Error()))
	case errors.Is(err, service.ErrValidation):
		return c.JSON(http.StatusBadRequest, transport.Fail(err.Error()))
	default:
		logging.FromContext(c.Request().Context()).Error("unhandled error", "error", err)
		return c.JSON(http.StatusInternalServerError, transport.Fail("internal server error"))
	}
}

func idParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func pageQuery(c echo.Context) transport.PageQuery {
	var q transport.PageQuery
	q.Search = c.QueryParam("search")
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil {
		q.Limit = v
	}
	if v, err := strconv.Atoi(c.QueryParam("offset")); err == nil {
		q.Offset = v
	}
	return q
}
