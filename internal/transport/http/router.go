package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/product_api/internal/handlers"
	"github.com/Skotchmaster/product_api/internal/middleware/auth"
)

type Deps struct {
	AuthHandler    *handlers.AuthHandler
	UserHandler    *handlers.UserHandler
	ProductHandler *handlers.ProductHandler
	SearchHandler  *handlers.SearchHandler
	AuthMW         *auth.Middleware
}

// Register wires the route table. Read endpoints take an optional principal
// (a supplied token must still verify); mutations require one, except open
// registration and login.
func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	v1.POST("/auth/login", d.AuthHandler.Login)

	users := v1.Group("/users")
	users.POST("", d.UserHandler.Create)
	users.GET("", d.UserHandler.List, d.AuthMW.Optional)
	users.GET("/:id", d.UserHandler.Get, d.AuthMW.Optional)
	users.PATCH("/:id", d.UserHandler.Update, d.AuthMW.Require)
	users.DELETE("/:id", d.UserHandler.Delete, d.AuthMW.Require)

	products := v1.Group("/products")
	products.GET("", d.ProductHandler.List, d.AuthMW.Optional)
	products.GET("/search", d.SearchHandler.Products, d.AuthMW.Optional)
	products.GET("/:id", d.ProductHandler.Get, d.AuthMW.Optional)
	products.POST("", d.ProductHandler.Create, d.AuthMW.Require)
	products.PATCH("/:id", d.ProductHandler.Update, d.AuthMW.Require)
	products.DELETE("/:id", d.ProductHandler.Delete, d.AuthMW.Require)
}
