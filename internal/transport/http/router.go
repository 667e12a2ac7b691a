package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ozhegov/product-api/internal/authz"
	"github.com/ozhegov/product-api/internal/handlers"
	authmw "github.com/ozhegov/product-api/internal/middleware/auth"
)

type Deps struct {
	AuthHandler    *handlers.AuthHandler
	ProductHandler *handlers.ProductHandler
	AuthMw         *authmw.Middleware
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	users := e.Group("/Users")
	users.POST("/authenticate", d.AuthHandler.Authenticate)
	users.POST("/refresh", d.AuthHandler.Refresh)
	users.POST("/register", d.AuthHandler.Register)

	products := e.Group("/api/Product", d.AuthMw.RequireAuth)
	products.GET("", d.ProductHandler.GetProducts, authmw.RequirePolicy(authz.AdminOnly))
	products.GET("/search", d.ProductHandler.Search, authmw.RequirePolicy(authz.UserOnly))
	products.GET("/:id", d.ProductHandler.GetProduct, authmw.RequirePolicy(authz.UserOnly))
	products.POST("", d.ProductHandler.CreateProduct, authmw.RequirePolicy(authz.UserOnly))
	products.PUT("/:id", d.ProductHandler.UpdateProduct, authmw.RequirePolicy(authz.AdminOnly))
	products.DELETE("/:id", d.ProductHandler.DeleteProduct, authmw.RequirePolicy(authz.SuperAdminOnly))
}
