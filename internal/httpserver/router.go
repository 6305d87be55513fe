package httpserver

import (
	"net/http"

	mw "github.com/Abdul1ayev/greenshop-api/internal/middleware"
	"github.com/labstack/echo/v4"
)

type Deps struct {
	Auth     *AuthHTTP
	Catalog  *CatalogHTTP
	Cart     *CartHTTP
	Checkout *CheckoutHTTP

	JWTSecret []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.POST("/register", d.Auth.Register)
	e.POST("/login", d.Auth.Login)
	e.POST("/refresh", d.Auth.Refresh)
	e.POST("/logout", d.Auth.Logout)

	e.GET("/categories", d.Catalog.GetCategories)
	e.GET("/products", d.Catalog.GetProducts)
	e.GET("/products/:id", d.Catalog.GetProduct)
	e.GET("/search", d.Catalog.SearchProducts)

	auth := mw.RequireAuth(d.JWTSecret)

	cart := e.Group("/cart", auth)
	cart.GET("", d.Cart.GetCart)
	cart.GET("/count", d.Cart.GetCartCount)
	cart.POST("", d.Cart.AddToCart)
	cart.PATCH("/:id", d.Cart.UpdateQuantity)
	cart.DELETE("/:id", d.Cart.RemoveFromCart)
	cart.DELETE("", d.Cart.ClearCart)

	e.GET("/me", d.Auth.Me, auth)
	e.PATCH("/me", d.Auth.UpdateMe, auth)
	e.POST("/checkout", d.Checkout.Checkout, auth)

	orders := e.Group("/orders", auth)
	orders.GET("", d.Checkout.ListOrders)
	orders.GET("/:id", d.Checkout.GetOrder)

	admin := e.Group("/admin", auth, mw.AdminOnly())
	admin.GET("/users", d.Auth.ListUsers)
}
