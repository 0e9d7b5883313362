package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/handlers"
	"github.com/storefront/backend/internal/service/token"
)

type Deps struct {
	DB             *gorm.DB
	Tokens         *token.Service
	AuthHandler    *handlers.AuthHandler
	UserHandler    *handlers.UserHandler
	ProductHandler *handlers.ProductHandler
	OrderHandler   *handlers.OrderHandler
	SearchHandler  *handlers.SearchHandler
	UploadHandler  *handlers.UploadHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	users := v1.Group("/users")
	users.POST("/register", d.AuthHandler.Register)
	users.POST("/login", d.AuthHandler.Login)
	users.POST("/logout", d.AuthHandler.Logout)
	users.POST("/refresh", d.AuthHandler.Refresh)
	users.GET("/profile", d.AuthHandler.GetProfile, d.Tokens.RequireLogin)
	users.PUT("/profile", d.AuthHandler.UpdateProfile, d.Tokens.RequireLogin)

	users.GET("", d.UserHandler.GetUsers, d.Tokens.RequireAdmin)
	users.POST("", d.UserHandler.CreateUser, d.Tokens.RequireAdmin)
	users.GET("/:id", d.UserHandler.GetUser, d.Tokens.RequireAdmin)
	users.PUT("/:id", d.UserHandler.UpdateUser, d.Tokens.RequireAdmin)
	users.DELETE("/:id", d.UserHandler.DeleteUser, d.Tokens.RequireAdmin)

	products := v1.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/top", d.ProductHandler.GetTopProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)
	products.POST("", d.ProductHandler.CreateProduct, d.Tokens.RequireAdmin)
	products.PUT("/:id", d.ProductHandler.UpdateProduct, d.Tokens.RequireAdmin)
	products.DELETE("/:id", d.ProductHandler.DeleteProduct, d.Tokens.RequireAdmin)
	products.POST("/:id/reviews", d.ProductHandler.CreateReview, d.Tokens.RequireLogin)

	if d.SearchHandler != nil {
		v1.GET("/search", d.SearchHandler.Search)
	}
	if d.UploadHandler != nil {
		v1.POST("/upload", d.UploadHandler.Upload, d.Tokens.RequireAdmin)
	}

	orders := v1.Group("/orders")
	orders.POST("", d.OrderHandler.CreateOrder, d.Tokens.RequireLogin)
	orders.GET("/my-orders", d.OrderHandler.GetMyOrders, d.Tokens.RequireLogin)
	orders.GET("/:id", d.OrderHandler.GetOrder, d.Tokens.RequireLogin)
	orders.PUT("/:id/pay", d.OrderHandler.PayOrder, d.Tokens.RequireLogin)
	orders.PUT("/:id/return", d.OrderHandler.ReturnOrder, d.Tokens.RequireLogin)
	orders.PUT("/:id/deliver", d.OrderHandler.DeliverOrder, d.Tokens.RequireAdmin)
	orders.GET("", d.OrderHandler.GetOrders, d.Tokens.RequireAdmin)
	orders.GET("/report/top-customers", d.OrderHandler.TopCustomers, d.Tokens.RequireAdmin)
	orders.GET("/report/top-products", d.OrderHandler.TopProducts, d.Tokens.RequireAdmin)
}
