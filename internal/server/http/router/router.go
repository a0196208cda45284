package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/shopline/storefront/internal/server/http/handlers"
	"github.com/shopline/storefront/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.StorefrontFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	userHandler := handlers.NewUserHandler(facade)
	productHandler := handlers.NewProductHandler(facade)
	cartHandler := handlers.NewCartHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	adminHandler := handlers.NewAdminHandler(facade)

	authRequired := middleware.AuthRequired(facade)
	adminRequired := middleware.AdminRequired()

	api := engine.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/signup", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)

	users := api.Group("/users", authRequired)
	users.GET("/me", userHandler.Profile)
	users.PATCH("/me", userHandler.UpdateProfile)
	users.PUT("/me/password", userHandler.ChangePassword)

	products := api.Group("/products")
	products.GET("", productHandler.List)
	products.GET("/:id", productHandler.Get)
	products.POST("", authRequired, adminRequired, productHandler.Create)
	products.PATCH("/:id", authRequired, adminRequired, productHandler.Update)
	products.DELETE("/:id", authRequired, adminRequired, productHandler.Delete)
	products.POST("/:id/reviews", authRequired, productHandler.AddReview)

	cart := api.Group("/cart", authRequired)
	cart.GET("", cartHandler.Get)
	cart.DELETE("", cartHandler.Clear)
	cart.POST("/items", cartHandler.Add)
	cart.PUT("/items/:productId", cartHandler.SetQuantity)
	cart.DELETE("/items/:productId", cartHandler.Remove)
	cart.POST("/checkout", cartHandler.Checkout)

	orders := api.Group("/orders", authRequired)
	orders.POST("", orderHandler.Place)
	orders.GET("", orderHandler.List)
	orders.GET("/:id", orderHandler.Get)
	orders.PATCH("/:id/status", adminRequired, orderHandler.UpdateStatus)

	admin := api.Group("/admin", authRequired, adminRequired)
	admin.GET("/users", adminHandler.Users)
	admin.GET("/users/:id", adminHandler.User)
	admin.GET("/orders", adminHandler.Orders)
	admin.GET("/dashboard", adminHandler.Dashboard)

	return engine
}
