package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/mkarpova/storefront/internal/server/http/handlers"
	"github.com/mkarpova/storefront/internal/server/http/middleware"
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
	orderHandler := handlers.NewOrderHandler(facade)
	webhookHandler := handlers.NewWebhookHandler(facade)
	catalogHandler := handlers.NewCatalogHandler(facade)

	api := engine.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// The gateway signs the exact payload bytes, so this route stays outside
	// the authenticated group and never goes through auth middleware.
	api.POST("/webhook", webhookHandler.Handle)

	authed := api.Group("")
	authed.Use(middleware.AuthRequired(facade))

	orders := authed.Group("/orders")
	orders.POST("/pay-on-delivery", orderHandler.CreateGateway)
	orders.POST("/cash-on-delivery", orderHandler.CreateCash)
	orders.GET("", orderHandler.List)
	orders.GET("/:id", orderHandler.Get)
	orders.PATCH("/:id/status", orderHandler.UpdateStatus)
	orders.PATCH("/:id/cancel", orderHandler.Cancel)

	authed.POST("/products", catalogHandler.CreateProduct)
	authed.GET("/products", catalogHandler.ListProducts)
	authed.GET("/products/:id", catalogHandler.GetProduct)
	authed.POST("/addresses", catalogHandler.CreateAddress)
	authed.GET("/addresses", catalogHandler.ListAddresses)
	authed.GET("/addresses/:id", catalogHandler.GetAddress)

	return engine
}
