// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"storefront/internal/delivery/http/middleware"
	"storefront/internal/delivery/http/router/handler"
	"storefront/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	UserHandler    *handler.UserHandler
	OrderHandler   *handler.OrderHandler
	StoreHandler   *handler.StoreHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	userHandler    *handler.UserHandler
	orderHandler   *handler.OrderHandler
	storeHandler   *handler.StoreHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		userHandler:    params.UserHandler,
		orderHandler:   params.OrderHandler,
		storeHandler:   params.StoreHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.userHandler.Register)
		authGroup.POST("/login", r.userHandler.Login)
	}

	// Public storefront and tracking routes. Checkout is public too:
	// guests place orders from the storefront page.
	e.GET("/stores/:slug", r.storeHandler.GetStorefront)
	e.POST("/orders", r.orderHandler.Create)
	e.GET("/track/:ownerId/:orderCode", r.orderHandler.Track)
	e.GET("/track/:ownerId/:orderCode/qr", r.orderHandler.TrackQR)

	// User routes that require authentication
	userGroup := e.Group("/user")
	userGroup.Use(r.authMiddleware.Authenticate)
	{
		userGroup.GET("/profile", r.userHandler.GetProfile)
		userGroup.PUT("/profile", r.userHandler.UpdateProfile)
		userGroup.POST("/migrate", r.userHandler.Migrate)
		userGroup.GET("/orders", r.orderHandler.ListMine)
		userGroup.POST("/orders/:id/payment", r.orderHandler.SubmitPayment)
		userGroup.POST("/orders/:id/follow-up", r.orderHandler.SetFollowUp)
	}

	// Franchise routes that require authentication and the franchise category
	franchiseGroup := e.Group("/franchise")
	franchiseGroup.Use(r.authMiddleware.Authenticate)
	franchiseGroup.Use(r.authMiddleware.RequireCategory(string(entity.CategoryFranchise)))
	{
		franchiseGroup.GET("/orders", r.orderHandler.ListFranchiseOrders)
		franchiseGroup.PATCH("/orders/:id/status", r.orderHandler.UpdateStatus)
		franchiseGroup.POST("/store", r.storeHandler.ActivateStore)
	}

	// Admin routes, webmaster only. The order console drives the same
	// status transitions as the franchise view but across all storefronts.
	adminGroup := e.Group("/admin")
	adminGroup.Use(r.authMiddleware.Authenticate)
	adminGroup.Use(r.authMiddleware.RequireCategory(string(entity.CategoryWebmaster)))
	{
		adminGroup.GET("/orders", r.orderHandler.ListAllOrders)
		adminGroup.PATCH("/orders/:id/status", r.orderHandler.UpdateStatus)
		adminGroup.POST("/ids", r.userHandler.AllocateID)
		adminGroup.POST("/users/:id/migrate", r.userHandler.MigrateUser)
		adminGroup.DELETE("/users/:id", r.userHandler.DeleteUser)
	}
}
