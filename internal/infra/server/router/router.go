// Package router sets up the HTTP routing for the application.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/multibook/backend/internal/integration/entrypoint/controller"
	"github.com/multibook/backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine                *gin.Engine
	healthController      *controller.HealthController
	authController        *controller.AuthController
	businessController    *controller.BusinessController
	transactionController *controller.TransactionController
	overviewController    *controller.OverviewController
	authRateLimiter       *middleware.RateLimiter
	authMiddleware        *middleware.AuthMiddleware
	metricsMiddleware     gin.HandlerFunc
	metricsHandler        http.Handler
}

// Controllers groups the controllers served by the router.
type Controllers struct {
	Health      *controller.HealthController
	Auth        *controller.AuthController
	Business    *controller.BusinessController
	Transaction *controller.TransactionController
	Overview    *controller.OverviewController
}

// Metrics carries the optional instrumentation hooks.
type Metrics struct {
	Middleware gin.HandlerFunc
	Handler    http.Handler
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	controllers Controllers,
	authRateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
	metrics Metrics,
) *Router {
	return &Router{
		healthController:      controllers.Health,
		authController:        controllers.Auth,
		businessController:    controllers.Business,
		transactionController: controllers.Transaction,
		overviewController:    controllers.Overview,
		authRateLimiter:       authRateLimiter,
		authMiddleware:        authMiddleware,
		metricsMiddleware:     metrics.Middleware,
		metricsHandler:        metrics.Handler,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	r.engine = gin.New()
	if environment != "test" {
		r.engine.Use(gin.Logger())
	}
	r.engine.Use(gin.Recovery())
	if r.metricsMiddleware != nil {
		r.engine.Use(r.metricsMiddleware)
	}

	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check and metrics endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
	if r.metricsHandler != nil {
		r.engine.GET("/metrics", gin.WrapH(r.metricsHandler))
	}
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")
	{
		if r.authController != nil {
			limit := func(c *gin.Context) { c.Next() }
			if r.authRateLimiter != nil {
				limit = r.authRateLimiter.Middleware()
			}

			auth := v1.Group("/auth")
			{
				auth.POST("/register", limit, r.authController.Register)
				auth.GET("/confirm", r.authController.ConfirmEmail)
				auth.POST("/login", limit, r.authController.Login)
				auth.POST("/refresh", r.authController.RefreshToken)
				auth.GET("/google/url", r.authController.GoogleAuthURL)
				auth.POST("/google/callback", limit, r.authController.GoogleCallback)
			}
			if r.authMiddleware != nil {
				auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
			}
		}

		if r.authMiddleware == nil {
			return
		}

		ledger := v1.Group("")
		ledger.Use(r.authMiddleware.Authenticate())

		if r.businessController != nil {
			ledger.GET("/businesses", r.businessController.List)
			ledger.POST("/businesses", r.businessController.Create)
			ledger.PATCH("/businesses/:id", r.businessController.Update)
			ledger.DELETE("/businesses/:id", r.businessController.Delete)
			ledger.PUT("/selection", r.businessController.Select)
		}

		if r.transactionController != nil {
			ledger.GET("/transactions", r.transactionController.List)
			ledger.POST("/transactions", r.transactionController.Create)
			ledger.PUT("/transactions/:id", r.transactionController.Update)
			ledger.DELETE("/transactions/:id", r.transactionController.Delete)
		}

		if r.overviewController != nil {
			ledger.GET("/overview", r.overviewController.Get)
		}
	}
}

// Engine returns the underlying Gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
