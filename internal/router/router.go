// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/propcover/insurance-master/internal/config"
	"github.com/propcover/insurance-master/internal/handler"
	"github.com/propcover/insurance-master/internal/middleware"
)

// Handlers collects everything the router needs to wire the API.
type Handlers struct {
	Auth      *handler.AuthHandler
	Agents    *handler.AgentHandler
	Buildings *handler.BuildingHandler
	Policies  *handler.PolicyHandler
	Claims    *handler.ClaimHandler
	Alerts    *handler.AlertHandler
	Documents *handler.DocumentHandler
	Search    *handler.SearchHandler
	Stats     *handler.StatsHandler
}

// Register wires every route.  Layout:
//
//	/healthz     – public liveness probe
//	/v1/auth/*   – register/login/refresh/logout, no JWT
//	/v1/*        – everything else, JWT + role protected
//
// The rate limiter wraps the whole protected group.  The response
// cache wraps only the hot dashboard reads; per-user endpoints like
// /me stay uncached because the cache key does not include identity.
func Register(e *echo.Echo, cfg config.Config, h Handlers, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	auth := e.Group("/v1/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/logout", h.Auth.Logout)

	v1 := e.Group("/v1")
	v1.Use(middleware.JWTAuth(cfg.JWTSecret))
	v1.Use(middleware.RequireRole("ADMIN", "STAFF"))
	v1.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	cached := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	admin := middleware.RequireRole("ADMIN")

	v1.GET("/me", h.Auth.Me)

	// Agents.  Deleting one is destructive enough to need ADMIN.
	v1.GET("/agents", h.Agents.List, cached)
	v1.POST("/agents", h.Agents.Create)
	v1.GET("/agents/:id", h.Agents.Get)
	v1.DELETE("/agents/:id", h.Agents.Delete, admin)

	// Buildings and the assignment board.
	v1.GET("/buildings", h.Buildings.List, cached)
	v1.POST("/buildings", h.Buildings.Create)
	v1.GET("/buildings/:id", h.Buildings.Get)
	v1.PATCH("/buildings/:id", h.Buildings.Update)
	v1.DELETE("/buildings/:id", h.Buildings.Delete, admin)
	v1.POST("/buildings/:id/assign", h.Buildings.Assign)
	v1.GET("/buildings/:id/gaps", h.Buildings.Gaps)
	v1.GET("/board", h.Buildings.Board, cached)

	// Policies, their history, claims and documents.
	v1.GET("/policies", h.Policies.List, cached)
	v1.POST("/policies", h.Policies.Create)
	v1.GET("/policies/:id", h.Policies.Get)
	v1.PUT("/policies/:id", h.Policies.Update)
	v1.DELETE("/policies/:id", h.Policies.Delete, admin)
	v1.GET("/policies/:id/history", h.Policies.ListHistory)
	v1.POST("/policies/:id/history", h.Policies.AddHistory)
	v1.GET("/policies/:id/claims", h.Claims.List)
	v1.POST("/policies/:id/claims", h.Claims.Create)
	v1.GET("/claims", h.Claims.ListAll)
	v1.POST("/claims", h.Claims.Create)
	v1.PATCH("/claims/:claimID", h.Claims.UpdateStatus)
	v1.GET("/policies/:id/files", h.Documents.ListByPolicy)

	// Documents.  Upload is mounted standalone and nested under a
	// policy; the nested form binds the document to that policy.
	v1.POST("/documents", h.Documents.Upload)
	v1.POST("/policies/:id/documents", h.Documents.Upload)
	v1.GET("/documents/:id", h.Documents.Get)
	v1.GET("/documents/:id/download", h.Documents.Download)

	// Alerts.
	v1.GET("/alerts", h.Alerts.List)
	v1.POST("/alerts/check", h.Alerts.Check)
	v1.POST("/alerts/:id/read", h.Alerts.MarkRead)

	// Search and stats.
	v1.GET("/search/policies", h.Search.SearchPolicies, cached)
	v1.GET("/search/suggestions", h.Search.Suggestions, cached)
	v1.GET("/stats", h.Stats.Overview, cached)
}
