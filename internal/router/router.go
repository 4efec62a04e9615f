// Package router registers the HTTP routes and their middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/andreafabbri97/restaurant-manager/internal/config"
	"github.com/andreafabbri97/restaurant-manager/internal/handler"
	"github.com/andreafabbri97/restaurant-manager/internal/middleware"
	"github.com/andreafabbri97/restaurant-manager/internal/model"
)

// Handlers groups everything the router wires up.
type Handlers struct {
	Auth     *handler.AuthHandler
	Users    *handler.UserHandler
	Tables   *handler.TableHandler
	Sessions *handler.SessionHandler
	Orders   *handler.OrderHandler
	Menu     *handler.MenuHandler
	Settings *handler.SettingsHandler
}

// Register wires all routes on the Echo instance.
//
// Route groups:
//   - public: health plus the cached menu reads
//   - /v1/auth: login and refresh, no token required
//   - /v1 (STAFF or ADMIN): the POS surface: tables, sessions, orders,
//     settings
//   - /v1 (ADMIN): account and menu administration
func Register(e *echo.Echo, h Handlers, cfg config.Config, rdb *redis.Client) {
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	e.GET("/healthz", handler.Health)

	// Public menu reads sit behind the Redis response cache so the
	// order-entry screen can hammer them cheaply.
	cached := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	e.GET("/v1/menu", h.Menu.Items, cached)
	e.GET("/v1/categories", h.Menu.Categories, cached)

	auth := e.Group("/v1/auth")
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/logout", h.Auth.Logout, middleware.JWTAuth(cfg.JWTSecret))

	// The POS surface: any authenticated staff member.
	pos := e.Group("/v1")
	pos.Use(middleware.JWTAuth(cfg.JWTSecret))
	pos.Use(middleware.RequireRole(model.RoleAdmin, model.RoleStaff))

	pos.GET("/tables", h.Tables.List)
	pos.GET("/tables/:id/session", h.Tables.Session)

	pos.POST("/sessions", h.Sessions.Open)
	pos.GET("/sessions/:id", h.Sessions.Get)
	pos.GET("/sessions/:id/orders", h.Sessions.Orders)
	pos.POST("/sessions/:id/close", h.Sessions.Close)

	pos.POST("/orders", h.Orders.Create)
	pos.GET("/orders", h.Orders.List)
	pos.GET("/orders/board", h.Orders.BoardView)
	pos.GET("/orders/:id/items", h.Orders.Items)
	pos.POST("/orders/:id/advance", h.Orders.Advance)
	pos.PATCH("/orders/:id", h.Orders.Patch)
	pos.DELETE("/orders/:id", h.Orders.Delete)

	pos.GET("/settings", h.Settings.Get)

	// Administration: ADMIN only.
	admin := e.Group("/v1")
	admin.Use(middleware.JWTAuth(cfg.JWTSecret))
	admin.Use(middleware.RequireRole(model.RoleAdmin))

	admin.PUT("/settings", h.Settings.Update)

	admin.GET("/users", h.Users.List)
	admin.POST("/users", h.Users.Create)
	admin.PATCH("/users/:id", h.Users.Update)
	admin.DELETE("/users/:id", h.Users.Delete)

	admin.POST("/categories", h.Menu.CreateCategory)
	admin.PATCH("/categories/:id", h.Menu.UpdateCategory)
	admin.DELETE("/categories/:id", h.Menu.DeleteCategory)

	admin.POST("/menu", h.Menu.CreateItem)
	admin.PUT("/menu/:id", h.Menu.UpdateItem)
	admin.PATCH("/menu/:id/availability", h.Menu.SetAvailability)
	admin.DELETE("/menu/:id", h.Menu.DeleteItem)
}
