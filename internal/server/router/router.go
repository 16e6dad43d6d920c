package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mamadbah2/cctvstore/internal/config"
	"github.com/mamadbah2/cctvstore/internal/server/handlers"
	"github.com/mamadbah2/cctvstore/internal/server/middleware"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps carries everything the router mounts.
type Deps struct {
	Auth      *handlers.AuthHandler
	Products  *handlers.ProductHandler
	Suppliers *handlers.SupplierHandler
	Orders    *handlers.OrderHandler

	Authenticator middleware.Authenticator
	Store         Pinger
	Registry      *prometheus.Registry
}

// New wires the Gin engine with required routes and middlewares.
func New(cfg config.ServerConfig, authCfg config.AuthConfig, deps Deps, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	registry := deps.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	metrics := middleware.NewMetrics(registry, "cctvstore")

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(metrics.Handler())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", healthz(deps.Store))
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	requireAuth := middleware.Auth(deps.Authenticator, authCfg.CookieName)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", deps.Auth.Register)
		authGroup.POST("/login", deps.Auth.Login)
		authGroup.POST("/logout", deps.Auth.Logout)

		users := authGroup.Group("", requireAuth)
		users.GET("/me", deps.Auth.Me)
		users.POST("/users", deps.Auth.AddUser)
		users.GET("/users", deps.Auth.ListUsers)
		users.GET("/users/:id", deps.Auth.GetUser)
		users.PUT("/users/:id", deps.Auth.UpdateUser)
		users.DELETE("/users/:id", deps.Auth.DeleteUser)
	}

	products := api.Group("/products", requireAuth)
	{
		products.POST("/add", deps.Products.Add)
		products.GET("", deps.Products.List)
		products.GET("/today", deps.Products.Today)
		products.GET("/low-stock", deps.Products.LowStock)
		products.GET("/:id", deps.Products.Get)
		products.PUT("/:id", deps.Products.Update)
		products.DELETE("/:id", deps.Products.Delete)
	}

	suppliers := api.Group("/master/supplier", requireAuth)
	{
		suppliers.POST("", deps.Suppliers.Create)
		suppliers.GET("", deps.Suppliers.List)
		suppliers.GET("/:id", deps.Suppliers.Get)
		suppliers.PUT("/:id", deps.Suppliers.Update)
		suppliers.DELETE("/:id", deps.Suppliers.Delete)
	}

	orders := api.Group("/orders", requireAuth)
	{
		orders.POST("/add", deps.Orders.Create)
		orders.GET("", deps.Orders.List)
		orders.GET("/summary", deps.Orders.Summary)

		orders.POST("/debit-notes", deps.Orders.CreateDebitNote)
		orders.GET("/debit-notes", deps.Orders.ListDebitNotes)
		orders.GET("/debit-notes/:id", deps.Orders.GetDebitNote)
		orders.PUT("/debit-notes/:id", deps.Orders.UpdateDebitNote)
		orders.DELETE("/debit-notes/:id", deps.Orders.DeleteDebitNote)

		orders.GET("/:id", deps.Orders.Get)
		orders.PATCH("/:id/status", deps.Orders.UpdateStatus)
		orders.GET("/:id/invoice", deps.Orders.Invoice)
	}

	logger.Info("router initialized")
	return r
}

func healthz(store Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := store.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
