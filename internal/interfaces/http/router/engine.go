package router

import (
	"github.com/erp/purchasing/internal/infrastructure/logger"
	"github.com/erp/purchasing/internal/interfaces/http/handler"
	"github.com/erp/purchasing/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// EngineConfig selects the middleware stack of the HTTP engine
type EngineConfig struct {
	Logger         *zap.Logger
	TrustedProxies []string
	Tracing        middleware.TracingConfig
	// Meter enables HTTP metrics when set
	Meter       metric.Meter
	Security    middleware.SecurityConfig
	CORS        middleware.CORSConfig
	MaxBodySize int64
	// RateLimiter enables per-client rate limiting when set
	RateLimiter *middleware.RateLimiter
	Auth        middleware.AuthConfig
}

// Handlers groups the HTTP handlers served by the engine
type Handlers struct {
	Products  *handler.ProductHandler
	Purchases *handler.PurchaseHandler
	Auth      *handler.AuthHandler
	Health    *handler.HealthHandler
}

// NewEngine builds the gin engine with the full middleware chain and every
// route registered.
func NewEngine(cfg EngineConfig, h Handlers) (*gin.Engine, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Auth.Logger == nil {
		cfg.Auth.Logger = log
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
			return nil, err
		}
	}

	engine.Use(logger.Recovery(log))
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing(cfg.Tracing))
	engine.Use(middleware.SpanAttributes())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.SecureWithConfig(cfg.Security))
	engine.Use(middleware.CORSWithConfig(cfg.CORS))
	if cfg.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.MaxBodySize))
	}
	if cfg.RateLimiter != nil {
		engine.Use(middleware.RateLimit(cfg.RateLimiter))
	}
	if cfg.Meter != nil {
		httpMetrics, err := middleware.HTTPMetrics(cfg.Meter)
		if err != nil {
			return nil, err
		}
		engine.Use(httpMetrics)
	}

	if h.Health != nil {
		engine.GET("/health", h.Health.Check)
	}

	r := NewRouter(engine)
	r.Use(middleware.Authenticate(cfg.Auth))

	if h.Auth != nil {
		authRoutes := NewResourceGroup("auth", "/auth")
		authRoutes.POST("/signup", h.Auth.Signup)
		authRoutes.POST("/login", h.Auth.Login)
		authRoutes.POST("/logout", middleware.RequireAuthentication(), h.Auth.Logout)
		r.Register(authRoutes)
	}

	if h.Products != nil {
		productRoutes := NewResourceGroup("products", "/products")
		productRoutes.POST("", h.Products.Create)
		productRoutes.GET("", h.Products.List)
		productRoutes.GET("/:id", h.Products.GetByID)
		productRoutes.PATCH("/:id", h.Products.Patch)
		productRoutes.GET("/:id/inventory", h.Products.GetInventory)
		r.Register(productRoutes)
	}

	if h.Purchases != nil {
		purchaseRoutes := NewResourceGroup("purchases", "/purchases")
		purchaseRoutes.POST("", h.Purchases.Create)
		purchaseRoutes.GET("", h.Purchases.List)
		purchaseRoutes.GET("/:id", h.Purchases.GetByID)
		purchaseRoutes.DELETE("/:id", h.Purchases.Delete)
		r.Register(purchaseRoutes)
	}

	for _, rt := range r.Setup() {
		log.Debug("route mounted",
			zap.String("resource", rt.Resource),
			zap.String("method", rt.Method),
			zap.String("path", rt.Path),
		)
	}
	return engine, nil
}
