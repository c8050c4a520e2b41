package handler

import (
	"svc-wallet/internal/adapter/http/middleware"
	redisStore "svc-wallet/internal/adapter/storage/redis"
	"svc-wallet/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	WalletSvc      ports.WalletService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.TraceID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Probes
	r.GET("/live", Live)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	walletHandler := NewWalletHandler(deps.WalletSvc)
	wallets := r.Group("/wallets")
	{
		wallets.POST("", rl("wallets_create"), walletHandler.CreateWallet)
		wallets.GET("/:userId", rl("wallets_read"), walletHandler.GetWallet)
		wallets.POST("/:userId/deposit", rl("wallets_deposit"), walletHandler.Deposit)
		wallets.POST("/:userId/withdraw", rl("wallets_withdraw"), walletHandler.Withdraw)
		wallets.DELETE("/:userId", rl("wallets_delete"), walletHandler.DeleteWallet)
	}

	return r
}
