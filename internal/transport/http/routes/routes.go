package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/arklim/social-platform-auth/internal/core/port"
	"github.com/arklim/social-platform-auth/internal/infra/config"
	"github.com/arklim/social-platform-auth/internal/transport/http/handlers"
	"github.com/arklim/social-platform-auth/internal/transport/http/middleware"
	"github.com/arklim/social-platform-auth/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Registration  *usecase.RegistrationService
	Auth          *usecase.AuthService
	PasswordReset *usecase.PasswordResetService
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	Services    ServiceSet
	Sessions    port.SessionTokens
	Mail        port.MailSender
	RateLimiter *middleware.RateLimiter
	Metrics     *middleware.HTTPMetrics
	Database    DatabaseChecker
	Cache       CacheChecker
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for cache backends.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config != nil && deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.CustomRecovery(func(c *gin.Context, _ any) {
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			handlers.ErrorResponse{Error: "Internal server error"})
	}))
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(deps.Metrics.Handler())

	if deps.Config != nil && len(deps.Config.CORS.AllowedOrigins) > 0 {
		r.Use(middleware.CORS(deps.Config.CORS.AllowedOrigins))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handlers.ErrorResponse{Error: "Not found"})
	})

	healthOptions := make([]handlers.HealthOption, 0, 2)

	if deps.Database != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("database", deps.Database.Ping))
	}

	if deps.Cache != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("redis", deps.Cache.HealthCheck))
	}

	healthHandler := handlers.NewHealthHandler(healthOptions...)

	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Readiness)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	requireAuth := middleware.RequireAuth(deps.Sessions)
	requireRefresh := middleware.RequireRefresh(deps.Sessions)

	authGroup := r.Group("/auth")
	{
		authHandler := handlers.NewAuthHandler(deps.Services.Auth)
		authHandler.RegisterRoutes(authGroup, requireAuth, requireRefresh)

		registrationHandler := handlers.NewRegistrationHandler(deps.Services.Registration, deps.Mail, deps.Logger)
		registrationHandler.RegisterRoutes(authGroup, rateLimitFor(deps, "resend_verification_ip", resendVerificationLimit(deps))...)

		passwordHandler := handlers.NewPasswordHandler(deps.Services.PasswordReset, deps.Mail, deps.Logger)
		passwordHandler.RegisterRoutes(authGroup, rateLimitFor(deps, "forgot_password_ip", forgotPasswordLimit(deps))...)
	}

	env := ""
	if deps.Config != nil {
		env = deps.Config.App.Env
	}
	handlers.RegisterSwagger(r, env)

	return r
}

func forgotPasswordLimit(deps Dependencies) int {
	if deps.Config == nil {
		return 0
	}
	return deps.Config.RateLimit.ForgotPasswordMaxAttempts
}

func resendVerificationLimit(deps Dependencies) int {
	if deps.Config == nil {
		return 0
	}
	return deps.Config.RateLimit.ResendVerificationMaxAttempts
}

func rateLimitFor(deps Dependencies, name string, limit int) []gin.HandlerFunc {
	if deps.RateLimiter == nil || deps.Config == nil || !deps.Config.RateLimit.Enabled {
		return nil
	}

	if limit <= 0 {
		return nil
	}

	window := deps.Config.RateLimit.WindowDuration
	if window <= 0 {
		window = time.Hour
	}

	rule := middleware.RateLimitRule{
		Name:       name,
		Limit:      limit,
		Window:     window,
		Identifier: middleware.ClientIPIdentifier(),
	}

	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(rule)}
}
