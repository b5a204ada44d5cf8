package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/arklim/social-platform-auth/internal/core/port"
	"github.com/arklim/social-platform-auth/internal/infra/config"
	"github.com/arklim/social-platform-auth/internal/infra/database"
	kafkainfra "github.com/arklim/social-platform-auth/internal/infra/kafka"
	"github.com/arklim/social-platform-auth/internal/infra/logger"
	mailinfra "github.com/arklim/social-platform-auth/internal/infra/mail"
	redisinfra "github.com/arklim/social-platform-auth/internal/infra/redis"
	"github.com/arklim/social-platform-auth/internal/infra/security"
	postgresrepo "github.com/arklim/social-platform-auth/internal/repository/postgres"
	redisrepo "github.com/arklim/social-platform-auth/internal/repository/redis"
	"github.com/arklim/social-platform-auth/internal/transport/http/middleware"
	"github.com/arklim/social-platform-auth/internal/transport/http/routes"
	"github.com/arklim/social-platform-auth/internal/usecase"
)

// Application bundles the HTTP engine with the backing connections it
// owns, so Run can release everything on the way out.
type Application struct {
	cfg    *config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
	pool   *pgxpool.Pool
	redis  *redisinfra.Client
	kafka  *kafkainfra.Producer
}

// New wires configuration into a ready-to-run application: postgres
// with migrations applied, redis, the optional kafka producer, and the
// HTTP router with all services attached.
func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	a := &Application{cfg: cfg, logger: log}

	a.pool, err = database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	if err := database.Migrate(ctx, a.pool, log); err != nil {
		a.closeInfra()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	a.redis, err = redisinfra.NewClient(cfg.Redis, log)
	if err != nil {
		a.closeInfra()
		return nil, fmt.Errorf("init redis: %w", err)
	}

	events, producer := newEventPublisher(cfg, log)
	a.kafka = producer

	mailSender, err := newMailSender(cfg, log)
	if err != nil {
		a.closeInfra()
		return nil, fmt.Errorf("init mail sender: %w", err)
	}

	users := postgresrepo.NewUserRepository(a.pool)
	hasher := security.NewArgon2HasherWithParams(security.Argon2Params{
		Memory:      cfg.Argon2.Memory,
		Iterations:  cfg.Argon2.Iterations,
		Parallelism: cfg.Argon2.Parallelism,
		SaltLength:  cfg.Argon2.SaltLength,
		KeyLength:   cfg.Argon2.KeyLength,
	})
	signer := security.NewTokenSigner(cfg.Tokens.Secret)
	sessions := security.NewSessionManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)

	rateLimitWindow := cfg.RateLimit.WindowDuration
	if rateLimitWindow <= 0 {
		rateLimitWindow = time.Hour
	}
	rateLimitStore := redisrepo.NewRateLimitRepository(a.redis.Client(), redisrepo.SlidingWindowConfig{
		KeyPrefix: "auth:rate-limit",
		TTL:       rateLimitWindow * 2,
	})
	rateLimiter := middleware.NewRateLimiter(rateLimitStore, log)

	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{Namespace: "auth"})
	if err != nil {
		a.closeInfra()
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	a.engine = routes.Register(routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		RateLimiter: rateLimiter,
		Metrics:     metrics,
		Sessions:    sessions,
		Mail:        mailSender,
		Database:    a.pool,
		Cache:       a.redis,
		Services: routes.ServiceSet{
			Registration:  usecase.NewRegistrationService(cfg, users, hasher, signer, events, log),
			Auth:          usecase.NewAuthService(users, hasher, sessions, events, log),
			PasswordReset: usecase.NewPasswordResetService(cfg, users, hasher, signer, events, log),
		},
	})

	return a, nil
}

// newEventPublisher returns the kafka-backed publisher when brokers are
// configured and reachable, falling back to the logging stub. The
// returned producer is nil when the stub is in use.
func newEventPublisher(cfg *config.AppConfig, log *zap.Logger) (port.EventPublisher, *kafkainfra.Producer) {
	if !cfg.Kafka.Enabled || len(cfg.Kafka.Brokers) == 0 {
		log.Info("kafka disabled, using stub publisher")
		return kafkainfra.NewStubPublisher(log), nil
	}

	producer, err := kafkainfra.NewProducer(cfg.Kafka, log)
	if err != nil {
		log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
		return kafkainfra.NewStubPublisher(log), nil
	}

	log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
	return kafkainfra.NewEventPublisher(producer, cfg.App, log), producer
}

// newMailSender returns the SMTP sender when mail is enabled, otherwise
// the stub that logs tokens instead of sending them.
func newMailSender(cfg *config.AppConfig, log *zap.Logger) (port.MailSender, error) {
	if !cfg.Mail.Enabled {
		log.Info("mail disabled, logging tokens instead of sending")
		return mailinfra.NewStubSender(log), nil
	}
	return mailinfra.NewSMTPSender(cfg.Mail, log)
}

// closeInfra releases backing connections in reverse construction
// order. Nil members are skipped, so it is safe after partial setup.
func (a *Application) closeInfra() {
	if a.kafka != nil {
		if err := a.kafka.Close(); err != nil {
			a.logger.Warn("closing kafka producer", zap.Error(err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("closing redis client", zap.Error(err))
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}

// Run serves HTTP until ctx is cancelled, then drains in-flight
// requests and closes the backing connections.
func (a *Application) Run(ctx context.Context) error {
	defer func() { _ = a.logger.Sync() }()
	defer a.closeInfra()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting auth API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr))

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
