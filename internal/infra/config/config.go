package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	App       AppSettings       `mapstructure:"app"`
	Postgres  PostgresSettings  `mapstructure:"postgres"`
	Redis     RedisSettings     `mapstructure:"redis"`
	Kafka     KafkaSettings     `mapstructure:"kafka"`
	Auth      AuthSettings      `mapstructure:"auth"`
	Tokens    TokenSettings     `mapstructure:"tokens"`
	Password  PasswordSettings  `mapstructure:"password"`
	Mail      MailSettings      `mapstructure:"mail"`
	RateLimit RateLimitSettings `mapstructure:"rate_limit"`
	CORS      CORSSettings      `mapstructure:"cors"`
	Argon2    Argon2Settings    `mapstructure:"argon2"`
}

type AppSettings struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type PostgresSettings struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	User              string        `mapstructure:"user"`
	Password          string        `mapstructure:"password"`
	Database          string        `mapstructure:"database"`
	SSLMode           string        `mapstructure:"ssl_mode"`
	MaxConns          int32         `mapstructure:"max_conns"`
	MinConns          int32         `mapstructure:"min_conns"`
	MaxConnLifetime   time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   time.Duration `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod time.Duration `mapstructure:"health_check_period"`
}

// RedisSettings configures Redis connection and TLS
type RedisSettings struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	DB         int    `mapstructure:"db"`
	Password   string `mapstructure:"password"`
	TLSEnabled bool   `mapstructure:"tls_enabled"`
}

// KafkaSettings configures the domain event producer. With Enabled false the
// service falls back to a logging publisher so it can run without a broker.
type KafkaSettings struct {
	Enabled     bool     `mapstructure:"enabled"`
	Brokers     []string `mapstructure:"brokers"`
	TopicPrefix string   `mapstructure:"topic_prefix"`
	Async       bool     `mapstructure:"async"`
}

// AuthSettings configures the session token pair. JWTSecret falls back to
// tokens.secret when left empty.
type AuthSettings struct {
	JWTSecret       string        `mapstructure:"jwt_secret"`
	Issuer          string        `mapstructure:"issuer"`
	AccessTokenTTL  time.Duration `mapstructure:"access_token_ttl"`
	RefreshTokenTTL time.Duration `mapstructure:"refresh_token_ttl"`
}

// TokenSettings configures the signed email tokens for verification and
// password reset. Each purpose gets its own salt so tokens cannot cross over.
type TokenSettings struct {
	Secret                  string        `mapstructure:"secret"`
	PasswordResetSalt       string        `mapstructure:"password_reset_salt"`
	PasswordResetMaxAge     time.Duration `mapstructure:"password_reset_max_age"`
	EmailVerificationSalt   string        `mapstructure:"email_verification_salt"`
	EmailVerificationMaxAge time.Duration `mapstructure:"email_verification_max_age"`
}

type PasswordSettings struct {
	MinLength int `mapstructure:"min_length"`
}

// MailSettings configures outbound SMTP. With Enabled false emails are logged
// instead of sent, which keeps local development free of a mail server.
type MailSettings struct {
	Enabled         bool   `mapstructure:"enabled"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	UseTLS          bool   `mapstructure:"use_tls"`
	Sender          string `mapstructure:"sender"`
	FrontendBaseURL string `mapstructure:"frontend_base_url"`
}

// RateLimitSettings configures the sliding window applied to the email
// dispatching endpoints.
type RateLimitSettings struct {
	Enabled                       bool          `mapstructure:"enabled"`
	WindowDuration                time.Duration `mapstructure:"window_duration"`
	ForgotPasswordMaxAttempts     int           `mapstructure:"forgot_password_max_attempts"`
	ResendVerificationMaxAttempts int           `mapstructure:"resend_verification_max_attempts"`
}

type CORSSettings struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Argon2Settings configures Argon2id password hashing parameters
type Argon2Settings struct {
	Memory      uint32 `mapstructure:"memory"`
	Iterations  uint32 `mapstructure:"iterations"`
	Parallelism uint8  `mapstructure:"parallelism"`
	SaltLength  uint32 `mapstructure:"salt_length"`
	KeyLength   uint32 `mapstructure:"key_length"`
}

func Load() (*AppConfig, error) {
	v := viper.New()

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("AUTH")

	setDefaults(v)

	if err := bindEnvs(v, []string{
		"app.name",
		"app.env",
		"app.host",
		"app.port",
		"postgres.host",
		"postgres.port",
		"postgres.user",
		"postgres.password",
		"postgres.database",
		"postgres.ssl_mode",
		"postgres.max_conns",
		"postgres.min_conns",
		"postgres.max_conn_lifetime",
		"postgres.max_conn_idle_time",
		"postgres.health_check_period",
		"redis.host",
		"redis.port",
		"redis.db",
		"redis.password",
		"redis.tls_enabled",
		"kafka.enabled",
		"kafka.brokers",
		"kafka.topic_prefix",
		"kafka.async",
		"auth.jwt_secret",
		"auth.issuer",
		"auth.access_token_ttl",
		"auth.refresh_token_ttl",
		"tokens.secret",
		"tokens.password_reset_salt",
		"tokens.password_reset_max_age",
		"tokens.email_verification_salt",
		"tokens.email_verification_max_age",
		"password.min_length",
		"mail.enabled",
		"mail.host",
		"mail.port",
		"mail.username",
		"mail.password",
		"mail.use_tls",
		"mail.sender",
		"mail.frontend_base_url",
		"rate_limit.enabled",
		"rate_limit.window_duration",
		"rate_limit.forgot_password_max_attempts",
		"rate_limit.resend_verification_max_attempts",
		"cors.allowed_origins",
		"argon2.memory",
		"argon2.iterations",
		"argon2.parallelism",
		"argon2.salt_length",
		"argon2.key_length",
	}); err != nil {
		return nil, err
	}

	v.AutomaticEnv()

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = cfg.Tokens.Secret
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "auth-service")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.host", "0.0.0.0")
	v.SetDefault("app.port", 8080)

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "auth")
	v.SetDefault("postgres.password", "auth_password")
	v.SetDefault("postgres.database", "auth")
	v.SetDefault("postgres.ssl_mode", "disable")
	v.SetDefault("postgres.max_conns", 10)
	v.SetDefault("postgres.min_conns", 2)
	v.SetDefault("postgres.max_conn_lifetime", "60m")
	v.SetDefault("postgres.max_conn_idle_time", "15m")
	v.SetDefault("postgres.health_check_period", "30s")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.tls_enabled", false)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic_prefix", "auth")
	v.SetDefault("kafka.async", true)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "auth-service")
	v.SetDefault("auth.access_token_ttl", "15m")
	v.SetDefault("auth.refresh_token_ttl", "720h")

	v.SetDefault("tokens.secret", "dev-secret-key-change-in-production")
	v.SetDefault("tokens.password_reset_salt", "password-reset-salt")
	v.SetDefault("tokens.password_reset_max_age", "1h")
	v.SetDefault("tokens.email_verification_salt", "email-verification-salt")
	v.SetDefault("tokens.email_verification_max_age", "24h")

	v.SetDefault("password.min_length", 8)

	v.SetDefault("mail.enabled", false)
	v.SetDefault("mail.host", "localhost")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.username", "")
	v.SetDefault("mail.password", "")
	v.SetDefault("mail.use_tls", true)
	v.SetDefault("mail.sender", "noreply@example.com")
	v.SetDefault("mail.frontend_base_url", "http://localhost:5000")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.window_duration", "1h")
	v.SetDefault("rate_limit.forgot_password_max_attempts", 3)
	v.SetDefault("rate_limit.resend_verification_max_attempts", 3)

	v.SetDefault("cors.allowed_origins", []string{"*"})

	v.SetDefault("argon2.memory", 65536) // 64 MB
	v.SetDefault("argon2.iterations", 3)
	v.SetDefault("argon2.parallelism", 4)
	v.SetDefault("argon2.salt_length", 16)
	v.SetDefault("argon2.key_length", 32)
}

func bindEnvs(v *viper.Viper, keys []string) error {
	for _, key := range keys {
		envKey := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, "AUTH_"+envKey, envKey); err != nil {
			return fmt.Errorf("bind env for %s: %w", key, err)
		}
	}
	return nil
}
