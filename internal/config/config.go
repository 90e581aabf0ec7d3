package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	NATS         NATSConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Notification NotificationConfig
	Matching     MatchingConfig
	Sessions     SessionConfig
	Cache        CacheConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NATSConfig holds the broker URL and the subjects used by the matching worker.
type NATSConfig struct {
	URL             string
	RequestSubject  string
	ResponseSubject string
	ErrorSubject    string
	EventPrefix     string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level   string
	Format  string
	Service string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret               string
	AccessTokenTTLMinutes   int
	RefreshTokenTTLMinutes  int
	PasswordResetTTLMinutes int
	BcryptCost              int
}

// NotificationConfig holds notification endpoints.
type NotificationConfig struct {
	EmailFrom             string
	WebhookURL            string
	WebhookTimeoutSeconds int
	DeliveryAttempts      int
	RetryBackoffMillis    int
}

// MatchingConfig carries the default weight vector used until an admin stores one.
type MatchingConfig struct {
	SkillWeight         int
	ExperienceWeight    int
	RatingWeight        int
	AvailabilityWeight  int
	PriceWeight         int
	ConfidenceThreshold float64
	MaxResults          int
	AlgorithmVersion    string
}

// SessionConfig bounds session lifecycle operations.
type SessionConfig struct {
	MaxReschedules int
}

// CacheConfig holds Redis TTLs in seconds.
type CacheConfig struct {
	CoachTTLSeconds       int
	MatchResultTTLSeconds int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	threshold, err := strconv.ParseFloat(getEnv("MATCHING_CONFIDENCE_THRESHOLD", "60"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid MATCHING_CONFIDENCE_THRESHOLD: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "coaching-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		NATS: NATSConfig{
			URL:             os.Getenv("NATS_URL"),
			RequestSubject:  getEnv("NATS_MATCHING_REQUEST_SUBJECT", "matching.requests"),
			ResponseSubject: getEnv("NATS_MATCHING_RESPONSE_SUBJECT", "matching.responses"),
			ErrorSubject:    getEnv("NATS_MATCHING_ERROR_SUBJECT", "matching.errors"),
			EventPrefix:     getEnv("NATS_EVENT_PREFIX", "events"),
		},
		Logger: LoggerConfig{
			Level:   getEnv("LOG_LEVEL", "info"),
			Format:  getEnv("LOG_FORMAT", "json"),
			Service: getEnv("APP_NAME", "coaching-service"),
		},
		Auth: AuthConfig{
			JWTSecret:               getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes:   getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			RefreshTokenTTLMinutes:  getEnvAsInt("AUTH_REFRESH_TOKEN_TTL_MINUTES", 60*24*7),
			PasswordResetTTLMinutes: getEnvAsInt("AUTH_PASSWORD_RESET_TTL_MINUTES", 30),
			BcryptCost:              getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Notification: NotificationConfig{
			EmailFrom:             getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			WebhookURL:            getEnv("NOTIFY_WEBHOOK_URL", ""),
			WebhookTimeoutSeconds: getEnvAsInt("NOTIFY_WEBHOOK_TIMEOUT_SECONDS", 5),
			DeliveryAttempts:      getEnvAsInt("NOTIFY_DELIVERY_ATTEMPTS", 3),
			RetryBackoffMillis:    getEnvAsInt("NOTIFY_RETRY_BACKOFF_MS", 200),
		},
		Matching: MatchingConfig{
			SkillWeight:         getEnvAsInt("MATCHING_SKILL_WEIGHT", 30),
			ExperienceWeight:    getEnvAsInt("MATCHING_EXPERIENCE_WEIGHT", 25),
			RatingWeight:        getEnvAsInt("MATCHING_RATING_WEIGHT", 20),
			AvailabilityWeight:  getEnvAsInt("MATCHING_AVAILABILITY_WEIGHT", 15),
			PriceWeight:         getEnvAsInt("MATCHING_PRICE_WEIGHT", 10),
			ConfidenceThreshold: threshold,
			MaxResults:          getEnvAsInt("MATCHING_MAX_RESULTS", 10),
			AlgorithmVersion:    getEnv("MATCHING_ALGORITHM_VERSION", "1.0.0"),
		},
		Sessions: SessionConfig{
			MaxReschedules: getEnvAsInt("SESSION_MAX_RESCHEDULES", 3),
		},
		Cache: CacheConfig{
			CoachTTLSeconds:       getEnvAsInt("COACH_CACHE_TTL_SECONDS", 3600),
			MatchResultTTLSeconds: getEnvAsInt("MATCH_RESULT_TTL_SECONDS", 3600),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// RetryBackoff is the pause before the second delivery attempt. It doubles after each failure.
func (n NotificationConfig) RetryBackoff() time.Duration {
	if n.RetryBackoffMillis <= 0 {
		return 0
	}
	return time.Duration(n.RetryBackoffMillis) * time.Millisecond
}

// WebhookTimeout returns the outbound webhook timeout.
func (n NotificationConfig) WebhookTimeout() time.Duration {
	if n.WebhookTimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(n.WebhookTimeoutSeconds) * time.Second
}

// CoachTTL returns the coach cache expiry.
func (c CacheConfig) CoachTTL() time.Duration {
	return time.Duration(c.CoachTTLSeconds) * time.Second
}

// MatchResultTTL returns the match result cache expiry.
func (c CacheConfig) MatchResultTTL() time.Duration {
	return time.Duration(c.MatchResultTTLSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
