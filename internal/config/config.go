package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DBTypePostgres = "postgres"
	DBTypeSQLite   = "sqlite"

	SessionStoreDB    = "db"
	SessionStoreRedis = "redis"
)

// Config is the whole application configuration.
type Config struct {
	Port  string
	GoEnv string // dev/prod

	DBType           string
	DatabaseURL      string
	PostgresHost     string
	PostgresPort     int
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
	SQLitePath       string

	JWTSecret      string
	AccessTokenTTL time.Duration

	SessionStore string
	SessionTTL   time.Duration
	CookieSecure bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KafkaBrokers []string
	KafkaTopic   string

	AdminEmail    string
	AdminPassword string

	LogLevel  string
	LogFormat string
}

func (c Config) IsDev() bool { return c.GoEnv == "dev" }

// Load reads .env (if present) and the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the environment only.
func FromEnv() (Config, error) {
	var err error
	cfg := Config{
		Port:  getenv("PORT", "8080"),
		GoEnv: getenv("GO_ENV", "dev"),

		DBType:           strings.ToLower(getenv("DB_TYPE", DBTypeSQLite)),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresUser:     getenv("POSTGRES_USER", "postgres"),
		PostgresPassword: getenv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getenv("POSTGRES_DB", "lume"),
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),
		SQLitePath:       getenv("SQLITE_PATH", "lume.db"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		SessionStore: strings.ToLower(getenv("SESSION_STORE", SessionStoreDB)),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   getenv("KAFKA_TOPIC", "lume.orders"),

		AdminEmail:    getenv("ADMIN_EMAIL", "admin@lume.com"),
		AdminPassword: getenv("ADMIN_PASSWORD", "admin123"),

		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "json"),
	}

	if cfg.PostgresPort, err = atoiDefault("POSTGRES_PORT", 5432); err != nil {
		return Config{}, err
	}
	if cfg.RedisDB, err = atoiDefault("REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	if cfg.AccessTokenTTL, err = durationDefault("ACCESS_TOKEN_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.SessionTTL, err = durationDefault("SESSION_TTL", 7*24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.CookieSecure, err = boolDefault("COOKIE_SECURE", !cfg.IsDev()); err != nil {
		return Config{}, err
	}

	if cfg.DBType != DBTypePostgres && cfg.DBType != DBTypeSQLite {
		return Config{}, fmt.Errorf("DB_TYPE must be %s or %s, got %q", DBTypePostgres, DBTypeSQLite, cfg.DBType)
	}
	if cfg.SessionStore != SessionStoreDB && cfg.SessionStore != SessionStoreRedis {
		return Config{}, fmt.Errorf("SESSION_STORE must be %s or %s, got %q", SessionStoreDB, SessionStoreRedis, cfg.SessionStore)
	}
	if cfg.JWTSecret == "" {
		if !cfg.IsDev() {
			return Config{}, fmt.Errorf("JWT_SECRET is required")
		}
		cfg.JWTSecret = "dev-secret"
	}
	if cfg.AccessTokenTTL <= 0 {
		return Config{}, fmt.Errorf("ACCESS_TOKEN_TTL must be positive")
	}
	if cfg.SessionTTL <= 0 {
		return Config{}, fmt.Errorf("SESSION_TTL must be positive")
	}

	return cfg, nil
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func atoiDefault(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func durationDefault(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}

func boolDefault(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return b, nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
