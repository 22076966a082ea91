package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string

	HTTPAddr string

	LogLevel string

	OtelEnabled  bool
	OTLPEndpoint string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime time.Duration

	// DataDir is the root of the per-year audit partitions (log<year>/...).
	DataDir string

	RedisAddr      string
	RedisPassword  string
	ReportCacheTTL time.Duration

	// ReportRebuildSpec is a cron expression for the periodic full rebuild.
	ReportRebuildSpec string

	// ProcessedByTag identifies this system in audit records.
	ProcessedByTag string

	// VerifyPhone enables cross-checking the submitted phone against the
	// ledger owner's phone. Off by default.
	VerifyPhone bool

	// MessageLanguage selects the decline message catalog (bn, en).
	MessageLanguage string

	DecisionTimeout    time.Duration
	WaitNoMembers      time.Duration
	WaitBetweenMembers time.Duration
	WaitOnError        time.Duration
}

// Load reads configuration from the environment and an optional .env file.
func Load() Config {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_SERVICE", "groupgate")
	v.SetDefault("APP_VERSION", "0.1.0")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("HTTP_ADDR", ":3000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTLP_ENDPOINT", "localhost:4317")

	v.SetDefault("DATABASE_TYPE", "postgres")
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", "5432")
	v.SetDefault("DATABASE_NAME", "groupgate")
	v.SetDefault("DATABASE_USER", "postgres")
	v.SetDefault("DATABASE_PASSWORD", "")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DATABASE_MAX_IDLE_CONN", 5)
	v.SetDefault("DATABASE_MAX_OPEN_CONN", 20)
	v.SetDefault("DATABASE_CONN_MAX_LIFETIME", time.Hour)

	v.SetDefault("DATA_DIR", "data")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REPORT_CACHE_TTL", 5*time.Minute)
	v.SetDefault("REPORT_REBUILD_SPEC", "@hourly")
	v.SetDefault("PROCESSED_BY", "groupgate-automation")
	v.SetDefault("VERIFY_PHONE", false)
	v.SetDefault("MESSAGE_LANGUAGE", "bn")

	v.SetDefault("DECISION_TIMEOUT", 10*time.Second)
	v.SetDefault("WAIT_NO_MEMBERS", 3*time.Second)
	v.SetDefault("WAIT_BETWEEN_MEMBERS", 3*time.Second)
	v.SetDefault("WAIT_ON_ERROR", 3*time.Second)

	return Config{
		AppName:     v.GetString("APP_SERVICE"),
		AppVersion:  v.GetString("APP_VERSION"),
		Environment: v.GetString("ENVIRONMENT"),

		HTTPAddr: v.GetString("HTTP_ADDR"),
		LogLevel: strings.ToLower(strings.TrimSpace(v.GetString("LOG_LEVEL"))),

		OtelEnabled:  v.GetBool("OTEL_ENABLED"),
		OTLPEndpoint: strings.TrimSpace(v.GetString("OTLP_ENDPOINT")),

		DBType:            v.GetString("DATABASE_TYPE"),
		DBHost:            v.GetString("DATABASE_HOST"),
		DBPort:            v.GetString("DATABASE_PORT"),
		DBName:            v.GetString("DATABASE_NAME"),
		DBUser:            v.GetString("DATABASE_USER"),
		DBPassword:        v.GetString("DATABASE_PASSWORD"),
		DBSSLMode:         v.GetString("DATABASE_SSLMODE"),
		DBMaxIdleConn:     v.GetInt("DATABASE_MAX_IDLE_CONN"),
		DBMaxOpenConn:     v.GetInt("DATABASE_MAX_OPEN_CONN"),
		DBConnMaxLifetime: v.GetDuration("DATABASE_CONN_MAX_LIFETIME"),

		DataDir: v.GetString("DATA_DIR"),

		RedisAddr:      strings.TrimSpace(v.GetString("REDIS_ADDR")),
		RedisPassword:  v.GetString("REDIS_PASSWORD"),
		ReportCacheTTL: v.GetDuration("REPORT_CACHE_TTL"),

		ReportRebuildSpec: v.GetString("REPORT_REBUILD_SPEC"),
		ProcessedByTag:    v.GetString("PROCESSED_BY"),
		VerifyPhone:       v.GetBool("VERIFY_PHONE"),
		MessageLanguage:   strings.ToLower(strings.TrimSpace(v.GetString("MESSAGE_LANGUAGE"))),

		DecisionTimeout:    v.GetDuration("DECISION_TIMEOUT"),
		WaitNoMembers:      v.GetDuration("WAIT_NO_MEMBERS"),
		WaitBetweenMembers: v.GetDuration("WAIT_BETWEEN_MEMBERS"),
		WaitOnError:        v.GetDuration("WAIT_ON_ERROR"),
	}
}

func (c Config) IsDev() bool {
	switch strings.ToLower(strings.TrimSpace(c.Environment)) {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}
