package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Auth     AuthConfig
	Shop     ShopConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
	AutoMigrate  bool
}

// RedisConfig leaves Addr empty to run without Redis-backed caches and locks.
type RedisConfig struct {
	Addr            string
	QRCacheTTL      time.Duration
	CheckoutLockTTL time.Duration
	PrincipalTTL    time.Duration
}

type KafkaConfig struct {
	Brokers     []string
	TopicPrefix string
	Enabled     bool
}

type AuthConfig struct {
	JWTSecret         string
	JWTTTL            time.Duration
	OIDCIssuer        string
	AdminSetupEnabled bool
}

type ShopConfig struct {
	PublicBaseURL     string
	ContactEmail      string
	StatusTransitions string
}

type LogConfig struct {
	Dir string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", ":8080"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:          getEnv("POSTGRES_DSN", ""),
			MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  time.Duration(getEnvInt("DB_MAX_LIFETIME_MINUTES", 5)) * time.Minute,
			AutoMigrate:  getEnvBool("AUTO_MIGRATE", true),
		},
		Redis: RedisConfig{
			Addr:            getEnv("REDIS_ADDR", ""),
			QRCacheTTL:      getEnvDuration("QR_CACHE_TTL", 10*time.Minute),
			CheckoutLockTTL: getEnvDuration("CHECKOUT_LOCK_TTL", 30*time.Second),
			PrincipalTTL:    getEnvDuration("PRINCIPAL_CACHE_TTL", time.Minute),
		},
		Kafka: KafkaConfig{
			Brokers:     splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),
			TopicPrefix: getEnv("KAFKA_TOPIC_PREFIX", "myday"),
			Enabled:     getEnvBool("KAFKA_ENABLED", false),
		},
		Auth: AuthConfig{
			JWTSecret:         getEnv("JWT_SECRET", ""),
			JWTTTL:            getEnvDuration("JWT_TTL", 24*time.Hour),
			OIDCIssuer:        getEnv("OIDC_ISSUER", ""),
			AdminSetupEnabled: getEnvBool("ADMIN_SETUP_ENABLED", false),
		},
		Shop: ShopConfig{
			PublicBaseURL:     strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
			ContactEmail:      getEnv("CONTACT_EMAIL", "geral@mydayqr.pt"),
			StatusTransitions: getEnv("ORDER_STATUS_TRANSITIONS", ""),
		},
		Log: LogConfig{
			Dir: getEnv("LOG_DIR", "logs"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
