package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	QR       QRConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	Host         string
	Port         string
	Username     string
	Password     string
	Database     string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
	// DevSchema creates tables straight from the models instead of running
	// the SQL migrations. Local development only.
	DevSchema bool
}

type RedisConfig struct {
	Addr string
	// TicketTypeTTL bounds how stale the cached ticket-type listing of an
	// event may get between purchases.
	TicketTypeTTL time.Duration
}

type KafkaConfig struct {
	Brokers  []string
	Topics   TopicConfig
	Enabled  bool
	MockMode bool
}

type TopicConfig struct {
	OrderCompleted string
	TicketScanned  string
}

type QRConfig struct {
	// Secret keys both the HMAC signer and legacy token verification.
	Secret string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", ":8080"),
			ReadTimeout:  15 * time.Second,
			// WriteTimeout stays zero so long-lived SSE streams are not cut off.
			WriteTimeout: 0,
			IdleTimeout:  60 * time.Second,
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			Username:     getEnv("DB_USERNAME", "temba_user"),
			Password:     getEnv("DB_PASSWORD", "temba_pass"),
			Database:     getEnv("DB_NAME", "temba_ticketing"),
			MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  time.Duration(getEnvInt("DB_MAX_LIFETIME_MINUTES", 5)) * time.Minute,
			DevSchema:    getEnvBool("DB_DEV_SCHEMA", false),
		},
		Redis: RedisConfig{
			Addr:          getEnv("REDIS_ADDR", "localhost:6379"),
			TicketTypeTTL: time.Duration(getEnvInt("TICKET_TYPE_CACHE_TTL_SECONDS", 60)) * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:  []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			Enabled:  getEnvBool("KAFKA_ENABLED", true),
			MockMode: getEnvBool("KAFKA_MOCK_MODE", false),
			Topics: TopicConfig{
				OrderCompleted: getEnv("KAFKA_TOPIC_ORDER_COMPLETED", "order-completed"),
				TicketScanned:  getEnv("KAFKA_TOPIC_TICKET_SCANNED", "ticket-scanned"),
			},
		},
		QR: QRConfig{
			Secret: getEnv("QR_SECRET_KEY", "default-secret-key"),
		},
	}
}

func (c *Config) DSN() string {
	return "postgres://" + c.Database.Username + ":" + c.Database.Password +
		"@" + c.Database.Host + ":" + c.Database.Port + "/" + c.Database.Database +
		"?sslmode=disable"
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
