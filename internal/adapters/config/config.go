package config

import (
	"time"

	"github.com/joho/godotenv"
)

type MongoConfig struct {
	URI                    string
	Database               string
	Timeout                time.Duration
	MaxPoolSize            uint64
	MinPoolSize            uint64
	ConnectTimeout         time.Duration
	ServerSelectionTimeout time.Duration
}

type RedisConfig struct {
	URL      string
	Password string
	DB       int
}

type RabbitMQConfig struct {
	URL             string
	MaxRetries      int
	RetryDelay      time.Duration
	ExchangeConfigs []ExchangeConfig
}

type ExchangeConfig struct {
	Name       string
	Type       string // direct, topic, fanout, headers
	Durable    bool
	AutoDelete bool
}

type OutboxConfig struct {
	BatchSize int
	Interval  time.Duration
}

type HTTPConfig struct {
	Port          string
	BindInterface string
}

type LoggerConfig struct {
	Endpoint     string
	ServiceName  string
	IsProduction bool
}

type MetricsConfig struct {
	Enabled   bool
	Namespace string
}

// PurchaseConfig tunes the checkout path around Buy.
type PurchaseConfig struct {
	IdempotencyTTL          time.Duration
	IdempotencyPollInterval time.Duration
	IdempotencyPollTimeout  time.Duration
	RateLimitRequests       int
	RateLimitWindow         time.Duration
}

type Config struct {
	Mongo    MongoConfig
	Redis    RedisConfig
	RabbitMQ RabbitMQConfig
	Outbox   OutboxConfig
	HTTP     HTTPConfig
	Logger   LoggerConfig
	Metrics  MetricsConfig
	Purchase PurchaseConfig
}

func NewConfig() *Config {
	_ = godotenv.Load()
	return &Config{
		Mongo: MongoConfig{
			URI:                    getStringEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database:               getStringEnv("MONGO_DATABASE", "shopping"),
			Timeout:                getSecondsEnv("MONGO_TIMEOUT", 10),
			MaxPoolSize:            uint64(getIntEnv("MONGO_MAX_POOL_SIZE", 100)),
			MinPoolSize:            uint64(getIntEnv("MONGO_MIN_POOL_SIZE", 10)),
			ConnectTimeout:         getSecondsEnv("MONGO_CONNECT_TIMEOUT", 10),
			ServerSelectionTimeout: getSecondsEnv("MONGO_SERVER_SELECTION_TIMEOUT", 5),
		},
		Redis: RedisConfig{
			URL:      getStringEnv("REDIS_URL", "redis://localhost:6379"),
			Password: getStringEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		RabbitMQ: RabbitMQConfig{
			URL:        getStringEnv("RABBITMQ_URL", "amqp://localhost:5672"),
			MaxRetries: getIntEnv("RABBITMQ_MAX_RETRIES", 3),
			RetryDelay: getSecondsEnv("RABBITMQ_RETRY_DELAY", 1),
			ExchangeConfigs: []ExchangeConfig{
				{
					Name:       getStringEnv("RABBITMQ_EXCHANGE_NAME", "exchange.purchase"),
					Type:       getStringEnv("RABBITMQ_EXCHANGE_TYPE", "direct"),
					Durable:    getBoolEnv("RABBITMQ_EXCHANGE_DURABLE", true),
					AutoDelete: getBoolEnv("RABBITMQ_EXCHANGE_AUTO_DELETE", false),
				},
			},
		},
		Outbox: OutboxConfig{
			BatchSize: getIntEnv("OUTBOX_BATCH_SIZE", 100),
			Interval:  getMillisEnv("OUTBOX_INTERVAL", 500),
		},
		HTTP: HTTPConfig{
			Port:          getStringEnv("HTTP_PORT", "8080"),
			BindInterface: getStringEnv("HTTP_BIND_INTERFACE", "0.0.0.0"),
		},
		Logger: LoggerConfig{
			Endpoint:     getStringEnv("OTEL_ENDPOINT", "localhost:4317"),
			ServiceName:  getStringEnv("OTEL_SERVICE_NAME", "shopping"),
			IsProduction: getBoolEnv("IS_PRODUCTION", false),
		},
		Metrics: MetricsConfig{
			Enabled:   getBoolEnv("METRICS_ENABLED", true),
			Namespace: getStringEnv("METRICS_NAMESPACE", "shopping"),
		},
		Purchase: PurchaseConfig{
			IdempotencyTTL:          getSecondsEnv("IDEMPOTENCY_TTL", 24*60*60),
			IdempotencyPollInterval: getMillisEnv("IDEMPOTENCY_POLL_INTERVAL", 100),
			IdempotencyPollTimeout:  getSecondsEnv("IDEMPOTENCY_POLL_TIMEOUT", 10),
			RateLimitRequests:       getIntEnv("PURCHASE_RATE_LIMIT", 30),
			RateLimitWindow:         getSecondsEnv("PURCHASE_RATE_WINDOW", 60),
		},
	}
}
