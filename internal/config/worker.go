package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// WorkerConfig configures the outbox/notification worker. The worker is
// deployed separately from the API, so it reads plain environment
// variables instead of the API's config file.
type WorkerConfig struct {
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD" default:""`
	DBName     string `envconfig:"DB_NAME" default:"scheduling"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	RedisURL string `envconfig:"REDIS_URL" default:"redis://localhost:6379"`

	OutboxBatchSize    int           `envconfig:"OUTBOX_BATCH_SIZE" default:"50"`
	OutboxPollInterval time.Duration `envconfig:"OUTBOX_POLL_INTERVAL" default:"5s"`
	OutboxRetryDelay   time.Duration `envconfig:"OUTBOX_RETRY_DELAY" default:"30s"`
	OutboxRetention    time.Duration `envconfig:"OUTBOX_RETENTION" default:"168h"`

	SMTPHost      string `envconfig:"SMTP_HOST" default:""`
	SMTPPort      int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUsername  string `envconfig:"SMTP_USERNAME" default:""`
	SMTPPassword  string `envconfig:"SMTP_PASSWORD" default:""`
	EmailFrom     string `envconfig:"EMAIL_FROM" default:"noreply@clinic.local"`
	FrontDeskAddr string `envconfig:"FRONT_DESK_EMAIL" default:""`
}

func LoadWorkerConfig() (*WorkerConfig, error) {
	var cfg WorkerConfig
	if err := envconfig.Process("scheduler", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DatabaseConfig adapts the worker's flat settings to the shared DB
// connector.
func (c *WorkerConfig) DatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:     c.DBHost,
		Port:     c.DBPort,
		User:     c.DBUser,
		Password: c.DBPassword,
		Name:     c.DBName,
		SSLMode:  c.DBSSLMode,
	}
}
