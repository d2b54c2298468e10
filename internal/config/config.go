package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/clinicore/scheduling-api/internal/model"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Booking   BookingConfig   `mapstructure:"booking"`
	Lifecycle LifecycleConfig `mapstructure:"lifecycle"`
}

type ServerConfig struct {
	Port           int `mapstructure:"port"`
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

// StorageConfig selects the repository backend. The memory driver runs
// the API without Postgres for local development.
type StorageConfig struct {
	Driver string `mapstructure:"driver"` // postgres | memory
}

// BookingConfig carries deployment policy the core must not re-derive.
type BookingConfig struct {
	// InitialStatus is the status a fresh booking gets: "pending" when the
	// deployment requires doctor confirmation, "confirmed" otherwise.
	InitialStatus string `mapstructure:"initial_status"`
}

type LifecycleConfig struct {
	// AllowWalkinComplete permits pending -> completed / no_show for
	// walk-in deployments that skip the confirmation step.
	AllowWalkinComplete bool `mapstructure:"allow_walkin_complete"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.timeout_seconds", 30)
	viper.SetDefault("storage.driver", "postgres")
	viper.SetDefault("booking.initial_status", "pending")
	viper.SetDefault("lifecycle.allow_walkin_complete", false)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	switch model.AppointmentStatus(c.Booking.InitialStatus) {
	case model.AppointmentStatusPending, model.AppointmentStatusConfirmed:
	default:
		return fmt.Errorf("booking.initial_status must be pending or confirmed, got %q", c.Booking.InitialStatus)
	}

	return nil
}
