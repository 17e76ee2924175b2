package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ConfigFileEnv names the environment variable that selects a config file
// when --config is not given.
const ConfigFileEnv = "PRODUCTOS_CONFIG_FILE"

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	Driver          string
	DSN             string
	SQLitePath      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
}

// RabbitMQConfig configures product event publishing. An empty URL disables it.
type RabbitMQConfig struct {
	URL   string
	Queue string
}

// Config holds runtime configuration for the service.
type Config struct {
	AppPort   string
	AppEnv    string
	LogLevel  string
	LogFormat string
	BodyLimit int
	Store     StoreConfig
	RabbitMQ  RabbitMQConfig
}

// Load reads configuration from defaults, an optional config file and the
// environment, in increasing order of precedence. args are the command line
// arguments without the program name.
func Load(args []string) (*Config, error) {
	flags := pflag.NewFlagSet("productos", pflag.ContinueOnError)
	configFile := flags.String("config", "", "path to a config file (yaml, json, toml or env)")
	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}
	if *configFile == "" {
		*configFile = os.Getenv(ConfigFileEnv)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if *configFile != "" {
		v.SetConfigFile(*configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", *configFile, err)
		}
	}

	cfg := &Config{
		AppPort:   v.GetString("APP_PORT"),
		AppEnv:    v.GetString("APP_ENV"),
		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),
		BodyLimit: v.GetInt("BODY_LIMIT"),
		Store: StoreConfig{
			Driver:          v.GetString("STORE_DRIVER"),
			DSN:             v.GetString("DATABASE_DSN"),
			SQLitePath:      v.GetString("SQLITE_PATH"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
			MongoURI:        v.GetString("MONGO_URI"),
			MongoDatabase:   v.GetString("MONGO_DATABASE"),
			MongoCollection: v.GetString("MONGO_COLLECTION"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:   v.GetString("RABBITMQ_URL"),
			Queue: v.GetString("RABBITMQ_QUEUE"),
		},
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("BODY_LIMIT", 1<<20)
	v.SetDefault("STORE_DRIVER", DriverPostgres)
	v.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=productos port=5432 sslmode=disable")
	v.SetDefault("SQLITE_PATH", "productos.db")
	v.SetDefault("DB_MAX_OPEN_CONNS", 5)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 30*time.Minute)
	v.SetDefault("MONGO_URI", "mongodb://127.0.0.1:27017")
	v.SetDefault("MONGO_DATABASE", "productos")
	v.SetDefault("MONGO_COLLECTION", "productos")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_QUEUE", "product_events")
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case DriverPostgres, DriverSQLite, DriverMongo, DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}
	if c.BodyLimit <= 0 {
		return fmt.Errorf("BODY_LIMIT must be positive, got %d", c.BodyLimit)
	}
	return nil
}

// IsProduction returns true when the service runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
