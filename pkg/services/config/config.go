package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ServerHost      string        `mapstructure:"server_host"`
	ServerPort      string        `mapstructure:"server_port"`
	MongoURI        string        `mapstructure:"mongo_uri"`
	MongoDatabase   string        `mapstructure:"mongo_database"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Load reads configuration from the environment with sane defaults.
// Values come from SERVER_HOST, SERVER_PORT, MONGO_URI, MONGO_DATABASE
// and SHUTDOWN_TIMEOUT (a .env file loaded at the entrypoint counts).
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("server_host", "0.0.0.0")
	v.SetDefault("server_port", "3001")
	v.SetDefault("mongo_uri", "mongodb://127.0.0.1:27017")
	v.SetDefault("mongo_database", "ledger")
	v.SetDefault("shutdown_timeout", 10*time.Second)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	return &cfg, nil
}
