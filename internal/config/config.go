package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all runtime settings for the server. Values come from the
// environment, with an optional .env file loaded first.
type Config struct {
	MongoURI        string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDB         string `env:"MONGO_DB" envDefault:"car_rental"`
	Port            string `env:"PORT" envDefault:"8080"`
	JWTSecret       string `env:"JWT_SECRET" envDefault:"default-secret-key-change-in-production"`
	JWTExpiry       string `env:"JWT_EXPIRY" envDefault:"24h"`
	UploadDir       string `env:"UPLOAD_DIR" envDefault:"uploads"`
	RateLimitMax    int    `env:"RATE_LIMIT_MAX" envDefault:"100"`
	RateLimitWindow int    `env:"RATE_LIMIT_WINDOW_SECONDS" envDefault:"60"`
	RequestTimeout  int    `env:"REQUEST_TIMEOUT_SECONDS" envDefault:"30"`
}

// Load reads the optional .env file and parses the environment into a
// Config. A missing .env file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("error getting env configs: %w", err)
	}
	return cfg, nil
}
