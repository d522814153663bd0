package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds application configuration loaded from environment variables
type Config struct {
	PGURL            string
	Port             string
	LogLevel         string
	StrictValidation bool
	StepMonths       int
}

// Load reads configuration from the environment, with .env file support for
// local development.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	pgURL := os.Getenv("PG_URL")
	if pgURL == "" {
		return nil, fmt.Errorf("PG_URL environment variable is required")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	strict := false
	if v := os.Getenv("STRICT_VALIDATION"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("STRICT_VALIDATION must be a boolean, got %q", v)
		}
		strict = parsed
	}

	stepMonths := 3
	if v := os.Getenv("STEP_MONTHS"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			return nil, fmt.Errorf("STEP_MONTHS must be a positive integer, got %q", v)
		}
		stepMonths = parsed
	}

	return &Config{
		PGURL:            pgURL,
		Port:             port,
		LogLevel:         logLevel,
		StrictValidation: strict,
		StepMonths:       stepMonths,
	}, nil
}

// ApplyLogLevel configures logrus from the loaded level string.
func (c *Config) ApplyLogLevel() {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		log.Warnf("unknown log level %q, staying at info", c.LogLevel)
		return
	}
	log.SetLevel(level)
}
