package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage drivers
const (
	StorageDriverPostgres = "postgres"
	StorageDriverBadger   = "badger"
)

type Config struct {
	Port          string `yaml:"port"`
	Environment   string `yaml:"environment"`
	StorageDriver string `yaml:"storage_driver"`
	DatabaseURL   string `yaml:"database_url"`
	BadgerPath    string `yaml:"badger_path"`
	TablePrefix   string `yaml:"table_prefix"`
	CORSOrigins   string `yaml:"cors_origins"`
	// Token verification: JWKSURL wins when both are set
	JWTSecret string `yaml:"jwt_secret"`
	JWKSURL   string `yaml:"jwks_url"`
	// Hierarchy
	RootFolderName string `yaml:"root_folder_name"`
	// Image uploads
	UploadDir       string `yaml:"upload_dir"`
	UploadURLPrefix string `yaml:"upload_url_prefix"`
	// Rate limiting (0 requests disables it)
	RateLimitRequests int           `yaml:"rate_limit_requests"`
	RateLimitWindow   time.Duration `yaml:"rate_limit_window"`
	// Logging
	LogDir      string `yaml:"log_dir"`
	LogMaxFiles int    `yaml:"log_max_files"`
	Debug       bool   `yaml:"debug"`
}

// Load builds the configuration from defaults, the optional YAML file named
// by CONFIG_FILE, and environment variables (highest precedence).
func Load() (*Config, error) {
	cfg := defaults(getEnv("ENVIRONMENT", "dev"))

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if cfg.TablePrefix == "" {
		cfg.TablePrefix = getTablePrefix(cfg.Environment)
	}

	return cfg, nil
}

func defaults(env string) *Config {
	return &Config{
		Port:              "8080",
		Environment:       env,
		StorageDriver:     StorageDriverBadger,
		BadgerPath:        "./data/folio",
		CORSOrigins:       "http://localhost:3000",
		RootFolderName:    DefaultRootFolderName,
		UploadDir:         "./static/uploads",
		UploadURLPrefix:   "/uploads",
		RateLimitRequests: 300,
		RateLimitWindow:   time.Minute,
		LogMaxFiles:       10,
		Debug:             getDefaultDebug(env) == "true",
	}
}

// loadFile overlays values from a YAML file
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = getEnv("PORT", c.Port)
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.StorageDriver = getEnv("STORAGE_DRIVER", c.StorageDriver)
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.BadgerPath = getEnv("BADGER_PATH", c.BadgerPath)
	c.TablePrefix = getEnv("TABLE_PREFIX", c.TablePrefix)
	c.CORSOrigins = getEnv("CORS_ORIGINS", c.CORSOrigins)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.JWKSURL = getEnv("JWKS_URL", c.JWKSURL)
	c.RootFolderName = getEnv("ROOT_FOLDER_NAME", c.RootFolderName)
	c.UploadDir = getEnv("UPLOAD_DIR", c.UploadDir)
	c.UploadURLPrefix = getEnv("UPLOAD_URL_PREFIX", c.UploadURLPrefix)
	c.LogDir = getEnv("LOG_DIR", c.LogDir)

	if v, err := strconv.Atoi(os.Getenv("RATE_LIMIT_REQUESTS")); err == nil {
		c.RateLimitRequests = v
	}
	if v, err := time.ParseDuration(os.Getenv("RATE_LIMIT_WINDOW")); err == nil {
		c.RateLimitWindow = v
	}
	if v, err := strconv.Atoi(os.Getenv("LOG_MAX_FILES")); err == nil {
		c.LogMaxFiles = v
	}
	if v := os.Getenv("DEBUG"); v != "" {
		c.Debug = v == "true"
	}
}

// Validate reports configuration that cannot start a server
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StorageDriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for storage driver %q", c.StorageDriver)
		}
	case StorageDriverBadger:
		if c.BadgerPath == "" {
			return fmt.Errorf("BADGER_PATH is required for storage driver %q", c.StorageDriver)
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
	if c.JWTSecret == "" && c.JWKSURL == "" {
		return fmt.Errorf("one of JWT_SECRET or JWKS_URL is required")
	}
	return nil
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
