package config

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Sources of the coordinate tables, in order of precedence.
const (
	CoordsSourceS3   = "s3"
	CoordsSourceHTTP = "http"
	CoordsSourceDir  = "dir"
)

type Config struct {
	Environment string
	LogLevel    zerolog.Level
	HTTPTimeout time.Duration
	MaxRetries  int

	// Array configuration: a DynamoDB table when set, else a YAML file.
	ArrayConfigFile  string
	ArrayConfigTable string

	// Coordinate tables: an S3 bucket when set, else an HTTP base URL when
	// set, else a local directory.
	CoordsDir     string
	CoordsBucket  string
	CoordsPrefix  string
	CoordsBaseURL string

	DynamoDBEndpoint string
	S3Endpoint       string

	MetricsEnabled bool
}

type Option func(*Config)

// WithEnvironment allows setting the environment
func WithEnvironment(env string) Option {
	return func(c *Config) {
		c.Environment = env
	}
}

// WithLogLevel allows setting the log level
func WithLogLevel(level string) Option {
	return func(c *Config) {
		parsedLevel, err := zerolog.ParseLevel(level)
		if err != nil {
			parsedLevel = zerolog.InfoLevel
		}
		c.LogLevel = parsedLevel
	}
}

// WithHTTPTimeout allows setting the HTTP timeout
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.HTTPTimeout = timeout
	}
}

func WithArrayConfigFile(path string) Option {
	return func(c *Config) {
		c.ArrayConfigFile = path
	}
}

func WithArrayConfigTable(table string) Option {
	return func(c *Config) {
		c.ArrayConfigTable = table
	}
}

func WithCoordsDir(dir string) Option {
	return func(c *Config) {
		c.CoordsDir = dir
	}
}

// WithCoordsBucket reads coordinate tables from s3://bucket/prefix.
func WithCoordsBucket(bucket, prefix string) Option {
	return func(c *Config) {
		c.CoordsBucket = bucket
		c.CoordsPrefix = prefix
	}
}

func WithCoordsBaseURL(url string) Option {
	return func(c *Config) {
		c.CoordsBaseURL = strings.TrimSuffix(url, "/")
	}
}

// WithEndpoints points the AWS clients at local servers.
func WithEndpoints(dynamoDB, s3 string) Option {
	return func(c *Config) {
		c.DynamoDBEndpoint = dynamoDB
		c.S3Endpoint = s3
	}
}

func WithMetrics(enabled bool) Option {
	return func(c *Config) {
		c.MetricsEnabled = enabled
	}
}

// New creates a new configuration with default values
func New(opts ...Option) *Config {
	cfg := &Config{
		Environment:     "production",
		LogLevel:        zerolog.InfoLevel,
		HTTPTimeout:     10 * time.Second,
		MaxRetries:      3,
		ArrayConfigFile: "array_config.yaml",
		CoordsDir:       "lfaa_coords",
		MetricsEnabled:  true,
	}

	// Apply options
	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// CoordsSource reports which coordinate-table source is configured.
func (c *Config) CoordsSource() string {
	switch {
	case c.CoordsBucket != "":
		return CoordsSourceS3
	case c.CoordsBaseURL != "":
		return CoordsSourceHTTP
	default:
		return CoordsSourceDir
	}
}

// InitializeLogging sets up logging based on the configuration
func (c *Config) InitializeLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(c.LogLevel)

	// Setup console logger for development environments
	if c.Environment == "local" || c.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	return New(
		WithEnvironment(getEnvOrDefault("ENV", "production")),
		WithLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
		WithHTTPTimeout(getDurationEnvOrDefault("HTTP_TIMEOUT", 10*time.Second)),
		WithArrayConfigFile(getEnvOrDefault("ARRAY_CONFIG_FILE", "array_config.yaml")),
		WithArrayConfigTable(os.Getenv("ARRAY_CONFIG_TABLE")),
		WithCoordsDir(getEnvOrDefault("COORDS_DIR", "lfaa_coords")),
		WithCoordsBucket(os.Getenv("COORDS_BUCKET"), os.Getenv("COORDS_PREFIX")),
		WithCoordsBaseURL(os.Getenv("COORDS_BASE_URL")),
		WithEndpoints(os.Getenv("DYNAMODB_ENDPOINT"), os.Getenv("S3_ENDPOINT")),
		WithMetrics(getEnvBool("METRICS_ENABLED", true)),
	)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnvOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
