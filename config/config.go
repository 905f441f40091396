package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const VERSION = "2.1"

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Security    SecurityConfig
	Webhook     WebhookConfig
	Tracing     TracingConfig
	Environment string
	LogLevel    string
	Version     string
}

type ServerConfig struct {
	Port int
	Host string
	SSL  SSLConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type SecurityConfig struct {
	// HS256 signing secret for admin API tokens
	JWTSecret string

	// Secret passphrase for webhook signing secret encryption at rest
	SecretKey string
}

type SSLConfig struct {
	Enabled  bool
	CertFile string
	KeyFile  string
}

// WebhookConfig carries the delivery knobs. All durations are expressed in
// milliseconds in the environment, matching the wire timestamps.
type WebhookConfig struct {
	DefaultTimeoutMs     int
	MaxRetries           int
	RetryDelaysMs        []int64
	DedupWindowMs        int64
	LogRetentionMs       int64
	JobRetentionMs       int64
	ResponseBodyCapBytes int64
	PayloadSizeCapBytes  int64
}

func (w WebhookConfig) DefaultTimeout() time.Duration {
	return time.Duration(w.DefaultTimeoutMs) * time.Millisecond
}

func (w WebhookConfig) DedupWindow() time.Duration {
	return time.Duration(w.DedupWindowMs) * time.Millisecond
}

func (w WebhookConfig) LogRetention() time.Duration {
	return time.Duration(w.LogRetentionMs) * time.Millisecond
}

func (w WebhookConfig) JobRetention() time.Duration {
	return time.Duration(w.JobRetentionMs) * time.Millisecond
}

type TracingConfig struct {
	Enabled             bool
	ServiceName         string
	SamplingProbability float64

	// Trace exporter configuration
	TraceExporter string // "jaeger", "stackdriver", "zipkin", "datadog", "xray", "none"

	// Jaeger settings
	JaegerEndpoint string

	// Zipkin settings
	ZipkinEndpoint string

	// Stackdriver settings
	StackdriverProjectID string

	// Datadog settings
	DatadogAgentAddress string
	DatadogAPIKey       string

	// AWS X-Ray settings
	XRayRegion string

	// General agent endpoint (for exporters that support a common agent)
	AgentEndpoint string

	// Metrics exporter configuration
	MetricsExporter string // "prometheus", "stackdriver", "datadog", "none" or comma-separated list
	PrometheusPort  int
}

// LoadOptions contains options for loading configuration
type LoadOptions struct {
	EnvFile string // Optional environment file to load (e.g., ".env", ".env.test")
}

// Load loads the configuration with default options
func Load() (*Config, error) {
	// Try to load .env file but don't require it
	return LoadWithOptions(LoadOptions{EnvFile: ".env"})
}

// LoadWithOptions loads the configuration with the specified options
func LoadWithOptions(opts LoadOptions) (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "hookforge")
	v.SetDefault("DB_SSLMODE", "require")
	v.SetDefault("ENVIRONMENT", "production")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("VERSION", VERSION)

	// Delivery defaults
	v.SetDefault("WEBHOOK_DEFAULT_TIMEOUT_MS", 30000)
	v.SetDefault("WEBHOOK_MAX_RETRIES", 3)
	v.SetDefault("WEBHOOK_RETRY_DELAYS_MS", "1000,5000,30000")
	v.SetDefault("WEBHOOK_DEDUP_WINDOW_MS", 60000)
	v.SetDefault("WEBHOOK_LOG_RETENTION_MS", int64(2592000000)) // 30 days
	v.SetDefault("WEBHOOK_JOB_RETENTION_MS", int64(604800000))  // 7 days
	v.SetDefault("WEBHOOK_RESPONSE_BODY_CAP_BYTES", 65536)
	v.SetDefault("WEBHOOK_PAYLOAD_SIZE_CAP_BYTES", 1048576)

	// Default tracing config
	v.SetDefault("TRACING_ENABLED", false)
	v.SetDefault("TRACING_SERVICE_NAME", "hookforge-api")
	v.SetDefault("TRACING_SAMPLING_PROBABILITY", 0.1)

	// Default trace exporter config
	v.SetDefault("TRACING_TRACE_EXPORTER", "none")

	// Jaeger settings
	v.SetDefault("TRACING_JAEGER_ENDPOINT", "http://localhost:14268/api/traces")

	// Zipkin settings
	v.SetDefault("TRACING_ZIPKIN_ENDPOINT", "http://localhost:9411/api/v2/spans")

	// Stackdriver settings
	v.SetDefault("TRACING_STACKDRIVER_PROJECT_ID", "")

	// Datadog settings
	v.SetDefault("TRACING_DATADOG_AGENT_ADDRESS", "localhost:8126")
	v.SetDefault("TRACING_DATADOG_API_KEY", "")

	// AWS X-Ray settings
	v.SetDefault("TRACING_XRAY_REGION", "us-west-2")

	// General agent endpoint (for exporters that support a common agent)
	v.SetDefault("TRACING_AGENT_ENDPOINT", "localhost:8126")

	// Default metrics exporter config
	v.SetDefault("TRACING_METRICS_EXPORTER", "none")
	v.SetDefault("TRACING_PROMETHEUS_PORT", 9464)

	// Load environment file if specified
	if opts.EnvFile != "" {
		v.SetConfigName(opts.EnvFile)
		v.SetConfigType("env")

		currentPath, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("error getting current directory: %w", err)
		}

		v.AddConfigPath(currentPath)

		if err := v.ReadInConfig(); err != nil {
			// It's okay if config file doesn't exist
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	// Read environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Validate required configuration
	jwtSecret := v.GetString("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	// Use the JWT secret as encryption passphrase if SECRET_KEY is not provided
	secretKey := v.GetString("SECRET_KEY")
	if secretKey == "" {
		secretKey = jwtSecret
	}

	retryDelays, err := parseRetryDelays(v.GetString("WEBHOOK_RETRY_DELAYS_MS"))
	if err != nil {
		return nil, fmt.Errorf("invalid WEBHOOK_RETRY_DELAYS_MS: %w", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port: v.GetInt("SERVER_PORT"),
			Host: v.GetString("SERVER_HOST"),
			SSL: SSLConfig{
				Enabled:  v.GetBool("SSL_ENABLED"),
				CertFile: v.GetString("SSL_CERT_FILE"),
				KeyFile:  v.GetString("SSL_KEY_FILE"),
			},
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Security: SecurityConfig{
			JWTSecret: jwtSecret,
			SecretKey: secretKey,
		},
		Webhook: WebhookConfig{
			DefaultTimeoutMs:     v.GetInt("WEBHOOK_DEFAULT_TIMEOUT_MS"),
			MaxRetries:           v.GetInt("WEBHOOK_MAX_RETRIES"),
			RetryDelaysMs:        retryDelays,
			DedupWindowMs:        v.GetInt64("WEBHOOK_DEDUP_WINDOW_MS"),
			LogRetentionMs:       v.GetInt64("WEBHOOK_LOG_RETENTION_MS"),
			JobRetentionMs:       v.GetInt64("WEBHOOK_JOB_RETENTION_MS"),
			ResponseBodyCapBytes: v.GetInt64("WEBHOOK_RESPONSE_BODY_CAP_BYTES"),
			PayloadSizeCapBytes:  v.GetInt64("WEBHOOK_PAYLOAD_SIZE_CAP_BYTES"),
		},
		Tracing: TracingConfig{
			Enabled:             v.GetBool("TRACING_ENABLED"),
			ServiceName:         v.GetString("TRACING_SERVICE_NAME"),
			SamplingProbability: v.GetFloat64("TRACING_SAMPLING_PROBABILITY"),

			TraceExporter: v.GetString("TRACING_TRACE_EXPORTER"),

			JaegerEndpoint: v.GetString("TRACING_JAEGER_ENDPOINT"),

			ZipkinEndpoint: v.GetString("TRACING_ZIPKIN_ENDPOINT"),

			StackdriverProjectID: v.GetString("TRACING_STACKDRIVER_PROJECT_ID"),

			DatadogAgentAddress: v.GetString("TRACING_DATADOG_AGENT_ADDRESS"),
			DatadogAPIKey:       v.GetString("TRACING_DATADOG_API_KEY"),

			XRayRegion: v.GetString("TRACING_XRAY_REGION"),

			AgentEndpoint: v.GetString("TRACING_AGENT_ENDPOINT"),

			MetricsExporter: v.GetString("TRACING_METRICS_EXPORTER"),
			PrometheusPort:  v.GetInt("TRACING_PROMETHEUS_PORT"),
		},

		Environment: v.GetString("ENVIRONMENT"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		Version:     v.GetString("VERSION"),
	}

	if config.Webhook.MaxRetries < 1 {
		return nil, fmt.Errorf("WEBHOOK_MAX_RETRIES must be at least 1")
	}
	if len(config.Webhook.RetryDelaysMs) == 0 {
		return nil, fmt.Errorf("WEBHOOK_RETRY_DELAYS_MS must list at least one delay")
	}

	return config, nil
}

// parseRetryDelays parses the retry delay ladder from its environment form.
// Both "1000,5000,30000" and the bracketed JSON array form "[1000,5000,30000]"
// are accepted.
func parseRetryDelays(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	delays := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		ms, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("delay %q is not a number", part)
		}
		if ms < 0 {
			return nil, fmt.Errorf("delay %q is negative", part)
		}
		delays = append(delays, ms)
	}
	return delays, nil
}

// IsDevelopment returns true if the environment is set to development
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
