package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// TimeoutConfig holds the per-operation-category deadlines applied around
// remote and storage calls.
type TimeoutConfig struct {
	Auth          time.Duration
	DatabaseRead  time.Duration
	DatabaseWrite time.Duration
	FileUpload    time.Duration
	Report        time.Duration
}

// RetryConfig controls the retry wrapper around external calls.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	// BackoffFactor is parsed for compatibility with older deployments;
	// the wait between attempts grows linearly from BaseDelay.
	BackoffFactor float64
}

// MessageConfig holds the user-facing message per error category.
type MessageConfig struct {
	Timeout string
	Network string
	Server  string
	Generic string
}

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName                string
	AppEnv                 string
	AppPort                string
	DatabaseURL            string
	RedisURL               string
	NATSURL                string
	JWTSecret              string
	TokenTTL               time.Duration
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string
	IDCardFrontTemplateURL string
	IDCardBackTemplateURL  string
	VerificationCacheTTL   time.Duration
	ReportCacheTTL         time.Duration
	Timeouts               TimeoutConfig
	Retry                  RetryConfig
	Messages               MessageConfig
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("CIT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "CIT API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("token.ttl", "24h")
	v.SetDefault("cloudinary.folder", "cit/payments")
	v.SetDefault("verification.cache_ttl", "10m")
	v.SetDefault("report.cache_ttl", "5m")

	v.SetDefault("timeout.auth", "5s")
	v.SetDefault("timeout.database_read", "3s")
	v.SetDefault("timeout.database_write", "5s")
	v.SetDefault("timeout.file_upload", "30s")
	v.SetDefault("timeout.report", "10s")

	v.SetDefault("retry.max_attempts", 1)
	v.SetDefault("retry.base_delay", "1s")
	v.SetDefault("retry.backoff_factor", 2.0)

	v.SetDefault("message.timeout", "The request timed out. Please try again.")
	v.SetDefault("message.network", "A network error occurred. Check your connection and try again.")
	v.SetDefault("message.server", "The server encountered an error. Please try again later.")
	v.SetDefault("message.generic", "Something went wrong. Please try again.")

	tokenTTL, err := parseDuration(v, "token.ttl")
	if err != nil {
		return Config{}, err
	}

	verificationTTL, err := parseDuration(v, "verification.cache_ttl")
	if err != nil {
		return Config{}, err
	}

	reportTTL, err := parseDuration(v, "report.cache_ttl")
	if err != nil {
		return Config{}, err
	}

	timeouts := TimeoutConfig{}
	for key, target := range map[string]*time.Duration{
		"timeout.auth":           &timeouts.Auth,
		"timeout.database_read":  &timeouts.DatabaseRead,
		"timeout.database_write": &timeouts.DatabaseWrite,
		"timeout.file_upload":    &timeouts.FileUpload,
		"timeout.report":         &timeouts.Report,
	} {
		parsed, err := parseDuration(v, key)
		if err != nil {
			return Config{}, err
		}
		*target = parsed
	}

	retryDelay, err := parseDuration(v, "retry.base_delay")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		DatabaseURL:            v.GetString("database.url"),
		RedisURL:               v.GetString("redis.url"),
		NATSURL:                v.GetString("nats.url"),
		JWTSecret:              v.GetString("jwt.secret"),
		TokenTTL:               tokenTTL,
		CloudinaryCloudName:    v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:       v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:    v.GetString("cloudinary.api_secret"),
		CloudinaryUploadFolder: v.GetString("cloudinary.folder"),
		IDCardFrontTemplateURL: v.GetString("idcard.front_template_url"),
		IDCardBackTemplateURL:  v.GetString("idcard.back_template_url"),
		VerificationCacheTTL:   verificationTTL,
		ReportCacheTTL:         reportTTL,
		Timeouts:               timeouts,
		Retry: RetryConfig{
			MaxAttempts:   v.GetInt("retry.max_attempts"),
			BaseDelay:     retryDelay,
			BackoffFactor: v.GetFloat64("retry.backoff_factor"),
		},
		Messages: MessageConfig{
			Timeout: v.GetString("message.timeout"),
			Network: v.GetString("message.network"),
			Server:  v.GetString("message.server"),
			Generic: v.GetString("message.generic"),
		},
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry.MaxAttempts = 1
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := v.GetString(key)
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}
