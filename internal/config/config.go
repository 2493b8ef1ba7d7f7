package config

import (
	"time"

	"github.com/spf13/viper"
)

type AuthMode string

const (
	AuthModeNone  AuthMode = "none"  // No authentication required (default)
	AuthModeLocal AuthMode = "local" // Local user database with sessions
)

type (
	Config struct {
		HTTP
		Database
		GoogleBooks
		Thumbnails
		Tasks
		Auth
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}
	Database struct {
		Path string
	}
	GoogleBooks struct {
		BaseURL      string
		APIKey       string
		MaxResults   int
		LangRestrict string
		Timeout      time.Duration
		RatePerSec   float64
	}
	Thumbnails struct {
		MaxBytes       int64
		FetchTimeout   time.Duration
		RefreshEnabled bool
		RefreshCron    string // Cron format: "0 * * * *" = hourly
	}
	Tasks struct {
		Enabled           bool
		Workers           int
		MaxRetries        int
		RetryDelay        time.Duration
		TaskTimeout       time.Duration
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
	Auth struct {
		Mode            AuthMode
		SessionSecret   string
		SessionLifetime time.Duration
		BcryptCost      int
		SecureCookies   bool // Set to false for local dev without HTTPS
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8189)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Google Books defaults
	v.SetDefault("googlebooks_base_url", DefaultGoogleBooksBaseURL)
	v.SetDefault("googlebooks_api_key", "")
	v.SetDefault("googlebooks_max_results", 5)
	v.SetDefault("googlebooks_lang_restrict", "")
	v.SetDefault("googlebooks_timeout", "10s")
	v.SetDefault("googlebooks_rate_per_sec", 1.0)

	// Thumbnail probing defaults
	v.SetDefault("thumbnails_max_bytes", DefaultThumbnailRangeBytes)
	v.SetDefault("thumbnails_fetch_timeout", "5s")
	v.SetDefault("thumbnails_refresh_enabled", false)
	v.SetDefault("thumbnails_refresh_cron", "0 * * * *") // Hourly at :00

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_max_retries", 3)
	v.SetDefault("task_retry_delay", "1m")
	v.SetDefault("task_timeout", "5m")
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	// Auth defaults
	v.SetDefault("auth_mode", "none")
	v.SetDefault("auth_session_secret", "") // Auto-generated if empty
	v.SetDefault("auth_session_lifetime", "24h")
	v.SetDefault("auth_bcrypt_cost", 12)
	v.SetDefault("auth_secure_cookies", true)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		GoogleBooks: GoogleBooks{
			BaseURL:      v.GetString("GOOGLEBOOKS_BASE_URL"),
			APIKey:       v.GetString("GOOGLEBOOKS_API_KEY"),
			MaxResults:   v.GetInt("GOOGLEBOOKS_MAX_RESULTS"),
			LangRestrict: v.GetString("GOOGLEBOOKS_LANG_RESTRICT"),
			Timeout:      v.GetDuration("GOOGLEBOOKS_TIMEOUT"),
			RatePerSec:   v.GetFloat64("GOOGLEBOOKS_RATE_PER_SEC"),
		},
		Thumbnails: Thumbnails{
			MaxBytes:       v.GetInt64("THUMBNAILS_MAX_BYTES"),
			FetchTimeout:   v.GetDuration("THUMBNAILS_FETCH_TIMEOUT"),
			RefreshEnabled: v.GetBool("THUMBNAILS_REFRESH_ENABLED"),
			RefreshCron:    v.GetString("THUMBNAILS_REFRESH_CRON"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			MaxRetries:        v.GetInt("TASK_MAX_RETRIES"),
			RetryDelay:        v.GetDuration("TASK_RETRY_DELAY"),
			TaskTimeout:       v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
		Auth: Auth{
			Mode:            AuthMode(v.GetString("AUTH_MODE")),
			SessionSecret:   v.GetString("AUTH_SESSION_SECRET"),
			SessionLifetime: v.GetDuration("AUTH_SESSION_LIFETIME"),
			BcryptCost:      v.GetInt("AUTH_BCRYPT_COST"),
			SecureCookies:   v.GetBool("AUTH_SECURE_COOKIES"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}
