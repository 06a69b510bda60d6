package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database      DatabaseConfig
	Redis         RedisConfig
	CORS          CORSConfig
	Log           LogConfig
	Scheduling    SchedulingConfig
	Matching      MatchingConfig
	Billing       BillingConfig
	Notifications NotificationsConfig
	Calendar      CalendarConfig
	Reports       ReportsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	Migrate      bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SchedulingConfig tunes the scheduling round machinery.
type SchedulingConfig struct {
	TokenSecret string
	TokenTTL    time.Duration
	// ReinitiateCooldown blocks a fresh round for a candidate for this long
	// after the previous one started. Zero disables the guard.
	ReinitiateCooldown time.Duration
	BufferGap          time.Duration
	SiteDomain         string
}

// MatchingConfig governs interviewer search behaviour.
type MatchingConfig struct {
	CacheTTL         time.Duration
	ExperienceMargin int
}

// BillingConfig tunes the feedback-driven billing trigger.
type BillingConfig struct {
	DueDateGraceDays int
	NoShowMinutes    int
}

// NotificationsConfig configures the async dispatch queue.
type NotificationsConfig struct {
	Workers    int
	MaxRetries int
	RetryDelay time.Duration
}

// CalendarConfig holds Google Calendar credentials for meeting creation.
type CalendarConfig struct {
	Enabled        bool
	ClientID       string
	ClientSecret   string
	OrganizerEmail string
	Timezone       string
}

// ReportsConfig controls feedback report generation.
type ReportsConfig struct {
	Enabled           bool
	StorageDir        string
	WorkerConcurrency int
	WorkerRetries     int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		Migrate:      v.GetBool("DB_AUTO_MIGRATE"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Scheduling = SchedulingConfig{
		TokenSecret:        v.GetString("SCHEDULING_TOKEN_SECRET"),
		TokenTTL:           parseDuration(v.GetString("SCHEDULING_TOKEN_TTL"), time.Hour),
		ReinitiateCooldown: parseDuration(v.GetString("SCHEDULING_REINITIATE_COOLDOWN"), 0),
		BufferGap:          parseDuration(v.GetString("SCHEDULING_BUFFER_GAP"), time.Hour),
		SiteDomain:         v.GetString("SITE_DOMAIN"),
	}

	cfg.Matching = MatchingConfig{
		CacheTTL:         parseDuration(v.GetString("MATCHING_CACHE_TTL"), 2*time.Minute),
		ExperienceMargin: v.GetInt("MATCHING_EXPERIENCE_MARGIN"),
	}

	cfg.Billing = BillingConfig{
		DueDateGraceDays: v.GetInt("BILLING_DUE_DATE_GRACE_DAYS"),
		NoShowMinutes:    v.GetInt("BILLING_NO_SHOW_MINUTES"),
	}

	cfg.Notifications = NotificationsConfig{
		Workers:    v.GetInt("NOTIFICATIONS_WORKERS"),
		MaxRetries: v.GetInt("NOTIFICATIONS_MAX_RETRIES"),
		RetryDelay: parseDuration(v.GetString("NOTIFICATIONS_RETRY_DELAY"), 5*time.Second),
	}

	cfg.Calendar = CalendarConfig{
		Enabled:        v.GetBool("CALENDAR_ENABLED"),
		ClientID:       v.GetString("GOOGLE_CLIENT_ID"),
		ClientSecret:   v.GetString("GOOGLE_CLIENT_SECRET"),
		OrganizerEmail: v.GetString("CALENDAR_ORGANIZER_EMAIL"),
		Timezone:       v.GetString("CALENDAR_TIMEZONE"),
	}

	cfg.Reports = ReportsConfig{
		Enabled:           v.GetBool("ENABLE_FEEDBACK_REPORTS"),
		StorageDir:        v.GetString("REPORTS_STORAGE_DIR"),
		WorkerConcurrency: v.GetInt("REPORTS_WORKER_CONCURRENCY"),
		WorkerRetries:     v.GetInt("REPORTS_WORKER_RETRIES"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "scheduling")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_AUTO_MIGRATE", true)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SCHEDULING_TOKEN_SECRET", "dev_scheduling_secret")
	v.SetDefault("SCHEDULING_TOKEN_TTL", "1h")
	v.SetDefault("SCHEDULING_REINITIATE_COOLDOWN", "0")
	v.SetDefault("SCHEDULING_BUFFER_GAP", "1h")
	v.SetDefault("SITE_DOMAIN", "http://localhost:8080")

	v.SetDefault("MATCHING_CACHE_TTL", "2m")
	v.SetDefault("MATCHING_EXPERIENCE_MARGIN", 2)

	v.SetDefault("BILLING_DUE_DATE_GRACE_DAYS", 10)
	v.SetDefault("BILLING_NO_SHOW_MINUTES", 15)

	v.SetDefault("NOTIFICATIONS_WORKERS", 2)
	v.SetDefault("NOTIFICATIONS_MAX_RETRIES", 3)
	v.SetDefault("NOTIFICATIONS_RETRY_DELAY", "5s")

	v.SetDefault("CALENDAR_ENABLED", false)
	v.SetDefault("CALENDAR_ORGANIZER_EMAIL", "")
	v.SetDefault("CALENDAR_TIMEZONE", "Asia/Kolkata")

	v.SetDefault("ENABLE_FEEDBACK_REPORTS", false)
	v.SetDefault("REPORTS_STORAGE_DIR", "./reports")
	v.SetDefault("REPORTS_WORKER_CONCURRENCY", 1)
	v.SetDefault("REPORTS_WORKER_RETRIES", 3)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
