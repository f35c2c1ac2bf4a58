package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server  ServerConfig
	DB      DatabaseConfig
	Logging LoggingConfig
	Auth    AuthConfig
	Storage StorageConfig
	Mail    MailConfig
	Notify  NotifyConfig
	HTTP    HTTPConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	Path string
}

type LoggingConfig struct {
	Level string
}

type AuthConfig struct {
	JWTSecret     string
	TokenTTL      time.Duration
	PurgeInterval time.Duration
}

const (
	StorageLocal      = "local"
	StorageCloudinary = "cloudinary"
)

type StorageConfig struct {
	Backend       string
	UploadDir     string
	MediaURL      string
	CloudinaryURL string
	// CloudinaryFolder prefixes every uploaded asset.
	CloudinaryFolder string
}

// MailConfig configures outgoing notification mail. Mail is disabled when
// Host is empty and notifications are only logged.
type MailConfig struct {
	Host          string
	Port          int
	User          string
	Pass          string
	From          string
	SkipTLSVerify bool
}

func (m MailConfig) Enabled() bool {
	return m.Host != ""
}

type NotifyConfig struct {
	Workers    int
	BufferSize int
}

type HTTPConfig struct {
	RateLimit   int
	CORSOrigins []string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "localhost"),
			Port: getEnvInt("SERVER_PORT", 8080),
		},
		DB: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/disaster-relief.db"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:     os.Getenv("JWT_SECRET"),
			TokenTTL:      getEnvDuration("TOKEN_TTL", 24*time.Hour),
			PurgeInterval: getEnvDuration("TOKEN_PURGE_INTERVAL", time.Hour),
		},
		Storage: StorageConfig{
			Backend:          getEnv("STORAGE_BACKEND", StorageLocal),
			UploadDir:        getEnv("UPLOAD_DIR", "./data/media"),
			MediaURL:         getEnv("MEDIA_URL", "/media"),
			CloudinaryURL:    os.Getenv("CLOUDINARY_URL"),
			CloudinaryFolder: getEnv("CLOUDINARY_FOLDER", "disaster-relief"),
		},
		Mail: MailConfig{
			Host:          os.Getenv("SMTP_HOST"),
			Port:          getEnvInt("SMTP_PORT", 587),
			User:          os.Getenv("SMTP_USER"),
			Pass:          os.Getenv("SMTP_PASS"),
			From:          getEnv("SMTP_FROM", "no-reply@disaster-relief.local"),
			SkipTLSVerify: getEnvBool("SMTP_SKIP_TLS_VERIFY", false),
		},
		Notify: NotifyConfig{
			Workers:    getEnvInt("NOTIFY_WORKERS", 2),
			BufferSize: getEnvInt("NOTIFY_BUFFER_SIZE", 100),
		},
		HTTP: HTTPConfig{
			RateLimit:   getEnvInt("RATE_LIMIT_RPS", 10),
			CORSOrigins: getEnvList("CORS_ORIGINS", []string{"*"}),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("JWT_SECRET must be set to at least 16 characters")
	}
	if c.Auth.TokenTTL < time.Minute {
		return fmt.Errorf("token TTL must be at least 1 minute")
	}
	if c.Auth.PurgeInterval < time.Minute {
		return fmt.Errorf("token purge interval must be at least 1 minute")
	}

	switch c.Storage.Backend {
	case StorageLocal:
		if c.Storage.UploadDir == "" {
			return fmt.Errorf("UPLOAD_DIR is required for local storage")
		}
	case StorageCloudinary:
		if c.Storage.CloudinaryURL == "" {
			return fmt.Errorf("CLOUDINARY_URL is required for cloudinary storage")
		}
	default:
		return fmt.Errorf("invalid storage backend: %s", c.Storage.Backend)
	}

	if c.Mail.Enabled() && (c.Mail.Port < 1 || c.Mail.Port > 65535) {
		return fmt.Errorf("invalid SMTP port: %d", c.Mail.Port)
	}

	if c.Notify.Workers < 1 {
		return fmt.Errorf("notify workers must be at least 1")
	}
	if c.Notify.BufferSize < 1 {
		return fmt.Errorf("notify buffer size must be at least 1")
	}
	if c.HTTP.RateLimit < 1 {
		return fmt.Errorf("rate limit must be at least 1 request per second")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}

// getEnvList splits a comma-separated value, dropping empty entries.
func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
