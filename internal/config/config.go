package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTP        HTTPConfig
	DatabaseURL string
	LogLevel    string
	Auth        AuthConfig
	Images      ImageConfig
	RateLimit   RateLimitConfig
	Admin       AdminConfig
}

type HTTPConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	// TrustedProxies are IPs or CIDRs allowed to set X-Forwarded-For.
	TrustedProxies []string
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type ImageConfig struct {
	UploadDir      string
	MaxBytes       int64
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
}

// UseMinio reports whether images go to object storage instead of disk.
func (c ImageConfig) UseMinio() bool { return c.MinioEndpoint != "" }

type RateLimitConfig struct {
	RedisAddr     string
	RedisPassword string
	LoginLimit    int
	LoginWindow   time.Duration
}

func (c RateLimitConfig) Enabled() bool { return c.RedisAddr != "" }

type AdminConfig struct {
	Name     string
	Email    string
	Password string
}

func Load() (Config, error) {
	cfg := Config{
		HTTP: HTTPConfig{
			Port:            getEnv("HTTP_PORT", "5000"),
			ReadTimeout:     time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SEC", 10)) * time.Second,
			WriteTimeout:    time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SEC", 15)) * time.Second,
			ShutdownTimeout: time.Duration(getEnvInt("HTTP_SHUTDOWN_TIMEOUT_SEC", 20)) * time.Second,
			TrustedProxies:  getEnvList("TRUSTED_PROXIES"),
		},
		DatabaseURL: getEnv("DATABASE_URL", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			TokenTTL:  getEnvDuration("JWT_EXPIRES_IN", 24*time.Hour),
		},
		Images: ImageConfig{
			UploadDir:      getEnv("UPLOAD_DIR", "./uploads/books"),
			MaxBytes:       int64(getEnvInt("MAX_IMAGE_BYTES", 3<<20)),
			MinioEndpoint:  getEnv("MINIO_ENDPOINT", ""),
			MinioAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			MinioSecretKey: getEnv("MINIO_SECRET_KEY", ""),
			MinioBucket:    getEnv("MINIO_BUCKET", "book-covers"),
			MinioUseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		RateLimit: RateLimitConfig{
			RedisAddr:     getEnv("REDIS_ADDR", ""),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			LoginLimit:    getEnvInt("LOGIN_RATE_LIMIT", 10),
			LoginWindow:   time.Duration(getEnvInt("LOGIN_RATE_WINDOW_SEC", 60)) * time.Second,
		},
		Admin: AdminConfig{
			Name:     getEnv("ADMIN_NAME", "Super Admin"),
			Email:    strings.ToLower(getEnv("ADMIN_EMAIL", "admin@test.com")),
			Password: getEnv("ADMIN_PASSWORD", "admin123"),
		},
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.Auth.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET must not be empty")
	}
	if cfg.Auth.TokenTTL <= 0 {
		return Config{}, fmt.Errorf("JWT_EXPIRES_IN must be > 0")
	}
	if cfg.Images.MaxBytes <= 0 {
		return Config{}, fmt.Errorf("MAX_IMAGE_BYTES must be > 0")
	}
	if !cfg.Images.UseMinio() && cfg.Images.UploadDir == "" {
		return Config{}, fmt.Errorf("UPLOAD_DIR must not be empty")
	}
	if cfg.RateLimit.Enabled() && (cfg.RateLimit.LoginLimit <= 0 || cfg.RateLimit.LoginWindow <= 0) {
		return Config{}, fmt.Errorf("LOGIN_RATE_LIMIT and LOGIN_RATE_WINDOW_SEC must be > 0")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback
	}
	return val
}

func getEnvList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getEnvInt(key string, fallback int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return d
}
