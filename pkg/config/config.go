package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App struct {
		Env       string `env:"APP_ENV" env-default:"development"`
		Port      int    `env:"APP_PORT" env-default:"8080"`
		SentryUrl string `env:"SENTRY_URL"`
	}
	API struct {
		BaseURL string        `env:"API_BASE_URL" env-default:"http://localhost:3000"`
		Timeout time.Duration `env:"API_TIMEOUT" env-default:"0s"`
	}
	Postgres struct {
		Port    int    `env:"POSTGRES_PORT" env-default:"5432"`
		Host    string `env:"POSTGRES_HOST" env-default:"localhost"`
		User    string `env:"POSTGRES_USER"`
		Pass    string `env:"POSTGRES_PASS"`
		Name    string `env:"POSTGRES_NAME"`
		SslMode string `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	}
	Storage struct {
		Endpoint      string `env:"STORAGE_ENDPOINT" env-default:"localhost:9000"`
		AccessKey     string `env:"STORAGE_ACCESS_KEY"`
		SecretKey     string `env:"STORAGE_SECRET_KEY"`
		Bucket        string `env:"STORAGE_BUCKET" env-default:"community-post-image"`
		UseSSL        bool   `env:"STORAGE_USE_SSL" env-default:"false"`
		PublicBaseURL string `env:"STORAGE_PUBLIC_BASE_URL"`
	}
	Telegram struct {
		User  int64  `env:"TELEGRAM_USER"`
		Token string `env:"TELEGRAM_TOKEN"`
	}
	Composer struct {
		MaxImageKiB int64 `env:"COMPOSER_MAX_IMAGE_KIB" env-default:"700"`
	}
	RateLimit struct {
		Requests int           `env:"RATE_LIMIT_REQUESTS" env-default:"20"`
		Per      time.Duration `env:"RATE_LIMIT_PER" env-default:"1m"`
		Burst    int           `env:"RATE_LIMIT_BURST" env-default:"5"`
	}
	Cleanup struct {
		Enabled bool          `env:"CLEANUP_ENABLED" env-default:"false"`
		Grace   time.Duration `env:"CLEANUP_GRACE" env-default:"1h"`
		Hour    uint          `env:"CLEANUP_HOUR" env-default:"3"`
	}
}

var (
	once sync.Once
	cfg  *Config
)

func New() (*Config, error) {
	once.Do(func() {
		cfg = &Config{}
		if err := read(cfg); err != nil {
			help, _ := cleanenv.GetDescription(cfg, nil)
			log.Fatalf("Failed to read configuration: %v\n%v", err, help)
		}
	})
	return cfg, nil
}

// read prefers a local .env file and falls back to the process environment.
func read(c *Config) error {
	if _, err := os.Stat(".env"); err == nil {
		return cleanenv.ReadConfig(".env", c)
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return cleanenv.ReadEnv(c)
}

// GetDSN returns the lib/pq style connection string used by goose.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("dbname=%s user=%s password=%s host=%s port=%d sslmode=%s",
		c.Postgres.Name, c.Postgres.User, c.Postgres.Pass, c.Postgres.Host, c.Postgres.Port, c.Postgres.SslMode,
	)
}

// GetURL returns the postgres:// form used by pgxpool.
func (c *Config) GetURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Postgres.User,
		c.Postgres.Pass,
		c.Postgres.Host,
		c.Postgres.Port,
		c.Postgres.Name,
		c.Postgres.SslMode,
	)
}

// MaxImageBytes is the inclusive upper bound on an attached image.
func (c *Config) MaxImageBytes() int64 {
	return c.Composer.MaxImageKiB * 1024
}
