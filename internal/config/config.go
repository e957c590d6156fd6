package config

import (
	"GophTodo/internal/repo"
	"errors"
	"flag"
	"regexp"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	// Server-side settings
	DatabaseDSN string `env:"DATABASE_URI"`
	AuthSecret  string `env:"AUTH_SECRET"`
	AppEnv      string `env:"APP_ENV" envDefault:"development"`
	TodosTable  string `env:"TODOS_TABLE" envDefault:"todos"`

	// Object store settings
	AttachmentsBucket   string `env:"ATTACHMENTS_S3_BUCKET"`
	AWSRegion           string `env:"AWS_REGION" envDefault:"us-east-1"`
	S3Endpoint          string `env:"S3_ENDPOINT"`
	S3AccessKeyID       string `env:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey   string `env:"S3_SECRET_ACCESS_KEY"`
	SignedURLExpiration int    `env:"SIGNED_URL_EXPIRATION" envDefault:"300"` // секунды

	// Отвечать 404 вместо 403 на чужие задачи
	HideForeignTodos bool `env:"HIDE_FOREIGN_TODOS"`

	// Shared settings
	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`

	// Client-side settings
	ServerURL string `env:"-"`
	Token     string `env:"TODO_TOKEN"`
	Version   bool   `env:"-"` // show client version and exit (flag only)
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// flags работают ТОЛЬКО если переменные из env не заданы
	// Server flags
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для проверки JWT")
	flag.StringVar(&cfg.AttachmentsBucket, "bucket", cfg.AttachmentsBucket, "бакет S3 для вложений")
	flag.StringVar(&cfg.S3Endpoint, "s3-endpoint", cfg.S3Endpoint, "адрес S3-совместимого хранилища (пусто для AWS)")
	flag.IntVar(&cfg.SignedURLExpiration, "url-expiration", cfg.SignedURLExpiration, "время жизни ссылки на загрузку, сек")
	flag.BoolVar(&cfg.HideForeignTodos, "hide-foreign", cfg.HideForeignTodos, "отвечать 404 на чужие задачи")
	// Shared/client flags
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "base URL of the todo server (host:port)")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "enable HTTPS (client: prefer https scheme for BaseURL)")
	// Client flags
	flag.StringVar(&cfg.Token, "token", cfg.Token, "JWT для запросов клиента")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show client version and exit")

	flag.Parse()

	// Defaults
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = "dev-secret-key"
	}
	if cfg.TodosTable == "" {
		cfg.TodosTable = "todos"
	}
	// validate BaseURL: must be in "address:port" (no scheme, no path). Otherwise use default.
	hostPortRe := regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = "localhost:8081"
	}

	if cfg.EnableHTTPS {
		cfg.ServerURL = "https://" + cfg.BaseURL
	} else {
		cfg.ServerURL = "http://" + cfg.BaseURL
	}

	return cfg
}

// Attachments собирает настройки объектного хранилища.
func (c *Config) Attachments() repo.AttachmentConfig {
	return repo.AttachmentConfig{
		Bucket:          c.AttachmentsBucket,
		Region:          c.AWSRegion,
		Endpoint:        c.S3Endpoint,
		URLExpiration:   time.Duration(c.SignedURLExpiration) * time.Second,
		AccessKeyID:     c.S3AccessKeyID,
		SecretAccessKey: c.S3SecretAccessKey,
	}
}

// IsProduction сообщает, запущен ли сервер в боевом окружении.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// ValidateServer проверяет при старте всё, без чего сервер не может работать.
func (c *Config) ValidateServer() error {
	var errs []error
	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("DATABASE_URI is required"))
	}
	if c.IsProduction() && c.AuthSecret == "dev-secret-key" {
		errs = append(errs, errors.New("AUTH_SECRET must be set in production"))
	}
	if err := c.Attachments().Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
