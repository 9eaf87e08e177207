package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type (
	Container struct {
		App   *App   `yaml:"app"`
		Token *Token `yaml:"token"`
		DB    *DB    `yaml:"db"`
		HTTP  *HTTP  `yaml:"http"`
	}

	App struct {
		Name     string `yaml:"name"`
		Env      string `yaml:"env"`
		LogLevel string `yaml:"log_level"`
	}

	Token struct {
		Secret string `yaml:"secret"`
	}

	DB struct {
		Storage         string        `yaml:"storage"`
		URL             string        `yaml:"url"`
		Host            string        `yaml:"host"`
		Port            string        `yaml:"port"`
		User            string        `yaml:"user"`
		Password        string        `yaml:"password"`
		Name            string        `yaml:"name"`
		SSLMode         string        `yaml:"sslmode"`
		MaxOpenConns    int           `yaml:"max_open_conns"`
		MaxIdleConns    int           `yaml:"max_idle_conns"`
		ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
		AcquireTimeout  time.Duration `yaml:"acquire_timeout"`
		MigrationsDir   string        `yaml:"migrations_dir"`
	}

	HTTP struct {
		Env            string `yaml:"-"`
		Port           string `yaml:"port"`
		AllowedOrigins string `yaml:"allowed_origins"`
		URL            string `yaml:"url"`
	}
)

func defaults() *Container {
	return &Container{
		App: &App{
			Name:     "bike-inventory",
			Env:      "development",
			LogLevel: "info",
		},
		Token: &Token{},
		DB: &DB{
			Storage:        StoragePostgres,
			SSLMode:        "disable",
			MaxOpenConns:   4,
			MaxIdleConns:   2,
			AcquireTimeout: 30 * time.Second,
			MigrationsDir:  "./internal/adapter/postgres/migrations",
		},
		HTTP: &HTTP{
			Port:           "8000",
			URL:            "0.0.0.0",
			AllowedOrigins: "*",
		},
	}
}

// New builds the configuration from defaults, an optional YAML file named
// by CONFIG_FILE and the environment, in that order of precedence.
func New() (*Container, error) {
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}

	cfg.HTTP.Env = cfg.App.Env

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Container) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Container) loadEnv() error {
	setString(&c.App.Name, "APP_NAME")
	setString(&c.App.Env, "APP_ENV")
	setString(&c.App.LogLevel, "LOG_LEVEL")

	setString(&c.Token.Secret, "TOKEN_SECRET")

	setString(&c.DB.Storage, "STORAGE")
	setString(&c.DB.URL, "DATABASE_URL")
	setString(&c.DB.Host, "DB_HOST")
	setString(&c.DB.Port, "DB_PORT")
	setString(&c.DB.User, "DB_USER")
	setString(&c.DB.Password, "DB_PASSWORD")
	setString(&c.DB.Name, "DB_NAME")
	setString(&c.DB.SSLMode, "DB_SSLMODE")
	setString(&c.DB.MigrationsDir, "DB_MIGRATIONS_DIR")
	if err := setInt(&c.DB.MaxOpenConns, "DB_MAX_OPEN_CONNS"); err != nil {
		return err
	}
	if err := setInt(&c.DB.MaxIdleConns, "DB_MAX_IDLE_CONNS"); err != nil {
		return err
	}
	if err := setDuration(&c.DB.ConnMaxLifetime, "DB_CONN_MAX_LIFETIME"); err != nil {
		return err
	}
	if err := setDuration(&c.DB.AcquireTimeout, "DB_ACQUIRE_TIMEOUT"); err != nil {
		return err
	}

	setString(&c.HTTP.Port, "HTTP_PORT")
	setString(&c.HTTP.URL, "HTTP_URL")
	setString(&c.HTTP.AllowedOrigins, "ALLOWED_ORIGINS")
	return nil
}

func (c *Container) Validate() error {
	switch c.DB.Storage {
	case StoragePostgres:
		if c.DB.URL == "" && c.DB.Host == "" {
			return errors.New("either DATABASE_URL or DB_HOST is required")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown storage %q", c.DB.Storage)
	}
	if c.DB.MaxOpenConns < 1 {
		return errors.New("DB_MAX_OPEN_CONNS must be at least 1")
	}
	if c.DB.MaxIdleConns < 0 || c.DB.MaxIdleConns > c.DB.MaxOpenConns {
		return errors.New("DB_MAX_IDLE_CONNS must be between 0 and DB_MAX_OPEN_CONNS")
	}
	return nil
}

// DSN returns DATABASE_URL when set, otherwise a key/value connection string.
func (d *DB) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

func (h *HTTP) Addr() string {
	return fmt.Sprintf("%s:%s", h.URL, h.Port)
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	// Plain integers are seconds.
	if n, err := strconv.Atoi(v); err == nil {
		*dst = time.Duration(n) * time.Second
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = d
	return nil
}
