package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Name string `yaml:"name"`
	Port string `yaml:"port"`
}

type PostgresConfig struct {
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"-"`
	DBName          string        `yaml:"dbname"`
	SSLMode         string        `yaml:"sslmode"`
	MaxConns        int32         `yaml:"max_conns"`
	MinConns        int32         `yaml:"min_conns"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"`
	MigrationsPath  string        `yaml:"migrations_path"`
}

type Config struct {
	App      AppConfig      `yaml:"app"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// Load reads the yaml config file and then applies environment overrides.
// Credentials never live in the yaml file; they come from the environment
// (optionally via a local .env).
func Load(path string) (*Config, error) {
	_ = godotenv.Load() // .env is optional

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := &Config{}
	if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	if port := os.Getenv("APP_PORT"); port != "" {
		cfg.App.Port = port
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}

	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Postgres.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		cfg.Postgres.Port = port
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.Postgres.User = user
	}
	cfg.Postgres.Password = os.Getenv("DB_PASSWORD")
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Postgres.DBName = name
	}
	if cfg.Postgres.SSLMode == "" {
		cfg.Postgres.SSLMode = "disable"
	}
	if cfg.Postgres.MaxConns == 0 {
		cfg.Postgres.MaxConns = 10
	}
	if cfg.Postgres.MinConns == 0 {
		cfg.Postgres.MinConns = 2
	}
	if cfg.Postgres.MaxConnLifetime == 0 {
		cfg.Postgres.MaxConnLifetime = time.Hour
	}
	if cfg.Postgres.MigrationsPath == "" {
		cfg.Postgres.MigrationsPath = "migrations"
	}

	if cfg.Postgres.Host == "" {
		return nil, fmt.Errorf("postgres host is required (config file or DB_HOST)")
	}
	if cfg.Postgres.User == "" {
		return nil, fmt.Errorf("postgres user is required (config file or DB_USER)")
	}
	if cfg.Postgres.DBName == "" {
		return nil, fmt.Errorf("postgres dbname is required (config file or DB_NAME)")
	}

	return cfg, nil
}
