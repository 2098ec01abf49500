package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	Port    string
	Env     string
	Storage string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string

	// EnvFileErr - почему не прочитан .env; nil, если файл загружен.
	// Логгер еще не создан, когда читается конфиг, поэтому ошибку пишет main.
	EnvFileErr error
}

// LoadEnv подгружает .env в окружение процесса. Уже заданные переменные не перезаписываются.
func LoadEnv() error {
	return godotenv.Load()
}

// GetEnv возвращает значение переменной окружения или def, если она пустая
func GetEnv(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		return def
	}
	return value
}

// Load читает .env и переменные окружения. storage из флага имеет приоритет над STORAGE.
func Load(storage string) (*Config, error) {
	envErr := LoadEnv()

	cfg := &Config{
		Port:       GetEnv("PORT", "8080"),
		Env:        GetEnv("ENV", "development"),
		Storage:    storage,
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     GetEnv("DB_PORT", "5432"),
		DBSSLMode:  GetEnv("DB_SSLMODE", "disable"),
		EnvFileErr: envErr,
	}
	if cfg.Storage == "" {
		cfg.Storage = GetEnv("STORAGE", StorageMemory)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Storage {
	case StorageMemory:
		return nil
	case StoragePostgres:
		required := map[string]string{
			"DB_HOST": c.DBHost,
			"DB_USER": c.DBUser,
			"DB_NAME": c.DBName,
		}
		for key, value := range required {
			if value == "" {
				return fmt.Errorf("environment variable %s is not set", key)
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown storage type: %s", c.Storage)
	}
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// DSN - строка подключения к PostgreSQL
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode,
	)
}
