package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultServerAddress = "localhost:8080"
	defaultLogLevel      = "info"
	defaultEnv           = "local"
	defaultConfigDir     = ".faithkeeper"
	defaultDataFile      = "offline.db"
)

type Config struct {
	Env             string
	ServerAddress   string
	LogLevel        string
	LogFile         string
	ConfigDir       string
	DataPath        string
	EnableTLS       bool
	StorageDisabled bool
	SyncInterval    time.Duration
	DeliveryTimeout time.Duration
	ProbeInterval   time.Duration
	CacheMaxAge     time.Duration
}

// Load читает .env, переменные окружения и необязательный config.yaml
// из каталога конфигурации. Переменные окружения имеют приоритет.
func Load() (*Config, error) {
	// Определяем путь к .env файлу (относительно места запуска)
	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		envPath = "../.env"
	}
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			fmt.Printf("Ошибка загрузки .env файла: %v\n", err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", defaultEnv)
	v.SetDefault("SERVER_ADDRESS", defaultServerAddress)
	v.SetDefault("LOG_LEVEL", defaultLogLevel)
	v.SetDefault("CONFIG_DIR", defaultConfigDir)
	v.SetDefault("SYNC_INTERVAL_SECONDS", 300)
	v.SetDefault("DELIVERY_TIMEOUT_SECONDS", 15)
	v.SetDefault("PROBE_INTERVAL_SECONDS", 30)
	v.SetDefault("CACHE_MAX_AGE_HOURS", 24)
	v.SetDefault("ENABLE_TLS", false)
	v.SetDefault("STORAGE_DISABLED", false)

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	configDir := v.GetString("CONFIG_DIR")
	if configDir == defaultConfigDir {
		configDir = filepath.Join(homeDir, configDir)
	}

	// config.yaml в каталоге конфигурации не обязателен
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("ошибка чтения config.yaml: %w", err)
		}
	}

	dataPath := v.GetString("DATA_PATH")
	if dataPath == "" {
		dataPath = filepath.Join(configDir, defaultDataFile)
	}

	cfg := &Config{
		Env:             v.GetString("APP_ENV"),
		ServerAddress:   v.GetString("SERVER_ADDRESS"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		LogFile:         v.GetString("LOG_FILE"),
		ConfigDir:       configDir,
		DataPath:        dataPath,
		EnableTLS:       v.GetBool("ENABLE_TLS"),
		StorageDisabled: v.GetBool("STORAGE_DISABLED"),
		SyncInterval:    time.Duration(v.GetInt("SYNC_INTERVAL_SECONDS")) * time.Second,
		DeliveryTimeout: time.Duration(v.GetInt("DELIVERY_TIMEOUT_SECONDS")) * time.Second,
		ProbeInterval:   time.Duration(v.GetInt("PROBE_INTERVAL_SECONDS")) * time.Second,
		CacheMaxAge:     time.Duration(v.GetInt("CACHE_MAX_AGE_HOURS")) * time.Hour,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.ServerAddress == "" {
		return fmt.Errorf("server_address не может быть пустым")
	}
	if c.DataPath == "" {
		return fmt.Errorf("data_path не может быть пустым")
	}
	if c.SyncInterval <= 0 {
		return fmt.Errorf("sync_interval_seconds должен быть положительным")
	}
	if c.DeliveryTimeout <= 0 {
		return fmt.Errorf("delivery_timeout_seconds должен быть положительным")
	}
	if c.ProbeInterval <= 0 {
		return fmt.Errorf("probe_interval_seconds должен быть положительным")
	}
	return nil
}

// BaseURL адрес сервера со схемой
func (c *Config) BaseURL() string {
	if c.EnableTLS {
		return "https://" + c.ServerAddress
	}
	return "http://" + c.ServerAddress
}
