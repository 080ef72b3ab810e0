package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPath  = "../../.env"
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	defaultRunAddress = ":8080"
	defaultMigrations = "migrations"
)

type Config struct {
	Env    string
	DB     db
	Server server
	Logger logger
}

type db struct {
	DatabaseURI string `env:"DATABASE_URI"`
	Migrations  string `env:"MIGRATIONS_PATH"`
}

type server struct {
	RunAddress string `env:"RUN_ADDRESS"`
}

type logger struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// MustLoad загружает конфигурацию сервера
func MustLoad() *Config {
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			log.Println("Ошибка загрузки .env файла:", err)
		}
	} else {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg, err := Load(viper.New())
	if err != nil {
		log.Fatalln(err)
	}
	return cfg
}

// Load собирает конфигурацию из переменных окружения
func Load(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	v.SetDefault("run_address", defaultRunAddress)
	v.SetDefault("migrations_path", defaultMigrations)
	v.SetDefault("app_env", EnvLocal)
	v.SetDefault("log_level", "info")

	config := Config{
		Env: v.GetString("app_env"),
		DB: db{
			DatabaseURI: v.GetString("database_uri"),
			Migrations:  v.GetString("migrations_path"),
		},
		Server: server{RunAddress: v.GetString("run_address")},
		Logger: logger{LogLevel: v.GetString("log_level")},
	}

	if config.DB.DatabaseURI == "" {
		return nil, fmt.Errorf("DATABASE_URI не задан")
	}

	return &config, nil
}
