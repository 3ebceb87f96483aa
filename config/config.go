package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DB       DBConfig
	HTTP     HTTPConfig
	Auth     AuthConfig
	Telegram TelegramConfig
	Uploads  UploadsConfig
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

type HTTPConfig struct {
	Addr string
}

type AuthConfig struct {
	JWTSecret string
}

type TelegramConfig struct {
	Token       string
	AdminChatID int64 // chat that receives order notifications
}

type UploadsConfig struct {
	Dir string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	adminChat, _ := strconv.ParseInt(getEnv("TG_ADMIN_CHAT_ID", "0"), 10, 64)

	return &Config{
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     port,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "coffeehouse"),
		},
		HTTP: HTTPConfig{
			Addr: ":" + getEnv("APP_PORT", "8080"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		Telegram: TelegramConfig{
			Token:       getEnv("TG_TOKEN", ""),
			AdminChatID: adminChat,
		},
		Uploads: UploadsConfig{
			Dir: getEnv("UPLOADS_DIR", "uploads"),
		},
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
