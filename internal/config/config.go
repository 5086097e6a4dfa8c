package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	GinMode         string
	DBDriver        string
	DBPath          string
	DBHost          string
	DBPort          string
	DBUser          string
	DBPassword      string
	DBName          string
	JWTSecret       string
	TokenTTLMinutes int
	UploadDir       string
	LogLevel        string
	AdminEmail      string
}

func Load() *Config {
	// Missing .env is fine, real deployments set the environment directly.
	_ = godotenv.Load()

	return &Config{
		Port:            getEnv("PORT", "5566"),
		GinMode:         getEnv("GIN_MODE", "debug"),
		DBDriver:        getEnv("DB_DRIVER", "sqlite"),
		DBPath:          getEnv("DB_PATH", "todo.db"),
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", "3306"),
		DBUser:          getEnv("DB_USER", "todouser"),
		DBPassword:      getEnv("DB_PASSWORD", "todopassword"),
		DBName:          getEnv("DB_NAME", "todo_tracking"),
		JWTSecret:       getEnv("JWT_SECRET", "default-secret-key-change-me"),
		TokenTTLMinutes: getEnvInt("TOKEN_TTL_MINUTES", 60),
		UploadDir:       getEnv("UPLOAD_DIR", "uploads"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		AdminEmail:      getEnv("ADMIN_EMAIL", ""),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}
