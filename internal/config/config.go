package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

type Config struct {
	HTTP_ADDR      string
	LOG_LEVEL      string
	DB_HOST        string
	DB_PORT        string
	DB_USER        string
	DB_PASSWORD    string
	DB_NAME        string
	REDIS_ADDR     string
	REDIS_PASSWORD string
	REDIS_DB       int
	CACHE_BACKEND  string
	CACHE_TTL      time.Duration
	ES_URL         string
	ES_USER        string
	ES_PASSWORD    string
	ES_INDEX       string
	KAFKA_ADDRESS  string
	JWT_SECRET     string
	TOKEN_TTL      time.Duration
	EMAIL_MASKING  string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		HTTP_ADDR:      getDefault("HTTP_ADDR", ":8080"),
		LOG_LEVEL:      getDefault("LOG_LEVEL", "info"),
		DB_HOST:        os.Getenv("DB_HOST"),
		DB_PORT:        os.Getenv("DB_PORT"),
		DB_USER:        os.Getenv("DB_USER"),
		DB_PASSWORD:    os.Getenv("DB_PASSWORD"),
		DB_NAME:        os.Getenv("DB_NAME"),
		REDIS_ADDR:     os.Getenv("REDIS_ADDR"),
		REDIS_PASSWORD: os.Getenv("REDIS_PASSWORD"),
		REDIS_DB:       getInt("REDIS_DB", 0),
		CACHE_BACKEND:  getDefault("CACHE_BACKEND", "memory"),
		CACHE_TTL:      time.Duration(getInt("CACHE_TTL_SECONDS", 0)) * time.Second,
		ES_URL:         os.Getenv("ES_URL"),
		ES_USER:        os.Getenv("ES_USER"),
		ES_PASSWORD:    os.Getenv("ES_PASSWORD"),
		ES_INDEX:       getDefault("ES_INDEX", "products"),
		KAFKA_ADDRESS:  os.Getenv("KAFKA_ADDRESS"),
		JWT_SECRET:     os.Getenv("JWT_SECRET"),
		TOKEN_TTL:      time.Duration(getInt("TOKEN_TTL_SECONDS", 900)) * time.Second,
		EMAIL_MASKING:  getDefault("USER_EMAIL_MASKING", "omit"),
	}

	return config, nil
}

func (c *Config) DSN() string {
	return "postgres://" + c.DB_USER + ":" + c.DB_PASSWORD + "@" + c.DB_HOST + ":" + c.DB_PORT + "/" + c.DB_NAME + "?sslmode=disable"
}

func getDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
