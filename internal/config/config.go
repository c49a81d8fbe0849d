package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	AppPort    string
	AppEnv     string

	RedisAddr string
	CartTTL   time.Duration

	CatalogBaseURL string

	MailHost string
	MailPort int
	MailUser string
	MailPass string
	MailFrom string

	NotifyWorkers int
	RabbitMQURL   string
	CORSOrigin    string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     os.Getenv("DB_PORT"),
		AppPort:    getEnv("APP_PORT", "8080"),
		AppEnv:     os.Getenv("APP_ENV"),

		RedisAddr: os.Getenv("REDIS_ADDR"),
		CartTTL:   getDuration("CART_TTL", 24*time.Hour),

		CatalogBaseURL: getEnv("CATALOG_BASE_URL", "https://dummyjson.com"),

		MailHost: os.Getenv("MAIL_HOST"),
		MailPort: getInt("MAIL_PORT", 2525),
		MailUser: os.Getenv("MAIL_USER"),
		MailPass: os.Getenv("MAIL_PASS"),
		MailFrom: getEnv("MAIL_FROM", "noreply@ecommerce-flow"),

		NotifyWorkers: getInt("NOTIFY_WORKERS", 2),
		RabbitMQURL:   os.Getenv("RABBITMQ_URL"),
		CORSOrigin:    getEnv("CORS_ORIGIN", "http://localhost:3000"),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}

// DSN builds the lib/pq connection string.
func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=disable"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %d", key, v, def)
		return def
	}
	return n
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %s", key, v, def)
		return def
	}
	return d
}
