package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type BotConfig struct {
	TelegramToken string
	APIBaseURL    string
	MetricsPort   string
}

type ServerConfig struct {
	Port           string
	JWTSecretKey   string
	MetricsPort    string
	PostgresConfig PostgresConfig
	KafkaConfig    KafkaConfig
	TracingConfig  TracingConfig
}

type AuditorConfig struct {
	KafkaConfig KafkaConfig
	MetricsPort string
}

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

type TracingConfig struct {
	Endpoint string
}

func (p PostgresConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.DBName, p.SSLMode,
	)
}

// Enabled reports whether event publishing is configured at all.
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0 && k.Brokers[0] != ""
}

func LoadBotConfig() (*BotConfig, error) {
	loadDotEnv()

	config := &BotConfig{
		TelegramToken: os.Getenv("TELEGRAM_API_TOKEN"),
		APIBaseURL:    os.Getenv("API_BASE_URL"),
		MetricsPort:   getEnv("METRICS_PORT", ":9092"),
	}

	if config.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_API_TOKEN is required")
	}

	if config.APIBaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL is required")
	}

	return config, nil
}

func LoadServerConfig() (*ServerConfig, error) {
	loadDotEnv()

	config := &ServerConfig{
		Port:         getEnv("SERVER_PORT", ":8000"),
		JWTSecretKey: os.Getenv("JWT_SECRET_KEY"),
		MetricsPort:  getEnv("METRICS_PORT", ":9091"),
		PostgresConfig: PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			User:     getEnv("POSTGRES_USER", "user"),
			Password: getEnv("POSTGRES_PASSWORD", "password"),
			DBName:   getEnv("POSTGRES_DB", "notes"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		KafkaConfig:   loadKafkaConfig(),
		TracingConfig: TracingConfig{Endpoint: os.Getenv("TRACING_ENDPOINT")},
	}

	if config.JWTSecretKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY is required")
	}

	return config, nil
}

func LoadAuditorConfig() (*AuditorConfig, error) {
	loadDotEnv()

	config := &AuditorConfig{
		KafkaConfig: loadKafkaConfig(),
		MetricsPort: getEnv("METRICS_PORT", ":9093"),
	}

	if !config.KafkaConfig.Enabled() {
		return nil, fmt.Errorf("KAFKA_BROKERS is required")
	}

	return config, nil
}

func loadKafkaConfig() KafkaConfig {
	return KafkaConfig{
		Brokers: strings.Split(os.Getenv("KAFKA_BROKERS"), ","),
		Topic:   getEnv("KAFKA_TOPIC", "note-events"),
		GroupID: getEnv("KAFKA_GROUP_ID", "note-event-auditors"),
	}
}

func loadDotEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, using environment variables")
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
