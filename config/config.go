package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the complaint service
type Config struct {
	// Server configuration
	Port string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Image storage
	ImagesDir string

	// Classification service configuration
	InferenceURL     string
	InferenceTimeout time.Duration

	// Push notification configuration
	PushURL          string
	PushTimeout      time.Duration
	PushWorkers      int
	PushQueueSize    int
	BreakerThreshold int
	BreakerCooldown  time.Duration

	// RabbitMQ configuration
	RabbitMQHost             string
	RabbitMQPort             string
	RabbitMQUser             string
	RabbitMQPassword         string
	RabbitMQExchange         string
	RabbitMQFiledRoutingKey  string
	RabbitMQStatusRoutingKey string

	// SendGrid configuration
	SendGridAPIKey    string
	SendGridFromName  string
	SendGridFromEmail string

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables
func Load() *Config {
	// Optional .env file for local development
	_ = godotenv.Load()

	return &Config{
		Port: getEnv("PORT", "8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "server"),
		DBPassword: getEnv("DB_PASSWORD", "secret_app"),
		DBName:     getEnv("DB_NAME", "grievance"),

		ImagesDir: getEnv("IMAGES_DIR", "uploads"),

		InferenceURL:     getEnv("INFERENCE_URL", "http://localhost:9000"),
		InferenceTimeout: getDurationEnv("INFERENCE_TIMEOUT", 15*time.Second),

		PushURL:          getEnv("PUSH_URL", "https://exp.host/--/api/v2/push/send"),
		PushTimeout:      getDurationEnv("PUSH_TIMEOUT", 10*time.Second),
		PushWorkers:      getIntEnv("PUSH_WORKERS", 4),
		PushQueueSize:    getIntEnv("PUSH_QUEUE_SIZE", 256),
		BreakerThreshold: getIntEnv("PUSH_BREAKER_THRESHOLD", 5),
		BreakerCooldown:  getDurationEnv("PUSH_BREAKER_COOLDOWN", 30*time.Second),

		RabbitMQHost:             getEnv("RABBITMQ_HOST", "localhost"),
		RabbitMQPort:             getEnv("RABBITMQ_PORT", "5672"),
		RabbitMQUser:             getEnv("RABBITMQ_USER", "guest"),
		RabbitMQPassword:         getEnv("RABBITMQ_PASSWORD", "guest"),
		RabbitMQExchange:         getEnv("RABBITMQ_EXCHANGE", "grievance"),
		RabbitMQFiledRoutingKey:  getEnv("RABBITMQ_FILED_ROUTING_KEY", "complaint.filed"),
		RabbitMQStatusRoutingKey: getEnv("RABBITMQ_STATUS_ROUTING_KEY", "complaint.status_changed"),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Grievance Desk"),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", "noreply@grievance.local"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// GetAMQPURL builds the AMQP connection URL from the RabbitMQ settings
func (c *Config) GetAMQPURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/",
		c.RabbitMQUser, c.RabbitMQPassword, c.RabbitMQHost, c.RabbitMQPort)
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv gets an integer environment variable or returns a default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getDurationEnv gets a duration environment variable or returns a default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
