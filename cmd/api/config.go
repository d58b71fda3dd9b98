package main

import (
	"fmt"
	"os"
	"strings"
)

// Config holds all environment-driven settings for the API server.
type Config struct {
	Env       string
	Port      string
	MongoURI  string
	MongoDB   string
	JWTSecret string

	RedisURL string

	KafkaBrokers []string
	KafkaTopic   string

	AWSRegion    string
	AWSEndpoint  string
	AWSAccessKey string
	AWSSecretKey string
	S3Bucket     string
	S3Prefix     string

	// ExposeResetToken returns password-reset tokens in API responses.
	// Forced off in production.
	ExposeResetToken bool
}

// LoadConfig reads settings from the environment and validates the required
// ones.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Env:          getEnv("APP_ENV", "development"),
		Port:         getEnv("PORT", "8080"),
		MongoURI:     os.Getenv("MONGO_URI"),
		MongoDB:      getEnv("MONGO_DB", "refurbgear"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		RedisURL:     os.Getenv("REDIS_URL"),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "quote.submitted"),
		AWSRegion:    getEnv("AWS_REGION", "us-east-1"),
		AWSEndpoint:  os.Getenv("AWS_ENDPOINT"),
		AWSAccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		S3Bucket:     os.Getenv("AWS_S3_BUCKET"),
		S3Prefix:     getEnv("AWS_S3_PREFIX", "products/"),
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	cfg.ExposeResetToken = cfg.Env != "production"

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
