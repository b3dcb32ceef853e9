package config

import (
	"fmt"
	"os"
)

type Config struct {
	Port              string
	Env               string
	MongoURI          string
	MongoDBName       string
	RedisURL          string
	JWTSecret         string
	RazorpayKeyID     string
	RazorpayKeySecret string
	RecommenderURL    string // invoice/recommendation service base URL
	FrontendOrigin    string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "3000"),
		Env:               getEnv("APP_ENV", "development"),
		MongoURI:          os.Getenv("DB_URI"),
		MongoDBName:       getEnv("DB_NAME", "smartcart"),
		RedisURL:          getEnv("REDIS_URL", "redis://localhost:6379"),
		JWTSecret:         os.Getenv("JWT_SECRET_KEY"),
		RazorpayKeyID:     os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),
		RecommenderURL:    getEnv("RECOMMENDER_URL", "http://localhost:5000"),
		FrontendOrigin:    getEnv("FRONTEND_ORIGIN", "*"),
	}

	if cfg.MongoURI == "" || cfg.JWTSecret == "" {
		return nil, fmt.Errorf("missing required environment variables DB_URI / JWT_SECRET_KEY")
	}
	if cfg.RazorpayKeyID == "" || cfg.RazorpayKeySecret == "" {
		return nil, fmt.Errorf("missing required environment variables RAZORPAY_KEY_ID / RAZORPAY_KEY_SECRET")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
