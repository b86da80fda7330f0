package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	TokenTTL    time.Duration

	BrevoAPIKey     string
	EmailSender     string
	EmailSenderName string
	ReportEmail     string

	CloudinaryURL        string
	MeetingURLTemplate   string
	CertificateThreshold int
	AllowOrigins         string
}

func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Warn("Warning: .env file not found, reading from system environment variables")
	}

	cfg := &Config{
		Port:                 getEnv("PORT", "8080"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		JWTSecret:            getEnv("JWT_SECRET", ""),
		TokenTTL:             getEnvDuration("TOKEN_TTL", 72*time.Hour),
		BrevoAPIKey:          getEnv("BREVO_API_KEY", ""),
		EmailSender:          getEnv("EMAIL_SENDER", ""),
		EmailSenderName:      getEnv("EMAIL_SENDER_NAME", "Skill Swap"),
		ReportEmail:          getEnv("REPORT_EMAIL", ""),
		CloudinaryURL:        getEnv("CLOUDINARY_URL", ""),
		MeetingURLTemplate:   getEnv("MEETING_URL_TEMPLATE", "https://meet.google.com/%s"),
		CertificateThreshold: getEnvInt("CERTIFICATE_THRESHOLD", 5),
		AllowOrigins:         getEnv("CORS_ALLOW_ORIGINS", "*"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if !strings.Contains(cfg.MeetingURLTemplate, "%s") {
		return nil, fmt.Errorf("MEETING_URL_TEMPLATE must contain %%s")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
