package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	OAuth      OAuthConfig
	Cloudinary CloudinaryConfig
	Mpesa      MpesaConfig
	Email      EmailConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	FrontendURL  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

// MpesaConfig holds Safaricom Daraja credentials for STK push donations.
// CallbackBaseURL is the public base of this server; the push callback is
// CallbackBaseURL + /api/v1/donations/payment-callback.
type MpesaConfig struct {
	ConsumerKey     string
	ConsumerSecret  string
	ShortCode       string
	Passkey         string
	Environment     string // "sandbox" or "production"
	CallbackBaseURL string
}

// Configured reports whether all Daraja credentials are present.
func (m MpesaConfig) Configured() bool {
	return m.ConsumerKey != "" && m.ConsumerSecret != "" && m.ShortCode != "" && m.Passkey != ""
}

// EmailConfig holds Brevo transactional email credentials.
type EmailConfig struct {
	APIKey     string
	FromEmail  string
	FromName   string
	AdminEmail string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("[config] no .env file loaded: %v", err)
	}
	return &Config{
		Server: ServerConfig{
			Port:         env("PORT", "5000"),
			Env:          env("APP_ENV", "development"),
			FrontendURL:  env("FRONTEND_URL", "http://localhost:3000"),
			ReadTimeout:  envDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: envDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			DSN:             env("MYSQL_DSN", "sdgconnect:sdgconnect@tcp(localhost:3306)/sdgconnect?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    envInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    envInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: envDuration("DB_CONN_MAX_LIFETIME", time.Hour),
		},
		JWT: JWTConfig{
			AccessSecret:  env("JWT_SECRET", "change-me-in-production"),
			RefreshSecret: env("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  envDuration("JWT_ACCESS_EXPIRY", 7*24*time.Hour),
			RefreshExpiry: envDuration("JWT_REFRESH_EXPIRY", 30*24*time.Hour),
			Issuer:        env("JWT_ISSUER", "sdgconnect"),
		},
		OAuth: OAuthConfig{
			GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			GoogleRedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			APISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		},
		Mpesa: MpesaConfig{
			ConsumerKey:     os.Getenv("MPESA_CONSUMER_KEY"),
			ConsumerSecret:  os.Getenv("MPESA_CONSUMER_SECRET"),
			ShortCode:       os.Getenv("MPESA_BUSINESS_SHORTCODE"),
			Passkey:         os.Getenv("MPESA_PASSKEY"),
			Environment:     env("MPESA_ENVIRONMENT", "sandbox"),
			CallbackBaseURL: os.Getenv("BACKEND_URL"),
		},
		Email: EmailConfig{
			APIKey:     os.Getenv("BREVO_API_KEY"),
			FromEmail:  env("FROM_EMAIL", "noreply@sdgconnect.org"),
			FromName:   env("FROM_NAME", "SDGConnect Foundation"),
			AdminEmail: env("ADMIN_EMAIL", "info@sdgconnect.org"),
		},
	}
}

func env(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
