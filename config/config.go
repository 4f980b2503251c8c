// Package config loads the server settings from the environment.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port    string
	GinMode string
	AppEnv  string

	MongoURI      string
	MongoDatabase string

	JWTSecret string
	TokenTTL  time.Duration

	CloudinaryURL       string
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	UploadFolder        string

	CORSOrigins []string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RatesURL string
	RatesTTL time.Duration

	LoginRateLimit int
	ProtectAdmin   bool
}

var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"http://127.0.0.1:5173",
}

// Load reads .env when present, then the process environment.
// MONGODB_URI and JWT_SECRET are required.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("could not read .env")
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (Config, error) {
	c := Config{
		Port:    env("PORT", "5000"),
		GinMode: env("GIN_MODE", ""),
		AppEnv:  env("APP_ENV", "prod"),

		MongoURI:      os.Getenv("MONGODB_URI"),
		MongoDatabase: env("MONGODB_DATABASE", "zawamu"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		TokenTTL:  time.Duration(atoi("JWT_TTL_HOURS", 168)) * time.Hour,

		CloudinaryURL:       os.Getenv("CLOUDINARY_URL"),
		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		UploadFolder:        env("CLOUDINARY_FOLDER", "zawamu"),

		CORSOrigins: list("CORS_ORIGINS", defaultOrigins),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       atoi("REDIS_DB", 0),

		RatesURL: env("EXCHANGE_RATES_URL", "https://api.exchangerate-api.com/v4/latest/USD"),
		RatesTTL: time.Duration(atoi("EXCHANGE_RATES_TTL_SECONDS", 3600)) * time.Second,

		LoginRateLimit: atoi("LOGIN_RATE_PER_MINUTE", 10),
		ProtectAdmin:   boolean("PROTECT_ADMIN_ROUTES", false),
	}

	var missing []string
	if c.MongoURI == "" {
		missing = append(missing, "MONGODB_URI")
	}
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return c, errors.New("missing required environment: " + strings.Join(missing, ", "))
	}

	if !c.CloudinaryConfigured() {
		log.Warn().Msg("Cloudinary is not configured; uploads will fail")
	}
	return c, nil
}

func (c Config) CloudinaryConfigured() bool {
	return c.CloudinaryURL != "" ||
		(c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != "")
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func boolean(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func list(k string, def []string) []string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
