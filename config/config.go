// Package config loads service settings from the environment and an optional .env file.
package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string

	MongoURI      string
	MongoDatabase string

	JWTSecret string
	TokenTTL  time.Duration

	CDNBaseURL      string
	StorageBucket   string
	StorageFolder   string
	StorageEndpoint string
	StorageRegion   string

	RateLimit      int // requests per minute per client
	RateBurst      int
	AllowedOrigins []string
	RequestTimeout time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8007")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MONGO_DATABASE", "gallery")
	v.SetDefault("TOKEN_TTL", "1h")
	v.SetDefault("STORAGE_REGION", "auto")
	v.SetDefault("RATE_LIMIT", 300)
	v.SetDefault("RATE_BURST", 50)
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("REQUEST_TIMEOUT", "10s")
}

// Load reads envFiles (missing files are skipped) and then the process
// environment, which takes precedence.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil {
			log.Println("config: skipping", f+":", err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Port:            v.GetString("PORT"),
		Environment:     v.GetString("ENVIRONMENT"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		MongoURI:        v.GetString("MONGO_URI"),
		MongoDatabase:   v.GetString("MONGO_DATABASE"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		TokenTTL:        v.GetDuration("TOKEN_TTL"),
		CDNBaseURL:      v.GetString("CDN_BASE_URL"),
		StorageBucket:   v.GetString("STORAGE_NAME"),
		StorageFolder:   v.GetString("STORAGE_FOLDER"),
		StorageEndpoint: v.GetString("STORAGE_ENDPOINT"),
		StorageRegion:   v.GetString("STORAGE_REGION"),
		RateLimit:       v.GetInt("RATE_LIMIT"),
		RateBurst:       v.GetInt("RATE_BURST"),
		AllowedOrigins:  splitList(v.GetString("ALLOWED_ORIGINS")),
		RequestTimeout:  v.GetDuration("REQUEST_TIMEOUT"),
	}
	return cfg, nil
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.MongoURI == "" {
		errs = append(errs, errors.New("MONGO_URI is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.CDNBaseURL == "" {
		errs = append(errs, errors.New("CDN_BASE_URL is required"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.RateLimit <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
