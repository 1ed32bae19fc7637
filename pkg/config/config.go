package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Engine holds the signup-engine policy constants. The defaults for spot
// counts are product decisions that used to be buried as literals; they are
// configuration so deployments can disagree without code changes.
type Engine struct {
	// DefaultTotalSpots is used when the CRM gives no coach-capacity hint.
	DefaultTotalSpots int `validate:"min=1"`
	// PresenterSpots is the capacity of an auto-provisioned workshop
	// presenting opportunity.
	PresenterSpots int `validate:"min=1"`
	// MaxWorkshopBatch caps a bulk workshop signup request.
	MaxWorkshopBatch int `validate:"min=1"`
}

// Salesforce holds the CRM connection settings. Empty ClientID disables the
// sync adapter entirely (local dev without CRM access).
type Salesforce struct {
	InstanceURL  string
	TokenURL     string
	ClientID     string
	ClientSecret string
	APIVersion   string
}

// Config is the full application configuration, assembled once in main and
// passed down explicitly.
type Config struct {
	Port          string `validate:"required"`
	DatabaseURL   string
	SQLitePath    string
	JWTSecret     string `validate:"required"`
	AdminUsername string `validate:"required"`
	AdminPassword string `validate:"required"`
	Engine        Engine
	Salesforce    Salesforce
}

var validate = validator.New()

// Load reads the configuration from the environment. Callers are expected to
// have loaded .env beforehand (godotenv in main).
func Load() (*Config, error) {
	cfg := &Config{
		Port:          envOr("PORT", "8000"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		SQLitePath:    os.Getenv("DATA_PATH"),
		JWTSecret:     envOr("JWT_SECRET", "dev-secret"),
		AdminUsername: envOr("ADMIN_USERNAME", "admin"),
		AdminPassword: envOr("ADMIN_PASSWORD", "admin123"),
		Engine: Engine{
			DefaultTotalSpots: envIntOr("DEFAULT_TOTAL_SPOTS", 20),
			PresenterSpots:    envIntOr("PRESENTER_SPOTS", 1),
			MaxWorkshopBatch:  envIntOr("MAX_WORKSHOP_BATCH", 10),
		},
		Salesforce: Salesforce{
			InstanceURL:  os.Getenv("SF_INSTANCE_URL"),
			TokenURL:     os.Getenv("SF_TOKEN_URL"),
			ClientID:     os.Getenv("SF_CLIENT_ID"),
			ClientSecret: os.Getenv("SF_CLIENT_SECRET"),
			APIVersion:   envOr("SF_API_VERSION", "v58.0"),
		},
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
