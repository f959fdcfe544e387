package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers understood by STORAGE_DRIVER.
const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	JWTSecret      string
	StorageDriver  string `mapstructure:"STORAGE_DRIVER"`
	MigrationsPath string `mapstructure:"MIGRATIONS_PATH"`
	// SeedOwners are registered with the memory store at startup.
	SeedOwners []string

	// Transfer engine tuning
	LockTimeout        time.Duration
	TransferMaxRetries int
	RetryBaseDelay     time.Duration
	RetryMaxDelay      time.Duration

	// Provisioning
	ProvisioningMaxAttempts int

	// Events
	KafkaBrokers []string
	KafkaTopic   string `mapstructure:"KAFKA_TOPIC"`

	// HTTP edge
	RateLimit          string `mapstructure:"RATE_LIMIT"`
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("STORAGE_DRIVER", StorageDriverPostgres)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("SEED_OWNERS", "")
	viper.SetDefault("LOCK_TIMEOUT", "2s")
	viper.SetDefault("TRANSFER_MAX_RETRIES", 3)
	viper.SetDefault("RETRY_BASE_DELAY", "25ms")
	viper.SetDefault("RETRY_MAX_DELAY", "500ms")
	viper.SetDefault("PROVISIONING_MAX_ATTEMPTS", 16)
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_TOPIC", "ledger.transfer.completed")
	viper.SetDefault("RATE_LIMIT", "100-S")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")
	cfg.KafkaTopic = viper.GetString("KAFKA_TOPIC")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	cfg.StorageDriver = strings.ToLower(viper.GetString("STORAGE_DRIVER"))
	if cfg.StorageDriver != StorageDriverPostgres && cfg.StorageDriver != StorageDriverMemory {
		log.Printf("Warning: Invalid value for STORAGE_DRIVER ('%s'). Defaulting to %s.\n", cfg.StorageDriver, StorageDriverPostgres)
		cfg.StorageDriver = StorageDriverPostgres
	}
	if cfg.StorageDriver == StorageDriverPostgres && cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.LockTimeout = durationOrDefault("LOCK_TIMEOUT", 2*time.Second)
	cfg.RetryBaseDelay = durationOrDefault("RETRY_BASE_DELAY", 25*time.Millisecond)
	cfg.RetryMaxDelay = durationOrDefault("RETRY_MAX_DELAY", 500*time.Millisecond)

	cfg.TransferMaxRetries = viper.GetInt("TRANSFER_MAX_RETRIES")
	if cfg.TransferMaxRetries < 0 {
		log.Printf("Warning: TRANSFER_MAX_RETRIES cannot be negative (%d). Defaulting to 3.\n", cfg.TransferMaxRetries)
		cfg.TransferMaxRetries = 3
	}

	cfg.ProvisioningMaxAttempts = viper.GetInt("PROVISIONING_MAX_ATTEMPTS")
	if cfg.ProvisioningMaxAttempts <= 0 {
		log.Printf("Warning: PROVISIONING_MAX_ATTEMPTS must be positive (%d). Defaulting to 16.\n", cfg.ProvisioningMaxAttempts)
		cfg.ProvisioningMaxAttempts = 16
	}

	cfg.KafkaBrokers = splitList(viper.GetString("KAFKA_BROKERS"))
	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))
	cfg.SeedOwners = splitList(viper.GetString("SEED_OWNERS"))

	return cfg, nil
}

func durationOrDefault(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback.String())
		}
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
