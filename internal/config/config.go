package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"mangiato/internal/register"
)

type Config struct {
	Port              string
	DatabaseURL       string
	RedisURL          string
	BaseURL           string // Public base URL, used to expand endpoint and confirmation links
	StaticDir         string // Directory holding the compiled browser bundle (optional)
	ConfirmSecret     string // HMAC key for email confirmation tokens
	ConfirmTTLMinutes int    // Confirmation token lifetime
	AccessTTLSeconds  int    // Lifetime of tokens issued at login
	RateLimitRPS      float64
	RateLimitBurst    int
	LogDevelopment    bool
}

func Load() *Config {
	loadDotenv()

	return &Config{
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		RedisURL:          getEnv("REDIS_URL", ""),
		BaseURL:           strings.TrimRight(getEnv("BASE_URL", ""), "/"),
		StaticDir:         getEnv("STATIC_DIR", ""),
		ConfirmSecret:     getEnv("CONFIRM_SECRET", ""),
		ConfirmTTLMinutes: getEnvInt("CONFIRM_TTL_MINUTES", 60),
		AccessTTLSeconds:  getEnvInt("ACCESS_TTL_SECONDS", 600),
		RateLimitRPS:      getEnvFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst:    getEnvInt("RATE_LIMIT_BURST", 10),
		LogDevelopment:    getEnvBool("LOG_DEVELOPMENT", false),
	}
}

// LoadClient builds the form handler configuration from the environment.
// Unset keys keep register.DefaultConfig values.
func LoadClient() register.Config {
	loadDotenv()

	cfg := register.DefaultConfig()
	cfg.Endpoint = getEnv("REGISTER_ENDPOINT", cfg.Endpoint)
	cfg.PreventDefault = getEnvBool("REGISTER_PREVENT_DEFAULT", cfg.PreventDefault)
	if mode, err := register.ParseResponseMode(getEnv("REGISTER_RESPONSE_MODE", string(cfg.ResponseMode))); err == nil {
		cfg.ResponseMode = mode
	} else {
		log.Println(err)
	}
	cfg.ShowErrors = getEnvBool("REGISTER_SHOW_ERRORS", cfg.ShowErrors)
	if secs := getEnvInt("REGISTER_TIMEOUT_SECONDS", 0); secs > 0 {
		cfg.Timeout = time.Duration(secs) * time.Second
	}
	return cfg
}

func (c *Config) ConfirmTTL() time.Duration {
	return time.Duration(c.ConfirmTTLMinutes) * time.Minute
}

func (c *Config) AccessTTL() time.Duration {
	return time.Duration(c.AccessTTLSeconds) * time.Second
}

func loadDotenv() {
	// Missing .env is fine, the process environment still applies
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or defaults")
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
