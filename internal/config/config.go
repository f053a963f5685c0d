package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	SessionMemory = "memory"
	SessionRedis  = "redis"

	NLURules  = "rules"
	NLUGemini = "gemini"
)

// Config holds all server configuration
type Config struct {
	Port          int
	DatabaseURL   string
	PublicBaseURL string

	TwilioAccountSID        string
	TwilioAuthToken         string
	TwilioFromNumber        string
	ValidateTwilioSignature bool

	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	StaffEmail        string

	JWTSecret string

	DefaultCapacity int
	MaxPartySize    int
	MaxRetries      int
	RequirePhone    bool
	MixedDispatch   bool

	SessionBackend     string
	SessionIdleTimeout time.Duration
	RedisURL           string
	RedisPassword      string

	NLUBackend   string
	GeminiAPIKey string
	GeminiModel  string
	NLUTimeout   time.Duration

	BackendTimeout  time.Duration
	KnowledgePath   string
	Timezone        string
	RateLimitPerSec float64
}

// Load reads the environment, after an optional .env file, and applies defaults.
func Load() (*Config, error) {
	// Load .env file if it exists (doesn't error if missing)
	_ = godotenv.Load()

	cfg := &Config{
		Port:               8080,
		SendGridFromName:   "Bistro Nova",
		DefaultCapacity:    40,
		MaxPartySize:       50,
		MaxRetries:         2,
		SessionBackend:     SessionMemory,
		SessionIdleTimeout: 30 * time.Minute,
		RedisURL:           "redis://localhost:6379/0",
		NLUBackend:         NLURules,
		GeminiModel:        "gemini-2.0-flash",
		NLUTimeout:         2 * time.Second,
		BackendTimeout:     3 * time.Second,
		Timezone:           "Europe/Zurich",
		RateLimitPerSec:    5,
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.PublicBaseURL = strings.TrimRight(os.Getenv("PUBLIC_BASE_URL"), "/")
	cfg.TwilioAccountSID = os.Getenv("TWILIO_ACCOUNT_SID")
	cfg.TwilioAuthToken = os.Getenv("TWILIO_AUTH_TOKEN")
	cfg.TwilioFromNumber = os.Getenv("TWILIO_FROM_NUMBER")
	cfg.SendGridAPIKey = os.Getenv("SENDGRID_API_KEY")
	cfg.SendGridFromEmail = os.Getenv("SENDGRID_FROM_EMAIL")
	cfg.StaffEmail = os.Getenv("STAFF_EMAIL")
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.KnowledgePath = os.Getenv("KNOWLEDGE_PATH")

	if v := os.Getenv("SENDGRID_FROM_NAME"); v != "" {
		cfg.SendGridFromName = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.GeminiModel = v
	}
	if v := os.Getenv("TIMEZONE"); v != "" {
		cfg.Timezone = v
	}

	var err error
	if cfg.Port, err = getInt("PORT", cfg.Port); err != nil {
		return nil, err
	}
	if cfg.DefaultCapacity, err = getInt("DEFAULT_CAPACITY", cfg.DefaultCapacity); err != nil {
		return nil, err
	}
	if cfg.MaxPartySize, err = getInt("MAX_PARTY_SIZE", cfg.MaxPartySize); err != nil {
		return nil, err
	}
	if cfg.MaxRetries, err = getInt("MAX_RETRIES", cfg.MaxRetries); err != nil {
		return nil, err
	}
	if cfg.ValidateTwilioSignature, err = getBool("VALIDATE_TWILIO_SIGNATURE", false); err != nil {
		return nil, err
	}
	if cfg.RequirePhone, err = getBool("REQUIRE_PHONE", false); err != nil {
		return nil, err
	}
	if cfg.MixedDispatch, err = getBool("MIXED_DISPATCH", false); err != nil {
		return nil, err
	}
	if cfg.SessionIdleTimeout, err = getDuration("SESSION_IDLE_TIMEOUT", time.Minute, cfg.SessionIdleTimeout); err != nil {
		return nil, err
	}
	if cfg.NLUTimeout, err = getDuration("NLU_TIMEOUT", time.Second, cfg.NLUTimeout); err != nil {
		return nil, err
	}
	if cfg.BackendTimeout, err = getDuration("BACKEND_TIMEOUT", time.Second, cfg.BackendTimeout); err != nil {
		return nil, err
	}
	if v := os.Getenv("RATE_LIMIT_PER_SEC"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil || r <= 0 {
			return nil, fmt.Errorf("invalid RATE_LIMIT_PER_SEC: %q", v)
		}
		cfg.RateLimitPerSec = r
	}

	if v := os.Getenv("SESSION_BACKEND"); v != "" {
		switch v {
		case SessionMemory, SessionRedis:
			cfg.SessionBackend = v
		default:
			return nil, fmt.Errorf("invalid SESSION_BACKEND: must be 'memory' or 'redis'")
		}
	}
	if v := os.Getenv("NLU_BACKEND"); v != "" {
		switch v {
		case NLURules, NLUGemini:
			cfg.NLUBackend = v
		default:
			return nil, fmt.Errorf("invalid NLU_BACKEND: must be 'rules' or 'gemini'")
		}
	}
	if cfg.NLUBackend == NLUGemini && cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required when NLU_BACKEND is gemini")
	}

	if cfg.DefaultCapacity < 0 {
		return nil, fmt.Errorf("invalid DEFAULT_CAPACITY: must not be negative")
	}
	if cfg.MaxPartySize < 1 {
		return nil, fmt.Errorf("invalid MAX_PARTY_SIZE: must be at least 1")
	}
	if cfg.MaxRetries < 0 {
		return nil, fmt.Errorf("invalid MAX_RETRIES: must not be negative")
	}

	return cfg, nil
}

// RequireDatabase fails when DATABASE_URL is missing.
func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL not set")
	}
	return nil
}

// Location resolves TIMEZONE.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	return loc, nil
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

// getDuration reads a whole number of units.
func getDuration(key string, unit, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return time.Duration(n) * unit, nil
}
