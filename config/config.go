package config

import (
	"os"
	"persian-pages/constants"
	"strconv"
	"strings"
	"time"
)

// Config holds everything the server, the scrape CLI and the services read
// from the environment.
type Config struct {
	AppHost     string
	AppPort     string
	FrontendURL string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	JWTSecret    string
	ScrapeAPIKey string

	PlacesAPIKey string
	GeminiAPIKey string
	LLMModel     string

	TwilioAccountSID   string
	TwilioAuthToken    string
	TwilioFromNumber   string
	TwilioMessagingSID string

	ScrapeJobStore     string
	ScrapeDefaultLimit int
	LogDir             string

	PlacesDelay   time.Duration
	LLMBatchDelay time.Duration
}

func Load() Config {
	return Config{
		AppHost:     getenv("APP_HOST", "0.0.0.0"),
		AppPort:     getenv("APP_PORT", "3000"),
		FrontendURL: getenv("FRONTEND_URL", "*"),

		DBDriver:   getenv("DB_DRIVER", "postgres"),
		DBHost:     getenv("DB_HOST", "localhost"),
		DBPort:     getenv("DB_PORT", "5432"),
		DBName:     getenv("DB_DATABASE", "persian_pages"),
		DBUser:     getenv("DB_USERNAME", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBSSLMode:  getenv("DB_SSLMODE", "disable"),

		JWTSecret:    getenv("JWT_SECRET", "dev-secret"),
		ScrapeAPIKey: os.Getenv("SCRAPE_API_KEY"),

		PlacesAPIKey: os.Getenv("GOOGLE_PLACES_API_KEY"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		LLMModel:     getenv("LLM_MODEL", "gemini-2.5-flash-lite"),

		TwilioAccountSID:   os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:    os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFromNumber:   os.Getenv("TWILIO_FROM_NUMBER"),
		TwilioMessagingSID: os.Getenv("TWILIO_MESSAGING_SID"),

		ScrapeJobStore:     strings.ToLower(getenv("SCRAPE_JOB_STORE", "memory")),
		ScrapeDefaultLimit: getint("SCRAPE_DEFAULT_LIMIT", constants.DefaultAPIScrapeLimit),
		LogDir:             getenv("LOG_DIR", "log/app"),

		PlacesDelay:   getdur("SCRAPE_PLACES_DELAY", 200*time.Millisecond),
		LLMBatchDelay: getdur("SCRAPE_LLM_BATCH_DELAY", 500*time.Millisecond),
	}
}

// TwilioConfigured reports whether real SMS delivery is possible.
func (c Config) TwilioConfigured() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" &&
		(c.TwilioFromNumber != "" || c.TwilioMessagingSID != "")
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getdur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
