package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/msctl-dev/msctl/internal/cli/userconfig"
)

const (
	defaultAPIURL    = "http://localhost:8000/api"
	defaultWebURL    = "http://localhost:3000"
	defaultLoginPage = "/login.html"
	defaultTimeout   = 30 * time.Second
)

// Config holds all configuration for the CLI
type Config struct {
	// API Configuration
	API APIConfig

	// Session Configuration
	Session SessionConfig

	// Logging Configuration
	Logging LoggingConfig
}

// APIConfig describes the backend and the web front end that owns the login page
type APIConfig struct {
	URL       string
	WebURL    string
	LoginPage string
	Timeout   time.Duration
}

// LoginURL is the page users are sent to when their session ends
func (a APIConfig) LoginURL() string {
	return strings.TrimRight(a.WebURL, "/") + a.LoginPage
}

// SessionConfig selects where the bearer token is stored
type SessionConfig struct {
	Store     string // keyring, file, memory
	TokenFile string
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // json, console
}

// Load loads configuration from environment variables, falling back to the
// API URL saved with 'msctl use' and then to the built-in defaults.
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	apiURL := os.Getenv("MSCTL_API_URL")
	if apiURL == "" {
		selected, err := userconfig.GetSelectedAPIURL()
		if err != nil {
			return nil, err
		}
		apiURL = selected
	}
	if apiURL == "" {
		apiURL = defaultAPIURL
	}

	webURL := getEnv("MSCTL_WEB_URL", defaultWebURL)
	loginPage := getEnv("MSCTL_LOGIN_PAGE", defaultLoginPage)
	if !strings.HasPrefix(loginPage, "/") {
		loginPage = "/" + loginPage
	}

	timeout := defaultTimeout
	if raw := os.Getenv("MSCTL_TIMEOUT"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid MSCTL_TIMEOUT %q: %w", raw, err)
		}
		timeout = parsed
	}

	return &Config{
		API: APIConfig{
			URL:       strings.TrimRight(apiURL, "/"),
			WebURL:    webURL,
			LoginPage: loginPage,
			Timeout:   timeout,
		},
		Session: SessionConfig{
			Store:     getEnv("MSCTL_TOKEN_STORE", "keyring"),
			TokenFile: os.Getenv("MSCTL_TOKEN_FILE"),
		},
		Logging: LoggingConfig{
			// Defaults suitable for an interactive terminal
			Level:  getEnv("LOG_LEVEL", "warn"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
