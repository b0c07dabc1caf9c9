package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is built once in main and passed down explicitly.
type Config struct {
	Search   Search
	Criteria Criteria
	Sources  Sources
	Store    Store
	LLM      LLM
	Log      Log
}

// Search is the geographic search area.
type Search struct {
	CenterLat   float64
	CenterLng   float64
	RadiusMiles float64
}

// Criteria is the acceptance rubric handed to the reviewer.
type Criteria struct {
	MaxPrice     float64
	MinSqft      float64
	LocationName string
}

// Sources configures the site adapters.
type Sources struct {
	CraigslistRegion string
	MaxDetailFetches int
	DetailDelayMin   time.Duration
	DetailDelayMax   time.Duration
	HTTPTimeout      time.Duration
	MaxRetries       int
	BrowserSources   []string
	ChromeBin        string
}

// Store selects the persistence backend.
type Store struct {
	Backend string // csv, postgres, sheets
	Target  string // directory, DSN or spreadsheet ID
}

// LLM configures the model endpoint.
type LLM struct {
	APIBase   string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// Log configures the application logger.
type Log struct {
	Level  string
	Format string
}

// Load reads the .env file and returns a populated Config struct.
// Absent or malformed values fall back to their defaults.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		Search: Search{
			CenterLat:   getEnvFloat("CENTER_LAT", 37.7767),
			CenterLng:   getEnvFloat("CENTER_LNG", -122.4173),
			RadiusMiles: getEnvFloat("RADIUS_MILES", 4),
		},
		Criteria: Criteria{
			MaxPrice:     getEnvFloat("MAX_PRICE", 2400),
			MinSqft:      getEnvFloat("MIN_SQFT", 400),
			LocationName: getEnv("LOCATION_NAME", "San Francisco"),
		},
		Sources: Sources{
			CraigslistRegion: getEnv("CRAIGSLIST_REGION", "sfbay"),
			MaxDetailFetches: getEnvInt("MAX_DETAIL_FETCHES", 25),
			DetailDelayMin:   time.Duration(getEnvInt("DETAIL_DELAY_MIN_MS", 2000)) * time.Millisecond,
			DetailDelayMax:   time.Duration(getEnvInt("DETAIL_DELAY_MAX_MS", 5000)) * time.Millisecond,
			HTTPTimeout:      time.Duration(getEnvInt("HTTP_TIMEOUT_SEC", 30)) * time.Second,
			MaxRetries:       getEnvInt("MAX_RETRIES", 3),
			BrowserSources:   getEnvList("BROWSER_SOURCES"),
			ChromeBin:        getEnv("CHROME_BIN", ""),
		},
		Store: loadStore(),
		LLM: LLM{
			APIBase:   getEnv("LLM_API_BASE", "https://api.anthropic.com/v1"),
			Model:     getEnv("LLM_MODEL", "claude-haiku-4-5-20251001"),
			MaxTokens: getEnvInt("LLM_MAX_TOKENS", 300),
			Timeout:   time.Duration(getEnvInt("LLM_TIMEOUT_SEC", 60)) * time.Second,
		},
		Log: Log{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
	}
}

// loadStore picks the backend and its target. Only the csv backend has a
// default target; sheets and postgres must be configured explicitly.
func loadStore() Store {
	backend := strings.ToLower(getEnv("STORE_BACKEND", "csv"))

	var fallback string
	switch backend {
	case "csv", "":
		fallback = "./output"
	case "sheets":
		fallback = getEnv("GOOGLE_SHEET_ID", "")
	}
	return Store{Backend: backend, Target: getEnv("STORE_TARGET", fallback)}
}

// UsesBrowser reports whether the named source should be rendered in a headless browser.
func (s Sources) UsesBrowser(source string) bool {
	for _, name := range s.BrowserSources {
		if name == source {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err == nil {
			return n
		}
		log.Printf("[config] Invalid integer for %s=%q, using default %d", key, val, fallback)
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err == nil {
			return f
		}
		log.Printf("[config] Invalid number for %s=%q, using default %g", key, val, fallback)
	}
	return fallback
}

func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
