package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. The storage backend is selected by DATABASE_URL:
// when set the service talks to Postgres, otherwise it uses a local SQLite
// file.
type Config struct {
	Port        string // HTTP port to listen on
	DatabaseURL string // Postgres connection string (empty selects SQLite)
	SQLitePath  string // SQLite database file path

	JWTSecret      string        // secret used to sign access tokens
	AccessTokenTTL time.Duration // lifetime of issued access tokens
	BcryptCost     int           // bcrypt cost for password hashing

	AviationStackKey    string        // external provider API key (empty disables the refresher)
	FlightAPIBaseURL    string        // provider base URL, overridable for tests
	RefreshInterval     time.Duration // how often a refresh pass runs
	RefreshStartupDelay time.Duration // delay before the first pass after boot
	RefreshPause        time.Duration // pause between flights inside a pass

	AllowedOrigins []string // CORS allow list
}

// Load reads configuration from the environment, after loading a .env file
// when one is present. Only the JWT secret is hard-required; everything
// else has a default that lets the binary run locally.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:        getenv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SQLitePath:  getenv("SQLITE_PATH", "dispatch.db"),

		JWTSecret:      must("JWT_SECRET"),
		AccessTokenTTL: duration("ACCESS_TOKEN_TTL", "24h"),
		BcryptCost:     integer("BCRYPT_COST", "10"),

		AviationStackKey:    os.Getenv("AVIATIONSTACK_API_KEY"),
		FlightAPIBaseURL:    getenv("FLIGHT_API_BASE_URL", "http://api.aviationstack.com/v1"),
		RefreshInterval:     duration("FLIGHT_REFRESH_INTERVAL", "30m"),
		RefreshStartupDelay: duration("FLIGHT_REFRESH_STARTUP_DELAY", "10s"),
		RefreshPause:        duration("FLIGHT_REFRESH_PAUSE", "500ms"),

		AllowedOrigins: splitCSV(getenv("ALLOWED_ORIGINS", "*")),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func integer(key, def string) int {
	s := getenv(key, def)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func duration(key, def string) time.Duration {
	s := getenv(key, def)
	d, err := time.ParseDuration(s)
	if err != nil {
		log.Fatalf("invalid duration for %s: %q", key, s)
	}
	return d
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
