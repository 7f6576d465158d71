// Package config provides centralized default values for beacon-go
package config

import (
	"bufio"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		file, err := os.Open(".env")
		if err != nil {
			return
		}
		defer file.Close()

		log.Println("Loading configuration overrides from .env file...")
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())

			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				continue
			}

			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])

			if os.Getenv(key) == "" {
				os.Setenv(key, value)
			}
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

var (
	// Server Configuration
	Port               string
	Environment        string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration

	// Session Configuration
	SessionCookieName   string
	SessionIDPrefix     string
	SessionTokenLength  int
	SessionCookieMaxAge time.Duration
	SessionTTL          time.Duration

	// Attribution Store
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	StoreWriteTimeout time.Duration

	// Interceptor
	ExcludedPathPattern string

	// Geolocation Headers
	GeoCountryHeader string
	GeoCityHeader    string
	GeoFallback      string

	// Campaign Database
	CampaignDBPath   string
	TursoDatabaseURL string
	TursoAuthToken   string

	// Operator Auth
	AdminPassword string
	JWTSecret     string

	// Meta Conversions API
	MetaPixelID     string
	MetaAccessToken string
	MetaAPIVersion  string
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	Environment = getEnvString("ENV", "development")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)

	// Session Configuration
	SessionCookieName = getEnvString("SESSION_COOKIE_NAME", "sessionId")
	SessionIDPrefix = getEnvString("SESSION_ID_PREFIX", "sess:")
	SessionTokenLength = getEnvInt("SESSION_TOKEN_LENGTH", 21)
	SessionCookieMaxAge = time.Duration(getEnvInt("SESSION_COOKIE_MAX_AGE_HOURS", 24)) * time.Hour
	SessionTTL = time.Duration(getEnvInt("SESSION_TTL_DAYS", 7)) * 24 * time.Hour

	// Attribution Store
	RedisAddr = getEnvString("REDIS_ADDR", "")
	RedisPassword = getEnvString("REDIS_PASSWORD", "")
	RedisDB = getEnvInt("REDIS_DB", 0)
	StoreWriteTimeout = getEnvDuration("STORE_WRITE_TIMEOUT", 250*time.Millisecond)

	// Interceptor
	ExcludedPathPattern = getEnvString("EXCLUDED_PATH_PATTERN",
		`^/(api/|metrics$|static/|favicon\.ico$|robots\.txt$|sitemap\.xml$|\.well-known/)`)

	// Geolocation Headers
	GeoCountryHeader = getEnvString("GEO_COUNTRY_HEADER", "X-Vercel-IP-Country")
	GeoCityHeader = getEnvString("GEO_CITY_HEADER", "X-Vercel-IP-City")
	GeoFallback = getEnvString("GEO_FALLBACK", "DEV")

	// Campaign Database
	CampaignDBPath = getEnvString("CAMPAIGN_DB_PATH", "beacon.db")
	TursoDatabaseURL = getEnvString("TURSO_DATABASE_URL", "")
	TursoAuthToken = getEnvString("TURSO_AUTH_TOKEN", "")

	// Operator Auth
	AdminPassword = getEnvString("ADMIN_PASSWORD", "")
	JWTSecret = getEnvString("JWT_SECRET", "")

	// Meta Conversions API
	MetaPixelID = getEnvString("META_PIXEL_ID", "")
	MetaAccessToken = getEnvString("META_ACCESS_TOKEN", "")
	MetaAPIVersion = getEnvString("META_API_VERSION", "v18.0")
}

// IsProduction reports whether the server runs with production hardening
// (secure cookies, release-mode gin).
func IsProduction() bool {
	return Environment == "production"
}
