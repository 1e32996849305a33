package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	DBPath          string // path to the sqlite database file
	SubscribersFile string // path to the newsletter subscribers JSON file
	SeedFile        string // optional categories.yaml seed file (empty = no seeding)

	AdminToken string // bearer token required on admin endpoints

	// Ingestion pipeline
	FetchTimeout time.Duration // page metadata fetch timeout (default: 20s)
	URLTimeout   time.Duration // per-URL processing timeout (default: 30s)
	URLDelay     time.Duration // pause between URLs to respect upstream rate limits (default: 1s)
	UserAgent    string        // identifying UA sent on page fetches

	// External services
	ExaAPIKey    string // Exa search API key (empty = enrichment disabled)
	ExaBaseURL   string // ex: https://api.exa.ai
	GeminiAPIKey string // Gemini API key (empty = enrichment disabled)
	GeminiModel  string // ex: gemini-2.0-flash
	GeminiURL    string // Gemini API base URL

	ReindexInterval time.Duration // interval to rebuild the search index from the store

	// Redis metadata cache (optional, empty addr = cache disabled)
	RedisAddr           string
	RedisUser           string
	RedisPassword       string
	RedisDB             int
	RedisDT             time.Duration // dial timeout
	RedisRT             time.Duration // read timeout
	RedisWT             time.Duration // write timeout
	RedisConnectTimeout time.Duration // total time to retry connecting
	RedisRetryInterval  time.Duration // initial wait between retries (grows exponentially)
	RedisMaxWait        time.Duration // max wait between retries
	RedisPingTimeout    time.Duration // timeout for each ping attempt
	RedisPoolSize       int
	RedisWarnThreshold  int           // warn after this many attempts
	MetadataCacheTTL    time.Duration // TTL for cached metadata payloads

	// Rate limiting for public enrichment endpoints
	RateLimitBurst  int
	RateLimitPerMin int
	TrustProxy      bool // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("EDUDIR_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("EDUDIR_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("EDUDIR_LOG_LEVEL", "info"),
		PrettyLog: mustBool("EDUDIR_PRETTY_LOG", true),

		// Storage
		DBPath:          getenv("EDUDIR_DB_PATH", "edudir.db"),
		SubscribersFile: getenv("EDUDIR_SUBSCRIBERS_FILE", "data/subscribers.json"),
		SeedFile:        getenv("EDUDIR_SEED_FILE", ""),

		AdminToken: requireEnv("EDUDIR_ADMIN_TOKEN"),

		// Ingestion
		FetchTimeout: mustDuration("EDUDIR_FETCH_TIMEOUT", 20*time.Second),
		URLTimeout:   mustDuration("EDUDIR_URL_TIMEOUT", 30*time.Second),
		URLDelay:     mustDuration("EDUDIR_URL_DELAY", time.Second),
		UserAgent:    getenv("EDUDIR_USER_AGENT", "Mozilla/5.0 (compatible; EdudirBot/1.0; +https://github.com/teachstack/edudir)"),

		// External services
		ExaAPIKey:    getenv("EXA_API_KEY", ""),
		ExaBaseURL:   getenv("EXA_BASE_URL", "https://api.exa.ai"),
		GeminiAPIKey: getenv("GEMINI_API_KEY", ""),
		GeminiModel:  getenv("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiURL:    getenv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),

		ReindexInterval: mustDuration("EDUDIR_REINDEX_INTERVAL", 15*time.Minute),

		// Redis metadata cache
		RedisAddr:           getenv("EDUDIR_REDIS_ADDR", ""),
		RedisUser:           getenv("EDUDIR_REDIS_USERNAME", "default"),
		RedisPassword:       getenv("EDUDIR_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("EDUDIR_REDIS_DB", 0),
		RedisDT:             mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisConnectTimeout: mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisMaxWait:        mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:       getenvInt("REDIS_POOL_SIZE", 10),
		RedisWarnThreshold:  getenvInt("REDIS_WARN_THRESHOLD", 3),
		MetadataCacheTTL:    mustDuration("EDUDIR_METADATA_CACHE_TTL", 24*time.Hour),

		// Rate limiting
		RateLimitBurst:  getenvInt("EDUDIR_RATE_LIMIT_BURST", 10),
		RateLimitPerMin: getenvInt("EDUDIR_RATE_LIMIT_PER_MIN", 30),
		TrustProxy:      mustBool("EDUDIR_TRUST_PROXY", true),
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.AdminToken = "***REDACTED***"
		cfgCopy.ExaAPIKey = "***REDACTED***"
		cfgCopy.GeminiAPIKey = "***REDACTED***"
		cfgCopy.RedisPassword = "***REDACTED***"
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// EnrichmentEnabled reports whether both external enrichment services are configured.
func (c *Config) EnrichmentEnabled() bool {
	return c.ExaAPIKey != "" && c.GeminiAPIKey != ""
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
