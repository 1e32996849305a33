package deps

import (
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/teachstack/edudir/internal/enrich"
	"github.com/teachstack/edudir/internal/index"
	"github.com/teachstack/edudir/internal/ingest"
	"github.com/teachstack/edudir/internal/logger"
	"github.com/teachstack/edudir/internal/metadata"
	"github.com/teachstack/edudir/internal/newsletter"
	"github.com/teachstack/edudir/internal/store/sqlite"
)

type Deps struct {
	Logger        logger.Logger
	StartTime     time.Time
	Version       string
	Commit        string
	BuildDate     string
	GoVersion     string
	AdminToken    string                          // Bearer token for the admin surface
	TrustProxy    bool                            // true if running behind a trusted reverse proxy
	Store         *sqlite.Store                   // Primary persistence
	MemoryIndex   *index.MemoryIndex              // In-memory read model for listings and search
	Fetcher       *metadata.Fetcher               // Page metadata scraper
	Summarizer    *enrich.Summarizer              // nil when no API keys are configured
	Pipeline      *ingest.Pipeline                // Bulk URL ingestion
	Subscribers   *newsletter.Store               // Newsletter signups
	RedisClient   *redis.Client                   // nil when the metadata cache is disabled
	ReloadTrigger chan struct{}                   // Channel to trigger a manual index refresh
	RateLimiter   func(http.Handler) http.Handler // Per-IP limiter for the expensive routes
}

// RequestReload asks the refresher for a rebuild without blocking.
// Returns false when a refresh is already queued.
func (d Deps) RequestReload() bool {
	select {
	case d.ReloadTrigger <- struct{}{}:
		return true
	default:
		return false
	}
}
