// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables (CLUBDESK_*), configuration
// files, or command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig
// covers ports, TLS, log level and the like; everything specific to the
// console lives here.
type AppConfig struct {
	// REST backend the console fronts
	APIBaseURL string        // e.g. https://api.club.example (the /admin prefix is added)
	APITimeout time.Duration // per-call HTTP client timeout

	// MongoDB holds console-owned state only: sessions, audit trail, wizard drafts
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management
	SessionKey    string // signs the cookie and seals backend tokens at rest
	SessionName   string
	SessionDomain string
	SessionMaxAge time.Duration

	SessionSweepInterval time.Duration // expired sessions are closed on this tick

	// List pages
	ListDebounce time.Duration // keyword requests superseded within this window are dropped
	ListPageSize int
	ListStateTTL time.Duration // idle per-session list state is evicted after this

	// Lookup tables (tiers, categories, ...)
	LookupCacheTTL time.Duration
	LookupTables   []string

	WizardDraftTTL time.Duration

	// Login rate limiting
	LoginRateLimit  int
	LoginRateWindow time.Duration

	// Audit logging: "all", "db", "log" or "off"
	AuditLogAuth  string
	AuditLogAdmin string
}
