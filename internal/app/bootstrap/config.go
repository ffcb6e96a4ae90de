// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

const minSessionKeyLen = 32

// appConfigKeys defines the configuration keys for ClubDesk.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: api_base_url, mongo_uri, etc.
//   - Environment variables: CLUBDESK_API_BASE_URL, CLUBDESK_MONGO_URI, etc.
//   - Command-line flags: --api_base_url, --mongo_uri, etc.
var appConfigKeys = []config.AppKey{
	{Name: "api_base_url", Default: "http://localhost:8000", Desc: "Base URL of the REST backend (without /admin)"},
	{Name: "api_timeout", Default: "30s", Desc: "HTTP client timeout for backend calls"},

	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "clubdesk", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 50, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 5, Desc: "MongoDB min connection pool size"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "clubdesk-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "12h", Desc: "Longest a console session lives"},

	{Name: "list_debounce", Default: "250ms", Desc: "Keyword search debounce window"},
	{Name: "list_page_size", Default: 20, Desc: "Default rows per list page"},
	{Name: "list_state_ttl", Default: "30m", Desc: "Idle time before per-session list state is dropped"},

	{Name: "lookup_cache_ttl", Default: "10m", Desc: "How long lookup tables stay cached"},
	{Name: "lookup_tables", Default: "tiers,listing_categories,vendor_categories", Desc: "Comma separated lookup tables to warm at startup"},

	{Name: "session_sweep_interval", Default: "5m", Desc: "How often expired console sessions are closed"},

	{Name: "wizard_draft_ttl", Default: "2h", Desc: "How long an abandoned vendor wizard is kept"},

	{Name: "login_rate_limit", Default: 5, Desc: "Sign-in attempts allowed per email per window"},
	{Name: "login_rate_window", Default: "1m", Desc: "Sign-in rate limit window"},

	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig merges .env files, config files,
// environment variables (WAFFLE_* for core, CLUBDESK_* for app) and flags
// with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "CLUBDESK", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		APIBaseURL: appValues.String("api_base_url"),
		APITimeout: appValues.Duration("api_timeout", 30*time.Second),

		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 12*time.Hour),

		ListDebounce: appValues.Duration("list_debounce", 250*time.Millisecond),
		ListPageSize: appValues.Int("list_page_size"),
		ListStateTTL: appValues.Duration("list_state_ttl", 30*time.Minute),

		LookupCacheTTL: appValues.Duration("lookup_cache_ttl", 10*time.Minute),
		LookupTables:   splitList(appValues.String("lookup_tables")),

		SessionSweepInterval: appValues.Duration("session_sweep_interval", 5*time.Minute),

		WizardDraftTTL: appValues.Duration("wizard_draft_ttl", 2*time.Hour),

		LoginRateLimit:  appValues.Int("login_rate_limit"),
		LoginRateWindow: appValues.Duration("login_rate_window", time.Minute),

		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),
	}
	return coreCfg, appCfg, nil
}

// ValidateConfig rejects configurations the console cannot run with.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if err := validateAPIBaseURL(appCfg.APIBaseURL); err != nil {
		return err
	}
	if len(appCfg.SessionKey) < minSessionKeyLen {
		if coreCfg != nil && coreCfg.Env == "prod" {
			return fmt.Errorf("session_key must be at least %d characters in prod", minSessionKeyLen)
		}
		logger.Warn("session_key is short; use 32+ random characters", zap.Int("length", len(appCfg.SessionKey)))
	}
	if appCfg.ListPageSize < 1 || appCfg.ListPageSize > 200 {
		return fmt.Errorf("list_page_size must be between 1 and 200, got %d", appCfg.ListPageSize)
	}
	for _, mode := range []string{appCfg.AuditLogAuth, appCfg.AuditLogAdmin} {
		switch mode {
		case "", "all", "db", "log", "off":
		default:
			return fmt.Errorf("audit log mode must be all, db, log or off, got %q", mode)
		}
	}
	return nil
}

func validateAPIBaseURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid api_base_url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api_base_url must be an absolute http(s) URL, got %q", raw)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
