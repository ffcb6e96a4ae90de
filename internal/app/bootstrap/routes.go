// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"net/http"

	adminsfeature "github.com/dalemusser/clubdesk/internal/app/features/admins"
	adsfeature "github.com/dalemusser/clubdesk/internal/app/features/ads"
	auditlogfeature "github.com/dalemusser/clubdesk/internal/app/features/auditlog"
	clubsfeature "github.com/dalemusser/clubdesk/internal/app/features/clubs"
	errorsfeature "github.com/dalemusser/clubdesk/internal/app/features/errors"
	eventsfeature "github.com/dalemusser/clubdesk/internal/app/features/events"
	healthfeature "github.com/dalemusser/clubdesk/internal/app/features/health"
	homefeature "github.com/dalemusser/clubdesk/internal/app/features/home"
	listingsfeature "github.com/dalemusser/clubdesk/internal/app/features/listings"
	loginfeature "github.com/dalemusser/clubdesk/internal/app/features/login"
	logoutfeature "github.com/dalemusser/clubdesk/internal/app/features/logout"
	membersfeature "github.com/dalemusser/clubdesk/internal/app/features/members"
	newsfeature "github.com/dalemusser/clubdesk/internal/app/features/news"
	paymentsfeature "github.com/dalemusser/clubdesk/internal/app/features/payments"
	settingsfeature "github.com/dalemusser/clubdesk/internal/app/features/settings"
	vendorsfeature "github.com/dalemusser/clubdesk/internal/app/features/vendors"
	"github.com/dalemusser/clubdesk/internal/app/store/audit"
	"github.com/dalemusser/clubdesk/internal/app/store/drafts"
	sessionstore "github.com/dalemusser/clubdesk/internal/app/store/sessions"
	"github.com/dalemusser/clubdesk/internal/app/system/apiclient"
	"github.com/dalemusser/clubdesk/internal/app/system/auditlog"
	"github.com/dalemusser/clubdesk/internal/app/system/auth"
	"github.com/dalemusser/clubdesk/internal/app/system/crud"
	"github.com/dalemusser/clubdesk/internal/app/system/lookups"
	"github.com/dalemusser/clubdesk/internal/app/system/metrics"
	"github.com/dalemusser/clubdesk/internal/app/system/ratelimit"
	"github.com/dalemusser/clubdesk/internal/app/system/timeouts"
	"github.com/dalemusser/clubdesk/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for the console.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. It wires the backend client, the session
// manager, the shared CRUD services and every entity page.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	// Sessions live in Mongo; the cookie only carries the session ID.
	// Secure cookies are enabled in production mode.
	sessStore := sessionstore.New(db, []byte(appCfg.SessionKey))
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain,
		appCfg.SessionMaxAge, secure, sessStore, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	auditLogger := auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})

	errLog := errorsfeature.NewErrorLogger(logger)
	errLog.Sessions = sessionMgr
	errLog.Audit = auditLogger

	client, err := apiclient.New(apiclient.Options{
		BaseURL:       appCfg.APIBaseURL,
		Timeout:       appCfg.APITimeout,
		Tokens:        auth.TokenFromContext,
		OnAuthFailure: sessionMgr.RevokeContext,
		Logger:        logger,
	})
	if err != nil {
		logger.Error("api client init failed", zap.Error(err))
		return nil, err
	}

	// A cold cache is not fatal: tables load lazily on first use.
	lookupProvider := lookups.New(client.Settings, appCfg.LookupTables, appCfg.LookupCacheTTL, logger)
	warmCtx, cancel := context.WithTimeout(context.Background(), timeouts.Medium())
	if err := lookupProvider.Warm(warmCtx); err != nil {
		logger.Warn("lookup tables not warmed", zap.Error(err))
	}
	cancel()

	viewdata.Init(viewdata.DefaultSiteName, sessionMgr)
	metrics.RegisterSessionGauge(sessStore.CountActive)

	r := chi.NewRouter()
	r.Use(metrics.Middleware)

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	healthHandler := healthfeature.NewHandler(deps.MongoClient, client, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Handle("/metrics", metrics.Handler())

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	homeHandler := homefeature.NewHandler(logger)
	r.Get("/", homeHandler.ServeRoot)

	// Authentication
	limiter := ratelimit.NewLoginLimiter(appCfg.LoginRateLimit, appCfg.LoginRateWindow)
	loginHandler := loginfeature.NewHandler(client, sessionMgr, errLog, auditLogger, limiter, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, client, auditLogger, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)
	r.NotFound(errorsHandler.NotFound)

	// Entity pages share one set of services.
	shared := crud.Deps{
		Client:  client,
		Lookups: lookupProvider,
		ErrLog:  errLog,
		Audit:   auditLogger,
		Flash:   sessionMgr,
		Log:     logger,
		List: crud.ListOptions{
			Debounce: appCfg.ListDebounce,
			PageSize: appCfg.ListPageSize,
			StateTTL: appCfg.ListStateTTL,
		},
	}

	r.Mount("/admins", adminsfeature.Routes(adminsfeature.NewHandler(shared), sessionMgr))
	r.Mount("/members", membersfeature.Routes(membersfeature.NewHandler(shared), sessionMgr))
	r.Mount("/clubs", clubsfeature.Routes(clubsfeature.NewHandler(shared), sessionMgr))
	r.Mount("/events", eventsfeature.Routes(eventsfeature.NewHandler(shared), sessionMgr))
	r.Mount("/news", newsfeature.Routes(newsfeature.NewHandler(shared), sessionMgr))
	r.Mount("/listings", listingsfeature.Routes(listingsfeature.NewHandler(shared), sessionMgr))
	r.Mount("/payments", paymentsfeature.Routes(paymentsfeature.NewHandler(shared), sessionMgr))
	r.Mount("/ads", adsfeature.Routes(adsfeature.NewHandler(shared), sessionMgr))

	vendorsHandler := vendorsfeature.NewHandler(shared, drafts.New(db, appCfg.WizardDraftTTL))
	r.Mount("/vendors", vendorsfeature.Routes(vendorsHandler, sessionMgr))

	// Console administration
	settingsHandler := settingsfeature.NewHandler(lookupProvider, errLog, auditLogger, sessionMgr, logger)
	r.Mount("/settings", settingsfeature.Routes(settingsHandler, sessionMgr))

	auditHandler := auditlogfeature.NewHandler(audit.New(db), errLog, logger)
	r.Mount("/audit", auditlogfeature.Routes(auditHandler, sessionMgr))

	return r, nil
}
