// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/clubdesk/internal/app/resources"
	sessionstore "github.com/dalemusser/clubdesk/internal/app/store/sessions"
	"github.com/dalemusser/clubdesk/internal/app/system/timeouts"
	"github.com/dalemusser/clubdesk/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// sessionSweep runs for the life of the process; Shutdown stops it.
var sessionSweep *workers.SessionSweep

// Startup runs one-time initialization after the database is ready and
// before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.APITimeout > 0 {
		timeouts.Configure(timeouts.Config{Long: appCfg.APITimeout})
	}
	resources.LoadSharedTemplates()

	if appCfg.SessionSweepInterval > 0 && deps.MongoDatabase != nil {
		sessionSweep = workers.NewSessionSweep(
			sessionstore.New(deps.MongoDatabase, []byte(appCfg.SessionKey)),
			logger, appCfg.SessionSweepInterval)
		sessionSweep.Start()
	}
	return nil
}
