// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/scopehub/scopehub/internal/app/system/auth"
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	secure := coreCfg.Env == "prod"
	return auth.InitSessionStore(appCfg.SessionKey, appCfg.SessionDomain, secure, logger)
}
