package router

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/oksasatya/account-ledger/internal/application"
	"github.com/oksasatya/account-ledger/internal/container"
	"github.com/oksasatya/account-ledger/internal/domain/entity"
	handlers "github.com/oksasatya/account-ledger/internal/interface/http"
	"github.com/oksasatya/account-ledger/internal/router/modules"
)

type LedgerModuleDeps struct {
	Auth    *application.AuthService
	Ledger  *application.LedgerService
	Admin   *application.AdminService
	Account *handlers.AccountHandler
	Console *handlers.AdminHandler
}

func buildLedgerDeps() LedgerModuleDeps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	reg := container.GetRegistry()
	sessions := container.GetSessions()

	auth := application.NewAuthService(reg, sessions, container.GetJWT(), logger)

	mode, err := application.ParseInterestMode(cfg.InterestMode)
	if err != nil {
		logger.WithError(err).Warn("falling back to literal interest mode")
		mode = entity.InterestLiteral
	}

	ledger := application.NewLedgerService(reg, sessions, logger, application.LedgerOptions{
		DepositCapped: cfg.DepositCapped,
		InterestMode:  mode,
	})
	ledger.Events = container.GetPublisher()
	ledger.Index = container.GetIndexer()
	ledger.Metrics = container.GetObserver()

	admin := application.NewAdminService(reg, sessions, logger, cfg.ResetDefaultSecret)
	admin.Events = container.GetPublisher()
	admin.Index = container.GetIndexer()
	admin.Metrics = container.GetObserver()

	return LedgerModuleDeps{
		Auth:    auth,
		Ledger:  ledger,
		Admin:   admin,
		Account: handlers.NewAccountHandler(auth, ledger, logger, cfg.CookieDomain, cfg.CookieSecure),
		Console: handlers.NewAdminHandler(admin, logger),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	deps := buildLedgerDeps()
	r.Add(modules.NewAccountModule(deps.Account, deps.Auth))
	r.Add(modules.NewAdminModule(deps.Console, deps.Auth))
	if container.GetConfig().DebugMetricsEnabled {
		var gatherer prometheus.Gatherer
		if pr := container.GetPrometheus(); pr != nil {
			gatherer = pr
		}
		r.Add(modules.NewDebugModule(gatherer))
	}
}
