package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/account-ledger/internal/application"
	"github.com/oksasatya/account-ledger/internal/container"
	handlers "github.com/oksasatya/account-ledger/internal/interface/http"
	"github.com/oksasatya/account-ledger/internal/interface/middleware"
)

// AccountModule wires the self-service routes.
// Public: POST /register, /login, /refresh
// Protected: POST /logout, GET /account, POST /account/{deposit,withdraw,transfer},
// POST /account/interest/{project,apply}
type AccountModule struct {
	Handler *handlers.AccountHandler
	Auth    *application.AuthService
}

func NewAccountModule(h *handlers.AccountHandler, auth *application.AuthService) *AccountModule {
	return &AccountModule{Handler: h, Auth: auth}
}

func (m *AccountModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	registerLimiter := middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByIP(), nil)
	loginLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIP(), nil)
	refreshLimiter := middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByIP(), nil)

	rg.POST("/register", registerLimiter, m.Handler.Register)
	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.POST("/refresh", refreshLimiter, m.Handler.Refresh)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Auth))
	auth.Use(middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByAccount(), nil))
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.GET("/account", m.Handler.Account)
		auth.POST("/account/deposit", m.Handler.Deposit)
		auth.POST("/account/withdraw", m.Handler.Withdraw)
		auth.POST("/account/transfer", m.Handler.Transfer)
		auth.POST("/account/interest/project", m.Handler.ProjectInterest)
		auth.POST("/account/interest/apply", m.Handler.ApplyInterest)
	}
}
