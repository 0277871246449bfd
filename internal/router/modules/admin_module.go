package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/account-ledger/internal/application"
	"github.com/oksasatya/account-ledger/internal/container"
	handlers "github.com/oksasatya/account-ledger/internal/interface/http"
	"github.com/oksasatya/account-ledger/internal/interface/middleware"
)

type AdminModule struct {
	Handler *handlers.AdminHandler
	Auth    *application.AuthService
}

func NewAdminModule(h *handlers.AdminHandler, auth *application.AuthService) *AdminModule {
	return &AdminModule{Handler: h, Auth: auth}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(
		middleware.Auth(m.Auth),
		middleware.RequireAdmin(),
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByAccount(), nil),
	)
	{
		admin.GET("/accounts", m.Handler.List)
		admin.GET("/accounts/search", m.Handler.Search)
		admin.DELETE("/accounts/:id", m.Handler.Delete)
		admin.POST("/accounts/:id/reset-credential", m.Handler.ResetCredential)
	}
}
