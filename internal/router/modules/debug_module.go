package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oksasatya/account-ledger/internal/container"
	"github.com/oksasatya/account-ledger/internal/interface/middleware"
)

type DebugModule struct {
	Gatherer prometheus.Gatherer
}

// NewDebugModule serves expvar and, when gatherer is non-nil, Prometheus metrics.
func NewDebugModule(gatherer prometheus.Gatherer) *DebugModule {
	return &DebugModule{Gatherer: gatherer}
}

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	// Public, rate-limited per IP; private-network scrapers bypass the limit.
	rl := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
	if m.Gatherer != nil {
		rg.GET("/metrics", rl, gin.WrapH(promhttp.HandlerFor(m.Gatherer, promhttp.HandlerOpts{})))
	}
}
