package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/account-ledger/config"
	"github.com/oksasatya/account-ledger/internal/application"
	"github.com/oksasatya/account-ledger/internal/container"
	repo "github.com/oksasatya/account-ledger/internal/domain/repository"
	"github.com/oksasatya/account-ledger/internal/infrastructure"
	"github.com/oksasatya/account-ledger/internal/infrastructure/events"
	"github.com/oksasatya/account-ledger/internal/infrastructure/memory"
	"github.com/oksasatya/account-ledger/internal/infrastructure/metrics"
	"github.com/oksasatya/account-ledger/internal/infrastructure/redisstore"
	"github.com/oksasatya/account-ledger/internal/infrastructure/search"
	"github.com/oksasatya/account-ledger/internal/interface/middleware"
	"github.com/oksasatya/account-ledger/internal/router"
	"github.com/oksasatya/account-ledger/pkg/helpers"
	"github.com/oksasatya/account-ledger/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	// Account table
	gateway, release, err := infrastructure.OpenGateway(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to open ledger store: %v", err)
	}
	defer release()

	registry := application.NewRegistry(gateway, logger)
	if err := registry.Load(ctx); err != nil {
		log.Fatalf("failed to load accounts: %v", err)
	}
	logger.WithField("accounts", registry.Len()).Info("accounts loaded")

	// Sessions: Redis when configured, process memory otherwise
	var rdb *redis.Client
	var sessions repo.SessionStore
	if cfg.RedisAddr != "" {
		rdb = helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer func() { _ = rdb.Close() }()
		sessions = redisstore.NewSessionStore(rdb, cfg.RefreshTTL)
	} else {
		logger.Warn("REDIS_ADDR empty; sessions kept in memory and rate limiting disabled")
		sessions = memory.NewSessionStore()
	}

	// JWT
	jwtManager := helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL)

	// Metrics
	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetRedis(rdb)
	container.SetJWT(jwtManager)
	container.SetRegistry(registry)
	container.SetSessions(sessions)
	container.SetPrometheus(promReg)
	container.SetObserver(metrics.New(promReg))

	// Ledger events (optional)
	if cfg.EventsEnabled {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQLedgerQueue)
		if err != nil {
			helpers.LogError(logger, "rabbitmq unavailable; ledger events disabled", err, nil)
		} else {
			defer pub.Close()
			container.SetPublisher(events.NewRabbitPublisher(pub))
			helpers.LogInfo(logger, "ledger events enabled", logrus.Fields{"queue": cfg.RabbitMQLedgerQueue})
		}
	}

	// Admin search index (optional)
	es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		helpers.LogError(logger, "elasticsearch unavailable; admin search falls back to scan", err, nil)
	} else if es != nil {
		index := search.NewAccountIndex(es, cfg.ESAccountsIndex)
		container.SetIndexer(index)
		go reindex(ctx, index, registry, logger)
	}

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP(cfg.TrustProxyHeaders))
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsCfg.AllowOrigins) > 0 {
		r.Use(cors.New(corsCfg))
	}
	if cfg.HTTPLogEnabled || cfg.Env == "development" {
		r.Use(gin.Logger())
	}

	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

// reindex mirrors every loaded account into the search index so results are
// complete after a restart.
func reindex(ctx context.Context, index application.AccountIndexer, registry *application.Registry, logger *logrus.Logger) {
	failed := 0
	for _, a := range registry.All() {
		if err := index.IndexAccount(ctx, a.Summary()); err != nil {
			failed++
		}
	}
	if failed > 0 {
		logger.WithField("failed", failed).Warn("account reindex incomplete")
		return
	}
	logger.Info("account reindex complete")
}
