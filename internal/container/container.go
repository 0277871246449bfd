package container

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/account-ledger/config"
	"github.com/oksasatya/account-ledger/internal/application"
	repo "github.com/oksasatya/account-ledger/internal/domain/repository"
	"github.com/oksasatya/account-ledger/pkg/helpers"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	redisClient *redis.Client
	jwtManager  *helpers.JWTManager

	registry  *application.Registry
	sessions  repo.SessionStore
	publisher application.EventPublisher
	indexer   application.AccountIndexer
	observer  application.OperationObserver
	promReg   *prometheus.Registry
)

func SetConfig(c *config.Config)   { cfg = c }
func GetConfig() *config.Config    { return cfg }
func SetLogger(l *logrus.Logger)   { logger = l }
func GetLogger() *logrus.Logger    { return logger }
func SetRedis(r *redis.Client)     { redisClient = r }
func GetRedis() *redis.Client      { return redisClient }
func SetJWT(m *helpers.JWTManager) { jwtManager = m }
func GetJWT() *helpers.JWTManager {
	if jwtManager != nil {
		return jwtManager
	}
	return helpers.DefaultJWT()
}

func SetRegistry(r *application.Registry)         { registry = r }
func GetRegistry() *application.Registry          { return registry }
func SetSessions(s repo.SessionStore)             { sessions = s }
func GetSessions() repo.SessionStore              { return sessions }
func SetPublisher(p application.EventPublisher)   { publisher = p }
func GetPublisher() application.EventPublisher    { return publisher }
func SetIndexer(i application.AccountIndexer)     { indexer = i }
func GetIndexer() application.AccountIndexer      { return indexer }
func SetObserver(o application.OperationObserver) { observer = o }
func GetObserver() application.OperationObserver  { return observer }
func SetPrometheus(r *prometheus.Registry)        { promReg = r }
func GetPrometheus() *prometheus.Registry         { return promReg }
