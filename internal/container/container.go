package container

import (
	"cloud.google.com/go/storage"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/yogasw/expense-tracker-api/config"
	"github.com/yogasw/expense-tracker-api/internal/events"
	"github.com/yogasw/expense-tracker-api/internal/search"
	"github.com/yogasw/expense-tracker-api/pkg/helpers"
)

// app-level container to share constructed components across packages
// Router modules auto-wire their dependencies from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	gcsClient   *storage.Client
	jwtManager  *helpers.JWTManager
	eventsPub   *events.Publisher
	expenseIdx  *search.ExpenseIndex
)

func SetConfig(c *config.Config) { cfg = c }
func GetConfig() *config.Config { return cfg }
func SetLogger(l *logrus.Logger) { logger = l }
func GetLogger() *logrus.Logger { return logger }
func SetPGPool(p *pgxpool.Pool) { pgPool = p }
func GetPGPool() *pgxpool.Pool { return pgPool }
func SetRedis(r *redis.Client) { redisClient = r }
func GetRedis() *redis.Client { return redisClient }
func SetGCS(s *storage.Client) { gcsClient = s }
func GetGCS() *storage.Client { return gcsClient }
func SetJWT(m *helpers.JWTManager) { jwtManager = m }
func GetJWT() *helpers.JWTManager { return jwtManager }
func SetEvents(p *events.Publisher) { eventsPub = p }
func GetEvents() *events.Publisher { return eventsPub }
func SetExpenseIndex(x *search.ExpenseIndex) { expenseIdx = x }
func GetExpenseIndex() *search.ExpenseIndex { return expenseIdx }
