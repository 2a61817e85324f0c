package router

import (
	"github.com/yogasw/expense-tracker-api/internal/application"
	"github.com/yogasw/expense-tracker-api/internal/container"
	pginfra "github.com/yogasw/expense-tracker-api/internal/infrastructure/postgres"
	handlers "github.com/yogasw/expense-tracker-api/internal/interface/http"
	"github.com/yogasw/expense-tracker-api/internal/router/modules"
)

// InitModules builds every feature module from the container singletons
// and registers it with the router registry. Called once at startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	userRepo := pginfra.NewUserRepository(pool)
	authSvc := application.NewAuthService(userRepo, container.GetJWT(), logger)
	authHandler := handlers.NewAuthHandler(authSvc, logger)

	expenseRepo := pginfra.NewExpenseRepository(pool)
	expenseSvc := application.NewExpenseService(
		expenseRepo,
		container.GetRedis(),
		container.GetEvents(),
		container.GetExpenseIndex(),
		container.GetGCS(),
		cfg.GCSBucket,
		logger,
		cfg.StatsCacheTTL,
	)
	expenseHandler := handlers.NewExpenseHandler(expenseSvc, logger)

	r.Add(modules.NewHealthModule())
	r.Add(modules.NewAuthModule(authHandler))
	r.Add(modules.NewExpenseModule(expenseHandler, authSvc, container.GetJWT()))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
