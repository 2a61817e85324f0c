package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yogasw/expense-tracker-api/internal/application"
	"github.com/yogasw/expense-tracker-api/internal/container"
	handlers "github.com/yogasw/expense-tracker-api/internal/interface/http"
	"github.com/yogasw/expense-tracker-api/internal/interface/middleware"
	"github.com/yogasw/expense-tracker-api/pkg/helpers"
)

// ExpenseModule wires the owner-scoped expense routes. Everything here
// sits behind the bearer-token guard.
type ExpenseModule struct {
	Handler *handlers.ExpenseHandler
	Auth    *application.AuthService
	JWT     *helpers.JWTManager
}

func NewExpenseModule(h *handlers.ExpenseHandler, auth *application.AuthService, jwt *helpers.JWTManager) *ExpenseModule {
	return &ExpenseModule{Handler: h, Auth: auth, JWT: jwt}
}

func (m *ExpenseModule) Register(rg *gin.RouterGroup) {
	grp := rg.Group("/expenses")
	grp.Use(middleware.Auth(m.Auth, m.JWT))
	grp.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUser()))
	{
		grp.GET("", m.Handler.List)
		grp.POST("", m.Handler.Create)
		grp.GET("/stats/summary", m.Handler.Stats)
		grp.GET("/search", m.Handler.Search)
		grp.GET("/:id", m.Handler.Get)
		grp.PUT("/:id", m.Handler.Update)
		grp.DELETE("/:id", m.Handler.Delete)
		grp.POST("/:id/receipt", m.Handler.UploadReceipt)
	}
}
