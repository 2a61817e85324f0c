package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yogasw/expense-tracker-api/internal/container"
	"github.com/yogasw/expense-tracker-api/internal/interface/middleware"
)

// DebugModule exposes expvar metrics at /api/debug/vars, rate-limited per IP.
type DebugModule struct{}

func NewDebugModule() *DebugModule { return &DebugModule{} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP())
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}
