package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/yogasw/expense-tracker-api/internal/interface/http"
)

// HealthModule exposes the public liveness endpoint GET /api/health.
type HealthModule struct{}

func NewHealthModule() *HealthModule { return &HealthModule{} }

func (m *HealthModule) Register(rg *gin.RouterGroup) {
	rg.GET("/health", handlers.Health)
}
