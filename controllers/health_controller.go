package controllers

import (
	"net/http"

	"TimeCanvasGo/services"
	"TimeCanvasGo/store"

	"github.com/gin-gonic/gin"
)

// HealthController 内部健康检查
type HealthController struct {
	store    *store.Store
	denylist services.TokenDenylist
	registry *services.LoaderRegistry
}

func NewHealthController(s *store.Store, denylist services.TokenDenylist, registry *services.LoaderRegistry) *HealthController {
	return &HealthController{store: s, denylist: denylist, registry: registry}
}

func (hc *HealthController) Health(c *gin.Context) {
	status := http.StatusOK
	result := gin.H{"database": "ok", "denylist": "ok", "loaders": hc.registry.Len()}

	if err := hc.store.Ping(c.Request.Context()); err != nil {
		status = http.StatusServiceUnavailable
		result["database"] = err.Error()
	}
	if err := hc.denylist.Ping(c.Request.Context()); err != nil {
		status = http.StatusServiceUnavailable
		result["denylist"] = err.Error()
	}

	c.JSON(status, result)
}
