package controllers

import (
	"errors"
	"net/http"
	"time"

	"TimeCanvasGo/config"
	"TimeCanvasGo/models"
	"TimeCanvasGo/services"

	"github.com/gin-gonic/gin"
)

// CheckInController 打卡接口
type CheckInController struct {
	checkIns *services.CheckInService
	registry *services.LoaderRegistry
	location *time.Location
}

func NewCheckInController(checkIns *services.CheckInService, registry *services.LoaderRegistry, location *time.Location) *CheckInController {
	return &CheckInController{checkIns: checkIns, registry: registry, location: location}
}

// CreateCheckIn 保存一次打卡，成功后重新加载该时间块所在的那一天
func (cc *CheckInController) CreateCheckIn(c *gin.Context) {
	var req models.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	loc, err := requestLocation(c, cc.location)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid timezone."})
		return
	}

	uid, email := currentUser(c)
	result, err := cc.checkIns.Submit(c.Request.Context(), uid, email, req, loc)
	switch {
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, services.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save check-in."})
		return
	}

	date := result.Block.StartTime.In(loc).Format(services.DateLayout)
	day, err := cc.registry.Reload(c.Request.Context(), uid, date, loc)
	if err != nil {
		config.Logger.Warnw("打卡后重新加载失败", "error", err, "uid", uid, "date", date)
	}

	c.JSON(http.StatusCreated, models.CheckInResponse{
		Block:       result.Block,
		Occupations: result.Occupations,
		Day:         day,
	})
}
