package controllers

import (
	"net/http"
	"time"

	"TimeCanvasGo/models"
	"TimeCanvasGo/services"

	"github.com/gin-gonic/gin"
)

// DayController 某一天的时间线接口
type DayController struct {
	registry *services.LoaderRegistry
	location *time.Location
}

func NewDayController(registry *services.LoaderRegistry, location *time.Location) *DayController {
	return &DayController{registry: registry, location: location}
}

// loader 取得请求对应的 DayLoader；返回 false 表示已写入错误响应
func (dc *DayController) loader(c *gin.Context) (*services.DayLoader, bool) {
	uid, _ := currentUser(c)
	loc, err := requestLocation(c, dc.location)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid timezone."})
		return nil, false
	}

	loader, err := dc.registry.Loader(uid, c.Param("date"), loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Date must be in YYYY-MM-DD form."})
		return nil, false
	}
	return loader, true
}

// GetDay 返回当天的时间块、事务与空档
func (dc *DayController) GetDay(c *gin.Context) {
	loader, ok := dc.loader(c)
	if !ok {
		return
	}
	err := loader.Reload(c.Request.Context())
	snapshot := loader.Snapshot()
	if err != nil {
		// 快照保留上一次成功的数据，并带上错误信息
		c.JSON(http.StatusServiceUnavailable, snapshot)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// GetTimeline 返回时间块与空档交错排列的时间线
func (dc *DayController) GetTimeline(c *gin.Context) {
	loader, ok := dc.loader(c)
	if !ok {
		return
	}
	err := loader.Reload(c.Request.Context())
	snapshot := loader.Snapshot()
	status := http.StatusOK
	if err != nil {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, models.TimelineResponse{
		Date:      snapshot.Date,
		Timezone:  snapshot.Timezone,
		Items:     services.BuildTimeline(snapshot),
		IsLoading: snapshot.IsLoading,
		Error:     snapshot.Error,
	})
}

// GetCheckInDefaults 返回打卡表单的建议起止时间
func (dc *DayController) GetCheckInDefaults(c *gin.Context) {
	loader, ok := dc.loader(c)
	if !ok {
		return
	}
	// 加载失败时沿用已有快照
	_ = loader.Reload(c.Request.Context())
	snapshot := loader.Snapshot()
	c.JSON(http.StatusOK, services.CheckInDefaults(snapshot, time.Now()))
}
