package controllers

import (
	"time"

	"TimeCanvasGo/middleware"

	"github.com/gin-gonic/gin"
)

// requestLocation 优先使用请求中的 tz 参数
func requestLocation(c *gin.Context, fallback *time.Location) (*time.Location, error) {
	tz := c.Query("tz")
	if tz == "" {
		if fallback == nil {
			return time.Local, nil
		}
		return fallback, nil
	}
	return time.LoadLocation(tz)
}

func currentUser(c *gin.Context) (string, string) {
	return c.GetString(middleware.ContextUserID), c.GetString(middleware.ContextEmail)
}
