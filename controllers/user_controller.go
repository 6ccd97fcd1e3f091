package controllers

import (
	"net/http"

	"TimeCanvasGo/config"
	"TimeCanvasGo/models"
	"TimeCanvasGo/services"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

// GetUser 返回当前登录用户，首次出现时在本地创建
func (uc *UserController) GetUser(c *gin.Context) {
	uid, email := currentUser(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated."})
		return
	}

	user, err := uc.users.EnsureUser(c.Request.Context(), uid, email)
	if err != nil {
		config.Logger.Errorw("获取用户信息失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": models.UserResponse{ID: user.ID, Email: user.Email},
	})
}
