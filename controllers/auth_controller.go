package controllers

import (
	"net/http"
	"time"

	"TimeCanvasGo/config"
	"TimeCanvasGo/middleware"
	"TimeCanvasGo/models"
	"TimeCanvasGo/services"
	"TimeCanvasGo/utils"

	"github.com/gin-gonic/gin"
)

// AuthController 认证控制器；登录本身由身份提供方完成
type AuthController struct {
	users          *services.UserService
	tokens         *utils.TokenManager
	denylist       services.TokenDenylist
	allowTestUsers bool
}

func NewAuthController(users *services.UserService, tokens *utils.TokenManager, denylist services.TokenDenylist, allowTestUsers bool) *AuthController {
	return &AuthController{
		users:          users,
		tokens:         tokens,
		denylist:       denylist,
		allowTestUsers: allowTestUsers,
	}
}

// Logout 退出登录：令牌在过期前一直处于吊销状态
func (ac *AuthController) Logout(c *gin.Context) {
	value, ok := c.Get(middleware.ContextClaims)
	claims, isClaims := value.(*utils.Claims)
	if !ok || !isClaims {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated."})
		return
	}

	until := time.Now().Add(utils.TokenTTL)
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	if claims.ID != "" {
		if err := ac.denylist.Revoke(c.Request.Context(), claims.ID, until); err != nil {
			config.Logger.Errorw("退出登录失败", "error", err, "uid", claims.Subject)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign out."})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Signed out."})
}

// CreateTestUser 创建测试用户并签发令牌，仅非生产环境可用
func (ac *AuthController) CreateTestUser(c *gin.Context) {
	if !ac.allowTestUsers {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found."})
		return
	}

	var req models.TestUserRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	user, err := ac.users.EnsureUser(c.Request.Context(), utils.GenerateID(), req.Email)
	if err != nil {
		config.Logger.Errorw("测试用户创建失败", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create test user."})
		return
	}

	token, err := ac.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		config.Logger.Errorw("生成令牌失败", "error", err, "uid", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create test user."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  models.UserResponse{ID: user.ID, Email: user.Email},
	})
}
