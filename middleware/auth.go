package middleware

import (
	"net/http"

	"TimeCanvasGo/config"
	"TimeCanvasGo/services"
	"TimeCanvasGo/utils"

	"github.com/gin-gonic/gin"
)

// 认证信息在 gin.Context 中的键
const (
	ContextUserID = "uid"
	ContextEmail  = "email"
	ContextClaims = "claims"
)

// AuthMiddleware 认证中间件：校验身份提供方令牌并检查是否已退出登录
func AuthMiddleware(tokens *utils.TokenManager, denylist services.TokenDenylist) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing credentials."})
			return
		}

		claims, err := tokens.ParseToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials."})
			return
		}

		if claims.ID != "" {
			revoked, err := denylist.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				config.Logger.Errorw("检查令牌状态失败", "error", err, "uid", claims.Subject)
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Unable to verify session."})
				return
			}
			if revoked {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session has ended."})
				return
			}
		}

		c.Set(ContextUserID, claims.Subject)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextClaims, claims)
		c.Next()
	}
}
