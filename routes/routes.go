package routes

import (
	"time"

	"TimeCanvasGo/controllers"
	"TimeCanvasGo/middleware"
	"TimeCanvasGo/services"
	"TimeCanvasGo/store"
	"TimeCanvasGo/utils"

	"github.com/gin-gonic/gin"
)

// Dependencies 路由依赖，全部由调用方显式构造
type Dependencies struct {
	Store             *store.Store
	Registry          *services.LoaderRegistry
	Users             *services.UserService
	CheckIns          *services.CheckInService
	Tokens            *utils.TokenManager
	Denylist          services.TokenDenylist
	Location          *time.Location
	AllowTestUsers    bool
	InternalAuthToken string
}

// NewDependencies 基于 Store 构造各服务
func NewDependencies(s *store.Store, tokens *utils.TokenManager, denylist services.TokenDenylist, loaderCacheSize int) (Dependencies, error) {
	registry, err := services.NewLoaderRegistry(s, loaderCacheSize)
	if err != nil {
		return Dependencies{}, err
	}
	users := services.NewUserService(s)
	return Dependencies{
		Store:    s,
		Registry: registry,
		Users:    users,
		CheckIns: services.NewCheckInService(s, users),
		Tokens:   tokens,
		Denylist: denylist,
		Location: time.Local,
	}, nil
}

// NewRouter 创建Gin引擎并注册中间件与路由
func NewRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	middleware.SetupMiddleware(r)
	RegisterRoutes(r, deps)
	return r
}

func RegisterRoutes(r *gin.Engine, deps Dependencies) {
	authController := controllers.NewAuthController(deps.Users, deps.Tokens, deps.Denylist, deps.AllowTestUsers)
	userController := controllers.NewUserController(deps.Users)
	dayController := controllers.NewDayController(deps.Registry, deps.Location)
	checkInController := controllers.NewCheckInController(deps.CheckIns, deps.Registry, deps.Location)
	healthController := controllers.NewHealthController(deps.Store, deps.Denylist, deps.Registry)

	// 公开路由（无需认证）
	public := r.Group("/api/v1")
	{
		public.POST("/auth/test-user", authController.CreateTestUser)
	}

	// 需要认证的路由
	private := r.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(deps.Tokens, deps.Denylist))
	{
		private.GET("/auth/session", userController.GetUser)
		private.POST("/auth/logout", authController.Logout)
		private.GET("/user", userController.GetUser)

		private.GET("/days/:date", dayController.GetDay)
		private.POST("/days/:date/reload", dayController.GetDay)
		private.GET("/days/:date/timeline", dayController.GetTimeline)
		private.GET("/days/:date/check-in/defaults", dayController.GetCheckInDefaults)

		private.POST("/check-ins", checkInController.CreateCheckIn)
	}

	// 内部路由组（仅限服务器内部调用）
	internal := r.Group("/internal")
	internal.Use(middleware.InternalAuthMiddleware(deps.InternalAuthToken))
	{
		internal.GET("/health", healthController.Health)
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
}
