package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"TimeCanvasGo/config"
	"TimeCanvasGo/routes"
	"TimeCanvasGo/services"
	"TimeCanvasGo/store"
	"TimeCanvasGo/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var serveMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "Run migrations before serving")
}

func runServe(cmd *cobra.Command, args []string) error {
	// 配置缺失属于不可恢复的错误，直接退出
	conf, err := loadConfig()
	if err != nil {
		return err
	}

	// 初始化日志
	if err := config.InitLogger(conf.LogDir); err != nil {
		return fmt.Errorf("无法初始化日志: %w", err)
	}
	defer config.Logger.Sync()

	// 初始化数据库
	db, err := config.OpenDB(conf)
	if err != nil {
		return fmt.Errorf("无法初始化数据库: %w", err)
	}
	if serveMigrate {
		if err := store.Migrate(db); err != nil {
			return err
		}
	}
	s, err := store.New(db)
	if err != nil {
		return err
	}

	// 初始化令牌黑名单，未配置Redis时使用进程内实现
	var denylist services.TokenDenylist
	if conf.RedisEnabled() {
		client, err := config.InitRedis(cmd.Context(), conf)
		if err != nil {
			return fmt.Errorf("无法初始化Redis: %w", err)
		}
		defer client.Close()
		denylist = services.NewRedisDenylist(client)
	} else {
		config.Logger.Warnw("未配置Redis，退出登录状态仅保存在本进程内")
		denylist = services.NewMemoryDenylist()
	}

	tokens, err := utils.NewTokenManager(conf.JWTSecret)
	if err != nil {
		return err
	}

	deps, err := routes.NewDependencies(s, tokens, denylist, conf.LoaderCacheSize)
	if err != nil {
		return err
	}
	if deps.Location, err = conf.Location(); err != nil {
		return err
	}
	deps.AllowTestUsers = !conf.IsProduction()
	deps.InternalAuthToken = conf.InternalAuthToken

	// 设置Gin模式
	if conf.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:    ":" + conf.ServerPort,
		Handler: routes.NewRouter(deps),
	}

	serveErr := make(chan error, 1)
	go func() {
		config.Logger.Infow("启动服务器", "port", conf.ServerPort, "timezone", deps.Location.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// 等待中断信号以实现优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("服务器启动失败: %w", err)
		}
		return nil
	case <-quit:
	}
	config.Logger.Infow("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("服务器关闭失败: %w", err)
	}

	config.Logger.Infow("服务器已关闭")
	return nil
}
