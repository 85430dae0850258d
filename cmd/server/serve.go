package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"filetag-go/internal/config"
	"filetag-go/internal/models"
	"filetag-go/internal/repository"
	"filetag-go/internal/router"
	"filetag-go/internal/scheduler"
	"filetag-go/internal/service"
	"filetag-go/internal/utils"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	var skipMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "启动HTTP服务",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			if !skipMigrate {
				if err := models.Migrate(a.db); err != nil {
					return err
				}
			}
			return serve(cmd.Context(), a)
		},
	}

	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "启动时不执行数据库迁移")
	return cmd
}

func serve(ctx context.Context, a *app) error {
	cfg, logger := a.cfg, a.logger
	if ctx == nil {
		ctx = context.Background()
	}

	redisClient, err := a.connectRedis(ctx)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	jwtManager := utils.NewJWTManager(
		cfg.JWT.SecretKey,
		cfg.JWT.Algorithm,
		cfg.JWT.GetExpireDuration(),
	)

	// 设置路由
	r := router.SetupRouter(router.Options{
		Config:      cfg,
		JWTManager:  jwtManager,
		Logger:      logger,
		DB:          a.db,
		RedisClient: redisClient,
	})

	// 定时任务
	maintenance := service.NewTagMaintenance(repository.NewStore(a.db), logger)
	jobs, err := scheduler.New(cfg.Jobs.TagDedupeCron, maintenance, logger)
	if err != nil {
		return err
	}
	if jobs != nil {
		jobs.Start()
		defer jobs.Stop()
	}

	// 启动服务器
	addr := cfg.Server.GetAddress()
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("服务器启动在 %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	if cfg.Server.ProductionMode {
		logger.Info("生产模式")
	} else {
		logger.Info("开发模式")
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(signals)

	for {
		select {
		case err, ok := <-errCh:
			if ok && err != nil {
				return err
			}
			return nil
		case sig := <-signals:
			if sig == syscall.SIGHUP {
				reloadLogLevel(logger)
				continue
			}
			logger.WithField("signal", sig.String()).Info("正在关闭服务器")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			err := srv.Shutdown(shutdownCtx)
			cancel()
			return err
		}
	}
}

// reloadLogLevel 重新读取配置并应用日志级别，其余配置需要重启生效
func reloadLogLevel(logger *logrus.Logger) {
	cfg, err := config.ReloadConfig()
	if err != nil {
		logger.WithError(err).Warn("重新加载配置失败")
		return
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.WithError(err).Warn("无效的日志级别")
		return
	}
	logger.SetLevel(level)
	logger.WithField("level", level.String()).Info("日志级别已更新")
}
