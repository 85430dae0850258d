package main

import (
	"context"
	"fmt"
	"time"

	"filetag-go/internal/config"
	"filetag-go/internal/logging"
	"filetag-go/internal/models"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var configPath string

// app 命令共享的基础依赖
type app struct {
	cfg    *config.Config
	logger *logrus.Logger
	db     *gorm.DB
}

// bootstrap 加载配置并初始化日志与数据库
func bootstrap() (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("加载配置失败: %w", err)
	}

	logger := logging.New(cfg.Log)

	db, err := models.InitDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("初始化数据库失败: %w", err)
	}

	return &app{cfg: cfg, logger: logger, db: db}, nil
}

// close 关闭数据库连接
func (a *app) close() {
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// connectRedis 配置了Redis时建立连接，否则返回 nil
func (a *app) connectRedis(ctx context.Context) (*redis.Client, error) {
	if !a.cfg.Redis.Enabled() {
		a.logger.Info("未配置Redis，投票进行中标记使用进程内限制器")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     a.cfg.Redis.GetAddress(),
		DB:       a.cfg.Redis.DB,
		Password: a.cfg.Redis.Password,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("连接Redis失败: %w", err)
	}
	return client, nil
}
