package config

import (
	"fmt"
	"time"
)

// Config 应用配置结构
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis_service"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Rewards   RewardsConfig   `mapstructure:"rewards"`
	Drand     DrandConfig     `mapstructure:"drand"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Jobs      JobsConfig      `mapstructure:"jobs"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	ProductionMode bool   `mapstructure:"production_mode"`
	InternalAPIKey string `mapstructure:"internal_api_key"`
}

// GetAddress 获取服务器地址
func (s *ServerConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig 数据库配置
// Driver 为 sqlite 时使用 Path，为 postgres 时使用 DSN
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"`
	Path         string `mapstructure:"path"`
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

// IsPostgres 是否使用PostgreSQL
func (d *DatabaseConfig) IsPostgres() bool {
	return d.Driver == "postgres"
}

// RedisConfig Redis配置，Host 为空时使用进程内限制器
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	DB       int    `mapstructure:"db"`
	Password string `mapstructure:"password"`
	// 投票进行中标记的过期时间（秒）
	InflightTTL int `mapstructure:"inflight_ttl"`
}

// Enabled 是否配置了Redis
func (r *RedisConfig) Enabled() bool {
	return r.Host != ""
}

// GetAddress 获取Redis地址
func (r *RedisConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// GetInflightTTL 获取进行中标记的过期时间
func (r *RedisConfig) GetInflightTTL() time.Duration {
	return time.Duration(r.InflightTTL) * time.Second
}

// JWTConfig JWT配置
type JWTConfig struct {
	SecretKey     string `mapstructure:"secret_key"`
	Algorithm     string `mapstructure:"algorithm"`
	ExpireMinutes int    `mapstructure:"expire_minutes"`
}

// GetExpireDuration 获取过期时间
func (j *JWTConfig) GetExpireDuration() time.Duration {
	return time.Duration(j.ExpireMinutes) * time.Minute
}

// CORSConfig CORS配置
type CORSConfig struct {
	Origins          []string `mapstructure:"origins"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	AllowMethods     []string `mapstructure:"allow_methods"`
	AllowHeaders     []string `mapstructure:"allow_headers"`
}

// RewardsConfig 积分奖励配置
type RewardsConfig struct {
	TagFile          int `mapstructure:"tag_file"`
	UpvoteReceived   int `mapstructure:"upvote_received"`
	DownvoteReceived int `mapstructure:"downvote_received"`
}

// DrandConfig 随机信标配置
type DrandConfig struct {
	BaseURL         string `mapstructure:"base_url"`
	ChainHash       string `mapstructure:"chain_hash"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds"`
	CacheEnabled    bool   `mapstructure:"cache_enabled"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds"`
}

// GetTimeout 获取请求超时
func (d *DrandConfig) GetTimeout() time.Duration {
	return time.Duration(d.TimeoutSeconds) * time.Second
}

// GetCacheTTL 获取缓存时间
func (d *DrandConfig) GetCacheTTL() time.Duration {
	return time.Duration(d.CacheTTLSeconds) * time.Second
}

// RateLimitConfig 写接口限流配置（按IP）
type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

// JobsConfig 定时任务配置
type JobsConfig struct {
	// 为空时不启动标签去重任务
	TagDedupeCron string `mapstructure:"tag_dedupe_cron"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}
