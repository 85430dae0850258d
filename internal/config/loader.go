package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	globalConfig *Config
	configMu     sync.RWMutex
	configPath   string
)

// 环境变量可覆盖的配置项（FILETAG_JWT_SECRET_KEY 等）
var envKeys = []string{
	"server.host",
	"server.port",
	"server.production_mode",
	"server.internal_api_key",
	"database.driver",
	"database.path",
	"database.dsn",
	"redis_service.host",
	"redis_service.port",
	"redis_service.password",
	"jwt.secret_key",
	"drand.base_url",
	"drand.chain_hash",
	"log.level",
	"log.file",
}

// LoadConfig 加载配置文件
func LoadConfig(configFile string) (*Config, error) {
	cfg, err := loadConfigFromFile(configFile)
	if err != nil {
		return nil, err
	}

	configMu.Lock()
	globalConfig = cfg
	configPath = configFile
	configMu.Unlock()

	return cfg, nil
}

// loadConfigFromFile 从文件加载配置
func loadConfigFromFile(configFile string) (*Config, error) {
	// .env 只在存在时加载，已存在的环境变量优先
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("读取.env失败: %w", err)
		}
	}

	v := viper.New()

	// 设置配置文件路径
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		// 默认查找 config.yaml
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// 读取环境变量
	v.SetEnvPrefix("FILETAG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("绑定环境变量失败: %w", err)
		}
	}

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	// 解析配置
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 设置默认值
	setDefaults(&cfg)

	// 验证配置
	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("配置验证失败: %w", err)
	}

	return &cfg, nil
}

// setDefaults 设置默认值
func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 18080
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "./database/filetag.db"
	}
	if cfg.Database.MaxOpenConns == 0 {
		// SQLite 单写者，串行化连接避免 database is locked
		if cfg.Database.IsPostgres() {
			cfg.Database.MaxOpenConns = 50
		} else {
			cfg.Database.MaxOpenConns = 1
		}
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = cfg.Database.MaxOpenConns
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379 // 标准 Redis 端口
	}
	if cfg.Redis.InflightTTL == 0 {
		cfg.Redis.InflightTTL = 30
	}
	if cfg.JWT.Algorithm == "" {
		cfg.JWT.Algorithm = "HS256"
	}
	if cfg.JWT.ExpireMinutes == 0 {
		cfg.JWT.ExpireMinutes = 43200 // 30天
	}
	if cfg.CORS.AllowMethods == nil {
		cfg.CORS.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	if cfg.CORS.AllowHeaders == nil {
		cfg.CORS.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	}
	// 奖励值与前端 REWARD_POINTS 保持一致
	if cfg.Rewards.TagFile == 0 {
		cfg.Rewards.TagFile = 10
	}
	if cfg.Rewards.UpvoteReceived == 0 {
		cfg.Rewards.UpvoteReceived = 2
	}
	if cfg.Rewards.DownvoteReceived == 0 {
		cfg.Rewards.DownvoteReceived = -1
	}
	if cfg.Drand.BaseURL == "" {
		cfg.Drand.BaseURL = "https://api.drand.sh"
	}
	if cfg.Drand.TimeoutSeconds == 0 {
		cfg.Drand.TimeoutSeconds = 10
	}
	if cfg.Drand.CacheTTLSeconds == 0 {
		cfg.Drand.CacheTTLSeconds = 30
	}
	if cfg.RateLimit.RPS == 0 {
		cfg.RateLimit.RPS = 5
	}
	if cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = 10
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.MaxSizeMB == 0 {
		cfg.Log.MaxSizeMB = 100
	}
}

// validateConfig 验证配置
func validateConfig(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("无效的服务器端口: %d", cfg.Server.Port)
	}

	if cfg.JWT.SecretKey == "" {
		return fmt.Errorf("JWT密钥不能为空")
	}
	// 会话使用对称密钥签名，只支持 HMAC 算法
	switch cfg.JWT.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("不支持的JWT签名算法: %s", cfg.JWT.Algorithm)
	}

	switch cfg.Database.Driver {
	case "sqlite":
		// 检查数据库目录是否存在
		dbDir := filepath.Dir(cfg.Database.Path)
		if _, err := os.Stat(dbDir); os.IsNotExist(err) {
			if err := os.MkdirAll(dbDir, 0755); err != nil {
				return fmt.Errorf("创建数据库目录失败: %w", err)
			}
		}
	case "postgres":
		if cfg.Database.DSN == "" {
			return fmt.Errorf("postgres 需要配置 database.dsn")
		}
	default:
		return fmt.Errorf("不支持的数据库驱动: %s", cfg.Database.Driver)
	}

	if cfg.Rewards.UpvoteReceived < 0 {
		return fmt.Errorf("upvote_received 不能为负数: %d", cfg.Rewards.UpvoteReceived)
	}
	if cfg.Rewards.DownvoteReceived > 0 {
		return fmt.Errorf("downvote_received 不能为正数: %d", cfg.Rewards.DownvoteReceived)
	}

	return nil
}

// GetConfig 获取全局配置
func GetConfig() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}

// ReloadConfig 重新加载配置
func ReloadConfig() (*Config, error) {
	configMu.RLock()
	path := configPath
	configMu.RUnlock()

	if path == "" {
		return nil, fmt.Errorf("未设置配置文件路径")
	}

	return LoadConfig(path)
}
