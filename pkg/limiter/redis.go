package limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// 脚本逻辑：
// 1. 获取当前值
// 2. 如果当前值小于最大并发数，则增加1并设置过期时间，返回新值
// 3. 否则返回当前值+1 表示失败
var acquireScript = redis.NewScript(
	`local current = redis.call('GET', KEYS[1])
	if current == false then
		current = 0
	else
		current = tonumber(current)
	end

	if current >= tonumber(ARGV[1]) then
		return current + 1
	end

	local newCount = redis.call('INCR', KEYS[1])
	redis.call('EXPIRE', KEYS[1], tonumber(ARGV[2]))
	return newCount`,
)

// 脚本逻辑：
// 1. 减少计数
// 2. 如果结果 <= 0，删除key；否则重新设置过期时间
var releaseScript = redis.NewScript(
	`local count = redis.call('DECR', KEYS[1])
	if tonumber(count) <= 0 then
		redis.call('DEL', KEYS[1])
		return 0
	else
		redis.call('EXPIRE', KEYS[1], tonumber(ARGV[1]))
		return count
	end`,
)

// RedisLimiter 基于Redis的并发限制器，多实例部署时共享计数
type RedisLimiter struct {
	client        *redis.Client
	maxConcurrent int
	keyPrefix     string
	ttl           time.Duration
}

// NewRedisLimiter 创建基于Redis的并发限制器
// ttl 防止进程崩溃后槽位永久占用
func NewRedisLimiter(client *redis.Client, maxConcurrent int, keyPrefix string, ttl time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client:        client,
		maxConcurrent: maxConcurrent,
		keyPrefix:     keyPrefix,
		ttl:           ttl,
	}
}

// Acquire 获取并发槽位
func (rl *RedisLimiter) Acquire(ctx context.Context, key string) error {
	result, err := acquireScript.Run(ctx, rl.client, []string{rl.keyPrefix + key}, rl.maxConcurrent, rl.ttlSeconds()).Int()
	if err != nil {
		return fmt.Errorf("执行Lua脚本失败: %w", err)
	}

	if result > rl.maxConcurrent {
		return ErrLimitReached
	}
	return nil
}

// Release 释放并发槽位，失败时依赖过期时间回收
func (rl *RedisLimiter) Release(ctx context.Context, key string) {
	_ = releaseScript.Run(ctx, rl.client, []string{rl.keyPrefix + key}, rl.ttlSeconds()).Err()
}

func (rl *RedisLimiter) ttlSeconds() int {
	seconds := int(rl.ttl.Seconds())
	if seconds <= 0 {
		seconds = 1
	}
	return seconds
}
