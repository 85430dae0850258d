package limiter

import (
	"context"
	"sync"
)

// LocalLimiter 进程内按key限制并发数，未配置Redis时使用
type LocalLimiter struct {
	maxConcurrent int

	mu      sync.Mutex
	current map[string]int
}

// NewLocalLimiter 创建进程内限制器
func NewLocalLimiter(maxConcurrent int) *LocalLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &LocalLimiter{
		maxConcurrent: maxConcurrent,
		current:       make(map[string]int),
	}
}

// Acquire 获取并发槽位，已满时立即返回 ErrLimitReached
func (l *LocalLimiter) Acquire(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current[key] >= l.maxConcurrent {
		return ErrLimitReached
	}
	l.current[key]++
	return nil
}

// Release 释放并发槽位
func (l *LocalLimiter) Release(ctx context.Context, key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current[key] <= 1 {
		delete(l.current, key)
		return
	}
	l.current[key]--
}
