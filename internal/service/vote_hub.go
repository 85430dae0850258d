package service

import (
	"sync"

	"filetag-go/internal/metrics"
)

const subscriberBuffer = 16

// Tally 文件的票数统计
type Tally struct {
	FileID    uint  `json:"file_id"`
	Upvotes   int64 `json:"upvotes"`
	Downvotes int64 `json:"downvotes"`
	Net       int64 `json:"net"`
}

// TallyPublisher 票数变化发布者
type TallyPublisher interface {
	Publish(tally Tally)
}

// VoteHub 按文件广播票数变化
type VoteHub struct {
	mu          sync.RWMutex
	subscribers map[uint]map[chan Tally]bool
}

// NewVoteHub 创建票数广播中心
func NewVoteHub() *VoteHub {
	return &VoteHub{
		subscribers: make(map[uint]map[chan Tally]bool),
	}
}

// Subscribe 订阅文件的票数变化
func (h *VoteHub) Subscribe(fileID uint) chan Tally {
	ch := make(chan Tally, subscriberBuffer)

	h.mu.Lock()
	if h.subscribers[fileID] == nil {
		h.subscribers[fileID] = make(map[chan Tally]bool)
	}
	h.subscribers[fileID][ch] = true
	h.mu.Unlock()

	metrics.LiveSubscribers.Inc()
	return ch
}

// Unsubscribe 取消订阅，不关闭通道，连接处理方通过 context 感知断开
func (h *VoteHub) Unsubscribe(fileID uint, ch chan Tally) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.subscribers[fileID]
	if !ok || !subs[ch] {
		return
	}
	delete(subs, ch)
	if len(subs) == 0 {
		delete(h.subscribers, fileID)
	}
	metrics.LiveSubscribers.Dec()
}

// Publish 广播给文件的全部订阅者，通道已满的订阅者本次跳过
func (h *VoteHub) Publish(tally Tally) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers[tally.FileID] {
		select {
		case ch <- tally:
		default:
		}
	}
}

// SubscriberCount 文件当前订阅数
func (h *VoteHub) SubscriberCount(fileID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[fileID])
}
