package server

import (
	"sync"
	"time"

	"github.com/palemoky/scout/internal/logger"
)

const (
	// 超过该时长没有新连接且未被封禁的 IP 记录会被清理
	rateStaleAfter      = 10 * time.Minute
	rateCleanupInterval = 5 * time.Minute
)

// window 固定窗口计数器
type window struct {
	size  time.Duration
	start time.Time
	count int
}

// hit 计数一次并返回窗口内的累计次数，窗口到期时重新开始
func (w *window) hit(now time.Time) int {
	if w.start.IsZero() || now.Sub(w.start) >= w.size {
		w.start = now
		w.count = 0
	}
	w.count++
	return w.count
}

func (w *window) reset() {
	w.start = time.Time{}
	w.count = 0
}

// --- 连接速率限制 ---

// ipRecord 单个 IP 的连接记录
type ipRecord struct {
	second      window
	minute      window
	bannedUntil time.Time
	lastSeen    time.Time
}

// RateLimiter 按 IP 限制建立连接的频率，超限后封禁一段时间
type RateLimiter struct {
	mu      sync.Mutex
	records map[string]*ipRecord

	perSecond int
	perMinute int
	ban       time.Duration
	now       func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter 创建连接速率限制器，并启动后台清理
func NewRateLimiter(perSecond, perMinute int, ban time.Duration) *RateLimiter {
	rl := &RateLimiter{
		records:   make(map[string]*ipRecord),
		perSecond: perSecond,
		perMinute: perMinute,
		ban:       ban,
		now:       time.Now,
		stop:      make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// Allow 记录一次连接尝试，返回是否放行
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rec, ok := rl.records[ip]
	if !ok {
		rec = &ipRecord{
			second: window{size: time.Second},
			minute: window{size: time.Minute},
		}
		rl.records[ip] = rec
	}
	rec.lastSeen = now

	if now.Before(rec.bannedUntil) {
		return false
	}

	overSecond := rec.second.hit(now) > rl.perSecond
	overMinute := rec.minute.hit(now) > rl.perMinute
	if !overSecond && !overMinute {
		return true
	}

	// 解封后从零开始计数
	rec.bannedUntil = now.Add(rl.ban)
	rec.second.reset()
	rec.minute.reset()
	logger.Warn("⚠️ IP %s 连接过于频繁，封禁 %v", ip, rl.ban)
	return false
}

// Stop 停止后台清理，可重复调用
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rateCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case now := <-ticker.C:
			rl.cleanup(now)
		}
	}
}

// cleanup 移除长时间不活跃且不在封禁期的记录
func (rl *RateLimiter) cleanup(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, rec := range rl.records {
		if now.Sub(rec.lastSeen) > rateStaleAfter && !now.Before(rec.bannedUntil) {
			delete(rl.records, ip)
		}
	}
}

// --- 消息速率限制 ---

// MessageVerdict 单条消息的限流结果
type MessageVerdict int

const (
	MessageOK MessageVerdict = iota
	// MessageWarn 接近上限，放行并提醒
	MessageWarn
	// MessageDrop 超过上限，丢弃
	MessageDrop
)

type clientBudget struct {
	second  window
	strikes int // 被丢弃的消息数
}

// MessageRateLimiter 限制已连接客户端每秒发送的消息数
type MessageRateLimiter struct {
	mu      sync.Mutex
	budgets map[string]*clientBudget

	perSecond int
	warnAt    int
	now       func() time.Time
}

// NewMessageRateLimiter 创建消息速率限制器，超过一半额度时开始提醒
func NewMessageRateLimiter(perSecond int) *MessageRateLimiter {
	return &MessageRateLimiter{
		budgets:   make(map[string]*clientBudget),
		perSecond: perSecond,
		warnAt:    max(perSecond/2, 1),
		now:       time.Now,
	}
}

// Check 记录一条消息并返回限流结果，以及该客户端累计被丢弃的消息数
func (ml *MessageRateLimiter) Check(clientID string) (MessageVerdict, int) {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	b, ok := ml.budgets[clientID]
	if !ok {
		b = &clientBudget{second: window{size: time.Second}}
		ml.budgets[clientID] = b
	}

	switch n := b.second.hit(ml.now()); {
	case n > ml.perSecond:
		b.strikes++
		return MessageDrop, b.strikes
	case n > ml.warnAt:
		return MessageWarn, b.strikes
	default:
		return MessageOK, b.strikes
	}
}

// RemoveClient 客户端断开时释放记录
func (ml *MessageRateLimiter) RemoveClient(clientID string) {
	ml.mu.Lock()
	defer ml.mu.Unlock()
	delete(ml.budgets, clientID)
}
