package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/social-feed/pkg/logger"
)

// Event 推送给在线端的写后通知；尽力而为，不保证送达与顺序
type Event struct {
	Type     string         `json:"type"` // create_post / like_post / add_comment / follow_user
	ActorID  string         `json:"actor_id"`
	TargetID string         `json:"target_id,omitempty"`
	Payload  map[string]any `json:"payload,omitempty"`
}

const (
	EventCreatePost = "create_post"
	EventLikePost   = "like_post"
	EventAddComment = "add_comment"
	EventFollowUser = "follow_user"
)

// Broadcaster 本地异步广播器：写路径只入队，worker 负责发布到 redis 频道。
// 队列满直接丢弃——广播不是事实来源，丢失不影响任何读取路径。
type Broadcaster struct {
	rdb     *redis.Client
	channel string
	ch      chan Event
}

func NewBroadcaster(rdb *redis.Client, channel string, queueSize int) *Broadcaster {
	if channel == "" {
		channel = "feed:events"
	}
	if queueSize <= 0 {
		queueSize = 10000
	}
	return &Broadcaster{rdb: rdb, channel: channel, ch: make(chan Event, queueSize)}
}

// Start 启动若干 worker 消费队列；返回停止函数
func (b *Broadcaster) Start(workers int) func(context.Context) error {
	if workers <= 0 {
		workers = 2
	}
	stopCh := make(chan struct{})
	for i := 0; i < workers; i++ {
		go func() {
			for {
				select {
				case ev := <-b.ch:
					ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
					b.publish(ctx, ev)
					cancel()
				case <-stopCh:
					return
				}
			}
		}()
	}
	return func(ctx context.Context) error {
		close(stopCh)
		// 等待队列自然排空一小段时间
		timeout := time.After(2 * time.Second)
		for {
			select {
			case <-timeout:
				return nil
			default:
				if len(b.ch) == 0 {
					return nil
				}
				time.Sleep(50 * time.Millisecond)
			}
		}
	}
}

func (b *Broadcaster) publish(ctx context.Context, ev Event) {
	if b.rdb == nil {
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if err := b.rdb.Publish(ctx, b.channel, payload).Err(); err != nil {
		logger.Debug("broadcast publish failed", zap.String("type", ev.Type), zap.Error(err))
	}
}

// Enqueue 非阻塞入队；nil Broadcaster 安全可调
func (b *Broadcaster) Enqueue(ev Event) {
	if b == nil {
		return
	}
	select {
	case b.ch <- ev:
	default:
		logger.Warn("broadcast queue full, drop event", zap.String("type", ev.Type), zap.String("actor", ev.ActorID))
	}
}

// QueueLen 返回当前队列长度（采样值）
func (b *Broadcaster) QueueLen() int {
	if b == nil {
		return 0
	}
	return len(b.ch)
}
