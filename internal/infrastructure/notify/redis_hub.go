package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisHub publishes events on Redis channels so every instance of the
// service sees them. Local subscribers are served from an embedded MemoryHub
// fed by one pattern subscription.
type RedisHub struct {
	client *redis.Client
	prefix string
	local  *MemoryHub
	log    *zap.Logger
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRedisClient connects to Redis and checks the connection
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewRedisHub starts listening on every channel under prefix
func NewRedisHub(client *redis.Client, prefix string, log *zap.Logger) *RedisHub {
	ctx, cancel := context.WithCancel(context.Background())
	h := &RedisHub{
		client: client,
		prefix: prefix,
		local:  NewMemoryHub(),
		log:    log,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	pubsub := client.PSubscribe(ctx, prefix+"*")
	go h.listen(ctx, pubsub)
	return h
}

func (h *RedisHub) listen(ctx context.Context, pubsub *redis.PubSub) {
	defer close(h.done)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := h.dispatch(msg.Channel, msg.Payload); err != nil {
				h.log.Warn("dropping malformed change event", zap.String("channel", msg.Channel), zap.Error(err))
			}
		}
	}
}

func (h *RedisHub) dispatch(channel, payload string) error {
	var event Event
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return err
	}
	if event.Topic == "" {
		event.Topic = strings.TrimPrefix(channel, h.prefix)
	}
	h.local.deliver(event)
	return nil
}

// Publish implements Hub
func (h *RedisHub) Publish(ctx context.Context, event Event) error {
	if event.At.IsZero() {
		event.At = time.Now()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return h.client.Publish(ctx, h.prefix+event.Topic, payload).Err()
}

// Subscribe implements Hub
func (h *RedisHub) Subscribe(topic string, fn Handler) func() {
	return h.local.Subscribe(topic, fn)
}

// Close stops the listener and closes the client
func (h *RedisHub) Close() error {
	h.cancel()
	<-h.done
	return h.client.Close()
}
