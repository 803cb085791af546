package handler

import (
	"io"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/invex-billing/internal/infrastructure/notify"
	"go.uber.org/zap"
)

const (
	eventBuffer       = 16
	heartbeatInterval = 25 * time.Second
)

// EventsHandler streams change notifications to browsers as Server-Sent Events
type EventsHandler struct {
	hub       notify.Hub
	heartbeat time.Duration
	log       *zap.Logger
	done      chan struct{}
	closeOnce sync.Once
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(hub notify.Hub, log *zap.Logger) *EventsHandler {
	return &EventsHandler{
		hub:       hub,
		heartbeat: heartbeatInterval,
		log:       log.Named("events"),
		done:      make(chan struct{}),
	}
}

// Shutdown ends every open stream
func (h *EventsHandler) Shutdown() {
	h.closeOnce.Do(func() { close(h.done) })
}

// Stream subscribes the caller to the bill, product and profile topics.
// Bill and profile events of other users are only forwarded to callers
// allowed to view all bills. A slow client misses events rather than
// blocking publishers.
// @Summary Change Events
// @Tags events
// @Security BearerAuth
// @Produce text/event-stream
// @Router /events [get]
func (h *EventsHandler) Stream(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	seeAll := CanViewAllBills(c)
	caller := userID.String()

	events := make(chan notify.Event, eventBuffer)
	forward := func(e notify.Event) {
		if e.Topic != notify.TopicProducts && e.UserID != caller && !seeAll {
			return
		}
		select {
		case events <- e:
		default:
			h.log.Debug("event dropped", zap.String("user_id", caller), zap.String("topic", e.Topic))
		}
	}

	unsubscribe := make([]func(), 0, 3)
	for _, topic := range []string{notify.TopicBills, notify.TopicProducts, notify.TopicProfiles} {
		unsubscribe = append(unsubscribe, h.hub.Subscribe(topic, forward))
	}
	defer func() {
		for _, unsub := range unsubscribe {
			unsub()
		}
	}()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	c.SSEvent("ready", gin.H{"user_id": caller})
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case <-h.done:
			return false
		case e := <-events:
			c.SSEvent(e.Topic, e)
			return true
		case <-ticker.C:
			c.SSEvent("ping", gin.H{"at": time.Now().UTC()})
			return true
		}
	})
}
