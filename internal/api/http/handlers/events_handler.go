package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/events"
)

const (
	streamBuffer      = 64
	heartbeatInterval = 15 * time.Second
)

// EventsHandler streams desk events to dashboards as server-sent events.
type EventsHandler struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	heartbeat  time.Duration

	once sync.Once
	done chan struct{}
}

// NewEventsHandler constructs handler.
func NewEventsHandler(dispatcher events.Dispatcher, logger *zap.Logger) *EventsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventsHandler{
		dispatcher: dispatcher,
		logger:     logger,
		heartbeat:  heartbeatInterval,
		done:       make(chan struct{}),
	}
}

// Close ends every open stream.
func (h *EventsHandler) Close() {
	h.once.Do(func() { close(h.done) })
}

// Stream GET /api/events. The subscription lives as long as the client
// connection; a slow client drops events rather than blocking publishers.
func (h *EventsHandler) Stream(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	queue := make(chan events.Event, streamBuffer)
	sub := h.dispatcher.SubscribeAll(func(_ context.Context, event events.Event) error {
		select {
		case queue <- event:
		default:
			h.logger.Warn("event stream lagging, dropping event", zap.String("event_type", string(event.Type)))
		}
		return nil
	})

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer sub.Unsubscribe()
		h.pump(w, queue)
	}))
	return nil
}

func (h *EventsHandler) pump(w *bufio.Writer, queue <-chan events.Event) {
	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	if err := writeComment(w, "connected"); err != nil {
		return
	}
	for {
		select {
		case <-h.done:
			return
		case event := <-queue:
			if err := writeEvent(w, event); err != nil {
				h.logger.Debug("event stream closed", zap.Error(err))
				return
			}
		case <-ticker.C:
			if err := writeComment(w, "ping"); err != nil {
				return
			}
		}
	}
}

func writeEvent(w *bufio.Writer, event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", event.ID, event.Type, payload); err != nil {
		return err
	}
	return w.Flush()
}

func writeComment(w *bufio.Writer, text string) error {
	if _, err := io.WriteString(w, ": "+text+"\n\n"); err != nil {
		return err
	}
	return w.Flush()
}
