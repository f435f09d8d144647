package worker

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/fotosexpress/portal/internal/events"
	"github.com/fotosexpress/portal/internal/service"
)

// DefaultQueueSize bounds the events waiting for notification handlers.
const DefaultQueueSize = 256

var (
	// ErrQueueFull is returned by Publish when the worker is saturated. The event is dropped.
	ErrQueueFull = errors.New("notification queue full")
	// ErrClosed is returned by Publish after Close.
	ErrClosed = errors.New("notification worker closed")
)

type queuedEvent struct {
	ctx   context.Context
	event events.Event
}

// NotificationWorker is an events.Dispatcher that hands published events to a
// single background goroutine, so handlers never run on the request path.
// Handlers see events in publish order.
type NotificationWorker struct {
	inner  events.Dispatcher
	logger *zap.Logger
	queue  chan queuedEvent
	done   chan struct{}

	mu     sync.RWMutex
	closed bool
}

// StartNotificationWorker starts the worker over inner and subscribes the
// notification handlers to it. Close flushes the queue.
func StartNotificationWorker(inner events.Dispatcher, notifications *service.NotificationService, logger *zap.Logger, queueSize int) *NotificationWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	w := &NotificationWorker{
		inner:  inner,
		logger: logger,
		queue:  make(chan queuedEvent, queueSize),
		done:   make(chan struct{}),
	}
	go w.run()
	if notifications != nil {
		notifications.RegisterHandlers(w)
	}
	return w
}

// Publish enqueues event without waiting for its handlers. The request
// context is detached so a finished request does not cancel its notifications.
func (w *NotificationWorker) Publish(ctx context.Context, event events.Event) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return ErrClosed
	}
	select {
	case w.queue <- queuedEvent{ctx: context.WithoutCancel(ctx), event: event}:
		return nil
	default:
		w.logger.Warn("notification queue full, dropping event",
			zap.String("event_type", string(event.Type)),
			zap.String("event_id", event.ID))
		return ErrQueueFull
	}
}

// Subscribe registers handler on the underlying dispatcher.
func (w *NotificationWorker) Subscribe(eventType events.EventType, handler events.EventHandler) {
	w.inner.Subscribe(eventType, handler)
}

// Close stops accepting events and waits until the queued ones are handled.
// It is safe to call more than once.
func (w *NotificationWorker) Close() {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.queue)
	}
	w.mu.Unlock()
	<-w.done
}

func (w *NotificationWorker) run() {
	defer close(w.done)
	for item := range w.queue {
		if err := w.inner.Publish(item.ctx, item.event); err != nil {
			w.logger.Warn("notification dispatch failed", zap.String("event_id", item.event.ID), zap.Error(err))
		}
	}
}
