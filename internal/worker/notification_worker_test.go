package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fotosexpress/portal/internal/config"
	"github.com/fotosexpress/portal/internal/events"
	"github.com/fotosexpress/portal/internal/service"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestNotificationWorker_HandlesInOrderAndFlushesOnClose(t *testing.T) {
	w := StartNotificationWorker(events.NewInMemoryDispatcher(nil), nil, nil, 8)

	var mu sync.Mutex
	var seen []string
	w.Subscribe(events.EventPhotosDelivered, func(_ context.Context, e events.Event) error {
		mu.Lock()
		seen = append(seen, e.SubjectID)
		mu.Unlock()
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	for _, id := range []string{"L01", "L02", "L03"} {
		require.NoError(t, w.Publish(ctx, events.NewEvent(events.EventPhotosDelivered, id, nil, time.Now(), nil)))
	}
	// a finished request must not cancel its notifications
	cancel()
	w.Close()
	w.Close()

	assert.Equal(t, []string{"L01", "L02", "L03"}, seen)
	assert.ErrorIs(t, w.Publish(context.Background(), events.NewEvent(events.EventPhotosDelivered, "L04", nil, time.Now(), nil)), ErrClosed)
}

func TestNotificationWorker_DropsWhenFull(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	w := StartNotificationWorker(events.NewInMemoryDispatcher(nil), nil, zap.New(core), 1)

	release := make(chan struct{})
	started := make(chan struct{}, 1)
	w.Subscribe(events.EventStaffApproved, func(context.Context, events.Event) error {
		started <- struct{}{}
		<-release
		return nil
	})

	publish := func(id string) error {
		return w.Publish(context.Background(), events.NewEvent(events.EventStaffApproved, id, nil, time.Now(), nil))
	}
	require.NoError(t, publish("P01"))
	<-started
	require.NoError(t, publish("P02"))
	assert.ErrorIs(t, publish("P03"), ErrQueueFull)
	assert.Equal(t, 1, logs.FilterMessage("notification queue full, dropping event").Len())

	close(release)
	w.Close()
}

func TestStartNotificationWorker_RegistersNotificationHandlers(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)
	w := StartNotificationWorker(events.NewInMemoryDispatcher(logger), service.NewNotificationService(logger, config.NotificationConfig{}), logger, 0)

	require.NoError(t, w.Publish(context.Background(), events.NewEvent(events.EventPhotosDelivered, "L02", nil, time.Now(),
		events.PhotosDeliveredPayload{Nombre: "Marcos", Telefono: "7875550123", PhotoCount: 5})))
	w.Close()

	assert.Equal(t, 1, logs.FilterMessage("PhotosDelivered").Len())
}
