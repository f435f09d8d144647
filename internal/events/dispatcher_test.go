package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDispatcher_DeliversToSubscribersOfType(t *testing.T) {
	d := NewInMemoryDispatcher(zap.NewNop())

	var got []string
	d.Subscribe(EventPhotosDelivered, func(_ context.Context, e Event) error {
		got = append(got, "first:"+e.SubjectID)
		return errors.New("boom")
	})
	d.Subscribe(EventPhotosDelivered, func(_ context.Context, e Event) error {
		got = append(got, "second:"+e.SubjectID)
		return nil
	})
	d.Subscribe(EventStaffApproved, func(_ context.Context, e Event) error {
		got = append(got, "approved:"+e.SubjectID)
		return nil
	})

	ev := NewEvent(EventPhotosDelivered, "L02", nil, time.Now(), PhotosDeliveredPayload{PhotoCount: 5})
	require.NoError(t, d.Publish(context.Background(), ev))

	assert.Equal(t, []string{"first:L02", "second:L02"}, got)
	assert.NotEmpty(t, ev.ID)
}
