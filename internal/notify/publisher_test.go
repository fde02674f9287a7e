package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studentfolio/internal/activity"
)

type fakeRedis struct {
	channel string
	payload []byte
	err     error
}

func (f *fakeRedis) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	f.channel = channel
	f.payload, _ = message.([]byte)
	cmd := redis.NewIntCmd(ctx)
	if f.err != nil {
		cmd.SetErr(f.err)
	} else {
		cmd.SetVal(1)
	}
	return cmd
}

func TestPublisherNotify(t *testing.T) {
	fake := &fakeRedis{}
	user := uuid.New()
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	err := NewPublisher(fake).Notify(context.Background(), user, activity.Notice{
		Type:    activity.ActionNewDeviceLogin,
		Code:    4102,
		Message: "New device login detected: Firefox on Linux",
		Device:  activity.Device{Type: "desktop", Browser: "Firefox", OS: "Linux"},
		At:      at,
	})
	require.NoError(t, err)
	assert.Equal(t, "user_notify:"+user.String(), fake.channel)

	var msg Message
	require.NoError(t, json.Unmarshal(fake.payload, &msg))
	assert.Equal(t, activity.ActionNewDeviceLogin, msg.Type)
	assert.Equal(t, "Firefox", msg.Device.Browser)
	assert.Equal(t, "2024-03-01T10:00:00Z", msg.At)
}

func TestPublisherNotifyError(t *testing.T) {
	fake := &fakeRedis{err: errors.New("connection refused")}
	err := NewPublisher(fake).Notify(context.Background(), uuid.New(), activity.Notice{})
	assert.ErrorContains(t, err, "publish notice")
}
