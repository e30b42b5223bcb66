package event

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katatrina/feed-notification/internal/notification"
)

func receive(t *testing.T, client chan Event) Event {
	t.Helper()

	select {
	case evt, ok := <-client:
		require.True(t, ok, "client channel closed")
		return evt
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestSSEServerDeliversToTopic(t *testing.T) {
	sender := NewSSEServer()
	go sender.Run()
	defer sender.Close()

	recipientID := uuid.New()
	mine := make(chan Event, 1)
	other := make(chan Event, 1)
	sender.Register(UserTopic(recipientID), mine)
	sender.Register(UserTopic(uuid.New()), other)

	publisher := NewNotificationPublisher(sender)
	publisher.NotificationCreated(context.Background(), notification.Notification{
		ID:               uuid.New(),
		RecipientID:      recipientID,
		NotificationType: notification.TypeMention,
	})

	evt := receive(t, mine)
	assert.Equal(t, EventTypeNotificationCreated, evt.Type)
	assert.Equal(t, UserTopic(recipientID), evt.Topic)

	n, ok := evt.Data.(notification.Notification)
	require.True(t, ok)
	assert.Equal(t, notification.TypeMention, n.NotificationType)

	publisher.NotificationsRead(context.Background(), recipientID, 3)
	evt = receive(t, mine)
	assert.Equal(t, EventTypeNotificationsRead, evt.Type)
	assert.Equal(t, map[string]int64{"count": 3}, evt.Data)

	select {
	case evt := <-other:
		t.Fatalf("unexpected event on another topic: %+v", evt)
	default:
	}
}

func TestSSEServerUnregisterClosesClient(t *testing.T) {
	sender := NewSSEServer()
	go sender.Run()
	defer sender.Close()

	topic := UserTopic(uuid.New())
	client := make(chan Event)
	sender.Register(topic, client)
	sender.Unregister(topic, client)

	_, ok := <-client
	assert.False(t, ok)

	// Unregistering twice is a no-op.
	sender.Unregister(topic, client)
}

func TestSSEServerBroadcastAfterClose(t *testing.T) {
	sender := NewSSEServer()
	sender.Close()
	sender.Close()

	sender.Broadcast(Event{Topic: "user:x", Type: EventTypeNotificationCreated})
}
