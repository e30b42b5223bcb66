package event

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/katatrina/feed-notification/internal/notification"
)

// Event is a message pushed to the clients subscribed to a topic.
type Event struct {
	Topic string      // e.g. "user:3f2c..."
	Type  string      // notification_created, notifications_read
	Data  interface{} // event body, depends on Type
}

const (
	EventTypeNotificationCreated = "notification_created"
	EventTypeNotificationsRead   = "notifications_read"
)

// EventSender pushes server-sent events to connected clients.
type EventSender interface {
	Register(topic string, client chan Event)
	Unregister(topic string, client chan Event)
	Broadcast(event Event)
	Run()
	Close()
}

// UserTopic is the topic carrying the live feed of one recipient.
func UserTopic(userID uuid.UUID) string {
	return fmt.Sprintf("user:%s", userID)
}

// NotificationPublisher forwards notification service changes to the recipient's topic.
type NotificationPublisher struct {
	sender EventSender
}

var _ notification.Observer = (*NotificationPublisher)(nil)

func NewNotificationPublisher(sender EventSender) *NotificationPublisher {
	return &NotificationPublisher{sender: sender}
}

func (p *NotificationPublisher) NotificationCreated(_ context.Context, n notification.Notification) {
	p.sender.Broadcast(Event{
		Topic: UserTopic(n.RecipientID),
		Type:  EventTypeNotificationCreated,
		Data:  n,
	})
}

func (p *NotificationPublisher) NotificationSuppressed(context.Context, string, notification.SuppressReason) {}

func (p *NotificationPublisher) NotificationsRead(_ context.Context, recipientID uuid.UUID, count int64) {
	p.sender.Broadcast(Event{
		Topic: UserTopic(recipientID),
		Type:  EventTypeNotificationsRead,
		Data:  map[string]int64{"count": count},
	})
}
