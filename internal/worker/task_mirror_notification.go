package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/katatrina/feed-notification/internal/notification"
	"github.com/rs/zerolog/log"
)

// FirestoreCollection holds one document per notification, keyed by notification id.
const FirestoreCollection = "notifications"

// PayloadMirrorNotification is a stored notification copied to Firestore so that
// mobile clients can listen to their own documents.
type PayloadMirrorNotification struct {
	NotificationID   uuid.UUID          `json:"notification_id"`
	RecipientID      uuid.UUID          `json:"recipient_id"`
	NotificationType string             `json:"notification_type"`
	Payload          notification.Value `json:"payload"`
	CreatedAt        time.Time          `json:"created_at"`
}

func (distributor *RedisTaskDistributor) DistributeTaskMirrorNotification(
	ctx context.Context,
	payload *PayloadMirrorNotification,
	opts ...asynq.Option,
) error {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal task payload: %w", err)
	}

	task := asynq.NewTask(TaskMirrorNotification, jsonPayload, opts...)
	info, err := distributor.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	log.Debug().Str("type", task.Type()).Str("task_id", info.ID).Str("queue", info.Queue).Msg("task enqueued")
	return nil
}

// firestoreDocument converts the mirror payload to the fields stored in Firestore.
func (payload *PayloadMirrorNotification) firestoreDocument() (map[string]interface{}, error) {
	raw, err := payload.Payload.MarshalJSON()
	if err != nil {
		return nil, err
	}

	var data interface{}
	if err = json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"recipientID": payload.RecipientID.String(),
		"type":        payload.NotificationType,
		"payload":     data,
		"isRead":      false,
		"createdAt":   payload.CreatedAt,
	}, nil
}

func (processor *RedisTaskProcessor) ProcessTaskMirrorNotification(
	ctx context.Context,
	task *asynq.Task,
) error {
	var payload PayloadMirrorNotification
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", asynq.SkipRetry)
	}

	doc, err := payload.firestoreDocument()
	if err != nil {
		return fmt.Errorf("failed to build document: %v: %w", err, asynq.SkipRetry)
	}

	// Set is keyed by notification id so a retried task rewrites the same document.
	_, err = processor.firestoreClient.Collection(FirestoreCollection).Doc(payload.NotificationID.String()).Set(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to mirror notification %s: %w", payload.NotificationID, err)
	}

	log.Info().
		Str("type", task.Type()).
		Str("notification_id", payload.NotificationID.String()).
		Msg("task processed")

	return nil
}

// MirrorPublisher queues every created notification for the Firestore mirror.
type MirrorPublisher struct {
	distributor TaskDistributor
}

var _ notification.Observer = (*MirrorPublisher)(nil)

func NewMirrorPublisher(distributor TaskDistributor) *MirrorPublisher {
	return &MirrorPublisher{distributor: distributor}
}

func (p *MirrorPublisher) NotificationCreated(ctx context.Context, n notification.Notification) {
	err := p.distributor.DistributeTaskMirrorNotification(ctx, &PayloadMirrorNotification{
		NotificationID:   n.ID,
		RecipientID:      n.RecipientID,
		NotificationType: n.NotificationType,
		Payload:          n.Payload,
		CreatedAt:        n.CreatedAt,
	}, asynq.Queue(QueueDefault), asynq.MaxRetry(5))
	if err != nil {
		log.Error().Err(err).Str("notification_id", n.ID.String()).Msg("failed to queue firestore mirror")
	}
}

func (p *MirrorPublisher) NotificationSuppressed(context.Context, string, notification.SuppressReason) {}

func (p *MirrorPublisher) NotificationsRead(context.Context, uuid.UUID, int64) {}
