package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/katatrina/feed-notification/internal/notification"
	"github.com/rs/zerolog/log"
)

// PayloadCreateNotification describes a social event that may produce a notification.
type PayloadCreateNotification struct {
	EventID          string             `json:"event_id,omitempty"`
	RecipientID      uuid.UUID          `json:"recipient_id"`
	ActorID          uuid.UUID          `json:"actor_id"`
	NotificationType string             `json:"notification_type"`
	Payload          notification.Value `json:"payload"`
}

func (payload *PayloadCreateNotification) Validate() error {
	if payload.RecipientID == uuid.Nil {
		return errors.New("recipient_id is required")
	}

	if payload.ActorID == uuid.Nil {
		return errors.New("actor_id is required")
	}

	if payload.NotificationType == "" {
		return errors.New("notification_type is required")
	}

	return nil
}

// DistributeTaskCreateNotification enqueues an event. When the event carries an id it
// becomes the task id, so redelivered events are enqueued only once.
func (distributor *RedisTaskDistributor) DistributeTaskCreateNotification(
	ctx context.Context,
	payload *PayloadCreateNotification,
	opts ...asynq.Option,
) (*asynq.TaskInfo, error) {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal task payload: %w", err)
	}

	if payload.EventID != "" {
		opts = append(opts, asynq.TaskID(fmt.Sprintf("notification:event:%s", payload.EventID)))
	}

	task := asynq.NewTask(TaskCreateNotification, jsonPayload, opts...)
	info, err := distributor.client.EnqueueContext(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue task: %w", err)
	}

	log.Info().
		Str("type", task.Type()).
		Str("task_id", info.ID).
		Str("queue", info.Queue).
		Int("max_retry", info.MaxRetry).
		Msg("task enqueued")

	return info, nil
}

func (processor *RedisTaskProcessor) ProcessTaskCreateNotification(
	ctx context.Context,
	task *asynq.Task,
) error {
	var payload PayloadCreateNotification
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", asynq.SkipRetry)
	}

	if err := payload.Validate(); err != nil {
		return fmt.Errorf("invalid payload: %v: %w", err, asynq.SkipRetry)
	}

	err := processor.creator.CreateIfNotSelf(ctx, payload.RecipientID, payload.ActorID, payload.NotificationType, payload.Payload)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	log.Info().
		Str("type", task.Type()).
		Str("event_id", payload.EventID).
		Str("recipient_id", payload.RecipientID.String()).
		Str("notification_type", payload.NotificationType).
		Msg("task processed")

	return nil
}
