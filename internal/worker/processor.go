package worker

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/katatrina/feed-notification/internal/notification"
	"github.com/rs/zerolog/log"
)

/*
 This file contains the code that picks up the tasks from the Redis queue and processes them.
*/

const (
	QueueCritical = "critical"
	QueueDefault  = "default"
)

// NotificationCreator is the part of the notification service the processor drives.
type NotificationCreator interface {
	CreateIfNotSelf(ctx context.Context, recipientID, actorID uuid.UUID, notificationType string, payload notification.Value) error
}

type TaskProcessor interface {
	Start() error
	Shutdown()
}

type RedisTaskProcessor struct {
	server          *asynq.Server
	creator         NotificationCreator
	firestoreClient *firestore.Client
}

type ProcessorOption func(*RedisTaskProcessor)

// WithFirestore enables the Firestore mirror handler.
func WithFirestore(client *firestore.Client) ProcessorOption {
	return func(processor *RedisTaskProcessor) {
		processor.firestoreClient = client
	}
}

func NewRedisTaskProcessor(redisOpt asynq.RedisClientOpt, creator NotificationCreator, opts ...ProcessorOption) TaskProcessor {
	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Queues: map[string]int{
				QueueCritical: 10,
				QueueDefault:  5,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Error().Err(err).Str("type", task.Type()).
					Bytes("payload", task.Payload()).Msg("process task failed")
			}),
			Logger: NewLogger(),
		},
	)

	processor := &RedisTaskProcessor{
		server:  server,
		creator: creator,
	}
	for _, opt := range opts {
		opt(processor)
	}

	return processor
}

// Start registers the task handlers for the mux, attaches the mux to the asynq server, and starts the server.
func (processor *RedisTaskProcessor) Start() error {
	mux := asynq.NewServeMux()

	mux.HandleFunc(TaskCreateNotification, processor.ProcessTaskCreateNotification)
	if processor.firestoreClient != nil {
		mux.HandleFunc(TaskMirrorNotification, processor.ProcessTaskMirrorNotification)
	}

	return processor.server.Start(mux)
}

// Shutdown waits for in-flight tasks and stops the server.
func (processor *RedisTaskProcessor) Shutdown() {
	processor.server.Shutdown()
}
