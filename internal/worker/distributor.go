package worker

import (
	"context"

	"github.com/hibiken/asynq"
)

const (
	TaskCreateNotification = "notification:create"
	TaskMirrorNotification = "notification:mirror"
)

/*
This file contains the code that creates tasks and distributes them to the Redis queue.
*/

type TaskDistributor interface {
	DistributeTaskCreateNotification(ctx context.Context, payload *PayloadCreateNotification, opts ...asynq.Option) (*asynq.TaskInfo, error)
	DistributeTaskMirrorNotification(ctx context.Context, payload *PayloadMirrorNotification, opts ...asynq.Option) error
	Close() error
}

type RedisTaskDistributor struct {
	client *asynq.Client // client sends tasks to redis queue.
}

func NewTaskDistributor(redisOpt asynq.RedisClientOpt) TaskDistributor {
	client := asynq.NewClient(redisOpt)

	return &RedisTaskDistributor{
		client: client,
	}
}

func (distributor *RedisTaskDistributor) Close() error {
	return distributor.client.Close()
}
