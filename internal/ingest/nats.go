// Package ingest consumes social events from NATS and queues them for notification
// processing.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/katatrina/feed-notification/internal/worker"
)

const enqueueTimeout = 5 * time.Second

// Subscriber forwards every message on a subject to the task distributor.
type Subscriber struct {
	nc          *nats.Conn
	distributor worker.TaskDistributor
}

func NewSubscriber(url string, distributor worker.TaskDistributor) (*Subscriber, error) {
	nc, err := nats.Connect(url,
		nats.Name("feed-notification"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("nats disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("nats reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	return &Subscriber{nc: nc, distributor: distributor}, nil
}

// Subscribe joins a queue group so replicas of the service share the stream.
func (s *Subscriber) Subscribe(subject, queue string) error {
	_, err := s.nc.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		if err := s.Handle(msg.Data); err != nil {
			log.Error().Err(err).Str("subject", msg.Subject).Msg("failed to ingest event")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}

	log.Info().Str("subject", subject).Str("queue", queue).Msg("subscribed to social events")
	return nil
}

// Handle decodes one event and enqueues it. Malformed events are rejected; events
// already enqueued under the same id are ignored.
func (s *Subscriber) Handle(data []byte) error {
	var payload worker.PayloadCreateNotification
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("failed to decode event: %w", err)
	}

	if err := payload.Validate(); err != nil {
		return fmt.Errorf("invalid event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), enqueueTimeout)
	defer cancel()

	_, err := s.distributor.DistributeTaskCreateNotification(ctx, &payload, asynq.Queue(worker.QueueDefault))
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		log.Debug().Str("event_id", payload.EventID).Msg("duplicate event ignored")
		return nil
	}

	return err
}

// Close drains the subscription and closes the connection.
func (s *Subscriber) Close() error {
	return s.nc.Drain()
}
