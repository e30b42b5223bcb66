package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katatrina/feed-notification/internal/notification"
)

type createCall struct {
	recipientID      uuid.UUID
	actorID          uuid.UUID
	notificationType string
	payload          notification.Value
}

type fakeCreator struct {
	calls []createCall
	err   error
}

func (c *fakeCreator) CreateIfNotSelf(_ context.Context, recipientID, actorID uuid.UUID, notificationType string, payload notification.Value) error {
	c.calls = append(c.calls, createCall{recipientID, actorID, notificationType, payload})
	return c.err
}

func validPayload() PayloadCreateNotification {
	return PayloadCreateNotification{
		EventID:          "evt-1",
		RecipientID:      uuid.New(),
		ActorID:          uuid.New(),
		NotificationType: notification.TypeComment,
		Payload:          notification.Object(map[string]notification.Value{"comment_id": notification.String("c-9")}),
	}
}

func TestPayloadCreateNotificationValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(p *PayloadCreateNotification)
		ok     bool
	}{
		{name: "OK", mutate: func(p *PayloadCreateNotification) {}, ok: true},
		{name: "NoEventID", mutate: func(p *PayloadCreateNotification) { p.EventID = "" }, ok: true},
		{name: "NoRecipient", mutate: func(p *PayloadCreateNotification) { p.RecipientID = uuid.Nil }},
		{name: "NoActor", mutate: func(p *PayloadCreateNotification) { p.ActorID = uuid.Nil }},
		{name: "NoType", mutate: func(p *PayloadCreateNotification) { p.NotificationType = "" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := validPayload()
			tc.mutate(&p)

			err := p.Validate()
			if tc.ok {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestProcessTaskCreateNotification(t *testing.T) {
	creator := &fakeCreator{}
	processor := &RedisTaskProcessor{creator: creator}

	payload := validPayload()
	data, err := json.Marshal(payload)
	require.NoError(t, err)

	err = processor.ProcessTaskCreateNotification(context.Background(), asynq.NewTask(TaskCreateNotification, data))
	require.NoError(t, err)
	require.Len(t, creator.calls, 1)

	call := creator.calls[0]
	assert.Equal(t, payload.RecipientID, call.recipientID)
	assert.Equal(t, payload.ActorID, call.actorID)
	assert.Equal(t, payload.NotificationType, call.notificationType)

	commentID, ok := call.payload.Field("comment_id")
	require.True(t, ok)
	s, _ := commentID.AsString()
	assert.Equal(t, "c-9", s)
}

func TestProcessTaskCreateNotificationSkipsRetry(t *testing.T) {
	creator := &fakeCreator{}
	processor := &RedisTaskProcessor{creator: creator}

	err := processor.ProcessTaskCreateNotification(context.Background(), asynq.NewTask(TaskCreateNotification, []byte("{")))
	require.ErrorIs(t, err, asynq.SkipRetry)

	invalid := validPayload()
	invalid.ActorID = uuid.Nil
	data, err := json.Marshal(invalid)
	require.NoError(t, err)

	err = processor.ProcessTaskCreateNotification(context.Background(), asynq.NewTask(TaskCreateNotification, data))
	require.ErrorIs(t, err, asynq.SkipRetry)
	assert.Empty(t, creator.calls)
}

func TestProcessTaskCreateNotificationRetriesStoreErrors(t *testing.T) {
	creator := &fakeCreator{err: errors.New("connection refused")}
	processor := &RedisTaskProcessor{creator: creator}

	data, err := json.Marshal(validPayload())
	require.NoError(t, err)

	err = processor.ProcessTaskCreateNotification(context.Background(), asynq.NewTask(TaskCreateNotification, data))
	require.ErrorIs(t, err, creator.err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}
