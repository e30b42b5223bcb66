package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/katatrina/feed-notification/internal/db/sqlite"
	"github.com/katatrina/feed-notification/internal/event"
	"github.com/katatrina/feed-notification/internal/identity"
	"github.com/katatrina/feed-notification/internal/notification"
	"github.com/katatrina/feed-notification/internal/token"
	"github.com/katatrina/feed-notification/internal/util"
	"github.com/katatrina/feed-notification/internal/worker"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type emptyDirectory struct{}

func (emptyDirectory) LookupActor(context.Context, uuid.UUID) (identity.Actor, bool, error) {
	return identity.Actor{}, false, nil
}

type fakeDistributor struct {
	payloads []*worker.PayloadCreateNotification
	err      error
}

func (d *fakeDistributor) DistributeTaskCreateNotification(_ context.Context, payload *worker.PayloadCreateNotification, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	d.payloads = append(d.payloads, payload)
	if d.err != nil {
		return nil, d.err
	}
	return &asynq.TaskInfo{ID: "task-1", Queue: worker.QueueDefault}, nil
}

func (d *fakeDistributor) DistributeTaskMirrorNotification(context.Context, *worker.PayloadMirrorNotification, ...asynq.Option) error {
	return nil
}

func (d *fakeDistributor) Close() error {
	return nil
}

type testServer struct {
	server      *Server
	service     *notification.Service
	tokenMaker  token.Maker
	distributor *fakeDistributor
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	config := &util.Config{
		AllowedOrigins:        []string{"http://localhost:3000"},
		DefaultPageSize:       20,
		MaxPageSize:           100,
		StreamKeepAlivePeriod: time.Second,
	}

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store, err := sqlite.NewStore(":memory:", sqlite.WithClock(func() time.Time {
		now = now.Add(time.Second)
		return now
	}))
	require.NoError(t, err)
	t.Cleanup(store.Close)

	tokenMaker, err := token.NewJWTMaker("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)

	eventSender := event.NewSSEServer()
	go eventSender.Run()
	t.Cleanup(eventSender.Close)

	service := notification.NewService(store, emptyDirectory{},
		notification.WithObserver(event.NewNotificationPublisher(eventSender)),
	)
	distributor := &fakeDistributor{}

	server := NewServer(config, store, tokenMaker, service, distributor, nil, eventSender, nil)

	return &testServer{
		server:      server,
		service:     service,
		tokenMaker:  tokenMaker,
		distributor: distributor,
	}
}

func addAuthorization(t *testing.T, request *http.Request, tokenMaker token.Maker, userID uuid.UUID) {
	t.Helper()

	accessToken, _, err := tokenMaker.CreateToken(userID.String(), time.Minute)
	require.NoError(t, err)

	request.Header.Set(authorizationHeaderKey, fmt.Sprintf("%s %s", authorizationTypeBearer, accessToken))
}
