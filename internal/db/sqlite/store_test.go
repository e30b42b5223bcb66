package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	db "github.com/katatrina/feed-notification/internal/db/sqlc"
)

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()

	store, err := NewStore(":memory:", opts...)
	require.NoError(t, err)
	t.Cleanup(store.Close)

	return store
}

func TestCreateNotification(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 123456789, time.UTC)
	store := newTestStore(t, WithClock(func() time.Time { return now }))
	userID := uuid.New()

	n, err := store.CreateNotification(context.Background(), db.CreateNotificationParams{
		UserID:           userID,
		NotificationType: "like",
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, n.ID)
	assert.Equal(t, userID, n.UserID)
	assert.Equal(t, "{}", string(n.Payload))
	assert.Nil(t, n.ReadAt)
	assert.True(t, now.Truncate(time.Microsecond).Equal(n.CreatedAt))

	rows, err := store.ListNotifications(context.Background(), db.ListNotificationsParams{
		UserID: userID,
		Limit:  10,
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, n, rows[0])
}

func TestListNotificationsBefore(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	store := newTestStore(t, WithClock(clock))
	userID := uuid.New()
	ctx := context.Background()

	var created []db.Notification
	for i := 0; i < 3; i++ {
		n, err := store.CreateNotification(ctx, db.CreateNotificationParams{
			UserID:           userID,
			NotificationType: "like",
			Payload:          []byte(`{"n":1}`),
		})
		require.NoError(t, err)
		created = append(created, n)
		now = now.Add(time.Second)
	}

	rows, err := store.ListNotificationsBefore(ctx, db.ListNotificationsBeforeParams{
		UserID:    userID,
		CreatedAt: created[2].CreatedAt,
		ID:        created[2].ID,
		Limit:     10,
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, created[1].ID, rows[0].ID)
	assert.Equal(t, created[0].ID, rows[1].ID)
}

func TestMarkNotificationRead(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	userID := uuid.New()

	n, err := store.CreateNotification(ctx, db.CreateNotificationParams{
		UserID:           userID,
		NotificationType: "comment",
	})
	require.NoError(t, err)

	affected, err := store.MarkNotificationRead(ctx, db.MarkNotificationReadParams{ID: n.ID, UserID: uuid.New()})
	require.NoError(t, err)
	assert.Zero(t, affected)

	affected, err = store.MarkNotificationRead(ctx, db.MarkNotificationReadParams{ID: n.ID, UserID: userID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	affected, err = store.MarkNotificationRead(ctx, db.MarkNotificationReadParams{ID: n.ID, UserID: userID})
	require.NoError(t, err)
	assert.Zero(t, affected)

	count, err := store.CountUnreadNotifications(ctx, userID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestGetUserIdentity(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := db.User{ID: uuid.New(), Handle: "alice", DisplayName: "Alice"}

	_, err := store.GetUserIdentity(ctx, user.ID)
	require.ErrorIs(t, err, db.ErrRecordNotFound)

	require.NoError(t, store.UpsertUser(ctx, user))

	row, err := store.GetUserIdentity(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", row.Handle)
	assert.Equal(t, "Alice", row.DisplayName)

	user.DisplayName = "Alice N."
	require.NoError(t, store.UpsertUser(ctx, user))

	row, err = store.GetUserIdentity(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice N.", row.DisplayName)
}

func TestFileStoreReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.db")
	ctx := context.Background()
	userID := uuid.New()

	store, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Ping(ctx))

	_, err = store.CreateNotification(ctx, db.CreateNotificationParams{UserID: userID, NotificationType: "follow"})
	require.NoError(t, err)
	store.Close()

	store, err = NewStore(path)
	require.NoError(t, err)
	defer store.Close()

	count, err := store.CountUnreadNotifications(ctx, userID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
