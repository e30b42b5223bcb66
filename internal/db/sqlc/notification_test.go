package db

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createRandomUser(t *testing.T, store *SQLStore) User {
	t.Helper()

	var user User
	err := store.connPool.QueryRow(context.Background(), `
		INSERT INTO users (handle, display_name) VALUES ($1, $2)
		RETURNING id, handle, display_name, created_at`,
		"user_"+uuid.NewString()[:8], "Random User",
	).Scan(&user.ID, &user.Handle, &user.DisplayName, &user.CreatedAt)
	require.NoError(t, err)

	return user
}

func TestGetUserIdentity(t *testing.T) {
	store := newTestStore(t)
	user := createRandomUser(t, store)

	row, err := store.GetUserIdentity(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Handle, row.Handle)
	assert.Equal(t, user.DisplayName, row.DisplayName)

	_, err = store.GetUserIdentity(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrRecordNotFound)
}

func TestNotificationQueries(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	userID := uuid.New()

	var created []Notification
	for i := 0; i < 3; i++ {
		n, err := store.CreateNotification(ctx, CreateNotificationParams{
			UserID:           userID,
			NotificationType: "like",
			Payload:          []byte(`{"post_id": "p-1"}`),
		})
		require.NoError(t, err)
		require.WithinDuration(t, time.Now(), n.CreatedAt, time.Minute)
		created = append(created, n)
	}

	rows, err := store.ListNotifications(ctx, ListNotificationsParams{UserID: userID, Limit: 2})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	rest, err := store.ListNotificationsBefore(ctx, ListNotificationsBeforeParams{
		UserID:    userID,
		CreatedAt: rows[1].CreatedAt,
		ID:        rows[1].ID,
		Limit:     10,
	})
	require.NoError(t, err)
	require.Len(t, rest, 1)

	seen := map[uuid.UUID]bool{rows[0].ID: true, rows[1].ID: true, rest[0].ID: true}
	for _, n := range created {
		assert.True(t, seen[n.ID])
	}

	affected, err := store.MarkNotificationRead(ctx, MarkNotificationReadParams{ID: created[0].ID, UserID: uuid.New()})
	require.NoError(t, err)
	assert.Zero(t, affected)

	affected, err = store.MarkNotificationRead(ctx, MarkNotificationReadParams{ID: created[0].ID, UserID: userID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	count, err := store.CountUnreadNotifications(ctx, userID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	affected, err = store.MarkAllNotificationsRead(ctx, userID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, affected)

	require.NoError(t, store.Ping(ctx))
}

func TestMarkNotificationReadConcurrent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	userID := uuid.New()

	n, err := store.CreateNotification(ctx, CreateNotificationParams{
		UserID:           userID,
		NotificationType: "comment",
		Payload:          []byte(`{}`),
	})
	require.NoError(t, err)

	const workers = 20
	var (
		wg       sync.WaitGroup
		affected atomic.Int64
		errs     = make(chan error, workers)
	)
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()

			rows, err := store.MarkNotificationRead(ctx, MarkNotificationReadParams{ID: n.ID, UserID: userID})
			if err != nil {
				errs <- err
				return
			}
			affected.Add(rows)
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.EqualValues(t, 1, affected.Load())
}
