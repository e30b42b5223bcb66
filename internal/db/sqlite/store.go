// Package sqlite implements the notification store on an embedded SQLite database.
//
// It mirrors the Postgres queries in internal/db/query so the service behaves the
// same way in local runs and tests. Identifiers and timestamps are assigned here
// instead of by column defaults, and timestamps are kept as Unix microseconds so
// keyset cursors compare exactly like timestamptz values.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	db "github.com/katatrina/feed-notification/internal/db/sqlc"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id           TEXT PRIMARY KEY,
	handle       TEXT NOT NULL UNIQUE,
	display_name TEXT NOT NULL,
	created_at   INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS notifications (
	id                TEXT PRIMARY KEY,
	user_id           TEXT NOT NULL,
	notification_type TEXT NOT NULL,
	payload           TEXT NOT NULL DEFAULT '{}',
	read_at           INTEGER,
	created_at        INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS notifications_user_id_created_at_id_idx
	ON notifications (user_id, created_at DESC, id DESC);

CREATE INDEX IF NOT EXISTS notifications_unread_idx
	ON notifications (user_id) WHERE read_at IS NULL;
`

// Store implements db.Store using SQLite.
type Store struct {
	db    *sqlx.DB
	clock func() time.Time
}

var _ db.Store = (*Store)(nil)

type Option func(*Store)

// WithClock overrides the clock used to stamp created_at and read_at.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		s.clock = clock
	}
}

// NewStore opens (or creates) the database at path and applies the schema.
// ":memory:" is pinned to a single connection so every query sees the same database.
func NewStore(path string, opts ...Option) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	if path == ":memory:" {
		conn.SetMaxOpenConns(1)
	} else if _, err = conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err = conn.Exec("PRAGMA busy_timeout=5000"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if _, err = conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	s := &Store{
		db:    conn,
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() {
	s.db.Close()
}

func (s *Store) now() int64 {
	return s.clock().UTC().UnixMicro()
}

type notificationRow struct {
	ID               string        `db:"id"`
	UserID           string        `db:"user_id"`
	NotificationType string        `db:"notification_type"`
	Payload          string        `db:"payload"`
	ReadAt           sql.NullInt64 `db:"read_at"`
	CreatedAt        int64         `db:"created_at"`
}

func (r notificationRow) toModel() (db.Notification, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return db.Notification{}, fmt.Errorf("invalid notification id %q: %w", r.ID, err)
	}

	userID, err := uuid.Parse(r.UserID)
	if err != nil {
		return db.Notification{}, fmt.Errorf("invalid user id %q: %w", r.UserID, err)
	}

	n := db.Notification{
		ID:               id,
		UserID:           userID,
		NotificationType: r.NotificationType,
		Payload:          []byte(r.Payload),
		CreatedAt:        time.UnixMicro(r.CreatedAt).UTC(),
	}
	if r.ReadAt.Valid {
		readAt := time.UnixMicro(r.ReadAt.Int64).UTC()
		n.ReadAt = &readAt
	}

	return n, nil
}

func toModels(rows []notificationRow) ([]db.Notification, error) {
	items := make([]db.Notification, 0, len(rows))
	for _, row := range rows {
		n, err := row.toModel()
		if err != nil {
			return nil, err
		}
		items = append(items, n)
	}

	return items, nil
}

const notificationColumns = "id, user_id, notification_type, payload, read_at, created_at"

func (s *Store) CreateNotification(ctx context.Context, arg db.CreateNotificationParams) (db.Notification, error) {
	payload := string(arg.Payload)
	if payload == "" {
		payload = "{}"
	}

	row := notificationRow{
		ID:               uuid.New().String(),
		UserID:           arg.UserID.String(),
		NotificationType: arg.NotificationType,
		Payload:          payload,
		CreatedAt:        s.now(),
	}

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO notifications (id, user_id, notification_type, payload, created_at)
		VALUES (:id, :user_id, :notification_type, :payload, :created_at)`, row)
	if err != nil {
		return db.Notification{}, err
	}

	return row.toModel()
}

func (s *Store) ListNotifications(ctx context.Context, arg db.ListNotificationsParams) ([]db.Notification, error) {
	var rows []notificationRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`,
		arg.UserID.String(), arg.Limit,
	)
	if err != nil {
		return nil, err
	}

	return toModels(rows)
}

func (s *Store) ListNotificationsBefore(ctx context.Context, arg db.ListNotificationsBeforeParams) ([]db.Notification, error) {
	createdAt := arg.CreatedAt.UTC().UnixMicro()

	var rows []notificationRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE user_id = ?
		  AND (created_at < ? OR (created_at = ? AND id < ?))
		ORDER BY created_at DESC, id DESC
		LIMIT ?`,
		arg.UserID.String(), createdAt, createdAt, arg.ID.String(), arg.Limit,
	)
	if err != nil {
		return nil, err
	}

	return toModels(rows)
}

func (s *Store) MarkNotificationRead(ctx context.Context, arg db.MarkNotificationReadParams) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE notifications
		SET read_at = ?
		WHERE id = ? AND user_id = ? AND read_at IS NULL`,
		s.now(), arg.ID.String(), arg.UserID.String(),
	)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

func (s *Store) MarkAllNotificationsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE notifications
		SET read_at = ?
		WHERE user_id = ? AND read_at IS NULL`,
		s.now(), userID.String(),
	)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

func (s *Store) CountUnreadNotifications(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM notifications WHERE user_id = ? AND read_at IS NULL",
		userID.String(),
	)
	return count, err
}

// GetUserIdentity returns db.ErrRecordNotFound when the user does not exist,
// matching the pgx-backed store.
func (s *Store) GetUserIdentity(ctx context.Context, id uuid.UUID) (db.GetUserIdentityRow, error) {
	var row db.GetUserIdentityRow
	err := s.db.QueryRowxContext(ctx,
		"SELECT handle, display_name FROM users WHERE id = ?",
		id.String(),
	).Scan(&row.Handle, &row.DisplayName)
	if errors.Is(err, sql.ErrNoRows) {
		return row, db.ErrRecordNotFound
	}

	return row, err
}

// UpsertUser writes a users row. In Postgres deployments that table belongs to the
// user directory; the embedded store keeps its own copy for local runs.
func (s *Store) UpsertUser(ctx context.Context, user db.User) error {
	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.clock()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, handle, display_name, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET handle = excluded.handle, display_name = excluded.display_name`,
		user.ID.String(), user.Handle, user.DisplayName, createdAt.UTC().UnixMicro(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert user %s: %w", user.ID, err)
	}

	return nil
}
