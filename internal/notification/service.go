package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	db "github.com/katatrina/feed-notification/internal/db/sqlc"
	"github.com/katatrina/feed-notification/internal/identity"
)

var (
	ErrInvalidLimit   = errors.New("limit must be a positive integer")
	ErrInvalidPayload = errors.New("payload is not valid JSON")
	ErrEmptyType      = errors.New("notification type is required")
)

// MissingActorPolicy decides what happens when the actor of an event cannot be found.
type MissingActorPolicy uint8

const (
	// SuppressMissingActor drops the notification.
	SuppressMissingActor MissingActorPolicy = iota
	// CreateMissingActor stores the notification without actor fields.
	CreateMissingActor
)

func ParseMissingActorPolicy(s string) (MissingActorPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "suppress":
		return SuppressMissingActor, nil
	case "create":
		return CreateMissingActor, nil
	default:
		return 0, fmt.Errorf("unknown missing actor policy %q", s)
	}
}

// SuppressReason explains why no notification was written.
type SuppressReason string

const (
	SuppressedSelf         SuppressReason = "self"
	SuppressedActorMissing SuppressReason = "actor_missing"
)

// Observer is notified after state changes. Calls happen synchronously on the
// caller's goroutine and must not block.
type Observer interface {
	NotificationCreated(ctx context.Context, n Notification)
	NotificationSuppressed(ctx context.Context, notificationType string, reason SuppressReason)
	NotificationsRead(ctx context.Context, recipientID uuid.UUID, count int64)
}

type Service struct {
	store        db.Querier
	directory    identity.Directory
	missingActor MissingActorPolicy
	observers    []Observer
}

type Option func(*Service)

func WithMissingActorPolicy(policy MissingActorPolicy) Option {
	return func(s *Service) {
		s.missingActor = policy
	}
}

func WithObserver(observer Observer) Option {
	return func(s *Service) {
		s.observers = append(s.observers, observer)
	}
}

func NewService(store db.Querier, directory identity.Directory, opts ...Option) *Service {
	s := &Service{
		store:        store,
		directory:    directory,
		missingActor: SuppressMissingActor,
	}

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create inserts a notification as is. The store assigns its id and created_at.
func (s *Service) Create(ctx context.Context, recipientID uuid.UUID, notificationType string, payload Value) (Notification, error) {
	if notificationType == "" {
		return Notification{}, ErrEmptyType
	}

	data, err := payload.MarshalJSON()
	if err != nil {
		return Notification{}, fmt.Errorf("failed to encode payload: %w", err)
	}
	if !json.Valid(data) {
		return Notification{}, fmt.Errorf("failed to encode payload: %w", ErrInvalidPayload)
	}

	row, err := s.store.CreateNotification(ctx, db.CreateNotificationParams{
		UserID:           recipientID,
		NotificationType: notificationType,
		Payload:          data,
	})
	if err != nil {
		return Notification{}, fmt.Errorf("failed to create notification: %w", err)
	}

	n, err := fromModel(row)
	if err != nil {
		return Notification{}, err
	}

	for _, o := range s.observers {
		o.NotificationCreated(ctx, n)
	}

	return n, nil
}

// CreateIfNotSelf creates a notification for an action taken by actorID unless the
// actor is the recipient. When the actor is known, its id, handle and display name
// are merged into an object payload. Suppression is not an error.
func (s *Service) CreateIfNotSelf(ctx context.Context, recipientID, actorID uuid.UUID, notificationType string, payload Value) error {
	if actorID == recipientID {
		s.suppressed(ctx, notificationType, SuppressedSelf)
		return nil
	}

	actor, found, err := s.directory.LookupActor(ctx, actorID)
	if err != nil {
		return fmt.Errorf("failed to look up actor %s: %w", actorID, err)
	}

	if found {
		enriched, result := payload.Merge(actorFields(actor))
		if result == NotAnObject {
			log.Debug().
				Str("notification_type", notificationType).
				Stringer("payload_kind", payload.Kind()).
				Msg("payload is not an object, skipping actor enrichment")
		}
		payload = enriched
	} else if s.missingActor == SuppressMissingActor {
		s.suppressed(ctx, notificationType, SuppressedActorMissing)
		return nil
	}

	_, err = s.Create(ctx, recipientID, notificationType, payload)
	return err
}

func actorFields(actor identity.Actor) map[string]Value {
	return map[string]Value{
		PayloadActorID:          String(actor.ID.String()),
		PayloadActorHandle:      String(actor.Handle),
		PayloadActorDisplayName: String(actor.DisplayName),
	}
}

func (s *Service) suppressed(ctx context.Context, notificationType string, reason SuppressReason) {
	log.Debug().
		Str("notification_type", notificationType).
		Str("reason", string(reason)).
		Msg("notification suppressed")

	for _, o := range s.observers {
		o.NotificationSuppressed(ctx, notificationType, reason)
	}
}

// List returns up to limit notifications of recipientID ordered by created_at then
// id, both descending. With a cursor, only notifications strictly after it in that
// order are returned.
func (s *Service) List(ctx context.Context, recipientID uuid.UUID, cursor *Cursor, limit int) ([]Notification, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	if limit > math.MaxInt32 {
		limit = math.MaxInt32
	}

	var (
		rows []db.Notification
		err  error
	)
	if cursor == nil {
		rows, err = s.store.ListNotifications(ctx, db.ListNotificationsParams{
			UserID: recipientID,
			Limit:  int32(limit),
		})
	} else {
		rows, err = s.store.ListNotificationsBefore(ctx, db.ListNotificationsBeforeParams{
			UserID:    recipientID,
			CreatedAt: cursor.CreatedAt,
			ID:        cursor.ID,
			Limit:     int32(limit),
		})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	notifications := make([]Notification, 0, len(rows))
	for _, row := range rows {
		n, err := fromModel(row)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}

	return notifications, nil
}

// ListPage is List plus the cursor of the following page. A short page ends the feed.
func (s *Service) ListPage(ctx context.Context, recipientID uuid.UUID, cursor *Cursor, limit int) (Page, error) {
	notifications, err := s.List(ctx, recipientID, cursor, limit)
	if err != nil {
		return Page{}, err
	}

	page := Page{Notifications: notifications}
	if len(notifications) > 0 && len(notifications) == limit {
		next := CursorOf(notifications[len(notifications)-1])
		page.Next = &next
	}

	return page, nil
}

// MarkRead sets read_at on an unread notification owned by recipientID.
// It reports false when the notification does not exist, belongs to someone else,
// or was already read.
func (s *Service) MarkRead(ctx context.Context, notificationID, recipientID uuid.UUID) (bool, error) {
	affected, err := s.store.MarkNotificationRead(ctx, db.MarkNotificationReadParams{
		ID:     notificationID,
		UserID: recipientID,
	})
	if err != nil {
		return false, fmt.Errorf("failed to mark notification %s as read: %w", notificationID, err)
	}

	if affected == 0 {
		return false, nil
	}

	for _, o := range s.observers {
		o.NotificationsRead(ctx, recipientID, affected)
	}
	return true, nil
}

// MarkAllRead marks every unread notification of recipientID and returns how many changed.
func (s *Service) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	affected, err := s.store.MarkAllNotificationsRead(ctx, recipientID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications as read: %w", err)
	}

	if affected > 0 {
		for _, o := range s.observers {
			o.NotificationsRead(ctx, recipientID, affected)
		}
	}
	return affected, nil
}

func (s *Service) UnreadCount(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	count, err := s.store.CountUnreadNotifications(ctx, recipientID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}
