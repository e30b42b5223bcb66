// Package notification records user-facing social events and serves them as a
// newest-first feed with keyset pagination and read state.
package notification

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	db "github.com/katatrina/feed-notification/internal/db/sqlc"
)

const (
	TypeLike    = "like"
	TypeComment = "comment"
	TypeFollow  = "follow"
	TypeMention = "mention"
)

// Keys merged into a payload when the actor is known.
const (
	PayloadActorID          = "actor_id"
	PayloadActorHandle      = "actor_handle"
	PayloadActorDisplayName = "actor_display_name"
)

type Notification struct {
	ID               uuid.UUID  `json:"id"`
	RecipientID      uuid.UUID  `json:"recipient_id"`
	NotificationType string     `json:"notification_type"`
	Payload          Value      `json:"payload"`
	ReadAt           *time.Time `json:"read_at"`
	CreatedAt        time.Time  `json:"created_at"`
}

func (n Notification) IsRead() bool {
	return n.ReadAt != nil
}

func fromModel(row db.Notification) (Notification, error) {
	payload, err := ParsePayload(row.Payload)
	if err != nil {
		return Notification{}, fmt.Errorf("notification %s: %w", row.ID, err)
	}

	n := Notification{
		ID:               row.ID,
		RecipientID:      row.UserID,
		NotificationType: row.NotificationType,
		Payload:          payload,
		CreatedAt:        row.CreatedAt.UTC(),
	}
	if row.ReadAt != nil {
		readAt := row.ReadAt.UTC()
		n.ReadAt = &readAt
	}

	return n, nil
}

// Cursor is the (created_at, id) position of the last notification a client has seen.
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// CursorOf returns the cursor that resumes the feed right after n.
func CursorOf(n Notification) Cursor {
	return Cursor{CreatedAt: n.CreatedAt, ID: n.ID}
}

// Page is one slice of a recipient's feed. Next is nil when the feed is exhausted.
type Page struct {
	Notifications []Notification
	Next          *Cursor
}
