package api

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/katatrina/feed-notification/internal/notification"
)

// encodeCursor turns a feed position into an opaque URL-safe token.
func encodeCursor(cursor notification.Cursor) string {
	raw := fmt.Sprintf("%d.%s", cursor.CreatedAt.UTC().UnixMicro(), cursor.ID)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func decodeCursor(token string) (notification.Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return notification.Cursor{}, ErrInvalidCursor
	}

	micros, id, ok := strings.Cut(string(raw), ".")
	if !ok {
		return notification.Cursor{}, ErrInvalidCursor
	}

	unixMicro, err := strconv.ParseInt(micros, 10, 64)
	if err != nil {
		return notification.Cursor{}, ErrInvalidCursor
	}

	notificationID, err := uuid.Parse(id)
	if err != nil {
		return notification.Cursor{}, ErrInvalidCursor
	}

	return notification.Cursor{
		CreatedAt: time.UnixMicro(unixMicro).UTC(),
		ID:        notificationID,
	}, nil
}
