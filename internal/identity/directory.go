// Package identity resolves the public identity of the user behind an action.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	db "github.com/katatrina/feed-notification/internal/db/sqlc"
)

// Actor is the point-in-time identity copied into notification payloads.
type Actor struct {
	ID          uuid.UUID `json:"id"`
	Handle      string    `json:"handle"`
	DisplayName string    `json:"display_name"`
}

// Directory looks up actors. A missing actor is reported as found == false with a
// nil error; errors are reserved for lookup failures.
type Directory interface {
	LookupActor(ctx context.Context, actorID uuid.UUID) (actor Actor, found bool, err error)
}

// StoreDirectory reads actors from the users table.
type StoreDirectory struct {
	store db.Querier
}

func NewStoreDirectory(store db.Querier) *StoreDirectory {
	return &StoreDirectory{store: store}
}

func (d *StoreDirectory) LookupActor(ctx context.Context, actorID uuid.UUID) (Actor, bool, error) {
	row, err := d.store.GetUserIdentity(ctx, actorID)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			return Actor{}, false, nil
		}
		return Actor{}, false, fmt.Errorf("failed to get user identity %s: %w", actorID, err)
	}

	return Actor{
		ID:          actorID,
		Handle:      row.Handle,
		DisplayName: row.DisplayName,
	}, true, nil
}
