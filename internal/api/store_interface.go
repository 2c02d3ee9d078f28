package api

import (
	"context"

	"github.com/orci-tz/mafunzo/internal/services"
)

// Store is the persistence surface the HTTP layer needs. ListResponses must
// return a snapshot the caller owns.
type Store interface {
	services.ResponseStore
	services.AuthStore
	UpsertUser(ctx context.Context, u *services.User) error
}

var _ Store = (*MemoryStore)(nil)

// SeedUsers loads configured dashboard accounts into store.
func SeedUsers(ctx context.Context, store Store, users []services.User) error {
	for i := range users {
		if err := store.UpsertUser(ctx, &users[i]); err != nil {
			return err
		}
	}
	return nil
}
