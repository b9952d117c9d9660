package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"ratpatrol/internal/infrastructure/kvstore"
)

// Keys of the three records kept in the durable store.
const (
	ReportsKey = "rat-reports"
	ProfileKey = "rat-user-profile"
	VotesKey   = "rat-user-votes"
)

// loadJSON decodes the value under key into dst. found is false when the key
// has never been written.
func loadJSON(ctx context.Context, store kvstore.Store, key string, dst interface{}) (found bool, err error) {
	raw, err := store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

func saveJSON(ctx context.Context, store kvstore.Store, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return store.Set(ctx, key, raw)
}
