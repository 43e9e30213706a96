package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/openclaw/voucher-server-go/internal/kvstore"
)

// findRecord loads and decodes the JSON record at key. A missing key is not
// an error: it returns nil, nil. Records that fail to decode return
// ErrCorrupt.
//
// Usage:
//
//	v, err := findRecord[model.Voucher](ctx, r.store, voucherKey(id))
func findRecord[T any](ctx context.Context, store kvstore.Store, key string) (*T, error) {
	data, err := store.Get(ctx, key)
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var record *T
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	if record == nil {
		return nil, fmt.Errorf("%w: %s: null record", ErrCorrupt, key)
	}
	return record, nil
}
