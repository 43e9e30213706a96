package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/openclaw/voucher-server-go/internal/kvstore"
	"github.com/openclaw/voucher-server-go/internal/model"
)

const voucherKeyPrefix = "voucher:"

// statusField is the JSON field UpdateIfStatus compares against.
const statusField = "status"

type VoucherRepository interface {
	// FindByID returns nil, nil when the voucher does not exist.
	FindByID(ctx context.Context, id string) (*model.Voucher, error)
	// Create returns ErrAlreadyExists if the id is taken.
	Create(ctx context.Context, v *model.Voucher) error
	// UpdateIfStatus writes v only while the stored status still equals
	// expected, and reports whether it did.
	UpdateIfStatus(ctx context.Context, v *model.Voucher, expected model.VoucherStatus) (bool, error)
}

type voucherRepo struct {
	store   kvstore.Store
	timeout time.Duration
}

func NewVoucherRepository(store kvstore.Store, timeout time.Duration) VoucherRepository {
	return &voucherRepo{store: store, timeout: timeout}
}

func voucherKey(id string) string {
	return voucherKeyPrefix + id
}

func (r *voucherRepo) FindByID(ctx context.Context, id string) (*model.Voucher, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	v, err := findRecord[model.Voucher](ctx, r.store, voucherKey(id))
	if err != nil || v == nil {
		return nil, err
	}
	if v.VoucherID != id {
		return nil, fmt.Errorf("%w: %s: id mismatch", ErrCorrupt, voucherKey(id))
	}
	return v, nil
}

func (r *voucherRepo) Create(ctx context.Context, v *model.Voucher) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal voucher: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	ok, err := r.store.SetNX(ctx, voucherKey(v.VoucherID), data)
	if err != nil {
		return fmt.Errorf("create voucher: %w", err)
	}
	if !ok {
		return ErrAlreadyExists
	}
	return nil
}

func (r *voucherRepo) UpdateIfStatus(ctx context.Context, v *model.Voucher, expected model.VoucherStatus) (bool, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return false, fmt.Errorf("marshal voucher: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	swapped, err := r.store.CompareAndSwap(ctx, voucherKey(v.VoucherID), statusField, string(expected), data)
	switch {
	case errors.Is(err, kvstore.ErrMalformed):
		return false, fmt.Errorf("%w: %s", ErrCorrupt, voucherKey(v.VoucherID))
	case err != nil:
		return false, fmt.Errorf("update voucher: %w", err)
	}
	return swapped, nil
}
