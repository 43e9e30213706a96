package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/openclaw/voucher-server-go/internal/kvstore"
	"github.com/openclaw/voucher-server-go/internal/model"
)

const partnerKeyPrefix = "partner:"

type PartnerRepository interface {
	// FindByID returns nil, nil when no credential is configured.
	FindByID(ctx context.Context, partnerID string) (*model.PartnerCredential, error)
	// Upsert replaces the partner's credential record.
	Upsert(ctx context.Context, p *model.PartnerCredential) error
}

type partnerRepo struct {
	store   kvstore.Store
	timeout time.Duration
}

func NewPartnerRepository(store kvstore.Store, timeout time.Duration) PartnerRepository {
	return &partnerRepo{store: store, timeout: timeout}
}

func partnerKey(id string) string {
	return partnerKeyPrefix + id
}

func (r *partnerRepo) FindByID(ctx context.Context, partnerID string) (*model.PartnerCredential, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	return findRecord[model.PartnerCredential](ctx, r.store, partnerKey(partnerID))
}

func (r *partnerRepo) Upsert(ctx context.Context, p *model.PartnerCredential) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal partner: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.store.Set(ctx, partnerKey(p.PartnerID), data); err != nil {
		return fmt.Errorf("upsert partner: %w", err)
	}
	return nil
}
