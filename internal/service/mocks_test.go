package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/openclaw/voucher-server-go/internal/model"
)

// Mock repositories
type mockVoucherRepo struct {
	mock.Mock
}

func (m *mockVoucherRepo) FindByID(ctx context.Context, voucherID string) (*model.Voucher, error) {
	args := m.Called(ctx, voucherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Voucher), args.Error(1)
}

func (m *mockVoucherRepo) Create(ctx context.Context, v *model.Voucher) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *mockVoucherRepo) UpdateIfStatus(ctx context.Context, v *model.Voucher, expected model.VoucherStatus) (bool, error) {
	args := m.Called(ctx, v, expected)
	return args.Bool(0), args.Error(1)
}

type mockPartnerRepo struct {
	mock.Mock
}

func (m *mockPartnerRepo) FindByID(ctx context.Context, partnerID string) (*model.PartnerCredential, error) {
	args := m.Called(ctx, partnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PartnerCredential), args.Error(1)
}

func (m *mockPartnerRepo) Upsert(ctx context.Context, cred *model.PartnerCredential) error {
	args := m.Called(ctx, cred)
	return args.Error(0)
}
