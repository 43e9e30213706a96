package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/openclaw/voucher-server-go/internal/errors"
	"github.com/openclaw/voucher-server-go/internal/model"
	"github.com/openclaw/voucher-server-go/internal/util"
)

func TestPartnerService_SetPin(t *testing.T) {
	ctx := context.Background()

	t.Run("stores salted hash, never the pin", func(t *testing.T) {
		f := newFixture()
		f.setPin(t, "shop1", "1234")

		cred, err := f.partners.FindByID(ctx, "shop1")
		require.NoError(t, err)
		require.NotNil(t, cred)
		assert.Equal(t, util.HashPIN("1234", testSalt), cred.PinHash)
		assert.NotContains(t, cred.PinHash, "1234")
		assert.Equal(t, f.clock.Now().UnixMilli(), cred.UpdatedAt)

		raw, err := f.store.Get(ctx, "partner:shop1")
		require.NoError(t, err)
		assert.NotContains(t, string(raw), `"1234"`)
	})

	t.Run("replacing the pin invalidates the old one", func(t *testing.T) {
		f := newFixture()
		id := f.create(t, "shop1", 10)
		f.setPin(t, "shop1", "1234")
		f.clock.Advance(time.Second)
		f.setPin(t, "shop1", "9999")

		_, err := f.svc.Redeem(ctx, RedeemInput{VoucherID: id, PartnerID: "shop1", Pin: "1234"})
		assertCode(t, err, apperrors.ErrCodeForbidden)

		_, err = f.svc.Redeem(ctx, RedeemInput{VoucherID: id, PartnerID: "shop1", Pin: "9999"})
		require.NoError(t, err)
	})

	t.Run("rejects invalid input before writing", func(t *testing.T) {
		partners := &mockPartnerRepo{}
		svc := NewPartnerService(partners, testSalt, nil)

		for _, in := range []SetPinInput{
			{PartnerID: "", Pin: "1234"},
			{PartnerID: "shop1", Pin: "12"},
			{PartnerID: "shop1", Pin: "123456789012345678901234567890123"},
		} {
			err := svc.SetPin(ctx, in)
			assertCode(t, err, apperrors.ErrCodeBadRequest)
		}
		partners.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("store failure is a server error", func(t *testing.T) {
		partners := &mockPartnerRepo{}
		partners.On("Upsert", mock.Anything, mock.AnythingOfType("*model.PartnerCredential")).Return(errors.New("down"))
		svc := NewPartnerService(partners, testSalt, nil)

		err := svc.SetPin(ctx, SetPinInput{PartnerID: "shop1", Pin: "1234"})
		assertCode(t, err, apperrors.ErrCodeServerError)
	})
}

func TestVoucherLifecycle_WrongPartner(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.setPin(t, "shop1", "1111")
	f.setPin(t, "shop2", "2222")
	id := f.create(t, "shop1", 30)

	_, err := f.svc.Redeem(ctx, RedeemInput{VoucherID: id, PartnerID: "shop2", Pin: "2222"})
	assertCode(t, err, apperrors.ErrCodeForbidden)

	res, err := f.svc.Redeem(ctx, RedeemInput{VoucherID: id, PartnerID: "shop1", Pin: "1111"})
	require.NoError(t, err)
	assert.Equal(t, model.VoucherStatusRedeemed, res.Status)
}

func TestVoucherLifecycle_RedeemOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.setPin(t, "shop1", "1234")
	id := f.create(t, "shop1", 30)
	in := RedeemInput{VoucherID: id, PartnerID: "shop1", Pin: "1234"}

	first, err := f.svc.Redeem(ctx, in)
	require.NoError(t, err)

	_, err = f.svc.Redeem(ctx, in)
	assertCode(t, err, apperrors.ErrCodeAlreadyRedeemed)

	view, err := f.svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.VoucherStatusRedeemed, view.Status)

	// Redeemed vouchers stay redeemed after the ttl passes.
	f.clock.Advance(time.Hour)
	view, err = f.svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.VoucherStatusRedeemed, view.Status)

	stored, err := f.vouchers.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, first.RedeemedAt, *stored.RedeemedAt)
}

func TestVoucherLifecycle_PinSetAfterCreate(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	id := f.create(t, "shop1", 30)

	_, err := f.svc.Redeem(ctx, RedeemInput{VoucherID: id, PartnerID: "shop1", Pin: "1234"})
	assertCode(t, err, apperrors.ErrCodeForbidden)

	f.setPin(t, "shop1", "1234")
	_, err = f.svc.Redeem(ctx, RedeemInput{VoucherID: id, PartnerID: "shop1", Pin: "1234"})
	require.NoError(t, err)
}
