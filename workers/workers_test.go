package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"fusevip/models"
	"fusevip/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPriceCache_FallbackUntilRefreshed(t *testing.T) {
	cache := NewPriceCache()

	price, _, ok := cache.Latest()
	assert.False(t, ok)
	assert.Equal(t, FallbackXRPPrice, price)

	src := &testutil.MockPriceSource{}
	src.On("XRPUSD", mock.Anything).Return(0.0, errors.New("rate limited")).Once()
	refreshPrice(context.Background(), src, cache)
	_, _, ok = cache.Latest()
	assert.False(t, ok)

	src.On("XRPUSD", mock.Anything).Return(0.61, nil).Once()
	refreshPrice(context.Background(), src, cache)
	price, at, ok := cache.Latest()
	assert.True(t, ok)
	assert.Equal(t, 0.61, price)
	assert.False(t, at.IsZero())
	src.AssertExpectations(t)
}

func TestStartPriceRefresher_StopsWithContext(t *testing.T) {
	cache := NewPriceCache()
	src := &testutil.MockPriceSource{}
	src.On("XRPUSD", mock.Anything).Return(0.75, nil)

	ctx, cancel := context.WithCancel(context.Background())
	StartPriceRefresher(ctx, src, cache, time.Hour)

	assert.Eventually(t, func() bool {
		_, _, ok := cache.Latest()
		return ok
	}, time.Second, 10*time.Millisecond)
	cancel()
}

func TestClaimPendingGuestPurchases(t *testing.T) {
	db := testutil.NewDB(t)

	buyer := testutil.CreateProfile(t, db, "11111111-1111-1111-1111-111111111111", "Buyer@Example.com")
	require.NoError(t, db.Create(&models.GuestPurchase{
		Email: "buyer@example.com", CardType: "Gold Card", SessionID: "cs_1", Amount: 250,
		Status: models.GUEST_PURCHASE_STATUS_COMPLETED,
	}).Error)
	require.NoError(t, db.Create(&models.GuestPurchase{
		Email: "stranger@example.com", CardType: "Premium Card", SessionID: "cs_2", Amount: 100,
		Status: models.GUEST_PURCHASE_STATUS_COMPLETED,
	}).Error)

	assert.Equal(t, 1, ClaimPendingGuestPurchases(db))

	var cards []models.UserCard
	require.NoError(t, db.Where("user_id = ?", buyer.ID).Find(&cards).Error)
	require.Len(t, cards, 1)
	assert.Equal(t, "Gold Card", cards[0].CardType)
	assert.Equal(t, models.USER_CARD_STATUS_ACTIVE, cards[0].Status)
	require.NotNil(t, cards[0].SessionID)
	assert.Equal(t, "cs_1", *cards[0].SessionID)

	var profile models.Profile
	require.NoError(t, db.Where("id = ?", buyer.ID).First(&profile).Error)
	assert.True(t, profile.IsCardHolder)

	var claimed models.GuestPurchase
	require.NoError(t, db.Where("session_id = ?", "cs_1").First(&claimed).Error)
	assert.Equal(t, models.GUEST_PURCHASE_STATUS_CLAIMED, claimed.Status)
	require.NotNil(t, claimed.ClaimedBy)
	assert.Equal(t, buyer.ID, *claimed.ClaimedBy)

	// a second pass finds nothing new to claim
	assert.Equal(t, 0, ClaimPendingGuestPurchases(db))
}

func TestClaimGuestPurchasesFor(t *testing.T) {
	db := testutil.NewDB(t)

	require.NoError(t, db.Create(&models.GuestPurchase{
		Email: "new@example.com", CardType: "Diamond Card", SessionID: "cs_3", Amount: 1000,
		Status: models.GUEST_PURCHASE_STATUS_COMPLETED,
	}).Error)
	profile := testutil.CreateProfile(t, db, "22222222-2222-2222-2222-222222222222", "new@example.com")

	n, err := ClaimGuestPurchasesFor(db, profile)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = ClaimGuestPurchasesFor(db, profile)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = ClaimGuestPurchasesFor(db, models.Profile{ID: "x"})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestClaimGuestPurchase_LosesRace(t *testing.T) {
	db := testutil.NewDB(t)

	gp := models.GuestPurchase{Email: "a@example.com", CardType: "Gold Card", Status: models.GUEST_PURCHASE_STATUS_CLAIMED}
	require.NoError(t, db.Create(&gp).Error)

	ok, err := claimGuestPurchase(db, gp, "33333333-3333-3333-3333-333333333333")
	require.NoError(t, err)
	assert.False(t, ok)

	var count int
	require.NoError(t, db.Model(&models.UserCard{}).Count(&count).Error)
	assert.Equal(t, 0, count)
}
