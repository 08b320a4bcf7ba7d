package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drinkmate/drinkmate-go/internal/domain/entities/cart"
)

func newPricingService(t *testing.T) *PricingService {
	t.Helper()
	svc := NewPricingService(testLogger(t), testTracker())
	svc.SetGiftOptions([]cart.FreeGiftProduct{
		{ID: "gift-bottle", Name: "Sparkle Bottle"},
		{ID: "gift-flavor", Name: "Cola Flavor"},
	})
	return svc
}

func TestShippingProgressClamped(t *testing.T) {
	svc := newPricingService(t)

	cases := []struct {
		total      float64
		percentage float64
		remaining  float64
		reached    bool
	}{
		{0, 0, 250, false},
		{125, 50, 125, false},
		{250, 100, 0, true},
		{1000, 100, 0, true},
		{-50, 0, 300, false},
	}

	for _, tc := range cases {
		p := svc.ShippingProgress(tc.total)
		assert.InDelta(t, tc.percentage, p.Percentage, 0.001, "total %v", tc.total)
		assert.InDelta(t, tc.remaining, p.Remaining, 0.001, "total %v", tc.total)
		assert.Equal(t, tc.reached, p.Reached, "total %v", tc.total)
	}
}

func TestGiftBandIsHalfOpen(t *testing.T) {
	svc := newPricingService(t)
	key := cart.GuestKey("sess-1")

	assert.False(t, svc.GiftState(key, 99.99).Eligible)
	assert.True(t, svc.GiftState(key, 100.00).Eligible)
	assert.True(t, svc.GiftState(key, 149.99).Eligible)
	assert.False(t, svc.GiftState(key, 150.00).Eligible)
	assert.False(t, svc.GiftState(key, 500).Eligible)
}

func TestSelectGiftInsideBand(t *testing.T) {
	svc := newPricingService(t)
	key := cart.GuestKey("sess-1")

	state, err := svc.SelectGift(key, "gift-bottle", 120)
	require.NoError(t, err)
	require.NotNil(t, state.Selected)
	assert.Equal(t, "gift-bottle", state.Selected.ID)
	assert.Len(t, state.Options, 2)
}

func TestSelectGiftRejectedOutsideBand(t *testing.T) {
	svc := newPricingService(t)
	key := cart.GuestKey("sess-1")

	_, err := svc.SelectGift(key, "gift-bottle", 99.99)
	assert.Error(t, err)

	_, err = svc.SelectGift(key, "gift-bottle", 150)
	assert.Error(t, err)
}

func TestSelectGiftRejectsUnknownProduct(t *testing.T) {
	svc := newPricingService(t)

	_, err := svc.SelectGift(cart.GuestKey("sess-1"), "not-a-gift", 120)
	assert.Error(t, err)
}

func TestSelectionClearedWhenTotalLeavesBand(t *testing.T) {
	svc := newPricingService(t)
	key := cart.GuestKey("sess-1")

	_, err := svc.SelectGift(key, "gift-flavor", 120)
	require.NoError(t, err)

	// Total grows past the band: selection drops.
	state := svc.GiftState(key, 150)
	assert.False(t, state.Eligible)
	assert.Nil(t, state.Selected)

	// Re-entering the band does not resurrect the old choice.
	state = svc.GiftState(key, 120)
	assert.True(t, state.Eligible)
	assert.Nil(t, state.Selected)
}

func TestSelectionClearedWhenTotalDropsBelowBand(t *testing.T) {
	svc := newPricingService(t)
	key := cart.GuestKey("sess-1")

	_, err := svc.SelectGift(key, "gift-flavor", 100)
	require.NoError(t, err)

	state := svc.GiftState(key, 40)
	assert.False(t, state.Eligible)
	assert.Nil(t, state.Selected)
}

func TestSelectionsAreKeyScoped(t *testing.T) {
	svc := newPricingService(t)

	_, err := svc.SelectGift(cart.UserKey("u1"), "gift-bottle", 120)
	require.NoError(t, err)

	assert.Nil(t, svc.GiftState(cart.GuestKey("sess-1"), 120).Selected)
	assert.NotNil(t, svc.GiftState(cart.UserKey("u1"), 120).Selected)
}
