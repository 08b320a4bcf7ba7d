package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStorageKeys(t *testing.T) {
	assert.Equal(t, "drinkmate-cart-guest-sess-1", GuestKey("sess-1"))
	assert.Equal(t, "drinkmate-cart-u42", UserKey("u42"))
	assert.NotEqual(t, GuestKey("sess-1"), GuestKey("sess-2"), "each session gets its own guest cart")
	assert.NotEqual(t, GuestKey("sess-1"), UserKey("guest-impersonator"))
}

func TestUserIDFromKey(t *testing.T) {
	assert.Equal(t, "u42", UserIDFromKey(UserKey("u42")))
	assert.Equal(t, "", UserIDFromKey(GuestKey("sess-1")))
	assert.Equal(t, "", UserIDFromKey("drinkmate-cart-guest"))
	assert.Equal(t, "", UserIDFromKey("some-other-key"))
}

func TestTotals(t *testing.T) {
	c := NewCart(GuestKey("sess-1"))
	c.Items = []LineItem{
		{ID: "sparkler", Name: "OmniFizz", Price: 399.0, Quantity: 1},
		{ID: "co2", Name: "CO2 Cylinder", Price: 65.5, Quantity: 2},
	}

	assert.Equal(t, 3, c.TotalItems())
	assert.InDelta(t, 530.0, c.TotalPrice(), 0.001)
	assert.False(t, c.IsEmpty())

	c.Items = nil
	assert.True(t, c.IsEmpty())
	assert.Zero(t, c.TotalItems())
	assert.Zero(t, c.TotalPrice())
}

func TestCloneIsolation(t *testing.T) {
	c := NewCart(GuestKey("sess-1"))
	c.Items = []LineItem{{ID: "a", Quantity: 1}}

	clone := c.Clone()
	clone.Items[0].Quantity = 99
	clone.Items = append(clone.Items, LineItem{ID: "b", Quantity: 1})

	assert.Equal(t, 1, c.Items[0].Quantity)
	assert.Len(t, c.Items, 1)
}

func TestMergeItems(t *testing.T) {
	c := NewCart(UserKey("u1"))
	c.Items = []LineItem{
		{ID: "sparkler", Quantity: 1, Price: 399},
		{ID: "co2", Quantity: 1, Price: 65.5},
	}

	merged := c.MergeItems([]LineItem{
		{ID: "co2", Quantity: 2, Price: 65.5},     // existing: quantities sum
		{ID: "bottle", Quantity: 1, Price: 29},    // new: appended
		{ID: "phantom", Quantity: 0, Price: 10},   // non-positive: skipped
		{ID: "phantom2", Quantity: -3, Price: 10}, // non-positive: skipped
	})

	assert.Equal(t, 2, merged)
	assert.Len(t, c.Items, 3)
	assert.Equal(t, 3, c.Items[1].Quantity)
	assert.Equal(t, "bottle", c.Items[2].ID)
}

func TestMergeItemsIntoEmpty(t *testing.T) {
	c := NewCart(UserKey("u1"))
	merged := c.MergeItems([]LineItem{{ID: "sparkler", Quantity: 2}})

	assert.Equal(t, 1, merged)
	assert.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.Items[0].Quantity)
}
