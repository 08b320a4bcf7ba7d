package stores

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drinkmate/drinkmate-go/internal/domain/entities/cart"
)

func TestAddItemMergesByProductID(t *testing.T) {
	cs := NewCartsStore(nil)
	key := cart.GuestKey("sess-1")

	cs.AddItem(key, cart.LineItem{ID: "sparkler", Name: "OmniFizz", Price: 399, Quantity: 1})
	snapshot := cs.AddItem(key, cart.LineItem{ID: "sparkler", Name: "OmniFizz", Price: 399, Quantity: 2})

	require.Len(t, snapshot.Items, 1)
	assert.Equal(t, 3, snapshot.Items[0].Quantity)

	snapshot = cs.AddItem(key, cart.LineItem{ID: "co2", Price: 65.5, Quantity: 1})
	assert.Len(t, snapshot.Items, 2)
}

func TestRemoveItemAbsentIsNoOp(t *testing.T) {
	cs := NewCartsStore(nil)
	key := cart.GuestKey("sess-1")

	cs.AddItem(key, cart.LineItem{ID: "sparkler", Quantity: 1})
	snapshot := cs.RemoveItem(key, "never-added")

	require.Len(t, snapshot.Items, 1)
	assert.Equal(t, "sparkler", snapshot.Items[0].ID)

	snapshot = cs.RemoveItem(key, "sparkler")
	assert.Empty(t, snapshot.Items)
}

func TestUpdateQuantityZeroRemoves(t *testing.T) {
	cs := NewCartsStore(nil)
	key := cart.GuestKey("sess-1")

	cs.AddItem(key, cart.LineItem{ID: "sparkler", Quantity: 2})
	cs.AddItem(key, cart.LineItem{ID: "co2", Quantity: 1})

	snapshot := cs.UpdateQuantity(key, "sparkler", 5)
	require.Len(t, snapshot.Items, 2)
	assert.Equal(t, 5, snapshot.Items[0].Quantity)

	snapshot = cs.UpdateQuantity(key, "sparkler", 0)
	require.Len(t, snapshot.Items, 1)
	assert.Equal(t, "co2", snapshot.Items[0].ID)

	snapshot = cs.UpdateQuantity(key, "co2", -3)
	assert.Empty(t, snapshot.Items)
}

func TestClearCart(t *testing.T) {
	cs := NewCartsStore(nil)
	key := cart.GuestKey("sess-1")

	cs.AddItem(key, cart.LineItem{ID: "sparkler", Quantity: 1})
	cs.AddItem(key, cart.LineItem{ID: "co2", Quantity: 2})

	snapshot := cs.ClearCart(key)
	assert.Empty(t, snapshot.Items)

	// Clearing an untouched key yields an empty cart, not a panic.
	snapshot = cs.ClearCart("drinkmate-cart-someone-else")
	assert.Empty(t, snapshot.Items)
}

func TestKeysAreIsolated(t *testing.T) {
	cs := NewCartsStore(nil)

	cs.AddItem(cart.GuestKey("sess-1"), cart.LineItem{ID: "sparkler", Quantity: 1})
	cs.AddItem(cart.UserKey("u1"), cart.LineItem{ID: "co2", Quantity: 2})

	guest, ok := cs.GetCart(cart.GuestKey("sess-1"))
	require.True(t, ok)
	user, ok := cs.GetCart(cart.UserKey("u1"))
	require.True(t, ok)

	assert.Equal(t, "sparkler", guest.Items[0].ID)
	assert.Equal(t, "co2", user.Items[0].ID)
	assert.Equal(t, 2, cs.Count())
}

func TestSnapshotsDoNotAliasStore(t *testing.T) {
	cs := NewCartsStore(nil)
	key := cart.GuestKey("sess-1")

	snapshot := cs.AddItem(key, cart.LineItem{ID: "sparkler", Quantity: 1})
	snapshot.Items[0].Quantity = 99

	fresh, ok := cs.GetCart(key)
	require.True(t, ok)
	assert.Equal(t, 1, fresh.Items[0].Quantity)
}

func TestCleanupExpired(t *testing.T) {
	cs := NewCartsStore(nil)

	cs.AddItem(cart.GuestKey("sess-1"), cart.LineItem{ID: "sparkler", Quantity: 1})
	cs.AddItem(cart.UserKey("u1"), cart.LineItem{ID: "co2", Quantity: 1})

	// Nothing is older than an hour yet.
	assert.Zero(t, cs.CleanupExpired(time.Hour))
	assert.Equal(t, 2, cs.Count())

	// Everything is older than zero.
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, 2, cs.CleanupExpired(0))
	assert.Zero(t, cs.Count())
}

func TestCapEvictsLeastRecentCart(t *testing.T) {
	cs := NewCartsStoreWithLimit(nil, 2)

	cs.AddItem(cart.GuestKey("sess-a"), cart.LineItem{ID: "old", Quantity: 1})
	time.Sleep(2 * time.Millisecond)
	cs.AddItem(cart.GuestKey("sess-b"), cart.LineItem{ID: "mid", Quantity: 1})
	time.Sleep(2 * time.Millisecond)

	// Touching sess-a makes sess-b the eviction candidate.
	cs.AddItem(cart.GuestKey("sess-a"), cart.LineItem{ID: "old", Quantity: 1})
	cs.AddItem(cart.GuestKey("sess-c"), cart.LineItem{ID: "new", Quantity: 1})

	assert.Equal(t, 2, cs.Count())
	_, ok := cs.GetCart(cart.GuestKey("sess-b"))
	assert.False(t, ok)
	_, ok = cs.GetCart(cart.GuestKey("sess-a"))
	assert.True(t, ok)
	_, ok = cs.GetCart(cart.GuestKey("sess-c"))
	assert.True(t, ok)
}

func TestZeroCapDisablesEviction(t *testing.T) {
	cs := NewCartsStoreWithLimit(nil, 0)

	for _, sess := range []string{"a", "b", "c", "d"} {
		cs.AddItem(cart.GuestKey(sess), cart.LineItem{ID: "x", Quantity: 1})
	}
	assert.Equal(t, 4, cs.Count())
}
