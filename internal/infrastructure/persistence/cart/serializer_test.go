package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	entities "github.com/drinkmate/drinkmate-go/internal/domain/entities/cart"
)

func TestDecodeItemsRoundTrip(t *testing.T) {
	items := []entities.LineItem{
		{ID: "sparkler", Name: "OmniFizz", Price: 399, Quantity: 1, Image: "/media/products/sparkler.webp"},
		{ID: "co2", Name: "CO2 Cylinder", Price: 65.5, Quantity: 2},
	}

	encoded, err := encodeItems(items)
	require.NoError(t, err)

	decoded, err := decodeItems(encoded)
	require.NoError(t, err)
	assert.Equal(t, items, decoded)
}

func TestDecodeItemsEmptyValue(t *testing.T) {
	decoded, err := decodeItems("")
	require.NoError(t, err)
	assert.NotNil(t, decoded)
	assert.Empty(t, decoded)
}

func TestDecodeItemsMalformedJSON(t *testing.T) {
	for _, raw := range []string{
		"not json at all",
		`{"items": truncated`,
		`{"id": "x"}`, // object where an array is expected
		`[{"id": "x", "quantity": "NaN"}]`,
	} {
		decoded, err := decodeItems(raw)
		require.ErrorIs(t, err, ErrCorruptCart, "input: %s", raw)
		assert.NotNil(t, decoded)
		assert.Empty(t, decoded, "input: %s", raw)
	}
}

func TestDecodeItemsDropsInvalidEntries(t *testing.T) {
	raw := `[
		{"id": "sparkler", "name": "OmniFizz", "price": 399, "quantity": 1},
		{"id": "", "name": "no id", "price": 5, "quantity": 1},
		{"id": "ghost", "name": "zero qty", "price": 5, "quantity": 0},
		{"id": "anti", "name": "negative qty", "price": 5, "quantity": -2}
	]`

	decoded, err := decodeItems(raw)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	assert.Equal(t, "sparkler", decoded[0].ID)
}

func TestEncodeItemsNilBecomesEmptyArray(t *testing.T) {
	encoded, err := encodeItems(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", encoded)
}
