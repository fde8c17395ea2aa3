package cart

import (
	"testing"

	"shophub/models"

	"github.com/stretchr/testify/assert"
)

func TestTotalsShippingWaivedAtThreshold(t *testing.T) {
	lines := []models.CartLine{
		{ItemID: "a", Quantity: 1, Price: 100},
		{ItemID: "b", Quantity: 1, Price: 450},
	}

	subtotal, shipping, total := Totals(lines)
	assert.Equal(t, 550.0, subtotal)
	assert.Equal(t, 0.0, shipping)
	assert.Equal(t, 550.0, total)

	// exactly at the threshold still ships free
	subtotal, shipping, total = Totals([]models.CartLine{{ItemID: "a", Quantity: 1, Price: 500}})
	assert.Equal(t, 500.0, subtotal)
	assert.Equal(t, 0.0, shipping)
	assert.Equal(t, 500.0, total)
}

func TestTotalsShippingBelowThreshold(t *testing.T) {
	subtotal, shipping, total := Totals([]models.CartLine{{ItemID: "a", Quantity: 1, Price: 100}})
	assert.Equal(t, 100.0, subtotal)
	assert.Equal(t, 50.0, shipping)
	assert.Equal(t, 150.0, total)
}

func TestTotalsQuantityMultiplies(t *testing.T) {
	subtotal, _, _ := Totals([]models.CartLine{
		{ItemID: "a", Quantity: 3, Price: 20},
		{ItemID: "b", Quantity: 2, Price: 5.5},
	})
	assert.Equal(t, 71.0, subtotal)
}

func TestTotalsEmptyCart(t *testing.T) {
	subtotal, shipping, total := Totals(nil)
	assert.Equal(t, 0.0, subtotal)
	assert.Equal(t, 0.0, shipping)
	assert.Equal(t, 0.0, total)
}

func TestTotalsUnavailableLinesContributeNothing(t *testing.T) {
	lines := []models.CartLine{
		{ItemID: "gone", Quantity: 4, Unavailable: true},
		{ItemID: "a", Quantity: 1, Price: 100},
	}

	subtotal, shipping, _ := Totals(lines)
	assert.Equal(t, 100.0, subtotal)
	assert.Equal(t, 50.0, shipping)

	// a cart holding only stale references has nothing to ship
	subtotal, shipping, total := Totals([]models.CartLine{{ItemID: "gone", Quantity: 1, Unavailable: true}})
	assert.Equal(t, 0.0, subtotal)
	assert.Equal(t, 0.0, shipping)
	assert.Equal(t, 0.0, total)
}
