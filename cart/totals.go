package cart

import "shophub/models"

const (
	// Orders at or above this subtotal ship free.
	FreeShippingThreshold = 500.0
	ShippingFee           = 50.0
)

// Totals recomputes the derived cart amounts from scratch. Unavailable lines
// (stale references to deleted items) contribute nothing. Shipping applies
// only when something shippable is in the cart.
func Totals(lines []models.CartLine) (subtotal, shipping, total float64) {
	shippable := false
	for _, ln := range lines {
		if ln.Unavailable {
			continue
		}
		shippable = true
		subtotal += ln.Price * float64(ln.Quantity)
	}

	if shippable && subtotal < FreeShippingThreshold {
		shipping = ShippingFee
	}
	return subtotal, shipping, subtotal + shipping
}
