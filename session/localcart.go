package session

// LocalCart is the anonymous, client-held cart: a mapping from item identity
// to quantity with no server-side existence. It enforces the same uniqueness
// invariant as the server cart. Not safe for concurrent use; cart sessions
// are single-threaded.
type LocalCart struct {
	items map[string]int
}

func NewLocalCart() *LocalCart {
	return &LocalCart{items: make(map[string]int)}
}

// SetQuantity replaces the quantity for an item outright. Quantities below 1
// are ignored.
func (lc *LocalCart) SetQuantity(itemID string, qty int) {
	if itemID == "" || qty < 1 {
		return
	}
	lc.items[itemID] = qty
}

// Increment bumps an item's quantity by delta, clamping the result at 1. A
// missing item is inserted.
func (lc *LocalCart) Increment(itemID string, delta int) {
	if itemID == "" {
		return
	}
	qty := lc.items[itemID] + delta
	if qty < 1 {
		qty = 1
	}
	lc.items[itemID] = qty
}

// Remove deletes an item's entry. Removing an absent item is a no-op.
func (lc *LocalCart) Remove(itemID string) {
	delete(lc.items, itemID)
}

func (lc *LocalCart) Quantity(itemID string) int {
	return lc.items[itemID]
}

// Items returns a copy of the mapping.
func (lc *LocalCart) Items() map[string]int {
	out := make(map[string]int, len(lc.items))
	for id, qty := range lc.items {
		out[id] = qty
	}
	return out
}

func (lc *LocalCart) Len() int {
	return len(lc.items)
}

func (lc *LocalCart) Clear() {
	lc.items = make(map[string]int)
}
