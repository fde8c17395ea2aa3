package models

import "time"

// CartItem is one (item, quantity) pair inside a stored cart. A cart never
// holds two entries for the same itemid.
type CartItem struct {
	ItemID   string `json:"itemId" bson:"itemId"`
	Quantity int    `json:"qty" bson:"qty"`
}

// Cart is the one server-side cart document per user, created lazily.
type Cart struct {
	UserID    string     `json:"userId" bson:"userId"`
	Items     []CartItem `json:"items" bson:"items"`
	UpdatedAt time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// CartLine is a cart entry resolved against the current catalog. Unavailable
// marks a stale reference whose item no longer exists; such lines contribute
// nothing to the subtotal.
type CartLine struct {
	ItemID      string  `json:"itemId"`
	Quantity    int     `json:"qty"`
	Title       string  `json:"title,omitempty"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	Stock       int     `json:"stock"`
	Unavailable bool    `json:"unavailable,omitempty"`
}

// CartView is the fully materialized cart with derived totals. Totals are
// recomputed on every read, never persisted.
type CartView struct {
	UserID   string     `json:"userId"`
	Lines    []CartLine `json:"items"`
	Subtotal float64    `json:"subtotal"`
	Shipping float64    `json:"shipping"`
	Total    float64    `json:"total"`
}
