package models

import "time"

// Item is a purchasable catalog entry.
type Item struct {
	ItemID      string    `json:"itemid" bson:"itemid"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	Price       float64   `json:"price" bson:"price"`
	Category    string    `json:"category" bson:"category"`
	Brand       string    `json:"brand,omitempty" bson:"brand,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	Rating      float64   `json:"rating" bson:"rating"`
	Stock       int       `json:"stock" bson:"stock"`
	Tags        []string  `json:"tags" bson:"tags"`
	CreatedBy   string    `json:"createdBy" bson:"createdBy"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// ItemPayload is the client-supplied portion of an item for create/update.
type ItemPayload struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Brand       string   `json:"brand"`
	ImageURL    string   `json:"imageUrl"`
	Rating      float64  `json:"rating"`
	Stock       int      `json:"stock"`
	Tags        []string `json:"tags"`
}

// Pagination is the envelope reported alongside any paged item listing.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// FilterOptions holds the distinct values driving the catalog filter controls.
type FilterOptions struct {
	Categories []string `json:"categories"`
	Brands     []string `json:"brands"`
}
