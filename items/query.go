package items

import (
	"math"
	"net/url"
	"strconv"

	"shophub/ecode"
	"shophub/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultPage  = 1
	defaultLimit = 12
)

// Fields a listing may sort on. Anything else is rejected rather than
// forwarded into the query.
var sortableFields = map[string]bool{
	"createdAt": true,
	"updatedAt": true,
	"price":     true,
	"rating":    true,
	"title":     true,
	"stock":     true,
}

// ItemFilters is the parsed, validated form of the catalog listing query
// string. Optional numeric fields are nil when absent.
type ItemFilters struct {
	Page      int
	Limit     int
	MinPrice  *float64
	MaxPrice  *float64
	Category  string
	Brand     string
	MinRating *float64
	Q         string
	SortBy    string
	SortOrder string
}

// ParseItemFilters validates every supplied parameter before any query is
// built. A malformed value is rejected with an error naming the field, never
// silently dropped.
func ParseItemFilters(q url.Values) (*ItemFilters, error) {
	f := &ItemFilters{
		Page:      defaultPage,
		Limit:     defaultLimit,
		Category:  q.Get("category"),
		Brand:     q.Get("brand"),
		Q:         q.Get("q"),
		SortBy:    "createdAt",
		SortOrder: "desc",
	}

	var err error
	if f.Page, err = parsePositiveInt(q, "page", defaultPage); err != nil {
		return nil, err
	}
	if f.Limit, err = parsePositiveInt(q, "limit", defaultLimit); err != nil {
		return nil, err
	}
	if f.MinPrice, err = parseOptionalFloat(q, "min_price"); err != nil {
		return nil, err
	}
	if f.MaxPrice, err = parseOptionalFloat(q, "max_price"); err != nil {
		return nil, err
	}
	if f.MinRating, err = parseOptionalFloat(q, "min_rating"); err != nil {
		return nil, err
	}

	if s := q.Get("sort_by"); s != "" {
		if !sortableFields[s] {
			return nil, ecode.Validation("sort_by", "unsupported sort field")
		}
		f.SortBy = s
	}
	if s := q.Get("sort_order"); s != "" {
		if s != "asc" && s != "desc" {
			return nil, ecode.Validation("sort_order", "must be asc or desc")
		}
		f.SortOrder = s
	}

	return f, nil
}

// Query combines all supplied predicates conjunctively. The free-text term
// matches title, description, or tag membership, case-insensitively.
func (f *ItemFilters) Query() bson.M {
	filter := bson.M{}

	price := bson.M{}
	if f.MinPrice != nil {
		price["$gte"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		price["$lte"] = *f.MaxPrice
	}
	if len(price) > 0 {
		filter["price"] = price
	}

	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Brand != "" {
		filter["brand"] = f.Brand
	}
	if f.MinRating != nil {
		filter["rating"] = bson.M{"$gte": *f.MinRating}
	}
	if f.Q != "" {
		filter["$or"] = []bson.M{
			utils.RegexFilter("title", f.Q),
			utils.RegexFilter("description", f.Q),
			utils.RegexFilter("tags", f.Q),
		}
	}

	return filter
}

// FindOptions applies the single-field sort and the page window. Ties on
// equal sort keys resolve in store order, which is not deterministic.
func (f *ItemFilters) FindOptions() *options.FindOptions {
	dir := -1
	if f.SortOrder == "asc" {
		dir = 1
	}
	return options.Find().
		SetSort(bson.D{{Key: f.SortBy, Value: dir}}).
		SetSkip(int64((f.Page - 1) * f.Limit)).
		SetLimit(int64(f.Limit))
}

// Pages reports the total page count for a match total, independent of the
// page actually requested.
func (f *ItemFilters) Pages(total int64) int64 {
	return int64(math.Ceil(float64(total) / float64(f.Limit)))
}

func parsePositiveInt(q url.Values, field string, fallback int) (int, error) {
	s := q.Get(field)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, ecode.Validation(field, "must be a positive integer")
	}
	return n, nil
}

func parseOptionalFloat(q url.Values, field string) (*float64, error) {
	s := q.Get(field)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, ecode.Validation(field, "must be a number")
	}
	return &v, nil
}
