package items

import (
	"net/url"
	"testing"

	"shophub/ecode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestParseItemFiltersDefaults(t *testing.T) {
	f, err := ParseItemFilters(url.Values{})
	require.NoError(t, err)

	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 12, f.Limit)
	assert.Equal(t, "createdAt", f.SortBy)
	assert.Equal(t, "desc", f.SortOrder)
	assert.Nil(t, f.MinPrice)
	assert.Nil(t, f.MaxPrice)
	assert.Nil(t, f.MinRating)
	assert.Empty(t, f.Query())
}

func TestParseItemFiltersRejectsMalformedNumbers(t *testing.T) {
	cases := map[string]url.Values{
		"min_price":  {"min_price": {"cheap"}},
		"max_price":  {"max_price": {"12x"}},
		"min_rating": {"min_rating": {"four"}},
		"page":       {"page": {"abc"}},
		"limit":      {"limit": {"-3"}},
	}

	for field, query := range cases {
		_, err := ParseItemFilters(query)
		require.Error(t, err, field)

		var ve *ecode.ValidationError
		require.ErrorAs(t, err, &ve, field)
		assert.Equal(t, field, ve.Field)
	}
}

func TestParseItemFiltersRejectsUnknownSortField(t *testing.T) {
	_, err := ParseItemFilters(url.Values{"sort_by": {"password"}})
	require.Error(t, err)

	var ve *ecode.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "sort_by", ve.Field)

	_, err = ParseItemFilters(url.Values{"sort_order": {"sideways"}})
	require.Error(t, err)
}

func TestQueryCombinesPredicatesConjunctively(t *testing.T) {
	f, err := ParseItemFilters(url.Values{
		"min_price":  {"10"},
		"max_price":  {"200"},
		"category":   {"electronics"},
		"brand":      {"acme"},
		"min_rating": {"3.5"},
		"q":          {"c++ cable"},
	})
	require.NoError(t, err)

	query := f.Query()

	assert.Equal(t, bson.M{"$gte": 10.0, "$lte": 200.0}, query["price"])
	assert.Equal(t, "electronics", query["category"])
	assert.Equal(t, "acme", query["brand"])
	assert.Equal(t, bson.M{"$gte": 3.5}, query["rating"])

	or, ok := query["$or"].([]bson.M)
	require.True(t, ok)
	require.Len(t, or, 3)
	for _, clause := range or {
		for _, pred := range clause {
			m := pred.(bson.M)
			assert.Equal(t, "i", m["$options"])
			// user input is quoted, not treated as a pattern
			assert.Equal(t, `c\+\+ cable`, m["$regex"])
		}
	}
}

func TestQueryPriceBoundsIndependent(t *testing.T) {
	f, err := ParseItemFilters(url.Values{"min_price": {"99.5"}})
	require.NoError(t, err)
	assert.Equal(t, bson.M{"$gte": 99.5}, f.Query()["price"])

	f, err = ParseItemFilters(url.Values{"max_price": {"250"}})
	require.NoError(t, err)
	assert.Equal(t, bson.M{"$lte": 250.0}, f.Query()["price"])
}

func TestRemovingAFilterNeverAddsPredicates(t *testing.T) {
	full, err := ParseItemFilters(url.Values{
		"category": {"books"},
		"brand":    {"acme"},
	})
	require.NoError(t, err)

	reduced, err := ParseItemFilters(url.Values{"category": {"books"}})
	require.NoError(t, err)

	assert.Greater(t, len(full.Query()), len(reduced.Query()))
	for key := range reduced.Query() {
		assert.Contains(t, full.Query(), key)
	}
}

func TestFindOptionsWindow(t *testing.T) {
	f, err := ParseItemFilters(url.Values{
		"page":       {"3"},
		"limit":      {"20"},
		"sort_by":    {"price"},
		"sort_order": {"asc"},
	})
	require.NoError(t, err)

	opts := f.FindOptions()
	assert.Equal(t, int64(40), *opts.Skip)
	assert.Equal(t, int64(20), *opts.Limit)
	assert.Equal(t, bson.D{{Key: "price", Value: 1}}, opts.Sort)
}

func TestPagesMath(t *testing.T) {
	f, err := ParseItemFilters(url.Values{"limit": {"12"}})
	require.NoError(t, err)

	assert.Equal(t, int64(0), f.Pages(0))
	assert.Equal(t, int64(1), f.Pages(1))
	assert.Equal(t, int64(1), f.Pages(12))
	assert.Equal(t, int64(2), f.Pages(13))
	assert.Equal(t, int64(9), f.Pages(100))
}

func TestPagesIndependentOfRequestedPage(t *testing.T) {
	// an out-of-range page changes the window, never the totals
	inRange, err := ParseItemFilters(url.Values{"page": {"1"}, "limit": {"10"}})
	require.NoError(t, err)
	outOfRange, err := ParseItemFilters(url.Values{"page": {"999"}, "limit": {"10"}})
	require.NoError(t, err)

	assert.Equal(t, inRange.Pages(15), outOfRange.Pages(15))
	assert.Equal(t, int64(9980), *outOfRange.FindOptions().Skip)
}
