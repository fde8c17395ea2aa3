package session

import (
	"context"
	"errors"
	"testing"

	"shophub/cart"
	"shophub/ecode"
	"shophub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCartService records server-cart state in memory.
type fakeCartService struct {
	items   map[string]int
	failIDs map[string]bool
	calls   int
}

func newFakeCartService() *fakeCartService {
	return &fakeCartService{items: make(map[string]int), failIDs: make(map[string]bool)}
}

func (f *fakeCartService) SetQuantity(_ context.Context, itemID string, qty int) error {
	f.calls++
	if f.failIDs[itemID] {
		return errors.New("store unreachable")
	}
	f.items[itemID] = qty
	return nil
}

func (f *fakeCartService) Increment(_ context.Context, itemID string, delta int) error {
	qty := f.items[itemID] + delta
	if qty < 1 {
		qty = 1
	}
	f.items[itemID] = qty
	return nil
}

func (f *fakeCartService) Remove(_ context.Context, itemID string) error {
	delete(f.items, itemID)
	return nil
}

func (f *fakeCartService) View(_ context.Context) (models.CartView, error) {
	view := models.CartView{Lines: []models.CartLine{}}
	for id, qty := range f.items {
		view.Lines = append(view.Lines, models.CartLine{ItemID: id, Quantity: qty, Price: 10})
	}
	view.Subtotal, view.Shipping, view.Total = cart.Totals(view.Lines)
	return view, nil
}

// fakeCatalog resolves a fixed set of items.
type fakeCatalog struct {
	items map[string]models.Item
}

func (f *fakeCatalog) GetItem(_ context.Context, itemID string) (models.Item, error) {
	it, ok := f.items[itemID]
	if !ok {
		return models.Item{}, ecode.ErrNotFound
	}
	return it, nil
}

func testCatalog() *fakeCatalog {
	return &fakeCatalog{items: map[string]models.Item{
		"A": {ItemID: "A", Title: "Widget", Price: 100},
		"B": {ItemID: "B", Title: "Gadget", Price: 450},
	}}
}

func TestAnonymousOperationsStayLocal(t *testing.T) {
	s := NewCartSession(testCatalog())
	ctx := context.Background()

	require.Equal(t, Anonymous, s.State())
	require.NoError(t, s.SetQuantity(ctx, "A", 2))
	require.NoError(t, s.Increment(ctx, "B", 1))

	view, err := s.View(ctx)
	require.NoError(t, err)
	assert.Len(t, view.Lines, 2)
	assert.Equal(t, 650.0, view.Subtotal)
	assert.Equal(t, 0.0, view.Shipping)
}

func TestSetQuantityReplacesNotIncrements(t *testing.T) {
	s := NewCartSession(testCatalog())
	ctx := context.Background()

	require.NoError(t, s.SetQuantity(ctx, "A", 2))
	require.NoError(t, s.SetQuantity(ctx, "A", 5))

	view, err := s.View(ctx)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 5, view.Lines[0].Quantity)
}

func TestIncrementIsAdditiveAndClamped(t *testing.T) {
	s := NewCartSession(testCatalog())
	ctx := context.Background()

	require.NoError(t, s.Increment(ctx, "A", 0)) // default delta 1
	require.NoError(t, s.Increment(ctx, "A", 1))

	view, err := s.View(ctx)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 2, view.Lines[0].Quantity)

	require.NoError(t, s.Increment(ctx, "A", -10))
	view, err = s.View(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Lines[0].Quantity)
}

func TestRemoveAbsentItemIsNoOp(t *testing.T) {
	s := NewCartSession(testCatalog())
	ctx := context.Background()

	require.NoError(t, s.SetQuantity(ctx, "A", 2))
	before, err := s.View(ctx)
	require.NoError(t, err)

	require.NoError(t, s.Remove(ctx, "never-added"))

	after, err := s.View(ctx)
	require.NoError(t, err)
	assert.Equal(t, before.Lines, after.Lines)
}

func TestLoginMergesLocalCartExactly(t *testing.T) {
	s := NewCartSession(testCatalog())
	ctx := context.Background()

	require.NoError(t, s.SetQuantity(ctx, "A", 2))
	require.NoError(t, s.SetQuantity(ctx, "B", 1))

	svc := newFakeCartService()
	failures := s.Login(ctx, svc)

	assert.Empty(t, failures)
	assert.Equal(t, Authenticated, s.State())
	assert.Equal(t, map[string]int{"A": 2, "B": 1}, svc.items)
	assert.Equal(t, 0, s.local.Len())
}

func TestLoginMergeReplacesExistingServerQuantities(t *testing.T) {
	s := NewCartSession(testCatalog())
	ctx := context.Background()
	require.NoError(t, s.SetQuantity(ctx, "A", 2))

	svc := newFakeCartService()
	svc.items["A"] = 7 // stale server quantity

	failures := s.Login(ctx, svc)
	assert.Empty(t, failures)
	assert.Equal(t, 2, svc.items["A"])
}

func TestLoginClearsLocalEvenOnPartialFailure(t *testing.T) {
	s := NewCartSession(testCatalog())
	ctx := context.Background()

	require.NoError(t, s.SetQuantity(ctx, "A", 2))
	require.NoError(t, s.SetQuantity(ctx, "B", 1))

	svc := newFakeCartService()
	svc.failIDs["B"] = true

	failures := s.Login(ctx, svc)

	require.Len(t, failures, 1)
	assert.Equal(t, map[string]int{"A": 2}, svc.items)
	// accepted lossy behavior: the local mapping is gone regardless
	assert.Equal(t, 0, s.local.Len())
	assert.Equal(t, Authenticated, s.State())
}

func TestAuthenticatedOperationsHitTheService(t *testing.T) {
	s := NewCartSession(testCatalog())
	ctx := context.Background()

	svc := newFakeCartService()
	s.Login(ctx, svc)

	require.NoError(t, s.SetQuantity(ctx, "A", 3))
	require.NoError(t, s.Increment(ctx, "A", 0))
	require.NoError(t, s.Remove(ctx, "B"))

	assert.Equal(t, map[string]int{"A": 4}, svc.items)

	view, err := s.View(ctx)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
}

func TestLogoutStartsFreshAnonymousMapping(t *testing.T) {
	s := NewCartSession(testCatalog())
	ctx := context.Background()

	svc := newFakeCartService()
	s.Login(ctx, svc)
	require.NoError(t, s.SetQuantity(ctx, "A", 3))

	s.Logout()
	require.Equal(t, Anonymous, s.State())

	view, err := s.View(ctx)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)

	// no reverse migration: server cart is untouched
	assert.Equal(t, map[string]int{"A": 3}, svc.items)
}

func TestAnonymousViewFlagsStaleReferences(t *testing.T) {
	s := NewCartSession(testCatalog())
	ctx := context.Background()

	require.NoError(t, s.SetQuantity(ctx, "A", 1))
	require.NoError(t, s.SetQuantity(ctx, "deleted-item", 2))

	view, err := s.View(ctx)
	require.NoError(t, err)
	require.Len(t, view.Lines, 2)

	var stale *models.CartLine
	for i := range view.Lines {
		if view.Lines[i].ItemID == "deleted-item" {
			stale = &view.Lines[i]
		}
	}
	require.NotNil(t, stale)
	assert.True(t, stale.Unavailable)
	assert.Equal(t, 100.0, view.Subtotal)
}

func TestSessionInputValidation(t *testing.T) {
	s := NewCartSession(testCatalog())
	ctx := context.Background()

	assert.Error(t, s.SetQuantity(ctx, "", 1))
	assert.Error(t, s.SetQuantity(ctx, "A", 0))
	assert.Error(t, s.Increment(ctx, "", 1))
}
