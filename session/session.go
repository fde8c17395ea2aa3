// Package session presents one logical cart regardless of authentication
// state. Operations route to a client-local mapping while anonymous and to
// the server cart once authenticated; the local mapping is folded into the
// server cart exactly once, at the authentication transition.
package session

import (
	"context"
	"errors"
	"fmt"

	"shophub/cart"
	"shophub/ecode"
	"shophub/models"
)

// CartService is the server-side cart boundary the session talks to once
// authenticated.
type CartService interface {
	SetQuantity(ctx context.Context, itemID string, qty int) error
	Increment(ctx context.Context, itemID string, delta int) error
	Remove(ctx context.Context, itemID string) error
	View(ctx context.Context) (models.CartView, error)
}

// Catalog resolves item identities when materializing the anonymous cart.
type Catalog interface {
	GetItem(ctx context.Context, itemID string) (models.Item, error)
}

type State int

const (
	Anonymous State = iota
	Authenticated
)

// CartSession is the per-browser-session cart state machine. It starts
// Anonymous with an empty local mapping.
type CartSession struct {
	state   State
	local   *LocalCart
	svc     CartService
	catalog Catalog
}

func NewCartSession(catalog Catalog) *CartSession {
	return &CartSession{
		state:   Anonymous,
		local:   NewLocalCart(),
		catalog: catalog,
	}
}

func (s *CartSession) State() State {
	return s.state
}

// SetQuantity replaces an item's quantity (never increments) in whichever
// cart the session currently owns.
func (s *CartSession) SetQuantity(ctx context.Context, itemID string, qty int) error {
	if itemID == "" {
		return ecode.Validation("itemId", "required")
	}
	if qty < 1 {
		return ecode.Validation("qty", "must be a positive integer")
	}
	if s.state == Authenticated {
		return s.svc.SetQuantity(ctx, itemID, qty)
	}
	s.local.SetQuantity(itemID, qty)
	return nil
}

// Increment is the quick-add contract: additive, result clamped at 1.
func (s *CartSession) Increment(ctx context.Context, itemID string, delta int) error {
	if itemID == "" {
		return ecode.Validation("itemId", "required")
	}
	if delta == 0 {
		delta = 1
	}
	if s.state == Authenticated {
		return s.svc.Increment(ctx, itemID, delta)
	}
	s.local.Increment(itemID, delta)
	return nil
}

// Remove deletes an item's entry; absent items are a no-op.
func (s *CartSession) Remove(ctx context.Context, itemID string) error {
	if s.state == Authenticated {
		return s.svc.Remove(ctx, itemID)
	}
	s.local.Remove(itemID)
	return nil
}

// View materializes the cart the session currently owns, with totals.
func (s *CartSession) View(ctx context.Context) (models.CartView, error) {
	if s.state == Authenticated {
		return s.svc.View(ctx)
	}

	view := models.CartView{Lines: []models.CartLine{}}
	for itemID, qty := range s.local.Items() {
		line := models.CartLine{ItemID: itemID, Quantity: qty}
		item, err := s.catalog.GetItem(ctx, itemID)
		switch {
		case err == nil:
			line.Title = item.Title
			line.Price = item.Price
			line.ImageURL = item.ImageURL
			line.Stock = item.Stock
		case errors.Is(err, ecode.ErrNotFound):
			line.Unavailable = true
		default:
			return view, err
		}
		view.Lines = append(view.Lines, line)
	}

	view.Subtotal, view.Shipping, view.Total = cart.Totals(view.Lines)
	return view, nil
}

// Login runs the Anonymous -> Authenticated transition: every local pair is
// pushed to the server cart with its exact quantity, each add independent,
// order immaterial, no rollback. The local mapping is cleared afterwards
// even when some adds failed; the failures are returned for the caller to
// surface, not retried.
func (s *CartSession) Login(ctx context.Context, svc CartService) []error {
	s.svc = svc
	s.state = Authenticated

	var failures []error
	for itemID, qty := range s.local.Items() {
		if err := svc.SetQuantity(ctx, itemID, qty); err != nil {
			failures = append(failures, fmt.Errorf("merge %s: %w", itemID, err))
		}
	}
	s.local.Clear()

	return failures
}

// Logout discards the authenticated context. There is no reverse migration:
// subsequent operations start on a fresh anonymous mapping.
func (s *CartSession) Logout() {
	s.svc = nil
	s.state = Anonymous
	s.local = NewLocalCart()
}
