package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dineat/restaurant-api/internal/catalog"
)

// ErrValidation marks client input the aggregate refuses to apply.
var ErrValidation = errors.New("validation failed")

var minPrice = decimal.RequireFromString("0.01")

// Service orchestrates cart mutation, checkout and status transitions on top
// of the order repository and the read-only catalog.
type Service struct {
	repo    Repository
	catalog catalog.Repository

	// allowClientItems keeps the legacy escape hatch of minting menu items
	// from names the catalog has never seen. Client prices are only ever
	// honored through this path; cataloged items always use server prices.
	allowClientItems bool
}

func NewService(repo Repository, cat catalog.Repository, allowClientItems bool) *Service {
	return &Service{repo: repo, catalog: cat, allowClientItems: allowClientItems}
}

// Cart returns the customer's pending order with its line items, creating an
// empty one if none exists.
func (s *Service) Cart(ctx context.Context, customerID string) (*Order, []Item, error) {
	o, err := s.repo.GetOrCreateCart(ctx, customerID)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.repo.GetItems(ctx, o.ID)
	if err != nil {
		return nil, nil, err
	}
	return o, items, nil
}

// AddItem puts qty units of a menu item into the customer's cart, snapshotting
// the current catalog price on first add.
func (s *Service) AddItem(ctx context.Context, customerID, menuItemID string, qty int) (*Order, []Item, error) {
	if qty < 1 {
		return nil, nil, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}
	m, err := s.catalog.GetByID(ctx, menuItemID)
	if err != nil {
		return nil, nil, err
	}
	if !m.IsAvailable {
		return nil, nil, catalog.ErrNotFound
	}
	o, err := s.repo.GetOrCreateCart(ctx, customerID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.repo.AddItem(ctx, o.ID, m.ID, qty, m.Price); err != nil {
		return nil, nil, err
	}
	return s.refresh(ctx, customerID)
}

func (s *Service) RemoveItem(ctx context.Context, customerID, itemID string) (*Order, []Item, error) {
	if err := s.repo.RemoveItem(ctx, customerID, itemID); err != nil {
		return nil, nil, err
	}
	return s.refresh(ctx, customerID)
}

func (s *Service) SetQuantity(ctx context.Context, customerID, itemID string, qty int) (*Order, []Item, error) {
	if err := s.repo.SetQuantity(ctx, customerID, itemID, qty); err != nil {
		return nil, nil, err
	}
	return s.refresh(ctx, customerID)
}

func (s *Service) refresh(ctx context.Context, customerID string) (*Order, []Item, error) {
	o, err := s.repo.GetPendingCart(ctx, customerID)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.repo.GetItems(ctx, o.ID)
	if err != nil {
		return nil, nil, err
	}
	return o, items, nil
}

// Checkout confirms the customer's pending order. When the request carries a
// client cart snapshot the cart's line items are replaced by the resolved
// snapshot first; the replace, total recompute, table/payment attachment and
// PENDING→CONFIRMED move all commit together or not at all.
func (s *Service) Checkout(ctx context.Context, customerID string, req CheckoutRequest) (*Order, error) {
	o, err := s.repo.GetPendingCart(ctx, customerID)
	if errors.Is(err, ErrNotFound) {
		if len(req.Snapshot) == 0 {
			return nil, ErrEmptyCart
		}
		// Snapshot-only checkout: the client kept the cart locally.
		if o, err = s.repo.GetOrCreateCart(ctx, customerID); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	method := req.PaymentMethod
	if method == "" {
		method = PaymentCOD
	}
	if !ValidPaymentMethod(method) {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrValidation, req.PaymentMethod)
	}

	p := ConfirmParams{
		PaymentMethod:       method,
		SpecialInstructions: req.SpecialInstructions,
	}
	if req.TableID != "" {
		t, err := s.catalog.GetTable(ctx, req.TableID)
		if err != nil {
			return nil, err
		}
		p.TableID = &t.ID
	}
	if len(req.Snapshot) > 0 {
		items, err := s.resolveSnapshot(ctx, req.Snapshot)
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			return nil, ErrEmptyCart
		}
		p.Replace = true
		p.ReplaceWith = items
	} else {
		items, err := s.repo.GetItems(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			return nil, ErrEmptyCart
		}
	}

	return s.repo.Confirm(ctx, o.ID, p)
}

// resolveSnapshot turns client-tracked cart entries into line items. Server
// prices win whenever the catalog knows the name; unknown names are rejected
// unless the legacy client-item path is enabled. Blank names and non-positive
// quantities are skipped the way the shipped clients expect.
func (s *Service) resolveSnapshot(ctx context.Context, snapshot []SnapshotItem) ([]Item, error) {
	var items []Item
	for _, entry := range snapshot {
		name := strings.TrimSpace(entry.Name)
		if name == "" || entry.Quantity < 1 {
			continue
		}

		clientPrice, err := decimal.NewFromString(strings.TrimSpace(entry.Price))
		if err != nil {
			clientPrice = decimal.Zero
		}

		m, err := s.catalog.GetByName(ctx, name)
		switch {
		case err == nil:
			items = append(items, Item{MenuItemID: m.ID, Quantity: entry.Quantity, Price: m.Price})
		case errors.Is(err, catalog.ErrNotFound):
			if !s.allowClientItems {
				return nil, fmt.Errorf("%w: unknown menu item %q", ErrValidation, name)
			}
			price := clientPrice
			if price.LessThan(minPrice) {
				price = minPrice
			}
			created := &catalog.MenuItem{
				ID:              uuid.NewString(),
				Name:            name,
				Description:     name,
				Price:           price,
				Category:        catalog.CategoryMainCourse,
				IsAvailable:     true,
				IsVegetarian:    entry.Category == "veg",
				PreparationTime: 15,
			}
			if err := s.catalog.Create(ctx, created); err != nil {
				return nil, err
			}
			items = append(items, Item{MenuItemID: created.ID, Quantity: entry.Quantity, Price: price})
		default:
			return nil, err
		}
	}
	return items, nil
}

// UpdateStatus is the kitchen/admin transition. Unknown status values and
// non-adjacent moves both surface as invalid transitions.
func (s *Service) UpdateStatus(ctx context.Context, orderID, newStatus string) error {
	if !ValidStatus(newStatus) {
		return ErrInvalidTransition
	}
	return s.repo.UpdateStatus(ctx, orderID, newStatus)
}

// Order fetches one order. Customers only see their own; staff see all.
func (s *Service) Order(ctx context.Context, requesterID string, staff bool, orderID string) (*Order, []Item, error) {
	o, items, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	if !staff && o.CustomerID != requesterID {
		// Ownership mismatch reads as not-found so order ids don't leak.
		return nil, nil, ErrNotFound
	}
	return o, items, nil
}

func (s *Service) History(ctx context.Context, customerID string, limit, offset int) ([]Order, error) {
	return s.repo.ListByCustomer(ctx, customerID, limit, offset)
}

func (s *Service) ActiveOrders(ctx context.Context) ([]Order, error) {
	return s.repo.ListActive(ctx)
}
