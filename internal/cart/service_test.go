package cart

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dineat/restaurant-api/internal/catalog"
)

//
// ---------- FAKES ----------
//

// memCatalog implements catalog.Repository in memory.
type memCatalog struct {
	mu    sync.Mutex
	items map[string]catalog.MenuItem // by id
	names map[string]string           // name -> id
	table map[string]catalog.Table
}

func newMemCatalog() *memCatalog {
	return &memCatalog{
		items: map[string]catalog.MenuItem{},
		names: map[string]string{},
		table: map[string]catalog.Table{},
	}
}

func (m *memCatalog) add(name, price string, available bool) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.NewString()
	m.items[id] = catalog.MenuItem{
		ID: id, Name: name, Price: decimal.RequireFromString(price),
		Category: catalog.CategoryMainCourse, IsAvailable: available,
	}
	m.names[name] = id
	return id
}

func (m *memCatalog) addTable(number int) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.NewString()
	m.table[id] = catalog.Table{ID: id, TableNumber: number, Capacity: 4, IsAvailable: true}
	return id
}

func (m *memCatalog) ListAvailable(ctx context.Context, q catalog.Query) ([]catalog.MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []catalog.MenuItem
	for _, it := range m.items {
		if it.IsAvailable {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *memCatalog) GetByID(ctx context.Context, id string) (*catalog.MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return &it, nil
}

func (m *memCatalog) GetByName(ctx context.Context, name string) (*catalog.MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.names[name]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	it := m.items[id]
	return &it, nil
}

func (m *memCatalog) Create(ctx context.Context, it *catalog.MenuItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[it.ID] = *it
	m.names[it.Name] = it.ID
	return nil
}

func (m *memCatalog) GetTable(ctx context.Context, id string) (*catalog.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.table[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return &t, nil
}

func (m *memCatalog) ListAvailableTables(ctx context.Context) ([]catalog.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []catalog.Table
	for _, t := range m.table {
		out = append(out, t)
	}
	return out, nil
}

// memRepo implements Repository in memory with the same discipline as the
// Postgres one: one pending order per customer, totals recomputed on every
// mutation, ownership-scoped deletes.
type memRepo struct {
	mu     sync.Mutex
	orders map[string]*Order
	items  map[string][]Item // by order id
}

func newMemRepo() *memRepo {
	return &memRepo{orders: map[string]*Order{}, items: map[string][]Item{}}
}

func (r *memRepo) pendingLocked(customerID string) *Order {
	for _, o := range r.orders {
		if o.CustomerID == customerID && o.Status == StatusPending {
			return o
		}
	}
	return nil
}

func (r *memRepo) recalcLocked(orderID string) {
	if o, ok := r.orders[orderID]; ok {
		o.TotalAmount = Total(r.items[orderID])
	}
}

func (r *memRepo) GetOrCreateCart(ctx context.Context, customerID string) (*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o := r.pendingLocked(customerID); o != nil {
		cp := *o
		return &cp, nil
	}
	o := &Order{ID: uuid.NewString(), CustomerID: customerID, Status: StatusPending,
		TotalAmount: decimal.Zero, PaymentMethod: PaymentCOD}
	r.orders[o.ID] = o
	cp := *o
	return &cp, nil
}

func (r *memRepo) GetPendingCart(ctx context.Context, customerID string) (*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o := r.pendingLocked(customerID); o != nil {
		cp := *o
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (r *memRepo) GetByID(ctx context.Context, id string) (*Order, []Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, nil, ErrNotFound
	}
	cp := *o
	return &cp, append([]Item(nil), r.items[id]...), nil
}

func (r *memRepo) GetItems(ctx context.Context, orderID string) ([]Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Item(nil), r.items[orderID]...), nil
}

func (r *memRepo) AddItem(ctx context.Context, orderID, menuItemID string, qty int, price decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := r.items[orderID]
	for i := range items {
		if items[i].MenuItemID == menuItemID {
			items[i].Quantity += qty
			r.items[orderID] = items
			r.recalcLocked(orderID)
			return nil
		}
	}
	r.items[orderID] = append(items, Item{
		ID: uuid.NewString(), OrderID: orderID, MenuItemID: menuItemID, Quantity: qty, Price: price,
	})
	r.recalcLocked(orderID)
	return nil
}

func (r *memRepo) RemoveItem(ctx context.Context, customerID, itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for orderID, items := range r.items {
		for i, it := range items {
			if it.ID != itemID {
				continue
			}
			o := r.orders[orderID]
			if o == nil || o.CustomerID != customerID || o.Status != StatusPending {
				return ErrNotFound
			}
			r.items[orderID] = append(items[:i], items[i+1:]...)
			r.recalcLocked(orderID)
			return nil
		}
	}
	return ErrNotFound
}

func (r *memRepo) SetQuantity(ctx context.Context, customerID, itemID string, qty int) error {
	if qty <= 0 {
		return r.RemoveItem(ctx, customerID, itemID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for orderID, items := range r.items {
		for i, it := range items {
			if it.ID != itemID {
				continue
			}
			o := r.orders[orderID]
			if o == nil || o.CustomerID != customerID || o.Status != StatusPending {
				return ErrNotFound
			}
			items[i].Quantity = qty
			r.items[orderID] = items
			r.recalcLocked(orderID)
			return nil
		}
	}
	return ErrNotFound
}

func (r *memRepo) Confirm(ctx context.Context, orderID string, p ConfirmParams) (*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok || o.Status != StatusPending {
		return nil, ErrNotFound
	}
	if p.Replace {
		items := make([]Item, 0, len(p.ReplaceWith))
		for _, it := range p.ReplaceWith {
			it.ID = uuid.NewString()
			it.OrderID = orderID
			items = append(items, it)
		}
		r.items[orderID] = items
	}
	r.recalcLocked(orderID)
	if p.TableID != nil {
		o.TableID = p.TableID
	}
	o.PaymentMethod = p.PaymentMethod
	o.SpecialInstructions = p.SpecialInstructions
	o.Status = StatusConfirmed
	cp := *o
	return &cp, nil
}

func (r *memRepo) UpdateStatus(ctx context.Context, orderID, newStatus string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return ErrNotFound
	}
	if !CanTransition(o.Status, newStatus) {
		return ErrInvalidTransition
	}
	o.Status = newStatus
	return nil
}

func (r *memRepo) ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Order
	for _, o := range r.orders {
		if o.CustomerID == customerID && o.Status != StatusPending {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *memRepo) ListActive(ctx context.Context) ([]Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Order
	for _, o := range r.orders {
		switch o.Status {
		case StatusConfirmed, StatusPreparing, StatusReady:
			out = append(out, *o)
		}
	}
	return out, nil
}

func newTestService(t *testing.T, allowClientItems bool) (*Service, *memRepo, *memCatalog) {
	t.Helper()
	repo := newMemRepo()
	cat := newMemCatalog()
	return NewService(repo, cat, allowClientItems), repo, cat
}

//
// ---------- TESTS ----------
//

func TestTotalFollowsMutations(t *testing.T) {
	t.Parallel()

	svc, _, cat := newTestService(t, false)
	ctx := context.Background()
	customer := uuid.NewString()

	biryani := cat.add("Veg Biryani", "180.00", true)
	paneer := cat.add("Paneer Butter Masala", "220.00", true)

	if _, _, err := svc.AddItem(ctx, customer, biryani, 1); err != nil {
		t.Fatalf("add biryani: %v", err)
	}
	o, items, err := svc.AddItem(ctx, customer, paneer, 2)
	if err != nil {
		t.Fatalf("add paneer: %v", err)
	}
	if want := "620"; !o.TotalAmount.Equal(decimal.RequireFromString(want)) {
		t.Fatalf("total=%s want %s", o.TotalAmount, want)
	}

	var biryaniLine, paneerLine Item
	for _, it := range items {
		switch it.MenuItemID {
		case biryani:
			biryaniLine = it
		case paneer:
			paneerLine = it
		}
	}

	o, _, err = svc.RemoveItem(ctx, customer, biryaniLine.ID)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if want := "440"; !o.TotalAmount.Equal(decimal.RequireFromString(want)) {
		t.Fatalf("total=%s want %s", o.TotalAmount, want)
	}

	// Quantity zero removes the line but keeps the cart itself.
	o, items, err = svc.SetQuantity(ctx, customer, paneerLine.ID, 0)
	if err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("items=%d want 0", len(items))
	}
	if !o.TotalAmount.IsZero() {
		t.Fatalf("total=%s want 0", o.TotalAmount)
	}
	if o.Status != StatusPending {
		t.Fatalf("status=%s want PENDING", o.Status)
	}
}

func TestAddItemMergesSameMenuItem(t *testing.T) {
	t.Parallel()

	svc, _, cat := newTestService(t, false)
	ctx := context.Background()
	customer := uuid.NewString()
	id := cat.add("Masala Tea", "30.00", true)

	if _, _, err := svc.AddItem(ctx, customer, id, 1); err != nil {
		t.Fatal(err)
	}
	o, items, err := svc.AddItem(ctx, customer, id, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].Quantity != 3 {
		t.Fatalf("items=%+v want one line with quantity 3", items)
	}
	if want := "90"; !o.TotalAmount.Equal(decimal.RequireFromString(want)) {
		t.Fatalf("total=%s want %s", o.TotalAmount, want)
	}
}

func TestAddItemRejectsBadInput(t *testing.T) {
	t.Parallel()

	svc, _, cat := newTestService(t, false)
	ctx := context.Background()

	if _, _, err := svc.AddItem(ctx, uuid.NewString(), cat.add("Dal", "220.00", true), 0); !errors.Is(err, ErrValidation) {
		t.Fatalf("err=%v want ErrValidation", err)
	}
	if _, _, err := svc.AddItem(ctx, uuid.NewString(), uuid.NewString(), 1); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("err=%v want catalog.ErrNotFound", err)
	}
	// Unavailable items read as missing.
	off := cat.add("Seasonal Special", "500.00", false)
	if _, _, err := svc.AddItem(ctx, uuid.NewString(), off, 1); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("err=%v want catalog.ErrNotFound", err)
	}
}

func TestGetOrCreateCartConcurrent(t *testing.T) {
	t.Parallel()

	svc, repo, _ := newTestService(t, false)
	ctx := context.Background()
	customer := uuid.NewString()

	const n = 16
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o, _, err := svc.Cart(ctx, customer)
			if err != nil {
				t.Error(err)
				return
			}
			ids <- o.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[string]bool{}
	for id := range ids {
		seen[id] = true
	}
	if len(seen) != 1 {
		t.Fatalf("got %d distinct carts, want 1", len(seen))
	}
	pending := 0
	for _, o := range repo.orders {
		if o.CustomerID == customer && o.Status == StatusPending {
			pending++
		}
	}
	if pending != 1 {
		t.Fatalf("pending carts=%d want 1", pending)
	}
}

func TestRemoveItemOwnership(t *testing.T) {
	t.Parallel()

	svc, _, cat := newTestService(t, false)
	ctx := context.Background()
	alice, bob := uuid.NewString(), uuid.NewString()
	id := cat.add("Gulab Jamun", "60.00", true)

	_, aliceItems, err := svc.AddItem(ctx, alice, id, 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := svc.AddItem(ctx, bob, id, 2); err != nil {
		t.Fatal(err)
	}

	// Bob cannot remove Alice's line item.
	if _, _, err := svc.RemoveItem(ctx, bob, aliceItems[0].ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v want ErrNotFound", err)
	}

	// Both carts are unchanged.
	aOrder, aItems, _ := svc.Cart(ctx, alice)
	bOrder, bItems, _ := svc.Cart(ctx, bob)
	if len(aItems) != 1 || !aOrder.TotalAmount.Equal(decimal.RequireFromString("60")) {
		t.Fatalf("alice cart changed: items=%d total=%s", len(aItems), aOrder.TotalAmount)
	}
	if len(bItems) != 1 || !bOrder.TotalAmount.Equal(decimal.RequireFromString("120")) {
		t.Fatalf("bob cart changed: items=%d total=%s", len(bItems), bOrder.TotalAmount)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	t.Parallel()

	svc, repo, _ := newTestService(t, false)
	ctx := context.Background()

	_, err := svc.Checkout(ctx, uuid.NewString(), CheckoutRequest{PaymentMethod: PaymentCOD})
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("err=%v want ErrEmptyCart", err)
	}
	if len(repo.orders) != 0 {
		t.Fatalf("orders mutated: %d rows", len(repo.orders))
	}

	// An existing cart with no line items is still empty.
	customer := uuid.NewString()
	if _, _, err := svc.Cart(ctx, customer); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Checkout(ctx, customer, CheckoutRequest{PaymentMethod: PaymentCOD}); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("err=%v want ErrEmptyCart", err)
	}
}

func TestCheckoutConfirmsAtomically(t *testing.T) {
	t.Parallel()

	svc, _, cat := newTestService(t, false)
	ctx := context.Background()
	customer := uuid.NewString()
	item := cat.add("Veg Biryani", "180.00", true)
	tableID := cat.addTable(3)

	if _, _, err := svc.AddItem(ctx, customer, item, 1); err != nil {
		t.Fatal(err)
	}

	o, err := svc.Checkout(ctx, customer, CheckoutRequest{
		TableID:             tableID,
		PaymentMethod:       PaymentUPI,
		SpecialInstructions: "no onions",
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if o.Status != StatusConfirmed {
		t.Fatalf("status=%s want CONFIRMED", o.Status)
	}
	if o.TableID == nil || *o.TableID != tableID {
		t.Fatalf("table not attached: %v", o.TableID)
	}
	if o.PaymentMethod != PaymentUPI || o.SpecialInstructions != "no onions" {
		t.Fatalf("payment/instructions not persisted: %+v", o)
	}

	// The next cart is a brand-new pending order.
	next, _, err := svc.Cart(ctx, customer)
	if err != nil {
		t.Fatal(err)
	}
	if next.ID == o.ID {
		t.Fatalf("confirmed order reused as cart")
	}
	if next.Status != StatusPending || !next.TotalAmount.IsZero() {
		t.Fatalf("new cart not empty pending: %+v", next)
	}
}

func TestCheckoutRejectsUnknownPaymentMethod(t *testing.T) {
	t.Parallel()

	svc, _, cat := newTestService(t, false)
	ctx := context.Background()
	customer := uuid.NewString()
	if _, _, err := svc.AddItem(ctx, customer, cat.add("Dal Makhani", "220.00", true), 1); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Checkout(ctx, customer, CheckoutRequest{PaymentMethod: "bitcoin"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("err=%v want ErrValidation", err)
	}
}

func TestCheckoutSnapshotUsesServerPrices(t *testing.T) {
	t.Parallel()

	svc, _, cat := newTestService(t, false)
	ctx := context.Background()
	customer := uuid.NewString()
	item := cat.add("Palak Paneer", "200.00", true)

	if _, _, err := svc.AddItem(ctx, customer, item, 1); err != nil {
		t.Fatal(err)
	}

	// Client claims a one-rupee price; the catalog price must win.
	o, err := svc.Checkout(ctx, customer, CheckoutRequest{
		PaymentMethod: PaymentCard,
		Snapshot: []SnapshotItem{
			{Name: "Palak Paneer", Quantity: 3, Price: "1.00"},
		},
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if want := "600"; !o.TotalAmount.Equal(decimal.RequireFromString(want)) {
		t.Fatalf("total=%s want %s", o.TotalAmount, want)
	}
}

func TestCheckoutSnapshotSkipsJunkEntries(t *testing.T) {
	t.Parallel()

	svc, _, cat := newTestService(t, false)
	ctx := context.Background()
	customer := uuid.NewString()
	item := cat.add("Samosa", "80.00", true)

	if _, _, err := svc.AddItem(ctx, customer, item, 1); err != nil {
		t.Fatal(err)
	}
	o, err := svc.Checkout(ctx, customer, CheckoutRequest{
		PaymentMethod: PaymentCOD,
		Snapshot: []SnapshotItem{
			{Name: "   ", Quantity: 2, Price: "80.00"},
			{Name: "Samosa", Quantity: 0, Price: "80.00"},
			{Name: "Samosa", Quantity: 2, Price: "junk"},
		},
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	// Only the last entry survives, priced from the catalog.
	if want := "160"; !o.TotalAmount.Equal(decimal.RequireFromString(want)) {
		t.Fatalf("total=%s want %s", o.TotalAmount, want)
	}
}

func TestCheckoutSnapshotUnknownItemRejected(t *testing.T) {
	t.Parallel()

	svc, _, cat := newTestService(t, false)
	ctx := context.Background()
	customer := uuid.NewString()
	if _, _, err := svc.AddItem(ctx, customer, cat.add("Lassi", "60.00", true), 1); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Checkout(ctx, customer, CheckoutRequest{
		PaymentMethod: PaymentCOD,
		Snapshot:      []SnapshotItem{{Name: "Mystery Dish", Quantity: 1, Price: "999.00"}},
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err=%v want ErrValidation", err)
	}
}

func TestCheckoutSnapshotSynthesizesWhenEnabled(t *testing.T) {
	t.Parallel()

	svc, _, cat := newTestService(t, true)
	ctx := context.Background()
	customer := uuid.NewString()
	if _, _, err := svc.AddItem(ctx, customer, cat.add("Tea", "30.00", true), 1); err != nil {
		t.Fatal(err)
	}

	o, err := svc.Checkout(ctx, customer, CheckoutRequest{
		PaymentMethod: PaymentCOD,
		Snapshot: []SnapshotItem{
			{Name: "Grandma Special", Quantity: 2, Price: "150.00", Category: "veg"},
			{Name: "Free Lunch", Quantity: 1, Price: "-5.00"},
		},
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	created, err := cat.GetByName(ctx, "Grandma Special")
	if err != nil {
		t.Fatalf("synthesized item missing: %v", err)
	}
	if !created.IsVegetarian {
		t.Fatalf("vegetarian flag not derived from snapshot category")
	}
	floor, err := cat.GetByName(ctx, "Free Lunch")
	if err != nil {
		t.Fatalf("floored item missing: %v", err)
	}
	if !floor.Price.Equal(decimal.RequireFromString("0.01")) {
		t.Fatalf("price=%s want floor 0.01", floor.Price)
	}
	if want := "300.01"; !o.TotalAmount.Equal(decimal.RequireFromString(want)) {
		t.Fatalf("total=%s want %s", o.TotalAmount, want)
	}
}

func TestCheckoutSnapshotOnlyWithoutPendingCart(t *testing.T) {
	t.Parallel()

	svc, _, cat := newTestService(t, false)
	ctx := context.Background()
	cat.add("Butter Chicken", "320.00", true)

	o, err := svc.Checkout(ctx, uuid.NewString(), CheckoutRequest{
		PaymentMethod: PaymentUPI,
		Snapshot:      []SnapshotItem{{Name: "Butter Chicken", Quantity: 1, Price: "320.00"}},
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if o.Status != StatusConfirmed || !o.TotalAmount.Equal(decimal.RequireFromString("320")) {
		t.Fatalf("order=%+v", o)
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	t.Parallel()

	svc, _, cat := newTestService(t, false)
	ctx := context.Background()
	customer := uuid.NewString()
	if _, _, err := svc.AddItem(ctx, customer, cat.add("Fish Fry", "280.00", true), 1); err != nil {
		t.Fatal(err)
	}
	o, err := svc.Checkout(ctx, customer, CheckoutRequest{PaymentMethod: PaymentCOD})
	if err != nil {
		t.Fatal(err)
	}

	// Skipping ahead is refused.
	if err := svc.UpdateStatus(ctx, o.ID, StatusCompleted); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err=%v want ErrInvalidTransition", err)
	}
	// Unknown values are refused.
	if err := svc.UpdateStatus(ctx, o.ID, "BURNT"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err=%v want ErrInvalidTransition", err)
	}

	for _, next := range []string{StatusPreparing, StatusReady, StatusServed, StatusCompleted} {
		if err := svc.UpdateStatus(ctx, o.ID, next); err != nil {
			t.Fatalf("advance to %s: %v", next, err)
		}
	}
	// Completed orders cannot be cancelled.
	if err := svc.UpdateStatus(ctx, o.ID, StatusCancelled); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err=%v want ErrInvalidTransition", err)
	}
}

func TestUpdateStatusCancelMidway(t *testing.T) {
	t.Parallel()

	svc, _, cat := newTestService(t, false)
	ctx := context.Background()
	customer := uuid.NewString()
	if _, _, err := svc.AddItem(ctx, customer, cat.add("Rogan Josh", "380.00", true), 1); err != nil {
		t.Fatal(err)
	}
	o, err := svc.Checkout(ctx, customer, CheckoutRequest{PaymentMethod: PaymentCOD})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.UpdateStatus(ctx, o.ID, StatusPreparing); err != nil {
		t.Fatal(err)
	}
	if err := svc.UpdateStatus(ctx, o.ID, StatusCancelled); err != nil {
		t.Fatalf("cancel from PREPARING: %v", err)
	}
}

func TestOrderOwnershipScoping(t *testing.T) {
	t.Parallel()

	svc, _, cat := newTestService(t, false)
	ctx := context.Background()
	alice, bob := uuid.NewString(), uuid.NewString()
	if _, _, err := svc.AddItem(ctx, alice, cat.add("Lime Soda", "40.00", true), 1); err != nil {
		t.Fatal(err)
	}
	o, err := svc.Checkout(ctx, alice, CheckoutRequest{PaymentMethod: PaymentCOD})
	if err != nil {
		t.Fatal(err)
	}

	if _, _, err := svc.Order(ctx, bob, false, o.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v want ErrNotFound for foreign customer", err)
	}
	if _, _, err := svc.Order(ctx, bob, true, o.ID); err != nil {
		t.Fatalf("staff read failed: %v", err)
	}
	if _, _, err := svc.Order(ctx, alice, false, o.ID); err != nil {
		t.Fatalf("owner read failed: %v", err)
	}
}
