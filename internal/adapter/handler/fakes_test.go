package handler

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rl1809/canteen-orders/internal/core/domain"
	"github.com/rl1809/canteen-orders/internal/core/service"
)

// memoryLive is an in-process live store whose change feed is driven by its
// own writes.
type memoryLive struct {
	mu     sync.Mutex
	orders map[string]domain.Order
	feeds  []chan domain.OrderChange

	// afterGet runs once, outside the lock, after the next successful read.
	afterGet func(order domain.Order)
}

func newMemoryLive() *memoryLive {
	return &memoryLive{orders: make(map[string]domain.Order)}
}

func (m *memoryLive) CreateOrder(ctx context.Context, order domain.Order) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[order.ID]; ok {
		return false, nil
	}
	m.orders[order.ID] = order
	m.emit(order, domain.ChangeSet)
	return true, nil
}

func (m *memoryLive) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	m.mu.Lock()
	order, ok := m.orders[orderID]
	hook := m.afterGet
	if ok {
		m.afterGet = nil
	}
	m.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("order %s: %w", orderID, domain.ErrNotFound)
	}
	if hook != nil {
		hook(order)
	}
	return &order, nil
}

func (m *memoryLive) UpdateStatus(ctx context.Context, orderID string, from, to domain.OrderStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[orderID]
	if !ok || order.Status != from {
		return false, nil
	}
	order.Status = to
	order.Version++
	m.orders[orderID] = order
	m.emit(order, domain.ChangeUpdate)
	return true, nil
}

func (m *memoryLive) DeleteOrder(ctx context.Context, orderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[orderID]
	if !ok {
		return nil
	}
	delete(m.orders, orderID)
	m.emit(order, domain.ChangeDelete)
	return nil
}

func (m *memoryLive) ListOrders(ctx context.Context, filter domain.OrderFilter) (map[string]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]domain.Order)
	for id, o := range m.orders {
		if o.Matches(filter) {
			out[id] = o
		}
	}
	return out, nil
}

func (m *memoryLive) Changes(ctx context.Context) (<-chan domain.OrderChange, error) {
	ch := make(chan domain.OrderChange, 64)
	m.mu.Lock()
	m.feeds = append(m.feeds, ch)
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, f := range m.feeds {
			if f == ch {
				m.feeds = append(m.feeds[:i], m.feeds[i+1:]...)
				break
			}
		}
		close(ch)
	}()
	return ch, nil
}

func (m *memoryLive) attached() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.feeds) > 0
}

// emit must be called with m.mu held.
func (m *memoryLive) emit(order domain.Order, kind domain.ChangeKind) {
	change := domain.OrderChange{OrderID: order.ID, UserID: order.UserID, CanteenID: order.CanteenID, Kind: kind}
	for _, f := range m.feeds {
		select {
		case f <- change:
		default:
		}
	}
}

type memoryArchive struct {
	mu      sync.Mutex
	records map[string]domain.ArchivedOrder
	spent   map[string]decimal.Decimal
	seq     int
}

func newMemoryArchive() *memoryArchive {
	return &memoryArchive{records: make(map[string]domain.ArchivedOrder), spent: make(map[string]decimal.Decimal)}
}

func (m *memoryArchive) ArchiveOrder(ctx context.Context, order domain.Order) (domain.ArchivedOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	rec := domain.ArchivedOrder{ArchiveID: fmt.Sprintf("arch-%d", m.seq), Order: order, ArchivedAt: time.Now()}
	m.records[rec.ArchiveID] = rec
	return rec, nil
}

func (m *memoryArchive) DeleteArchivedOrder(ctx context.Context, archiveID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, archiveID)
	return nil
}

func (m *memoryArchive) GetArchivedOrder(ctx context.Context, archiveID string) (*domain.ArchivedOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[archiveID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

func (m *memoryArchive) FindByOrderID(ctx context.Context, orderID string) (*domain.ArchivedOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range m.records {
		if rec.ID == orderID {
			return &rec, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memoryArchive) ListArchivedOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.ArchivedOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.ArchivedOrder
	for _, rec := range m.records {
		if rec.Matches(filter) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *memoryArchive) RecordSpend(ctx context.Context, userID, orderID string, amount decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spent[userID] = m.spent[userID].Add(amount)
	return nil
}

type memoryCatalog struct {
	mu       sync.Mutex
	canteens map[string]domain.Canteen
	items    map[string]domain.MenuItem
	users    map[string]domain.UserProfile
}

func newMemoryCatalog() *memoryCatalog {
	return &memoryCatalog{
		canteens: make(map[string]domain.Canteen),
		items:    make(map[string]domain.MenuItem),
		users:    make(map[string]domain.UserProfile),
	}
}

func (m *memoryCatalog) SaveCanteen(ctx context.Context, c domain.Canteen) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.canteens[c.ID] = c
	return nil
}

func (m *memoryCatalog) GetCanteen(ctx context.Context, canteenID string) (*domain.Canteen, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.canteens[canteenID]
	if !ok {
		return nil, fmt.Errorf("canteen %s: %w", canteenID, domain.ErrNotFound)
	}
	return &c, nil
}

func (m *memoryCatalog) ListCanteens(ctx context.Context) ([]domain.Canteen, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Canteen
	for _, c := range m.canteens {
		out = append(out, c)
	}
	return out, nil
}

func (m *memoryCatalog) SaveMenuItem(ctx context.Context, item domain.MenuItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.CanteenID+"/"+item.ID] = item
	return nil
}

func (m *memoryCatalog) GetMenuItem(ctx context.Context, canteenID, itemID string) (*domain.MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[canteenID+"/"+itemID]
	if !ok {
		return nil, fmt.Errorf("menu item %s: %w", itemID, domain.ErrNotFound)
	}
	return &item, nil
}

func (m *memoryCatalog) ListMenuItems(ctx context.Context, canteenID string) ([]domain.MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.MenuItem
	for _, item := range m.items {
		if item.CanteenID == canteenID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *memoryCatalog) DeleteMenuItem(ctx context.Context, canteenID, itemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, canteenID+"/"+itemID)
	return nil
}

func (m *memoryCatalog) UpsertUser(ctx context.Context, id domain.Identity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.users[id.UID]
	p.UID, p.DisplayName, p.Email, p.Role = id.UID, id.DisplayName, id.Email, id.Role
	m.users[id.UID] = p
	return nil
}

func (m *memoryCatalog) GetUser(ctx context.Context, uid string) (*domain.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.users[uid]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

type memoryCarts struct {
	mu    sync.Mutex
	carts map[string]domain.Cart
}

func (m *memoryCarts) LoadCart(ctx context.Context, userID string) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cart := m.carts[userID]
	cart.Items = append([]domain.CartItem(nil), cart.Items...)
	return &cart, nil
}

func (m *memoryCarts) SaveCart(ctx context.Context, userID string, cart *domain.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *cart
	c.Items = append([]domain.CartItem(nil), cart.Items...)
	m.carts[userID] = c
	return nil
}

func (m *memoryCarts) DeleteCart(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, userID)
	return nil
}

// staticIdentity resolves fixed tokens.
type staticIdentity struct {
	mu        sync.Mutex
	tokens    map[string]domain.Identity
	signedOut []string
}

func (s *staticIdentity) Verify(ctx context.Context, token string) (*domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.tokens[token]
	if !ok {
		return nil, fmt.Errorf("%w: unknown token", domain.ErrUnauthenticated)
	}
	return &id, nil
}

func (s *staticIdentity) SignOut(ctx context.Context, id domain.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signedOut = append(s.signedOut, id.UID)
	return nil
}

var (
	ownerID    = domain.Identity{UID: "owner-1", DisplayName: "Owner", Role: domain.RoleCanteenOwner}
	rivalID    = domain.Identity{UID: "owner-2", DisplayName: "Rival", Role: domain.RoleCanteenOwner}
	studentID  = domain.Identity{UID: "student-1", DisplayName: "Student", Role: domain.RoleCustomer}
	studentTwo = domain.Identity{UID: "student-2", DisplayName: "Other", Role: domain.RoleCustomer}
)

const (
	ownerToken   = "owner-token"
	rivalToken   = "rival-token"
	studentToken = "student-token"
	otherToken   = "other-token"
)

type handlerEnv struct {
	live     *memoryLive
	archive  *memoryArchive
	catalog  *memoryCatalog
	identity *staticIdentity

	orders   *service.Coordinator
	carts    *service.CartService
	catalogs *service.CatalogService
	accounts *service.AccountService
}

func newHandlerEnv() *handlerEnv {
	env := &handlerEnv{
		live:    newMemoryLive(),
		archive: newMemoryArchive(),
		catalog: newMemoryCatalog(),
		identity: &staticIdentity{tokens: map[string]domain.Identity{
			ownerToken:   ownerID,
			rivalToken:   rivalID,
			studentToken: studentID,
			otherToken:   studentTwo,
		}},
	}

	now := time.Now()
	env.catalog.canteens["canteen-1"] = domain.Canteen{ID: "canteen-1", Name: "Main Canteen", OwnerID: ownerID.UID, Open: true, CreatedAt: now}
	env.catalog.items["canteen-1/tea"] = domain.MenuItem{ID: "tea", CanteenID: "canteen-1", Name: "Tea", Price: 15, Available: true}
	env.catalog.items["canteen-1/dosa"] = domain.MenuItem{ID: "dosa", CanteenID: "canteen-1", Name: "Dosa", Price: 60, Available: true}

	env.orders = service.NewCoordinator(env.live, env.archive, env.archive)
	env.catalogs = service.NewCatalogService(env.catalog, nil)
	env.carts = service.NewCartService(&memoryCarts{carts: make(map[string]domain.Cart)}, env.catalog, env.archive, env.orders, nil, "INR")
	env.accounts = service.NewAccountService(env.catalog, env.archive, env.live, env.catalogs)
	return env
}

// placeOrder puts a pending cash order for user at canteen-1.
func (env *handlerEnv) placeOrder(t *testing.T, userID string) domain.Order {
	t.Helper()
	order, err := env.orders.PlaceOrder(context.Background(), domain.Order{
		ID:            fmt.Sprintf("order-%s-%d", userID, time.Now().UnixNano()),
		UserID:        userID,
		CanteenID:     "canteen-1",
		CanteenName:   "Main Canteen",
		Cart:          []domain.CartItem{{ID: "tea", Name: "Tea", Price: 15, Quantity: 2}},
		PaymentMethod: domain.PaymentMethodCash,
	})
	if err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}
	return order
}
