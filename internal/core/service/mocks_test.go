package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/rl1809/canteen-orders/internal/core/domain"
)

var errUnavailable = errors.New("connection refused")

// Mock LiveOrderStore
type mockLiveStore struct {
	mu           sync.Mutex
	orders       map[string]domain.Order
	feeds        []chan domain.OrderChange
	failSet      error
	failUpdate   error
	failList     error
	failChanges  error
	beforeUpdate func(m *mockLiveStore, orderID string)
}

func newMockLiveStore() *mockLiveStore {
	return &mockLiveStore{orders: make(map[string]domain.Order)}
}

func (m *mockLiveStore) CreateOrder(ctx context.Context, order domain.Order) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSet != nil {
		return false, domain.NewTransportError("live store: create order", m.failSet)
	}
	if _, ok := m.orders[order.ID]; ok {
		return false, nil
	}
	m.orders[order.ID] = order
	m.emit(order, domain.ChangeSet)
	return true, nil
}

func (m *mockLiveStore) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", orderID, domain.ErrNotFound)
	}
	order.Cart = append([]domain.CartItem(nil), order.Cart...)
	return &order, nil
}

func (m *mockLiveStore) UpdateStatus(ctx context.Context, orderID string, from, to domain.OrderStatus) (bool, error) {
	if m.beforeUpdate != nil {
		m.beforeUpdate(m, orderID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failUpdate != nil {
		return false, domain.NewTransportError("live store: update status", m.failUpdate)
	}
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

func (m *mockLiveStore) DeleteOrder(ctx context.Context, orderID string) error {
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

func (m *mockLiveStore) ListOrders(ctx context.Context, filter domain.OrderFilter) (map[string]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failList != nil {
		return nil, domain.NewTransportError("live store: list orders", m.failList)
	}
	out := make(map[string]domain.Order)
	for id, order := range m.orders {
		if order.Matches(filter) {
			out[id] = order
		}
	}
	return out, nil
}

func (m *mockLiveStore) Changes(ctx context.Context) (<-chan domain.OrderChange, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failChanges != nil {
		err := m.failChanges
		m.failChanges = nil
		return nil, err
	}

	ch := make(chan domain.OrderChange, 256)
	m.feeds = append(m.feeds, ch)
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

// emit must be called with m.mu held.
func (m *mockLiveStore) emit(order domain.Order, kind domain.ChangeKind) {
	change := domain.OrderChange{OrderID: order.ID, UserID: order.UserID, CanteenID: order.CanteenID, Kind: kind}
	for _, f := range m.feeds {
		select {
		case f <- change:
		default:
		}
	}
}

func (m *mockLiveStore) has(orderID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.orders[orderID]
	return ok
}

func (m *mockLiveStore) feedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.feeds)
}

// Mock OrderArchive
type mockArchive struct {
	mu          sync.Mutex
	records     map[string]domain.ArchivedOrder
	nextID      int
	failArchive error
	failDelete  error
}

func newMockArchive() *mockArchive {
	return &mockArchive{records: make(map[string]domain.ArchivedOrder)}
}

func (m *mockArchive) ArchiveOrder(ctx context.Context, order domain.Order) (domain.ArchivedOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failArchive != nil {
		return domain.ArchivedOrder{}, domain.NewTransportError("archive: insert", m.failArchive)
	}
	m.nextID++
	rec := domain.ArchivedOrder{ArchiveID: fmt.Sprintf("arch-%d", m.nextID), Order: order}
	m.records[rec.ArchiveID] = rec
	return rec, nil
}

func (m *mockArchive) DeleteArchivedOrder(ctx context.Context, archiveID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failDelete != nil {
		return m.failDelete
	}
	delete(m.records, archiveID)
	return nil
}

func (m *mockArchive) GetArchivedOrder(ctx context.Context, archiveID string) (*domain.ArchivedOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[archiveID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

func (m *mockArchive) FindByOrderID(ctx context.Context, orderID string) (*domain.ArchivedOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range m.records {
		if rec.ID == orderID {
			return &rec, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockArchive) ListArchivedOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.ArchivedOrder, error) {
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

func (m *mockArchive) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// Mock SpendLedger
type mockLedger struct {
	mu      sync.Mutex
	spent   map[string]decimal.Decimal
	entries int
	fail    error
}

func newMockLedger() *mockLedger {
	return &mockLedger{spent: make(map[string]decimal.Decimal)}
}

func (m *mockLedger) RecordSpend(ctx context.Context, userID, orderID string, amount decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return domain.NewTransportError("ledger: record spend", m.fail)
	}
	m.spent[userID] = m.spent[userID].Add(amount)
	m.entries++
	return nil
}

func (m *mockLedger) total(userID string) decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.spent[userID]
}

// Mock StatusPublisher
type mockPublisher struct {
	mu     sync.Mutex
	events []domain.StatusChangedEvent
}

func (m *mockPublisher) PublishStatusChanged(ctx context.Context, event domain.StatusChangedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *mockPublisher) statuses() []domain.OrderStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.OrderStatus, len(m.events))
	for i, e := range m.events {
		out[i] = e.NewStatus
	}
	return out
}

// Mock CartRepository
type mockCartRepo struct {
	mu    sync.Mutex
	carts map[string]domain.Cart
}

func newMockCartRepo() *mockCartRepo {
	return &mockCartRepo{carts: make(map[string]domain.Cart)}
}

func (m *mockCartRepo) LoadCart(ctx context.Context, userID string) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cart := m.carts[userID]
	cart.Items = append([]domain.CartItem(nil), cart.Items...)
	return &cart, nil
}

func (m *mockCartRepo) SaveCart(ctx context.Context, userID string, cart *domain.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *cart
	c.Items = append([]domain.CartItem(nil), cart.Items...)
	m.carts[userID] = c
	return nil
}

func (m *mockCartRepo) DeleteCart(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, userID)
	return nil
}

// Mock CatalogRepository
type mockCatalog struct {
	mu       sync.Mutex
	canteens map[string]domain.Canteen
	items    map[string]domain.MenuItem
}

func newMockCatalog() *mockCatalog {
	return &mockCatalog{
		canteens: make(map[string]domain.Canteen),
		items:    make(map[string]domain.MenuItem),
	}
}

func (m *mockCatalog) SaveCanteen(ctx context.Context, canteen domain.Canteen) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.canteens[canteen.ID] = canteen
	return nil
}

func (m *mockCatalog) GetCanteen(ctx context.Context, canteenID string) (*domain.Canteen, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.canteens[canteenID]
	if !ok {
		return nil, fmt.Errorf("canteen %s: %w", canteenID, domain.ErrNotFound)
	}
	return &c, nil
}

func (m *mockCatalog) ListCanteens(ctx context.Context) ([]domain.Canteen, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Canteen
	for _, c := range m.canteens {
		out = append(out, c)
	}
	return out, nil
}

func (m *mockCatalog) SaveMenuItem(ctx context.Context, item domain.MenuItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.CanteenID+"/"+item.ID] = item
	return nil
}

func (m *mockCatalog) GetMenuItem(ctx context.Context, canteenID, itemID string) (*domain.MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[canteenID+"/"+itemID]
	if !ok {
		return nil, fmt.Errorf("menu item %s: %w", itemID, domain.ErrNotFound)
	}
	return &item, nil
}

func (m *mockCatalog) ListMenuItems(ctx context.Context, canteenID string) ([]domain.MenuItem, error) {
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

func (m *mockCatalog) DeleteMenuItem(ctx context.Context, canteenID, itemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, canteenID+"/"+itemID)
	return nil
}

// Mock PaymentGateway
type mockPayments struct {
	mu       sync.Mutex
	calls    int
	amount   decimal.Decimal
	currency string
	receipt  string
	fail     error
}

func (m *mockPayments) CreatePaymentOrder(ctx context.Context, amount decimal.Decimal, currency, receipt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.fail != nil {
		return "", m.fail
	}
	m.amount, m.currency, m.receipt = amount, currency, receipt
	return "pay_" + receipt, nil
}

// Mock ObjectStorage
type mockImages struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMockImages() *mockImages {
	return &mockImages{objects: make(map[string][]byte)}
}

func (m *mockImages) Upload(ctx context.Context, path, contentType string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[path] = data
	return "https://cdn.test/" + path, nil
}

func (m *mockImages) Delete(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, path)
	return nil
}

// Mock UserRepository
type mockUsers struct {
	mu    sync.Mutex
	users map[string]domain.UserProfile
}

func newMockUsers() *mockUsers {
	return &mockUsers{users: make(map[string]domain.UserProfile)}
}

func (m *mockUsers) UpsertUser(ctx context.Context, identity domain.Identity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.users[identity.UID]
	p.UID = identity.UID
	p.DisplayName = identity.DisplayName
	p.Email = identity.Email
	p.PhotoURL = identity.PhotoURL
	p.Role = identity.Role
	m.users[identity.UID] = p
	return nil
}

func (m *mockUsers) GetUser(ctx context.Context, uid string) (*domain.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.users[uid]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}
