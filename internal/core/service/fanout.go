package service

import (
	"context"
	"maps"
	"sort"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/rl1809/canteen-orders/internal/core/domain"
	"github.com/rl1809/canteen-orders/internal/metrics"
	"github.com/rl1809/canteen-orders/internal/port"
)

const defaultResubscribeDelay = time.Second

// Snapshot maps order id to order for every active order matching a filter.
type Snapshot = map[string]domain.Order

// Subscription delivers the full matching snapshot after every change.
// Only the newest undelivered snapshot is kept, so a slow reader skips
// intermediate states but never sees them out of order.
type Subscription struct {
	C <-chan Snapshot

	sub *subscriber
	hub *Hub
}

func (s *Subscription) Close() {
	s.hub.remove(s.sub)
}

type subscriber struct {
	id     uint64
	filter domain.OrderFilter
	out    chan Snapshot

	mu     sync.Mutex
	closed bool
}

// deliver must be called with s.mu held.
func (s *subscriber) deliver(snap Snapshot) {
	if s.closed {
		return
	}
	select {
	case <-s.out:
	default:
	}
	s.out <- snap
}

func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.out)
	}
}

// Hub turns the live store change feed into per-filter snapshots.
type Hub struct {
	live             port.LiveOrderStore
	resubscribeDelay time.Duration

	mu     sync.Mutex
	subs   map[uint64]*subscriber
	nextID uint64
}

func NewHub(live port.LiveOrderStore) *Hub {
	return &Hub{
		live:             live,
		resubscribeDelay: defaultResubscribeDelay,
		subs:             make(map[uint64]*subscriber),
	}
}

func (h *Hub) Subscribe(ctx context.Context, filter domain.OrderFilter) (*Subscription, error) {
	sub := &subscriber{filter: filter, out: make(chan Snapshot, 1)}

	h.mu.Lock()
	h.nextID++
	sub.id = h.nextID
	h.subs[sub.id] = sub
	h.mu.Unlock()
	metrics.ActiveSubscriptions.WithLabelValues(scopeOf(filter)).Inc()

	sub.mu.Lock()
	snap, err := h.live.ListOrders(ctx, filter)
	if err == nil {
		sub.deliver(snap)
	}
	sub.mu.Unlock()

	if err != nil {
		h.remove(sub)
		return nil, err
	}

	log.WithFields(log.Fields{"filter": filter.String(), "subscription": sub.id}).Debug("order subscription opened")
	return &Subscription{C: sub.out, sub: sub, hub: h}, nil
}

// Run consumes the change feed until ctx is done, reconnecting after errors.
// Subscribers keep their last snapshot while the feed is down and are
// resynchronised once it is back.
func (h *Hub) Run(ctx context.Context) {
	first := true
	for {
		changes, err := h.live.Changes(ctx)
		if err != nil {
			log.WithError(err).Warn("order change feed unavailable")
		} else {
			if !first {
				h.refreshAll(ctx)
			}
			for change := range changes {
				h.dispatch(ctx, change)
			}
		}
		first = false

		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case <-time.After(h.resubscribeDelay):
		}
	}
}

func (h *Hub) dispatch(ctx context.Context, change domain.OrderChange) {
	h.refresh(ctx, func(f domain.OrderFilter) bool { return f.MatchesChange(change) })
}

func (h *Hub) refreshAll(ctx context.Context) {
	h.refresh(ctx, func(domain.OrderFilter) bool { return true })
}

// refresh queries once per distinct filter and hands the result to every
// subscriber sharing it. Subscriber locks are taken in id order.
func (h *Hub) refresh(ctx context.Context, match func(domain.OrderFilter) bool) {
	groups := make(map[domain.OrderFilter][]*subscriber)
	h.mu.Lock()
	for _, sub := range h.subs {
		if match(sub.filter) {
			groups[sub.filter] = append(groups[sub.filter], sub)
		}
	}
	h.mu.Unlock()

	for filter, subs := range groups {
		sort.Slice(subs, func(i, j int) bool { return subs[i].id < subs[j].id })
		for _, sub := range subs {
			sub.mu.Lock()
		}

		snap, err := h.live.ListOrders(ctx, filter)
		if err != nil {
			log.WithError(err).WithField("filter", filter.String()).Warn("order snapshot refresh failed, keeping last state")
		} else {
			for _, sub := range subs {
				sub.deliver(maps.Clone(snap))
			}
		}

		for _, sub := range subs {
			sub.mu.Unlock()
		}
	}
}

func (h *Hub) remove(sub *subscriber) {
	h.mu.Lock()
	_, ok := h.subs[sub.id]
	delete(h.subs, sub.id)
	h.mu.Unlock()

	sub.close()
	if ok {
		metrics.ActiveSubscriptions.WithLabelValues(scopeOf(sub.filter)).Dec()
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	subs := make([]*subscriber, 0, len(h.subs))
	for _, sub := range h.subs {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		h.remove(sub)
	}
}

// Len returns the number of open subscriptions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func scopeOf(f domain.OrderFilter) string {
	if f.UserID != "" {
		return "user"
	}
	return "canteen"
}
