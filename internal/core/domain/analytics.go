package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

type ItemSales struct {
	ItemID   string          `json:"item_id"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

type CanteenAnalytics struct {
	CanteenID         string              `json:"canteen_id"`
	CompletedOrders   int                 `json:"completed_orders"`
	CancelledOrders   int                 `json:"cancelled_orders"`
	Revenue           decimal.Decimal     `json:"revenue"`
	AverageOrderValue decimal.Decimal     `json:"average_order_value"`
	TopItems          []ItemSales         `json:"top_items"`
	ActiveByStatus    map[OrderStatus]int `json:"active_by_status"`
}

// Summarize builds the owner dashboard figures. Revenue and item sales count
// completed orders only.
func Summarize(canteenID string, archived []ArchivedOrder, active []Order, topN int) CanteenAnalytics {
	out := CanteenAnalytics{
		CanteenID:      canteenID,
		Revenue:        decimal.Zero,
		ActiveByStatus: make(map[OrderStatus]int),
	}

	sales := make(map[string]*ItemSales)
	for _, a := range archived {
		switch a.Status {
		case OrderStatusCancelled:
			out.CancelledOrders++
			continue
		case OrderStatusCompleted:
		default:
			continue
		}

		out.CompletedOrders++
		out.Revenue = out.Revenue.Add(a.Total())
		for _, item := range a.Cart {
			s, ok := sales[item.ID]
			if !ok {
				s = &ItemSales{ItemID: item.ID, Name: item.Name, Revenue: decimal.Zero}
				sales[item.ID] = s
			}
			s.Quantity += item.Quantity
			s.Revenue = s.Revenue.Add(item.Subtotal())
		}
	}

	if out.CompletedOrders > 0 {
		out.AverageOrderValue = out.Revenue.Div(decimal.NewFromInt(int64(out.CompletedOrders))).Round(2)
	} else {
		out.AverageOrderValue = decimal.Zero
	}

	out.TopItems = make([]ItemSales, 0, len(sales))
	for _, s := range sales {
		out.TopItems = append(out.TopItems, *s)
	}
	sort.Slice(out.TopItems, func(i, j int) bool {
		if out.TopItems[i].Quantity != out.TopItems[j].Quantity {
			return out.TopItems[i].Quantity > out.TopItems[j].Quantity
		}
		return out.TopItems[i].Name < out.TopItems[j].Name
	})
	if topN > 0 && len(out.TopItems) > topN {
		out.TopItems = out.TopItems[:topN]
	}

	for _, o := range active {
		if o.Status.IsActive() {
			out.ActiveByStatus[o.Status]++
		}
	}
	return out
}
