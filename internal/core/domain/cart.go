package domain

import "github.com/shopspring/decimal"

type CartItem struct {
	ID       string  `json:"id" bson:"id"`
	Name     string  `json:"name" bson:"name"`
	Price    float64 `json:"price" bson:"price"`
	Quantity int     `json:"quantity" bson:"quantity"`
}

func (i CartItem) Subtotal() decimal.Decimal {
	return decimal.NewFromFloat(i.Price).Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is the selection of one checkout session. Item ids are unique and
// every quantity is positive; an item whose quantity reaches zero is removed.
type Cart struct {
	CanteenID   string     `json:"canteen_id,omitempty"`
	CanteenName string     `json:"canteen_name,omitempty"`
	Items       []CartItem `json:"items"`
}

// AddItem merges into an existing entry with the same id or appends a new one.
func (c *Cart) AddItem(item CartItem) {
	if item.Quantity <= 0 {
		return
	}
	if i := c.indexOf(item.ID); i >= 0 {
		c.Items[i].Quantity += item.Quantity
		return
	}
	c.Items = append(c.Items, item)
}

// UpdateQuantity applies delta to the item's quantity, clamping at zero.
// Unknown ids are ignored.
func (c *Cart) UpdateQuantity(id string, delta int) {
	i := c.indexOf(id)
	if i < 0 {
		return
	}
	quantity := max(0, c.Items[i].Quantity+delta)
	if quantity == 0 {
		c.removeAt(i)
		return
	}
	c.Items[i].Quantity = quantity
}

func (c *Cart) RemoveItem(id string) {
	if i := c.indexOf(id); i >= 0 {
		c.removeAt(i)
	}
}

// SetCart discards the current contents and canteen context.
func (c *Cart) SetCart(items []CartItem, canteenID, canteenName string) {
	c.Items = make([]CartItem, 0, len(items))
	c.CanteenID = canteenID
	c.CanteenName = canteenName
	for _, item := range items {
		c.AddItem(item)
	}
}

func (c *Cart) Clear() {
	c.Items = nil
	c.CanteenID = ""
	c.CanteenName = ""
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) Total() decimal.Decimal {
	return CartTotal(c.Items)
}

// Snapshot returns a copy of the items that later mutations do not affect.
func (c *Cart) Snapshot() []CartItem {
	out := make([]CartItem, len(c.Items))
	copy(out, c.Items)
	return out
}

func (c *Cart) Quantity(id string) int {
	if i := c.indexOf(id); i >= 0 {
		return c.Items[i].Quantity
	}
	return 0
}

func (c *Cart) indexOf(id string) int {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(i int) {
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
}

func CartTotal(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}
