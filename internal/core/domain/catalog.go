package domain

import (
	"fmt"
	"strings"
	"time"
)

type Canteen struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"owner_id"`
	Location  string    `json:"location"`
	ImageURL  string    `json:"image_url,omitempty"`
	Open      bool      `json:"open"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c Canteen) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: canteen name is required", ErrValidation)
	}
	if c.OwnerID == "" {
		return fmt.Errorf("%w: canteen owner is required", ErrValidation)
	}
	return nil
}

type MenuItem struct {
	ID          string    `json:"id"`
	CanteenID   string    `json:"canteen_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Category    string    `json:"category,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (m MenuItem) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("%w: menu item name is required", ErrValidation)
	}
	if m.Price < 0 {
		return fmt.Errorf("%w: menu item price must not be negative", ErrValidation)
	}
	return nil
}

// CartItem converts the menu entry into a cart line of the given quantity.
func (m MenuItem) CartItem(quantity int) CartItem {
	return CartItem{ID: m.ID, Name: m.Name, Price: m.Price, Quantity: quantity}
}

// ImagePath is the object storage path of the item's picture.
func (m MenuItem) ImagePath() string {
	return fmt.Sprintf("menu/%s/%s", m.CanteenID, m.ID)
}
