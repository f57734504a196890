package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the persisted lifecycle status of an order.
// There is no persisted "pending" status: proposals live only in the Session.
type OrderStatus string

const (
	OrderConfirmed OrderStatus = "confirmed"
	OrderCancelled OrderStatus = "cancelled"
)

// Valid reports whether s is a status the durable store accepts.
func (s OrderStatus) Valid() bool {
	return s == OrderConfirmed || s == OrderCancelled
}

// Order is a durable order record.
type Order struct {
	ID           string      `json:"order_id"`
	SessionID    string      `json:"session_id"`
	UserName     string      `json:"user_name"`
	Model        string      `json:"model"`
	Price        int64       `json:"price"`
	DeliveryDays int         `json:"delivery_days"`
	Status       OrderStatus `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// ConfirmedOrders filters orders down to the confirmed ones, preserving order.
func ConfirmedOrders(orders []Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		if o.Status == OrderConfirmed {
			out = append(out, o)
		}
	}
	return out
}

// NewOrderID returns a time-ordered identifier for a new order.
func NewOrderID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
