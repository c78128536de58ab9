package models

import (
	"encoding/json"
)

// Event names on the push channel.
const (
	EventJoinRestaurant     = "join-restaurant"
	EventNewOrder           = "new-order"
	EventOrderStatusUpdated = "order-status-updated"
	EventOrderCancelled     = "order-cancelled"
)

// PushMessage is the wire frame of the push channel: an event name plus an
// event-specific payload.
type PushMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// NewOrderEvent is the payload of a "new-order" frame. All fields are
// optional on the wire; zero values are acceptable defaults.
type NewOrderEvent struct {
	OrderID      string   `json:"orderId"`
	TableNumber  string   `json:"tableNumber"`
	CustomerName string   `json:"customerName"`
	Items        []string `json:"items"`
	TotalPrice   float64  `json:"totalPrice"`
	ItemCount    int      `json:"itemCount"`
	Timestamp    string   `json:"timestamp"`
}

// OrderStatusEvent covers "order-status-updated" and "order-cancelled".
// Both are currently observed without mutating the feed.
type OrderStatusEvent struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}
