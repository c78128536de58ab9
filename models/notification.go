package models

import (
	"fmt"
	"time"
)

// Notification is one entry of the owner's notification feed. The JSON tags
// double as the persisted cache format, so changing them invalidates any
// previously saved feed.
type Notification struct {
	ID           string   `json:"id"`
	OrderID      string   `json:"orderId"`
	TableNumber  string   `json:"tableNumber"`
	CustomerName string   `json:"customerName"`
	Items        []string `json:"items"`
	TotalPrice   float64  `json:"totalPrice"`
	ItemCount    int      `json:"itemCount"`
	Timestamp    string   `json:"timestamp"`
	Read         bool     `json:"read"`
}

// NewNotification builds a feed entry from a push event. The id is
// qualified with the arrival time so that repeated delivery of the same
// order produces distinct records. The display timestamp prefers the
// event's own clock, falls back to arrival time, and is rendered once at
// creation, never recomputed.
func NewNotification(ev NewOrderEvent, now time.Time) Notification {
	items := ev.Items
	if items == nil {
		items = []string{}
	}

	ts := now
	if ev.Timestamp != "" {
		if parsed, err := time.Parse(time.RFC3339, ev.Timestamp); err == nil {
			ts = parsed.In(now.Location())
		}
	}

	return Notification{
		ID:           fmt.Sprintf("%s-%d", ev.OrderID, now.UnixMilli()),
		OrderID:      ev.OrderID,
		TableNumber:  ev.TableNumber,
		CustomerName: ev.CustomerName,
		Items:        items,
		TotalPrice:   ev.TotalPrice,
		ItemCount:    ev.ItemCount,
		Timestamp:    ts.Format("3:04:05 PM"),
		Read:         false,
	}
}
