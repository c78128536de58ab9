package models

import (
	"time"
)

// Order statuses as delivered by the restaurant API.
const (
	StatusPending   = "pending"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusServed    = "served"
	StatusCancelled = "cancelled"
)

// Order is the remote API's order document. This service never writes
// orders; every field tolerates being absent in the payload.
type Order struct {
	ID           string      `json:"_id"`
	CustomerName string      `json:"customerName"`
	Status       string      `json:"status"`
	TotalPrice   float64     `json:"totalPrice"`
	Table        *TableRef   `json:"tableId,omitempty"`
	Items        []OrderItem `json:"items"`
	CreatedAt    time.Time   `json:"createdAt"`
}

type TableRef struct {
	ID        string `json:"_id"`
	TableName string `json:"tableName"`
}

type OrderItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// TableName returns the table label with the API's "Unknown" fallback
// for orders whose table reference was not populated.
func (o *Order) TableName() string {
	if o.Table == nil || o.Table.TableName == "" {
		return "Unknown"
	}
	return o.Table.TableName
}

// DisplayCustomer returns the customer name, or "Guest" for walk-ins.
func (o *Order) DisplayCustomer() string {
	if o.CustomerName == "" {
		return "Guest"
	}
	return o.CustomerName
}
