package model

import "time"

// OrderStatus describes fulfilment lifecycle.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether the status belongs to the fixed enum.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Cancellable reports whether an order in this status may still be cancelled.
func (s OrderStatus) Cancellable() bool {
	return s == OrderStatusPending || s == OrderStatusProcessing
}

// PaymentStatus describes payment lifecycle, independent of fulfilment status.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// OrderItem is a line item snapshot taken at order creation time. Quantity and
// unit price are frozen so later catalog changes do not affect the order.
type OrderItem struct {
	ProductID string
	Quantity  int64
	UnitPrice int64
}

// Order describes a purchase order with embedded item snapshots.
type Order struct {
	ID                string
	UserID            string
	ShippingAddressID string
	Items             []OrderItem
	Subtotal          int64
	Status            OrderStatus
	PaymentStatus     PaymentStatus
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Subtotal computes the authoritative order total from item snapshots.
func Subtotal(items []OrderItem) int64 {
	var total int64
	for _, item := range items {
		total += item.Quantity * item.UnitPrice
	}
	return total
}
