package billing

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus represents the status of an employee meal order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusPreparing OrderStatus = "PREPARING"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// IsBillable returns true if orders in this status are eligible for invoicing
func (s OrderStatus) IsBillable() bool {
	return s == OrderStatusDelivered || s == OrderStatusConfirmed
}

// BillableOrderStatuses returns the set of statuses included in invoices
func BillableOrderStatuses() []OrderStatus {
	return []OrderStatus{OrderStatusDelivered, OrderStatusConfirmed}
}

// OrderItem is a line on an employee order, carrying the product name and
// unit price as they were at order time
type OrderItem struct {
	ProductID      uuid.UUID
	ProductName    string
	Quantity       int64
	UnitPriceCents int64
}

// Order is a read-only view of an employee meal order owned by the ordering
// system. The billing core never mutates orders.
type Order struct {
	ID        uuid.UUID
	CompanyID uuid.UUID
	Status    OrderStatus
	CreatedAt time.Time
	Items     []OrderItem
}

// IsBillable returns true if the order counts toward the company's invoice
func (o *Order) IsBillable() bool {
	return o.Status.IsBillable()
}
