package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/mealflow/backend/internal/domain/billing"
	"github.com/mealflow/backend/internal/domain/shared/valueobject"
)

// InvoiceModel is the persistence model for invoices. The unique index on
// invoice_number backs the numbering guarantee: a concurrent writer that
// claims the same number fails the insert.
type InvoiceModel struct {
	AggregateModel
	CompanyID        uuid.UUID              `gorm:"type:uuid;not null;index"`
	InvoiceNumber    string                 `gorm:"size:32;not null;uniqueIndex"`
	PeriodStart      time.Time              `gorm:"not null"`
	PeriodEnd        time.Time              `gorm:"not null"`
	Status           string                 `gorm:"size:16;not null;index"`
	SubtotalCents    int64                  `gorm:"not null"`
	TaxCents         int64                  `gorm:"not null"`
	TotalCents       int64                  `gorm:"not null"`
	Currency         string                 `gorm:"size:3;not null"`
	DueDate          time.Time              `gorm:"not null"`
	IssuedAt         *time.Time
	PaidAt           *time.Time
	PaymentReference string                 `gorm:"size:128"`
	LineItems        []InvoiceLineItemModel `gorm:"foreignKey:InvoiceID"`
}

// TableName returns the table name for InvoiceModel
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts InvoiceModel to domain Invoice
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	inv := &billing.Invoice{
		CompanyID:        m.CompanyID,
		InvoiceNumber:    m.InvoiceNumber,
		PeriodStart:      m.PeriodStart,
		PeriodEnd:        m.PeriodEnd,
		Status:           billing.InvoiceStatus(m.Status),
		SubtotalCents:    m.SubtotalCents,
		TaxCents:         m.TaxCents,
		TotalCents:       m.TotalCents,
		Currency:         valueobject.Currency(m.Currency),
		DueDate:          m.DueDate,
		IssuedAt:         m.IssuedAt,
		PaidAt:           m.PaidAt,
		PaymentReference: m.PaymentReference,
	}
	m.PopulateAggregateRoot(&inv.BaseAggregateRoot)

	inv.LineItems = make([]billing.InvoiceLineItem, len(m.LineItems))
	for i, li := range m.LineItems {
		inv.LineItems[i] = *li.ToDomain()
	}
	return inv
}

// FromDomain populates InvoiceModel from domain Invoice
func (m *InvoiceModel) FromDomain(inv *billing.Invoice) {
	m.FromDomainAggregateRoot(inv.BaseAggregateRoot)
	m.CompanyID = inv.CompanyID
	m.InvoiceNumber = inv.InvoiceNumber
	m.PeriodStart = inv.PeriodStart
	m.PeriodEnd = inv.PeriodEnd
	m.Status = inv.Status.String()
	m.SubtotalCents = inv.SubtotalCents
	m.TaxCents = inv.TaxCents
	m.TotalCents = inv.TotalCents
	m.Currency = string(inv.Currency)
	m.DueDate = inv.DueDate
	m.IssuedAt = inv.IssuedAt
	m.PaidAt = inv.PaidAt
	m.PaymentReference = inv.PaymentReference

	m.LineItems = make([]InvoiceLineItemModel, len(inv.LineItems))
	for i, li := range inv.LineItems {
		m.LineItems[i].FromDomain(&li)
	}
}

// InvoiceLineItemModel is the persistence model for invoice line items.
// Line items are written once with their invoice and never updated.
type InvoiceLineItemModel struct {
	ID             uuid.UUID        `gorm:"type:uuid;primary_key"`
	InvoiceID      uuid.UUID        `gorm:"type:uuid;not null;index"`
	Type           string           `gorm:"size:16;not null"`
	Description    string           `gorm:"size:255;not null"`
	Quantity       int64            `gorm:"not null"`
	UnitPriceCents int64            `gorm:"not null"`
	TotalCents     int64            `gorm:"not null"`
	Metadata       billing.Metadata `gorm:"type:jsonb"`
	CreatedAt      time.Time        `gorm:"not null"`
}

// TableName returns the table name for InvoiceLineItemModel
func (InvoiceLineItemModel) TableName() string {
	return "invoice_line_items"
}

// ToDomain converts InvoiceLineItemModel to domain InvoiceLineItem
func (m *InvoiceLineItemModel) ToDomain() *billing.InvoiceLineItem {
	return &billing.InvoiceLineItem{
		ID:             m.ID,
		InvoiceID:      m.InvoiceID,
		Type:           billing.LineItemType(m.Type),
		Description:    m.Description,
		Quantity:       m.Quantity,
		UnitPriceCents: m.UnitPriceCents,
		TotalCents:     m.TotalCents,
		Metadata:       m.Metadata,
		CreatedAt:      m.CreatedAt,
	}
}

// FromDomain populates InvoiceLineItemModel from domain InvoiceLineItem
func (m *InvoiceLineItemModel) FromDomain(li *billing.InvoiceLineItem) {
	m.ID = li.ID
	m.InvoiceID = li.InvoiceID
	m.Type = string(li.Type)
	m.Description = li.Description
	m.Quantity = li.Quantity
	m.UnitPriceCents = li.UnitPriceCents
	m.TotalCents = li.TotalCents
	m.Metadata = li.Metadata
	m.CreatedAt = li.CreatedAt
}

// AuditLogModel is the persistence model for the append-only audit trail
type AuditLogModel struct {
	BaseModel
	EntityType  string           `gorm:"size:32;not null;index:idx_audit_entity"`
	EntityID    uuid.UUID        `gorm:"type:uuid;not null;index:idx_audit_entity"`
	Action      string           `gorm:"size:32;not null"`
	PerformedBy string           `gorm:"size:128;not null"`
	Metadata    billing.Metadata `gorm:"type:jsonb"`
}

// TableName returns the table name for AuditLogModel
func (AuditLogModel) TableName() string {
	return "audit_logs"
}

// ToDomain converts AuditLogModel to domain AuditLogEntry
func (m *AuditLogModel) ToDomain() *billing.AuditLogEntry {
	return &billing.AuditLogEntry{
		BaseEntity:  m.BaseModel.ToDomain(),
		EntityType:  m.EntityType,
		EntityID:    m.EntityID,
		Action:      billing.AuditAction(m.Action),
		PerformedBy: m.PerformedBy,
		Metadata:    m.Metadata,
	}
}

// FromDomain populates AuditLogModel from domain AuditLogEntry
func (m *AuditLogModel) FromDomain(e *billing.AuditLogEntry) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.EntityType = e.EntityType
	m.EntityID = e.EntityID
	m.Action = string(e.Action)
	m.PerformedBy = e.PerformedBy
	m.Metadata = e.Metadata
}

// OrderModel is a read-only mapping over the ordering system's orders table.
// Billing queries it but never writes to it.
type OrderModel struct {
	ID        uuid.UUID        `gorm:"type:uuid;primary_key"`
	CompanyID uuid.UUID        `gorm:"type:uuid;not null;index"`
	Status    string           `gorm:"size:16;not null"`
	CreatedAt time.Time        `gorm:"not null"`
	Items     []OrderItemModel `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for OrderModel
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts OrderModel to the domain order read model
func (m *OrderModel) ToDomain() billing.Order {
	order := billing.Order{
		ID:        m.ID,
		CompanyID: m.CompanyID,
		Status:    billing.OrderStatus(m.Status),
		CreatedAt: m.CreatedAt,
		Items:     make([]billing.OrderItem, len(m.Items)),
	}
	for i, item := range m.Items {
		order.Items[i] = billing.OrderItem{
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
		}
	}
	return order
}

// OrderItemModel is a read-only mapping over order items
type OrderItemModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key"`
	OrderID        uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID      uuid.UUID `gorm:"type:uuid;not null"`
	ProductName    string    `gorm:"size:255;not null"`
	Quantity       int64     `gorm:"not null"`
	UnitPriceCents int64     `gorm:"not null"`
}

// TableName returns the table name for OrderItemModel
func (OrderItemModel) TableName() string {
	return "order_items"
}

// CompanyModel is a read-only mapping over the account system's companies table
type CompanyModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	Name         string    `gorm:"size:255;not null"`
	PaymentTerms string    `gorm:"size:16;not null"`
	IsActive     bool      `gorm:"not null;default:true"`
}

// TableName returns the table name for CompanyModel
func (CompanyModel) TableName() string {
	return "companies"
}

// ToDomain converts CompanyModel to the domain company read model
func (m *CompanyModel) ToDomain() billing.Company {
	return billing.Company{
		ID:           m.ID,
		Name:         m.Name,
		PaymentTerms: billing.PaymentTerms(m.PaymentTerms),
		IsActive:     m.IsActive,
	}
}
