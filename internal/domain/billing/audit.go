package billing

import (
	"github.com/google/uuid"
	"github.com/mealflow/backend/internal/domain/shared"
)

// AuditAction identifies the state-changing operation an audit entry records
type AuditAction string

const (
	AuditActionInvoiceGenerated AuditAction = "INVOICE_GENERATED"
	AuditActionInvoiceIssued    AuditAction = "INVOICE_ISSUED"
	AuditActionInvoicePaid      AuditAction = "INVOICE_PAID"
)

// AuditEntityInvoice is the entity type used for invoice audit entries
const AuditEntityInvoice = "INVOICE"

// SystemActor is the performedBy value for actions taken by the batch runner
const SystemActor = "SYSTEM"

// AuditLogEntry is an append-only record of a state-changing billing action.
// Entries are written in the same transaction as the change they describe
// and are never updated or deleted.
type AuditLogEntry struct {
	shared.BaseEntity
	EntityType  string
	EntityID    uuid.UUID
	Action      AuditAction
	PerformedBy string
	Metadata    Metadata
}

// NewAuditLogEntry creates an audit entry. An empty performedBy defaults to
// the system actor.
func NewAuditLogEntry(entityType string, entityID uuid.UUID, action AuditAction, performedBy string, metadata Metadata) *AuditLogEntry {
	if performedBy == "" {
		performedBy = SystemActor
	}
	if metadata == nil {
		metadata = Metadata{}
	}
	return &AuditLogEntry{
		BaseEntity:  shared.NewBaseEntity(),
		EntityType:  entityType,
		EntityID:    entityID,
		Action:      action,
		PerformedBy: performedBy,
		Metadata:    metadata,
	}
}
