package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/mealflow/backend/internal/domain/billing"
	"github.com/mealflow/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormUnitOfWork implements billing.UnitOfWork on top of a GORM transaction.
// Repositories handed to the callback share the transaction, so the invoice
// write and its audit entry commit or roll back together.
type GormUnitOfWork struct {
	db *gorm.DB
}

// NewGormUnitOfWork creates a new GormUnitOfWork
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// Execute runs fn inside a transaction. Returning an error from fn rolls
// everything back. Domain errors pass through unchanged; any other failure,
// including a failed commit, surfaces as a persistence failure.
func (u *GormUnitOfWork) Execute(ctx context.Context, fn func(tx billing.TxRepositories) error) error {
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&txRepositories{tx: tx})
	})
	if err == nil {
		return nil
	}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	return fmt.Errorf("%w: %v", shared.ErrPersistenceFailure, err)
}

// txRepositories bundles transaction-scoped repositories
type txRepositories struct {
	tx *gorm.DB
}

func (r *txRepositories) Invoices() billing.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

func (r *txRepositories) AuditLog() billing.AuditLogRepository {
	return NewGormAuditLogRepository(r.tx)
}
