package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mealflow/backend/internal/domain/billing"
	"github.com/mealflow/backend/internal/domain/shared"
	"github.com/mealflow/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements billing.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID loads an invoice with its line items
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("LineItems").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber loads an invoice by its unique invoice number
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, number string) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("LineItems").
		Where("invoice_number = ?", number).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCompany lists a company's invoices, newest first
func (r *GormInvoiceRepository) FindByCompany(ctx context.Context, companyID uuid.UUID) ([]billing.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("LineItems").
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	invoices := make([]billing.Invoice, len(invoiceModels))
	for i, model := range invoiceModels {
		invoices[i] = *model.ToDomain()
	}
	return invoices, nil
}

// Create inserts a new invoice and all its line items. A duplicate invoice
// number surfaces as ErrNumberingConflict for the caller to retry.
func (r *GormInvoiceRepository) Create(ctx context.Context, inv *billing.Invoice) error {
	var model models.InvoiceModel
	model.FromDomain(inv)

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return billing.ErrNumberingConflict
		}
		return err
	}
	return nil
}

// Save updates an existing invoice. Line items are immutable once written
// and are not touched. The update is guarded by the aggregate version: a
// stale invoice loses to whoever committed first.
func (r *GormInvoiceRepository) Save(ctx context.Context, inv *billing.Invoice) error {
	var model models.InvoiceModel
	model.FromDomain(inv)

	result := r.db.WithContext(ctx).
		Omit("LineItems").
		Where("id = ? AND version = ?", model.ID, model.Version-1).
		Select("*").
		Updates(&model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&models.InvoiceModel{}).
			Where("id = ?", model.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return shared.ErrNotFound
		}
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// NextInvoiceNumber computes the next sequential number for the month of the
// reference date. It scans the existing numbers under the month prefix and
// takes max plus one, so the sequence survives string-sort quirks once it
// widens past three digits.
func (r *GormInvoiceRepository) NextInvoiceNumber(ctx context.Context, ref time.Time) (string, error) {
	prefix := billing.InvoiceNumberPrefix(ref)

	var numbers []string
	if err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("invoice_number LIKE ?", prefix+"%").
		Pluck("invoice_number", &numbers).Error; err != nil {
		return "", err
	}

	maxSeq := 0
	for _, number := range numbers {
		seq, err := billing.SequenceFromInvoiceNumber(number)
		if err != nil {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}

	return billing.FormatInvoiceNumber(ref, maxSeq+1), nil
}
