package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mealflow/backend/internal/domain/billing"
	"github.com/mealflow/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOrderSource implements billing.OrderSource over the ordering system's
// tables. Access is strictly read-only.
type GormOrderSource struct {
	db *gorm.DB
}

// NewGormOrderSource creates a new GormOrderSource
func NewGormOrderSource(db *gorm.DB) *GormOrderSource {
	return &GormOrderSource{db: db}
}

// FindBillableOrders returns the company's orders created within [start, end]
// whose status is in the billable set
func (s *GormOrderSource) FindBillableOrders(ctx context.Context, companyID uuid.UUID, start, end time.Time) ([]billing.Order, error) {
	var orderModels []models.OrderModel
	if err := s.db.WithContext(ctx).
		Preload("Items").
		Where("company_id = ? AND status IN ? AND created_at >= ? AND created_at <= ?",
			companyID, billing.BillableOrderStatuses(), start, end).
		Order("created_at ASC").
		Find(&orderModels).Error; err != nil {
		return nil, err
	}
	orders := make([]billing.Order, len(orderModels))
	for i, model := range orderModels {
		orders[i] = model.ToDomain()
	}
	return orders, nil
}
