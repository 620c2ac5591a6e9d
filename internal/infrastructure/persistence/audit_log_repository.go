package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/mealflow/backend/internal/domain/billing"
	"github.com/mealflow/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAuditLogRepository implements billing.AuditLogRepository using GORM.
// The trail is append-only: there is no update or delete path.
type GormAuditLogRepository struct {
	db *gorm.DB
}

// NewGormAuditLogRepository creates a new GormAuditLogRepository
func NewGormAuditLogRepository(db *gorm.DB) *GormAuditLogRepository {
	return &GormAuditLogRepository{db: db}
}

// Append writes a new audit entry
func (r *GormAuditLogRepository) Append(ctx context.Context, entry *billing.AuditLogEntry) error {
	var model models.AuditLogModel
	model.FromDomain(entry)
	return r.db.WithContext(ctx).Create(&model).Error
}

// FindByEntity lists an entity's audit entries, oldest first
func (r *GormAuditLogRepository) FindByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]billing.AuditLogEntry, error) {
	var auditModels []models.AuditLogModel
	if err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at ASC").
		Find(&auditModels).Error; err != nil {
		return nil, err
	}
	entries := make([]billing.AuditLogEntry, len(auditModels))
	for i, model := range auditModels {
		entries[i] = *model.ToDomain()
	}
	return entries, nil
}
