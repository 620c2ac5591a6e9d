package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mealflow/backend/internal/domain/billing"
	"github.com/mealflow/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCompanySource implements billing.CompanySource over the account
// system's companies table. Access is strictly read-only.
type GormCompanySource struct {
	db *gorm.DB
}

// NewGormCompanySource creates a new GormCompanySource
func NewGormCompanySource(db *gorm.DB) *GormCompanySource {
	return &GormCompanySource{db: db}
}

// FindByID returns ErrCompanyNotFound if the company does not exist
func (s *GormCompanySource) FindByID(ctx context.Context, id uuid.UUID) (*billing.Company, error) {
	var model models.CompanyModel
	if err := s.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, billing.ErrCompanyNotFound
		}
		return nil, err
	}
	company := model.ToDomain()
	return &company, nil
}

// FindActive lists companies included in batch invoicing
func (s *GormCompanySource) FindActive(ctx context.Context) ([]billing.Company, error) {
	var companyModels []models.CompanyModel
	if err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&companyModels).Error; err != nil {
		return nil, err
	}
	companies := make([]billing.Company, len(companyModels))
	for i, model := range companyModels {
		companies[i] = model.ToDomain()
	}
	return companies, nil
}
