package persistence

import (
	"context"

	"github.com/bizledger/backend/internal/domain/company"
	"github.com/bizledger/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCompanyRepository implements company.Repository using GORM
type GormCompanyRepository struct {
	db *gorm.DB
}

// NewGormCompanyRepository creates a new GormCompanyRepository
func NewGormCompanyRepository(db *gorm.DB) *GormCompanyRepository {
	return &GormCompanyRepository{db: db}
}

// FindByID finds a company by its ID
func (r *GormCompanyRepository) FindByID(ctx context.Context, id uuid.UUID) (*company.Company, error) {
	var model models.CompanyRecord
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAllActive returns every active company, oldest first
func (r *GormCompanyRepository) FindAllActive(ctx context.Context) ([]company.Company, error) {
	var records []models.CompanyRecord
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	companies := make([]company.Company, len(records))
	for i := range records {
		companies[i] = *records[i].ToDomain()
	}
	return companies, nil
}

// Save creates or updates a company
func (r *GormCompanyRepository) Save(ctx context.Context, c *company.Company) error {
	return translateWriteError(r.db.WithContext(ctx).Save(models.CompanyRecordFromDomain(c)).Error)
}
