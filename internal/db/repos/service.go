package repos

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/celestiaorg/whitebox/internal/db/models"
)

// ServiceRepository reads the nova services table
type ServiceRepository struct {
	db *gorm.DB
}

// NewServiceRepository creates a new service repository
func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

// GetByHostAndBinary retrieves the live service record for binary on host
func (r *ServiceRepository) GetByHostAndBinary(ctx context.Context, host, binary string) (*models.Service, error) {
	var service models.Service
	err := r.db.WithContext(ctx).
		Where(&models.Service{Host: host, Binary: binary}).
		Where("deleted = ?", models.NotDeleted).
		First(&service).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get service %s on %s: %w", binary, host, err)
	}
	return &service, nil
}

// ListDisabled returns every live service an operator has disabled
func (r *ServiceRepository) ListDisabled(ctx context.Context) ([]models.Service, error) {
	var services []models.Service
	err := r.db.WithContext(ctx).
		Where("disabled = ?", true).
		Where("deleted = ?", models.NotDeleted).
		Order("id").
		Find(&services).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list disabled services: %w", err)
	}
	return services, nil
}
