package repos

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/celestiaorg/whitebox/internal/db/models"
)

// InstanceRepository reads the nova instances table
type InstanceRepository struct {
	db *gorm.DB
}

// NewInstanceRepository creates a new instance repository
func NewInstanceRepository(db *gorm.DB) *InstanceRepository {
	return &InstanceRepository{db: db}
}

// GetByUUID retrieves an instance by the server ID the compute API reports.
// Soft-deleted rows are returned too so tests can assert on deletion.
func (r *InstanceRepository) GetByUUID(ctx context.Context, uuid string) (*models.Instance, error) {
	var instance models.Instance
	err := r.db.WithContext(ctx).
		Where(models.InstanceUUIDField+" = ?", uuid).
		First(&instance).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get instance %s: %w", uuid, err)
	}
	return &instance, nil
}

// ListByHost returns the live instances scheduled to host
func (r *InstanceRepository) ListByHost(ctx context.Context, host string, opts *models.ListOptions) ([]models.Instance, error) {
	var instances []models.Instance
	query := r.db.WithContext(ctx).Where(models.InstanceHostField+" = ?", host)
	query = applyListOptions(query, opts)
	if err := query.Order("id").Find(&instances).Error; err != nil {
		return nil, fmt.Errorf("failed to list instances on %s: %w", host, err)
	}
	return instances, nil
}

// CountByVMState counts live instances in vmState
func (r *InstanceRepository) CountByVMState(ctx context.Context, vmState string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Instance{}).
		Where(models.InstanceVMStateField+" = ?", vmState).
		Where(models.InstanceDeletedField+" = ?", models.NotDeleted).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count instances in %s: %w", vmState, err)
	}
	return count, nil
}

// CountActive counts live instances in the active vm_state
func (r *InstanceRepository) CountActive(ctx context.Context) (int64, error) {
	return r.CountByVMState(ctx, models.VMStateActive)
}

// applyListOptions applies the list options to the given query
func applyListOptions(query *gorm.DB, opts *models.ListOptions) *gorm.DB {
	if opts == nil {
		opts = &models.ListOptions{}
	}
	if !opts.IncludeDeleted {
		query = query.Where(models.InstanceDeletedField+" = ?", models.NotDeleted)
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = models.DefaultLimit
	}
	query = query.Limit(limit)
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}
	return query
}
