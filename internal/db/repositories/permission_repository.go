package repositories

import (
	"context"
	"errors"
	"fmt"

	"skyreserve/backend/internal/constants"
	gormModels "skyreserve/backend/internal/models/gorm"

	"gorm.io/gorm"
)

// PermissionRepository manages the capability rows held by airline staff.
type PermissionRepository struct {
	db *gorm.DB
}

func NewPermissionRepository(db *gorm.DB) *PermissionRepository {
	return &PermissionRepository{db: db}
}

// Has reports whether the staff member holds the named capability.
func (r *PermissionRepository) Has(ctx context.Context, username string, permission constants.PermissionType) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&gormModels.Permission{}).
		Where("username = ? AND permission_type = ?", username, permission).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check permission: %w", err)
	}
	return count > 0, nil
}

// List returns every capability the staff member holds.
func (r *PermissionRepository) List(ctx context.Context, username string) ([]constants.PermissionType, error) {
	var perms []constants.PermissionType
	err := r.db.WithContext(ctx).
		Model(&gormModels.Permission{}).
		Where("username = ?", username).
		Pluck("permission_type", &perms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}
	return perms, nil
}

// Grant adds a capability row. Granting a capability a staff member
// already holds is not an error.
func (r *PermissionRepository) Grant(ctx context.Context, username string, permission constants.PermissionType) error {
	row := gormModels.Permission{Username: username, PermissionType: permission}
	err := r.db.WithContext(ctx).Create(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return fmt.Errorf("failed to grant permission: %w", err)
	}
	return nil
}

// Revoke removes a capability row.
func (r *PermissionRepository) Revoke(ctx context.Context, username string, permission constants.PermissionType) error {
	result := r.db.WithContext(ctx).
		Where("username = ? AND permission_type = ?", username, permission).
		Delete(&gormModels.Permission{})
	if result.Error != nil {
		return fmt.Errorf("failed to revoke permission: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
