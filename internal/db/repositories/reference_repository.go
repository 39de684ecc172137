package repositories

import (
	"context"
	"errors"
	"fmt"

	gormModels "skyreserve/backend/internal/models/gorm"

	"gorm.io/gorm"
)

// ReferenceRepository handles the airline, airport and airplane reference
// tables using GORM.
type ReferenceRepository struct {
	db *gorm.DB
}

func NewReferenceRepository(db *gorm.DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

// GetAirline retrieves an airline by name
func (r *ReferenceRepository) GetAirline(ctx context.Context, name string) (*gormModels.Airline, error) {
	var airline gormModels.Airline

	err := r.db.WithContext(ctx).
		Where("airline_name = ?", name).
		First(&airline).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch airline: %w", err)
	}

	return &airline, nil
}

// CreateAirline inserts a new airline row
func (r *ReferenceRepository) CreateAirline(ctx context.Context, airline *gormModels.Airline) error {
	err := r.db.WithContext(ctx).Create(airline).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create airline: %w", err)
	}
	return nil
}

// GetAirport retrieves an airport by name
func (r *ReferenceRepository) GetAirport(ctx context.Context, name string) (*gormModels.Airport, error) {
	var airport gormModels.Airport

	err := r.db.WithContext(ctx).
		Where("airport_name = ?", name).
		First(&airport).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch airport: %w", err)
	}

	return &airport, nil
}

// ListAirports retrieves all airports
func (r *ReferenceRepository) ListAirports(ctx context.Context) ([]gormModels.Airport, error) {
	var airports []gormModels.Airport

	err := r.db.WithContext(ctx).
		Order("airport_name").
		Find(&airports).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list airports: %w", err)
	}

	return airports, nil
}

// CreateAirport inserts a new airport row
func (r *ReferenceRepository) CreateAirport(ctx context.Context, airport *gormModels.Airport) error {
	err := r.db.WithContext(ctx).Create(airport).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create airport: %w", err)
	}
	return nil
}

// GetAirplane retrieves an airplane by its composite key
func (r *ReferenceRepository) GetAirplane(ctx context.Context, airline string, airplaneID int) (*gormModels.Airplane, error) {
	var airplane gormModels.Airplane

	err := r.db.WithContext(ctx).
		Where("airline_name = ? AND airplane_id = ?", airline, airplaneID).
		First(&airplane).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch airplane: %w", err)
	}

	return &airplane, nil
}

// ListAirplanes retrieves an airline's fleet
func (r *ReferenceRepository) ListAirplanes(ctx context.Context, airline string) ([]gormModels.Airplane, error) {
	var airplanes []gormModels.Airplane

	err := r.db.WithContext(ctx).
		Where("airline_name = ?", airline).
		Order("airplane_id").
		Find(&airplanes).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list airplanes: %w", err)
	}

	return airplanes, nil
}

// CreateAirplane inserts a new airplane row
func (r *ReferenceRepository) CreateAirplane(ctx context.Context, airplane *gormModels.Airplane) error {
	err := r.db.WithContext(ctx).Create(airplane).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create airplane: %w", err)
	}
	return nil
}
