package repositories

import (
	"context"
	"errors"
	"fmt"

	gormModels "skyreserve/backend/internal/models/gorm"

	"gorm.io/gorm"
)

// AccountRepository handles customer, booking agent and staff account rows
// using GORM.
type AccountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new GORM-based account repository
func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// GetCustomer retrieves a customer by email
func (r *AccountRepository) GetCustomer(ctx context.Context, email string) (*gormModels.Customer, error) {
	var customer gormModels.Customer

	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&customer).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch customer: %w", err)
	}

	return &customer, nil
}

// CreateCustomer inserts a new customer row
func (r *AccountRepository) CreateCustomer(ctx context.Context, customer *gormModels.Customer) error {
	err := r.db.WithContext(ctx).Create(customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

// GetAgent retrieves a booking agent by email, affiliations included
func (r *AccountRepository) GetAgent(ctx context.Context, email string) (*gormModels.BookingAgent, error) {
	var agent gormModels.BookingAgent

	err := r.db.WithContext(ctx).
		Preload("Airlines").
		Where("email = ?", email).
		First(&agent).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking agent: %w", err)
	}

	return &agent, nil
}

// CreateAgent inserts a new booking agent row
func (r *AccountRepository) CreateAgent(ctx context.Context, agent *gormModels.BookingAgent) error {
	err := r.db.WithContext(ctx).Create(agent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create booking agent: %w", err)
	}
	return nil
}

// NextAgentID returns the next free numeric agent alias.
func (r *AccountRepository) NextAgentID(ctx context.Context) (int, error) {
	var maxID int
	err := r.db.WithContext(ctx).
		Model(&gormModels.BookingAgent{}).
		Select("COALESCE(MAX(booking_agent_id), 0)").
		Scan(&maxID).Error
	if err != nil {
		return 0, fmt.Errorf("failed to compute agent id: %w", err)
	}
	return maxID + 1, nil
}

// AddAffiliation records that an agent sells tickets for an airline
func (r *AccountRepository) AddAffiliation(ctx context.Context, email, airline string) error {
	row := gormModels.BookingAgentAirline{Email: email, AirlineName: airline}
	err := r.db.WithContext(ctx).Create(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to add affiliation: %w", err)
	}
	return nil
}

// AgentAirlines lists the airline names an agent works for
func (r *AccountRepository) AgentAirlines(ctx context.Context, email string) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Model(&gormModels.BookingAgentAirline{}).
		Where("email = ?", email).
		Pluck("airline_name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list agent airlines: %w", err)
	}
	return names, nil
}

// GetStaff retrieves a staff member by username with their permission set
func (r *AccountRepository) GetStaff(ctx context.Context, username string) (*gormModels.AirlineStaff, error) {
	var staff gormModels.AirlineStaff

	err := r.db.WithContext(ctx).
		Preload("Permissions").
		Where("username = ?", username).
		First(&staff).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch staff: %w", err)
	}

	return &staff, nil
}

// CreateStaff inserts a new airline staff row
func (r *AccountRepository) CreateStaff(ctx context.Context, staff *gormModels.AirlineStaff) error {
	err := r.db.WithContext(ctx).Create(staff).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create staff: %w", err)
	}
	return nil
}
