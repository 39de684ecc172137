package services

import (
	"context"
	"errors"
	"fmt"

	"skyreserve/backend/internal/auth"
	"skyreserve/backend/internal/common"
	"skyreserve/backend/internal/constants"
	"skyreserve/backend/internal/db/repositories"
	"skyreserve/backend/internal/logging"
	gormModels "skyreserve/backend/internal/models/gorm"
)

// RegistrationService handles signup and login for the three account
// kinds. Customers and agents are keyed by email, staff by username, and
// passwords are always stored bcrypt-hashed.
type RegistrationService struct {
	accounts   *repositories.AccountRepository
	references *repositories.ReferenceRepository
	issuer     *auth.TokenIssuer
}

func NewRegistrationService(accounts *repositories.AccountRepository, references *repositories.ReferenceRepository, issuer *auth.TokenIssuer) *RegistrationService {
	return &RegistrationService{
		accounts:   accounts,
		references: references,
		issuer:     issuer,
	}
}

// CustomerSignup carries the full customer profile required at signup.
type CustomerSignup struct {
	Email              string `json:"email"`
	Name               string `json:"name"`
	Password           string `json:"password"`
	BuildingNumber     string `json:"buildingNumber"`
	Street             string `json:"street"`
	City               string `json:"city"`
	State              string `json:"state"`
	PhoneNumber        string `json:"phoneNumber"`
	PassportNumber     string `json:"passportNumber"`
	PassportExpiration string `json:"passportExpiration"`
	PassportCountry    string `json:"passportCountry"`
	DateOfBirth        string `json:"dateOfBirth"`
}

func (s *RegistrationService) RegisterCustomer(ctx context.Context, req CustomerSignup) error {
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return fmt.Errorf("email, name and password are required")
	}

	hash, err := common.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	customer := &gormModels.Customer{
		Email:              req.Email,
		Name:               req.Name,
		Password:           hash,
		BuildingNumber:     req.BuildingNumber,
		Street:             req.Street,
		City:               req.City,
		State:              req.State,
		PhoneNumber:        req.PhoneNumber,
		PassportNumber:     req.PassportNumber,
		PassportExpiration: req.PassportExpiration,
		PassportCountry:    req.PassportCountry,
		DateOfBirth:        req.DateOfBirth,
	}
	if err := s.accounts.CreateCustomer(ctx, customer); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return ErrDuplicateAccount
		}
		return err
	}

	logging.Info("Customer registered", "email", req.Email)
	return nil
}

// AgentSignup registers a booking agent. Affiliations are granted
// separately by airline staff.
type AgentSignup struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *RegistrationService) RegisterAgent(ctx context.Context, req AgentSignup) error {
	if req.Email == "" || req.Password == "" {
		return fmt.Errorf("email and password are required")
	}

	hash, err := common.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	agentID, err := s.accounts.NextAgentID(ctx)
	if err != nil {
		return err
	}

	agent := &gormModels.BookingAgent{
		Email:          req.Email,
		Password:       hash,
		BookingAgentID: agentID,
	}
	if err := s.accounts.CreateAgent(ctx, agent); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return ErrDuplicateAccount
		}
		return err
	}

	logging.Info("Booking agent registered", "email", req.Email, "agent_id", agentID)
	return nil
}

type StaffSignup struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DateOfBirth string `json:"dateOfBirth"`
	AirlineName string `json:"airlineName"`
}

func (s *RegistrationService) RegisterStaff(ctx context.Context, req StaffSignup) error {
	if req.Username == "" || req.Password == "" || req.AirlineName == "" {
		return fmt.Errorf("username, password and airline are required")
	}

	// Staff must belong to an airline that exists.
	if _, err := s.references.GetAirline(ctx, req.AirlineName); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUnknownReference
		}
		return err
	}

	hash, err := common.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	staff := &gormModels.AirlineStaff{
		Username:    req.Username,
		Password:    hash,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: req.DateOfBirth,
		AirlineName: req.AirlineName,
	}
	if err := s.accounts.CreateStaff(ctx, staff); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return ErrDuplicateAccount
		}
		return err
	}

	logging.Info("Airline staff registered", "username", req.Username, "airline", req.AirlineName)
	return nil
}

// LoginResult carries the signed session token and the identity baked
// into it.
type LoginResult struct {
	Token   string         `json:"token"`
	Email   string         `json:"email"`
	Role    constants.Role `json:"role"`
	Airline string         `json:"airline,omitempty"`
}

// Login verifies credentials for the given role and issues a session
// token. The identity field is the email for customers and agents, the
// username for staff.
func (s *RegistrationService) Login(ctx context.Context, role constants.Role, identity, password string) (*LoginResult, error) {
	var hash, airline string

	switch role {
	case constants.RoleCustomer:
		customer, err := s.accounts.GetCustomer(ctx, identity)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, ErrInvalidCredentials
			}
			return nil, err
		}
		hash = customer.Password
	case constants.RoleBookingAgent:
		agent, err := s.accounts.GetAgent(ctx, identity)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, ErrInvalidCredentials
			}
			return nil, err
		}
		hash = agent.Password
	case constants.RoleAirlineStaff:
		staff, err := s.accounts.GetStaff(ctx, identity)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, ErrInvalidCredentials
			}
			return nil, err
		}
		hash = staff.Password
		airline = staff.AirlineName
	default:
		return nil, fmt.Errorf("unknown role %q", role)
	}

	if !common.VerifyPassword(hash, password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(identity, role, airline)
	if err != nil {
		return nil, err
	}

	logging.Info("Login", "identity", identity, "role", role)
	return &LoginResult{Token: token, Email: identity, Role: role, Airline: airline}, nil
}
