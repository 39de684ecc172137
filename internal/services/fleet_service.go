package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skyreserve/backend/internal/common"
	"skyreserve/backend/internal/constants"
	"skyreserve/backend/internal/db/repositories"
	"skyreserve/backend/internal/logging"
	"skyreserve/backend/internal/models/entities"
	gormModels "skyreserve/backend/internal/models/gorm"
)

// FleetService covers the airline-staff workflows: schedule management,
// fleet and airport reference data, agent affiliations and staff
// capability grants. Every mutation is scoped to the staff member's own
// airline and gated on a capability row.
type FleetService struct {
	flights     *repositories.FlightRepository
	references  *repositories.ReferenceRepository
	permissions *repositories.PermissionRepository
	accounts    *repositories.AccountRepository
	cache       common.CacheInterface
}

func NewFleetService(
	flights *repositories.FlightRepository,
	references *repositories.ReferenceRepository,
	permissions *repositories.PermissionRepository,
	accounts *repositories.AccountRepository,
	cache common.CacheInterface,
) *FleetService {
	return &FleetService{
		flights:     flights,
		references:  references,
		permissions: permissions,
		accounts:    accounts,
		cache:       cache,
	}
}

func (s *FleetService) requirePermission(ctx context.Context, username string, perm constants.PermissionType) error {
	ok, err := s.permissions.Has(ctx, username, perm)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrPermissionRequired, perm)
	}
	return nil
}

// NewFlight is the staff request to put a flight on the schedule.
type NewFlight struct {
	FlightNum        int     `json:"flightNum"`
	DepartureAirport string  `json:"departureAirport"`
	DepartureTime    string  `json:"departureTime"`
	ArrivalAirport   string  `json:"arrivalAirport"`
	ArrivalTime      string  `json:"arrivalTime"`
	Price            float64 `json:"price"`
	AirplaneID       int     `json:"airplaneId"`
}

// CreateFlight schedules a flight for the staff member's airline. Needs
// the Admin capability.
func (s *FleetService) CreateFlight(ctx context.Context, staffUsername, airline string, req NewFlight) (*entities.Flight, error) {
	if err := s.requirePermission(ctx, staffUsername, constants.PermissionAdmin); err != nil {
		return nil, err
	}
	if req.DepartureAirport == req.ArrivalAirport {
		return nil, ErrSameAirport
	}

	departure, err := time.Parse(time.RFC3339, req.DepartureTime)
	if err != nil {
		return nil, fmt.Errorf("invalid departure time: %w", err)
	}
	arrival, err := time.Parse(time.RFC3339, req.ArrivalTime)
	if err != nil {
		return nil, fmt.Errorf("invalid arrival time: %w", err)
	}
	if !arrival.After(departure) {
		return nil, fmt.Errorf("arrival must be after departure")
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("price must not be negative")
	}

	for _, airport := range []string{req.DepartureAirport, req.ArrivalAirport} {
		if _, err := s.references.GetAirport(ctx, airport); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: airport %s", ErrUnknownReference, airport)
			}
			return nil, err
		}
	}
	if _, err := s.references.GetAirplane(ctx, airline, req.AirplaneID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: airplane %d", ErrUnknownReference, req.AirplaneID)
		}
		return nil, err
	}

	flight := &entities.Flight{
		AirlineName:      airline,
		FlightNum:        req.FlightNum,
		DepartureAirport: req.DepartureAirport,
		DepartureTime:    departure,
		ArrivalAirport:   req.ArrivalAirport,
		ArrivalTime:      arrival,
		Price:            req.Price,
		Status:           constants.StatusUpcoming,
		AirplaneID:       req.AirplaneID,
	}
	if err := s.flights.Insert(ctx, flight); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, fmt.Errorf("flight %d already exists: %w", req.FlightNum, repositories.ErrDuplicate)
		}
		return nil, err
	}

	s.cache.DeletePrefix(string(constants.CachePrefixFlightSearch))
	logging.Info("Flight created", "airline", airline, "flight", req.FlightNum, "by", staffUsername)
	return flight, nil
}

// ChangeFlightStatus updates the lifecycle state of a flight. Needs the
// Operator capability.
func (s *FleetService) ChangeFlightStatus(ctx context.Context, staffUsername, airline string, flightNum int, status constants.FlightStatus) error {
	if err := s.requirePermission(ctx, staffUsername, constants.PermissionOperator); err != nil {
		return err
	}
	if !status.Valid() {
		return fmt.Errorf("unknown flight status %q", status)
	}
	err := s.flights.UpdateStatus(ctx, airline, flightNum, status)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrFlightNotFound
	}
	if err != nil {
		return err
	}
	s.cache.DeletePrefix(string(constants.CachePrefixFlightSearch))
	logging.Info("Flight status changed", "airline", airline, "flight", flightNum, "status", status, "by", staffUsername)
	return nil
}

// DeleteFlight removes a flight from the schedule. If tickets are sold
// the delete is refused unless force is set, since the schema cascade
// would wipe the tickets and their purchase records.
func (s *FleetService) DeleteFlight(ctx context.Context, staffUsername, airline string, flightNum int, force bool) error {
	if err := s.requirePermission(ctx, staffUsername, constants.PermissionAdmin); err != nil {
		return err
	}

	sold, err := s.flights.SoldTickets(ctx, airline, flightNum)
	if err != nil {
		return err
	}
	if sold > 0 && !force {
		return fmt.Errorf("%w: %d tickets", ErrTicketsSold, sold)
	}

	err = s.flights.Delete(ctx, airline, flightNum)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrFlightNotFound
	}
	if err != nil {
		return err
	}
	s.cache.DeletePrefix(string(constants.CachePrefixFlightSearch))
	logging.Warn("Flight deleted", "airline", airline, "flight", flightNum, "sold_tickets", sold, "by", staffUsername)
	return nil
}

// AddAirplane registers a new airplane in the staff member's fleet.
func (s *FleetService) AddAirplane(ctx context.Context, staffUsername, airline string, airplaneID, seats int) error {
	if err := s.requirePermission(ctx, staffUsername, constants.PermissionAdmin); err != nil {
		return err
	}
	if seats <= 0 {
		return fmt.Errorf("seats must be positive")
	}

	airplane := &gormModels.Airplane{AirlineName: airline, AirplaneID: airplaneID, Seats: seats}
	if err := s.references.CreateAirplane(ctx, airplane); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return fmt.Errorf("airplane %d already exists: %w", airplaneID, repositories.ErrDuplicate)
		}
		return err
	}
	s.cache.Delete(string(constants.CachePrefixAirplanes) + airline)
	return nil
}

// AddAirport registers a new airport.
func (s *FleetService) AddAirport(ctx context.Context, staffUsername, name, city string) error {
	if err := s.requirePermission(ctx, staffUsername, constants.PermissionAdmin); err != nil {
		return err
	}
	if name == "" || city == "" {
		return fmt.Errorf("airport name and city are required")
	}

	airport := &gormModels.Airport{AirportName: name, AirportCity: city}
	if err := s.references.CreateAirport(ctx, airport); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return fmt.Errorf("airport %s already exists: %w", name, repositories.ErrDuplicate)
		}
		return err
	}
	s.cache.Delete(string(constants.CachePrefixAirports))
	return nil
}

// AddAgentAffiliation lets staff authorize a booking agent to sell for
// their airline.
func (s *FleetService) AddAgentAffiliation(ctx context.Context, staffUsername, airline, agentEmail string) error {
	if err := s.requirePermission(ctx, staffUsername, constants.PermissionAdmin); err != nil {
		return err
	}

	if _, err := s.accounts.GetAgent(ctx, agentEmail); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrAgentNotFound
		}
		return err
	}

	err := s.accounts.AddAffiliation(ctx, agentEmail, airline)
	if errors.Is(err, repositories.ErrDuplicate) {
		return nil
	}
	return err
}

// GrantPermission gives another staff member of the same airline a
// capability. Only holders of the Admin capability may grant.
func (s *FleetService) GrantPermission(ctx context.Context, staffUsername, airline, targetUsername string, perm constants.PermissionType) error {
	if err := s.requirePermission(ctx, staffUsername, constants.PermissionAdmin); err != nil {
		return err
	}

	target, err := s.accounts.GetStaff(ctx, targetUsername)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: staff %s", ErrUnknownReference, targetUsername)
		}
		return err
	}
	if target.AirlineName != airline {
		return fmt.Errorf("%w: staff %s belongs to another airline", ErrPermissionRequired, targetUsername)
	}

	if err := s.permissions.Grant(ctx, targetUsername, perm); err != nil {
		return err
	}
	logging.Info("Permission granted", "target", targetUsername, "permission", perm, "by", staffUsername)
	return nil
}

// RevokePermission removes a capability from a staff member of the same
// airline.
func (s *FleetService) RevokePermission(ctx context.Context, staffUsername, airline, targetUsername string, perm constants.PermissionType) error {
	if err := s.requirePermission(ctx, staffUsername, constants.PermissionAdmin); err != nil {
		return err
	}

	target, err := s.accounts.GetStaff(ctx, targetUsername)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: staff %s", ErrUnknownReference, targetUsername)
		}
		return err
	}
	if target.AirlineName != airline {
		return fmt.Errorf("%w: staff %s belongs to another airline", ErrPermissionRequired, targetUsername)
	}

	err = s.permissions.Revoke(ctx, targetUsername, perm)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil
	}
	return err
}
