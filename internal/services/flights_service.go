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
	"skyreserve/backend/internal/metrics"
	"skyreserve/backend/internal/models/entities"
	gormModels "skyreserve/backend/internal/models/gorm"
)

const (
	searchCacheTTL    = 60 * time.Second
	referenceCacheTTL = 10 * time.Minute
)

// FlightsService serves the public browse surface: route search, flight
// detail with live seat availability, and the cached airport and fleet
// reference lists.
type FlightsService struct {
	flights    *repositories.FlightRepository
	references *repositories.ReferenceRepository
	accounts   *repositories.AccountRepository
	cache      common.CacheInterface
	metrics    *metrics.MetricsRegistry
}

func NewFlightsService(
	flights *repositories.FlightRepository,
	references *repositories.ReferenceRepository,
	accounts *repositories.AccountRepository,
	cache common.CacheInterface,
	registry *metrics.MetricsRegistry,
) *FlightsService {
	return &FlightsService{
		flights:    flights,
		references: references,
		accounts:   accounts,
		cache:      cache,
		metrics:    registry,
	}
}

// Search returns flights on a route for a date. Results are cached
// briefly; availability is not part of the search payload, so a short TTL
// is safe.
func (svc *FlightsService) Search(ctx context.Context, source, destination string, date time.Time) ([]entities.Flight, error) {
	key := fmt.Sprintf("%s%s_%s_%s", constants.CachePrefixFlightSearch, source, destination, date.Format("2006-01-02"))

	cached, err := svc.cache.GetOrSet(key, searchCacheTTL, func() (any, error) {
		svc.countMiss(string(constants.CachePrefixFlightSearch))
		return svc.flights.Search(ctx, source, destination, date, nil)
	})
	if err != nil {
		return nil, err
	}
	flights, ok := cached.([]entities.Flight)
	if !ok {
		logging.Warn("Flight search cache held unexpected type", "key", key)
		return svc.flights.Search(ctx, source, destination, date, nil)
	}
	return flights, nil
}

// SearchForAgent restricts a route search to the airlines the agent is
// affiliated with. Uncached: the restriction is per-agent.
func (svc *FlightsService) SearchForAgent(ctx context.Context, agentEmail, source, destination string, date time.Time) ([]entities.Flight, error) {
	airlines, err := svc.accounts.AgentAirlines(ctx, agentEmail)
	if err != nil {
		return nil, err
	}
	if len(airlines) == 0 {
		return []entities.Flight{}, nil
	}
	return svc.flights.Search(ctx, source, destination, date, airlines)
}

// FlightDetail is a flight plus its live seat availability.
type FlightDetail struct {
	entities.Flight
	Seats          int `json:"seats"`
	SeatsSold      int `json:"seatsSold"`
	SeatsAvailable int `json:"seatsAvailable"`
}

// Get returns one flight with seat counts. Never cached: availability
// must be current.
func (svc *FlightsService) Get(ctx context.Context, airline string, flightNum int) (*FlightDetail, error) {
	flight, err := svc.flights.Get(ctx, airline, flightNum)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrFlightNotFound
	}
	if err != nil {
		return nil, err
	}

	airplane, err := svc.references.GetAirplane(ctx, airline, flight.AirplaneID)
	if err != nil {
		return nil, err
	}
	sold, err := svc.flights.SoldTickets(ctx, airline, flightNum)
	if err != nil {
		return nil, err
	}

	return &FlightDetail{
		Flight:         *flight,
		Seats:          airplane.Seats,
		SeatsSold:      sold,
		SeatsAvailable: airplane.Seats - sold,
	}, nil
}

// ListAirports returns all airports, cached.
func (svc *FlightsService) ListAirports(ctx context.Context) ([]gormModels.Airport, error) {
	cached, err := svc.cache.GetOrSet(string(constants.CachePrefixAirports), referenceCacheTTL, func() (any, error) {
		svc.countMiss(string(constants.CachePrefixAirports))
		return svc.references.ListAirports(ctx)
	})
	if err != nil {
		return nil, err
	}
	airports, ok := cached.([]gormModels.Airport)
	if !ok {
		return svc.references.ListAirports(ctx)
	}
	return airports, nil
}

// ListAirplanes returns an airline's fleet, cached per airline.
func (svc *FlightsService) ListAirplanes(ctx context.Context, airline string) ([]gormModels.Airplane, error) {
	key := string(constants.CachePrefixAirplanes) + airline
	cached, err := svc.cache.GetOrSet(key, referenceCacheTTL, func() (any, error) {
		svc.countMiss(string(constants.CachePrefixAirplanes))
		return svc.references.ListAirplanes(ctx, airline)
	})
	if err != nil {
		return nil, err
	}
	airplanes, ok := cached.([]gormModels.Airplane)
	if !ok {
		return svc.references.ListAirplanes(ctx, airline)
	}
	return airplanes, nil
}

// ListByAirline returns an airline's schedule inside a window, for staff
// views.
func (svc *FlightsService) ListByAirline(ctx context.Context, airline string, from, to time.Time) ([]entities.Flight, error) {
	return svc.flights.ListByAirline(ctx, airline, from, to)
}

func (svc *FlightsService) countMiss(pattern string) {
	if svc.metrics != nil {
		svc.metrics.CacheMissesTotal.WithLabelValues(pattern).Inc()
	}
}
