package services

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"

	"skyreserve/backend/internal/db/repositories"
	"skyreserve/backend/internal/logging"
	"skyreserve/backend/internal/metrics"
)

// maxPurchaseAttempts bounds the retry loop around serialization
// conflicts. The capacity invariant is enforced by the row lock, not by
// retrying, so a small bound is enough.
const maxPurchaseAttempts = 3

// PurchaseTx is one in-flight purchase transaction. Every read inside it
// sees the flight row pinned by LockFlight until Commit or Rollback.
type PurchaseTx interface {
	LockFlight(ctx context.Context, airline string, flightNum int) (*repositories.FlightForUpdate, error)
	CountTickets(ctx context.Context, airline string, flightNum int) (int, error)
	CustomerExists(ctx context.Context, email string) (bool, error)
	AgentIDByEmail(ctx context.Context, email string) (int, error)
	AgentWorksFor(ctx context.Context, email, airline string) (bool, error)
	InsertTicket(ctx context.Context, airline string, flightNum int) (int64, error)
	InsertPurchase(ctx context.Context, ticketID int64, customerEmail string, agentID *int, purchaseDate time.Time) error
	Commit() error
	Rollback() error
}

// BookingStore is the transactional surface the booking service runs on.
// RefundTicket must be atomic: the ticket and its purchase row are
// removed together or not at all.
type BookingStore interface {
	Begin(ctx context.Context) (PurchaseTx, error)
	RefundTicket(ctx context.Context, ticketID int64, customerEmail string) error
}

// PurchaseRequest describes one seat purchase. AgentEmail is empty for
// direct customer purchases.
type PurchaseRequest struct {
	AirlineName   string `json:"airlineName"`
	FlightNum     int    `json:"flightNum"`
	CustomerEmail string `json:"customerEmail"`
	AgentEmail    string `json:"-"`
}

// PurchaseResult is the receipt for a completed purchase.
type PurchaseResult struct {
	TicketID     int64     `json:"ticketId"`
	AirlineName  string    `json:"airlineName"`
	FlightNum    int       `json:"flightNum"`
	Price        float64   `json:"price"`
	Channel      string    `json:"channel"`
	PurchaseDate time.Time `json:"purchaseDate"`
}

// BookingService runs the atomic purchase workflow.
type BookingService struct {
	store   BookingStore
	metrics *metrics.MetricsRegistry
	now     func() time.Time
}

func NewBookingService(store BookingStore, registry *metrics.MetricsRegistry) *BookingService {
	return &BookingService{
		store:   store,
		metrics: registry,
		now:     time.Now,
	}
}

// Purchase sells one seat on a flight. All checks and both inserts run in
// a single transaction holding the flight row lock, so two concurrent
// purchases of the last seat cannot both succeed. Transient serialization
// conflicts are retried up to maxPurchaseAttempts times; domain failures
// are returned immediately.
func (s *BookingService) Purchase(ctx context.Context, req PurchaseRequest) (*PurchaseResult, error) {
	start := time.Now()

	var result *PurchaseResult
	var err error
	for attempt := 1; attempt <= maxPurchaseAttempts; attempt++ {
		result, err = s.purchaseOnce(ctx, req)
		if err == nil || !isSerializationConflict(err) {
			break
		}
		if s.metrics != nil {
			s.metrics.PurchaseRetriesTotal.Inc()
		}
		logging.Warn("Purchase conflict, retrying",
			"airline", req.AirlineName, "flight", req.FlightNum, "attempt", attempt)
	}

	if s.metrics != nil {
		s.metrics.PurchaseDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			s.metrics.PurchaseFailuresTotal.WithLabelValues(failureReason(err)).Inc()
		} else {
			s.metrics.TicketsSoldTotal.WithLabelValues(result.AirlineName, result.Channel).Inc()
		}
	}
	return result, err
}

func (s *BookingService) purchaseOnce(ctx context.Context, req PurchaseRequest) (*PurchaseResult, error) {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	flight, err := tx.LockFlight(ctx, req.AirlineName, req.FlightNum)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrFlightNotFound
	}
	if err != nil {
		return nil, err
	}
	if !flight.Status.Sellable() {
		return nil, ErrFlightNotSellable
	}

	exists, err := tx.CustomerExists(ctx, req.CustomerEmail)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrCustomerNotFound
	}

	var agentID *int
	channel := "direct"
	if req.AgentEmail != "" {
		id, err := tx.AgentIDByEmail(ctx, req.AgentEmail)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAgentNotFound
		}
		if err != nil {
			return nil, err
		}
		affiliated, err := tx.AgentWorksFor(ctx, req.AgentEmail, req.AirlineName)
		if err != nil {
			return nil, err
		}
		if !affiliated {
			return nil, ErrAgentNotAffiliated
		}
		agentID = &id
		channel = "agent"
	}

	sold, err := tx.CountTickets(ctx, req.AirlineName, req.FlightNum)
	if err != nil {
		return nil, err
	}
	if sold >= flight.Seats {
		return nil, ErrCapacityExceeded
	}

	ticketID, err := tx.InsertTicket(ctx, req.AirlineName, req.FlightNum)
	if err != nil {
		return nil, err
	}
	purchaseDate := s.now()
	if err := tx.InsertPurchase(ctx, ticketID, req.CustomerEmail, agentID, purchaseDate); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	return &PurchaseResult{
		TicketID:     ticketID,
		AirlineName:  req.AirlineName,
		FlightNum:    req.FlightNum,
		Price:        flight.Price,
		Channel:      channel,
		PurchaseDate: purchaseDate,
	}, nil
}

// RefundTicket cancels a customer's purchase. The store removes the
// ticket and its purchase row atomically, so a failed refund never
// leaves an ownerless ticket holding a seat. One customer cannot refund
// another customer's seat; removing the ticket puts the seat back on
// sale.
func (s *BookingService) RefundTicket(ctx context.Context, ticketID int64, customerEmail string) error {
	err := s.store.RefundTicket(ctx, ticketID, customerEmail)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrTicketNotFound
	}
	return err
}

// isSerializationConflict reports whether err is a Postgres
// serialization_failure or deadlock_detected, both safe to retry.
func isSerializationConflict(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}
	return false
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrFlightNotFound):
		return "flight_not_found"
	case errors.Is(err, ErrFlightNotSellable):
		return "not_sellable"
	case errors.Is(err, ErrCustomerNotFound):
		return "customer_not_found"
	case errors.Is(err, ErrAgentNotFound):
		return "agent_not_found"
	case errors.Is(err, ErrAgentNotAffiliated):
		return "agent_not_affiliated"
	case errors.Is(err, ErrCapacityExceeded):
		return "sold_out"
	default:
		return "internal"
	}
}
