package workers

import (
	"context"
	"time"

	"skyreserve/backend/internal/db/repositories"
	"skyreserve/backend/internal/logging"
)

// StatusSweeper advances flight lifecycle states on a timer: departed
// flights move to in-progress and landed ones to completed. Cancellation
// is a staff decision and is never applied by the sweeper.
type StatusSweeper struct {
	flights *repositories.FlightRepository
}

// NewStatusSweeper creates a new sweeper over the flight repository
func NewStatusSweeper(flights *repositories.FlightRepository) *StatusSweeper {
	return &StatusSweeper{flights: flights}
}

// Start begins sweeping on the given interval until ctx is cancelled.
func (s *StatusSweeper) Start(ctx context.Context, interval time.Duration) {
	logging.Info("Status sweeper started", "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Run immediately on start
	s.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			logging.Info("Status sweeper shutting down")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *StatusSweeper) sweep(ctx context.Context) {
	changed, err := s.flights.SweepStatuses(ctx, time.Now())
	if err != nil {
		logging.Error("Status sweep failed", "error", err)
		return
	}
	if changed > 0 {
		logging.Info("Status sweep applied", "flights_updated", changed)
	}
}
