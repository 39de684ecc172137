package repositories

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"skyreserve/backend/internal/constants"
	"skyreserve/backend/internal/models/dtos"
)

// ReportingRepository serves the read-only aggregate queries behind the
// customer, agent and staff dashboards.
type ReportingRepository struct {
	db *sqlx.DB
}

func NewReportingRepository(db *sqlx.DB) *ReportingRepository {
	return &ReportingRepository{db}
}

func (r *ReportingRepository) CustomerSpendingByMonth(ctx context.Context, email string, from, to time.Time) ([]dtos.MonthlyAmount, error) {
	var rows []dtos.MonthlyAmount
	err := r.db.SelectContext(ctx, &rows, constants.CustomerSpendingByMonth, email, from, to)
	return rows, err
}

// CustomerTrips lists a customer's purchased flights. upcoming selects
// between flights still sellable and everything else.
func (r *ReportingRepository) CustomerTrips(ctx context.Context, email string, upcoming bool) ([]dtos.TripRow, error) {
	var rows []dtos.TripRow
	err := r.db.SelectContext(ctx, &rows, constants.CustomerTrips, email, upcoming)
	return rows, err
}

func (r *ReportingRepository) AgentCommission(ctx context.Context, agentID int, from, to time.Time) (*dtos.CommissionSummary, error) {
	var summary dtos.CommissionSummary
	err := r.db.QueryRowxContext(ctx, constants.AgentCommission, agentID, from, to, constants.CommissionRate).StructScan(&summary)
	if err != nil {
		return nil, err
	}
	if summary.TicketsSold > 0 {
		summary.AveragePerSale = summary.TotalCommission / float64(summary.TicketsSold)
	}
	return &summary, nil
}

func (r *ReportingRepository) AgentTopCustomersByTickets(ctx context.Context, agentID int, since time.Time, limit int) ([]dtos.CustomerTicketCount, error) {
	var rows []dtos.CustomerTicketCount
	err := r.db.SelectContext(ctx, &rows, constants.AgentTopCustomersByTickets, agentID, since, limit)
	return rows, err
}

func (r *ReportingRepository) AgentTopCustomersByCommission(ctx context.Context, agentID int, since time.Time, limit int) ([]dtos.CustomerCommission, error) {
	var rows []dtos.CustomerCommission
	err := r.db.SelectContext(ctx, &rows, constants.AgentTopCustomersByCommission, agentID, since, limit, constants.CommissionRate)
	return rows, err
}

func (r *ReportingRepository) AirlineTicketSales(ctx context.Context, airline string, from, to time.Time) (int, error) {
	var count int
	err := r.db.QueryRowxContext(ctx, constants.AirlineTicketSales, airline, from, to).Scan(&count)
	return count, err
}

func (r *ReportingRepository) AirlineTicketSalesByMonth(ctx context.Context, airline string, from, to time.Time) ([]dtos.MonthlyCount, error) {
	var rows []dtos.MonthlyCount
	err := r.db.SelectContext(ctx, &rows, constants.AirlineTicketSalesByMonth, airline, from, to)
	return rows, err
}

// AirlineAttributedSales lists every sale in the window with the price
// and the agent id that attributes it to a channel.
func (r *ReportingRepository) AirlineAttributedSales(ctx context.Context, airline string, since time.Time) ([]dtos.AttributedSale, error) {
	var rows []dtos.AttributedSale
	err := r.db.SelectContext(ctx, &rows, constants.AirlineAttributedSales, airline, since)
	return rows, err
}

func (r *ReportingRepository) AirlineTopDestinations(ctx context.Context, airline string, since time.Time, limit int) ([]dtos.DestinationCount, error) {
	var rows []dtos.DestinationCount
	err := r.db.SelectContext(ctx, &rows, constants.AirlineTopDestinations, airline, since, limit)
	return rows, err
}

func (r *ReportingRepository) AirlineTopAgentsByTickets(ctx context.Context, airline string, since time.Time, limit int) ([]dtos.AgentTicketCount, error) {
	var rows []dtos.AgentTicketCount
	err := r.db.SelectContext(ctx, &rows, constants.AirlineTopAgentsByTickets, airline, since, limit)
	return rows, err
}

func (r *ReportingRepository) AirlineTopAgentsByCommission(ctx context.Context, airline string, since time.Time, limit int) ([]dtos.AgentCommissionTotal, error) {
	var rows []dtos.AgentCommissionTotal
	err := r.db.SelectContext(ctx, &rows, constants.AirlineTopAgentsByCommission, airline, since, limit, constants.CommissionRate)
	return rows, err
}

func (r *ReportingRepository) AirlineFrequentCustomers(ctx context.Context, airline string, since time.Time, limit int) ([]dtos.FrequentCustomer, error) {
	var rows []dtos.FrequentCustomer
	err := r.db.SelectContext(ctx, &rows, constants.AirlineFrequentCustomers, airline, since, limit)
	return rows, err
}

func (r *ReportingRepository) AirlineCustomerFlights(ctx context.Context, airline, email string) ([]dtos.TripRow, error) {
	var rows []dtos.TripRow
	err := r.db.SelectContext(ctx, &rows, constants.AirlineCustomerFlights, airline, email)
	return rows, err
}

func (r *ReportingRepository) FlightManifest(ctx context.Context, airline string, flightNum int) ([]dtos.ManifestEntry, error) {
	var rows []dtos.ManifestEntry
	err := r.db.SelectContext(ctx, &rows, constants.FlightManifest, airline, flightNum)
	return rows, err
}
