package services

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"skyreserve/backend/internal/db/repositories"
	"skyreserve/backend/internal/models/dtos"
)

// ReportingService assembles the customer, agent and staff dashboards
// from the aggregate queries. Independent queries inside one dashboard
// fan out on an errgroup.
type ReportingService struct {
	reports  *repositories.ReportingRepository
	accounts *repositories.AccountRepository
	now      func() time.Time
}

func NewReportingService(reports *repositories.ReportingRepository, accounts *repositories.AccountRepository) *ReportingService {
	return &ReportingService{
		reports:  reports,
		accounts: accounts,
		now:      time.Now,
	}
}

// CustomerDashboard is the spending view: six months of buckets plus the
// grand total over the window.
type CustomerDashboard struct {
	TotalSpent float64              `json:"totalSpent"`
	Monthly    []dtos.MonthlyAmount `json:"monthly"`
	Upcoming   []dtos.TripRow       `json:"upcoming"`
}

func (s *ReportingService) CustomerDashboard(ctx context.Context, email string, from, to time.Time) (*CustomerDashboard, error) {
	dashboard := &CustomerDashboard{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		monthly, err := s.reports.CustomerSpendingByMonth(gctx, email, from, to)
		if err != nil {
			return err
		}
		dashboard.Monthly = monthly
		for _, bucket := range monthly {
			dashboard.TotalSpent += bucket.Total
		}
		return nil
	})
	g.Go(func() error {
		trips, err := s.reports.CustomerTrips(gctx, email, true)
		if err != nil {
			return err
		}
		dashboard.Upcoming = trips
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return dashboard, nil
}

func (s *ReportingService) CustomerTrips(ctx context.Context, email string, upcoming bool) ([]dtos.TripRow, error) {
	return s.reports.CustomerTrips(ctx, email, upcoming)
}

// AgentDashboard is the commission view over the last 30 days plus the
// agent's top customers over the last six months.
type AgentDashboard struct {
	Commission      *dtos.CommissionSummary    `json:"commission"`
	TopByTickets    []dtos.CustomerTicketCount `json:"topByTickets"`
	TopByCommission []dtos.CustomerCommission  `json:"topByCommission"`
}

func (s *ReportingService) AgentDashboard(ctx context.Context, agentEmail string) (*AgentDashboard, error) {
	agent, err := s.accounts.GetAgent(ctx, agentEmail)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAgentNotFound
		}
		return nil, err
	}

	now := s.now()
	dashboard := &AgentDashboard{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		summary, err := s.reports.AgentCommission(gctx, agent.BookingAgentID, now.AddDate(0, 0, -30), now)
		if err != nil {
			return err
		}
		dashboard.Commission = summary
		return nil
	})
	g.Go(func() error {
		rows, err := s.reports.AgentTopCustomersByTickets(gctx, agent.BookingAgentID, now.AddDate(0, -6, 0), 5)
		if err != nil {
			return err
		}
		dashboard.TopByTickets = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.reports.AgentTopCustomersByCommission(gctx, agent.BookingAgentID, now.AddDate(0, -6, 0), 5)
		if err != nil {
			return err
		}
		dashboard.TopByCommission = rows
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return dashboard, nil
}

// AgentCommission reports an agent's earnings over an explicit window.
func (s *ReportingService) AgentCommission(ctx context.Context, agentEmail string, from, to time.Time) (*dtos.CommissionSummary, error) {
	agent, err := s.accounts.GetAgent(ctx, agentEmail)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAgentNotFound
		}
		return nil, err
	}
	return s.reports.AgentCommission(ctx, agent.BookingAgentID, from, to)
}

// StaffDashboard is the airline operations view over the last year.
type StaffDashboard struct {
	TicketsSold     int                         `json:"ticketsSold"`
	SalesByMonth    []dtos.MonthlyCount         `json:"salesByMonth"`
	Revenue         dtos.RevenueSplit           `json:"revenue"`
	TopDestinations []dtos.DestinationCount     `json:"topDestinations"`
	TopAgents       []dtos.AgentTicketCount     `json:"topAgents"`
	TopAgentsByComm []dtos.AgentCommissionTotal `json:"topAgentsByCommission"`
	TopCustomers    []dtos.FrequentCustomer     `json:"topCustomers"`
}

func (s *ReportingService) StaffDashboard(ctx context.Context, airline string) (*StaffDashboard, error) {
	now := s.now()
	yearAgo := now.AddDate(-1, 0, 0)
	dashboard := &StaffDashboard{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		count, err := s.reports.AirlineTicketSales(gctx, airline, yearAgo, now)
		if err != nil {
			return err
		}
		dashboard.TicketsSold = count
		return nil
	})
	g.Go(func() error {
		rows, err := s.reports.AirlineTicketSalesByMonth(gctx, airline, yearAgo, now)
		if err != nil {
			return err
		}
		dashboard.SalesByMonth = rows
		return nil
	})
	g.Go(func() error {
		sales, err := s.reports.AirlineAttributedSales(gctx, airline, yearAgo)
		if err != nil {
			return err
		}
		dashboard.Revenue = SplitRevenue(sales)
		return nil
	})
	g.Go(func() error {
		rows, err := s.reports.AirlineTopDestinations(gctx, airline, yearAgo, 3)
		if err != nil {
			return err
		}
		dashboard.TopDestinations = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.reports.AirlineTopAgentsByTickets(gctx, airline, yearAgo, 5)
		if err != nil {
			return err
		}
		dashboard.TopAgents = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.reports.AirlineTopAgentsByCommission(gctx, airline, yearAgo, 5)
		if err != nil {
			return err
		}
		dashboard.TopAgentsByComm = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.reports.AirlineFrequentCustomers(gctx, airline, yearAgo, 5)
		if err != nil {
			return err
		}
		dashboard.TopCustomers = rows
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return dashboard, nil
}

func (s *ReportingService) CustomerFlightsForAirline(ctx context.Context, airline, customerEmail string) ([]dtos.TripRow, error) {
	return s.reports.AirlineCustomerFlights(ctx, airline, customerEmail)
}

func (s *ReportingService) FlightManifest(ctx context.Context, airline string, flightNum int) ([]dtos.ManifestEntry, error) {
	return s.reports.FlightManifest(ctx, airline, flightNum)
}

// SplitRevenue partitions sales into direct and indirect revenue. The
// rule is the purchase record alone: a nil agent id is a direct sale. An
// agent's employment relationship never reclassifies a sale after the
// fact.
func SplitRevenue(sales []dtos.AttributedSale) dtos.RevenueSplit {
	var split dtos.RevenueSplit
	for _, sale := range sales {
		if sale.BookingAgentID == nil {
			split.Direct += sale.Price
		} else {
			split.Indirect += sale.Price
		}
		split.Total += sale.Price
	}
	return split
}
