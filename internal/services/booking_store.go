package services

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"skyreserve/backend/internal/db/repositories"
)

// sqlBookingStore adapts BookingRepository's transaction-scoped methods
// onto the BookingStore surface the service runs against.
type sqlBookingStore struct {
	repo *repositories.BookingRepository
}

func NewSQLBookingStore(repo *repositories.BookingRepository) BookingStore {
	return &sqlBookingStore{repo: repo}
}

func (s *sqlBookingStore) Begin(ctx context.Context) (PurchaseTx, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	return &sqlPurchaseTx{tx: tx, repo: s.repo}, nil
}

func (s *sqlBookingStore) RefundTicket(ctx context.Context, ticketID int64, customerEmail string) error {
	return s.repo.RefundTicket(ctx, ticketID, customerEmail)
}

type sqlPurchaseTx struct {
	tx   *sqlx.Tx
	repo *repositories.BookingRepository
}

func (p *sqlPurchaseTx) LockFlight(ctx context.Context, airline string, flightNum int) (*repositories.FlightForUpdate, error) {
	return p.repo.LockFlightTx(ctx, p.tx, airline, flightNum)
}

func (p *sqlPurchaseTx) CountTickets(ctx context.Context, airline string, flightNum int) (int, error) {
	return p.repo.CountTicketsTx(ctx, p.tx, airline, flightNum)
}

func (p *sqlPurchaseTx) CustomerExists(ctx context.Context, email string) (bool, error) {
	return p.repo.CustomerExistsTx(ctx, p.tx, email)
}

func (p *sqlPurchaseTx) AgentIDByEmail(ctx context.Context, email string) (int, error) {
	return p.repo.AgentIDByEmailTx(ctx, p.tx, email)
}

func (p *sqlPurchaseTx) AgentWorksFor(ctx context.Context, email, airline string) (bool, error) {
	return p.repo.AgentWorksForTx(ctx, p.tx, email, airline)
}

func (p *sqlPurchaseTx) InsertTicket(ctx context.Context, airline string, flightNum int) (int64, error) {
	return p.repo.InsertTicketTx(ctx, p.tx, airline, flightNum)
}

func (p *sqlPurchaseTx) InsertPurchase(ctx context.Context, ticketID int64, customerEmail string, agentID *int, purchaseDate time.Time) error {
	return p.repo.InsertPurchaseTx(ctx, p.tx, ticketID, customerEmail, agentID, purchaseDate)
}

func (p *sqlPurchaseTx) Commit() error   { return p.tx.Commit() }
func (p *sqlPurchaseTx) Rollback() error { return p.tx.Rollback() }
