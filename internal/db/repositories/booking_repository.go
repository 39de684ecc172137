package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"skyreserve/backend/internal/constants"
)

// BookingRepository owns the transactional ticket/purchase queries. All
// Tx-suffixed methods run inside a caller-supplied transaction; the
// caller commits or rolls back. The purchase workflow in the service
// layer composes them into one atomic check-and-insert.
type BookingRepository struct {
	db *sqlx.DB
}

func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// BeginTx opens a transaction for one purchase attempt.
func (r *BookingRepository) BeginTx(ctx context.Context) (*sqlx.Tx, error) {
	return r.db.BeginTxx(ctx, nil)
}

// FlightForUpdate is the locked flight row joined with its airplane's
// seat count, as seen inside a purchase transaction.
type FlightForUpdate struct {
	AirlineName string                 `db:"airline_name"`
	FlightNum   int                    `db:"flight_num"`
	Status      constants.FlightStatus `db:"status"`
	Price       float64                `db:"price"`
	Seats       int                    `db:"seats"`
}

// LockFlightTx selects the flight row FOR UPDATE, serializing concurrent
// purchases for the same flight on the row lock.
func (r *BookingRepository) LockFlightTx(ctx context.Context, tx *sqlx.Tx, airline string, flightNum int) (*FlightForUpdate, error) {
	var flight FlightForUpdate
	err := tx.QueryRowxContext(ctx, constants.LockFlightForPurchase, airline, flightNum).StructScan(&flight)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &flight, nil
}

func (r *BookingRepository) CountTicketsTx(ctx context.Context, tx *sqlx.Tx, airline string, flightNum int) (int, error) {
	var count int
	err := tx.QueryRowxContext(ctx, constants.CountTicketsForFlight, airline, flightNum).Scan(&count)
	return count, err
}

func (r *BookingRepository) CustomerExistsTx(ctx context.Context, tx *sqlx.Tx, email string) (bool, error) {
	var exists bool
	err := tx.QueryRowxContext(ctx, constants.CustomerExists, email).Scan(&exists)
	return exists, err
}

func (r *BookingRepository) AgentIDByEmailTx(ctx context.Context, tx *sqlx.Tx, email string) (int, error) {
	var id int
	err := tx.QueryRowxContext(ctx, constants.AgentIDByEmail, email).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	return id, err
}

func (r *BookingRepository) AgentWorksForTx(ctx context.Context, tx *sqlx.Tx, email, airline string) (bool, error) {
	var affiliated bool
	err := tx.QueryRowxContext(ctx, constants.AgentWorksForAirline, email, airline).Scan(&affiliated)
	return affiliated, err
}

// InsertTicketTx creates one seat instance and returns its generated id.
func (r *BookingRepository) InsertTicketTx(ctx context.Context, tx *sqlx.Tx, airline string, flightNum int) (int64, error) {
	var ticketID int64
	err := tx.QueryRowxContext(ctx, constants.InsertTicket, airline, flightNum).Scan(&ticketID)
	return ticketID, err
}

func (r *BookingRepository) InsertPurchaseTx(ctx context.Context, tx *sqlx.Tx, ticketID int64, customerEmail string, agentID *int, purchaseDate time.Time) error {
	_, err := tx.ExecContext(ctx, constants.InsertPurchase, ticketID, customerEmail, agentID, purchaseDate)
	return err
}

// RefundTicket voids a ticket the named customer purchased. The delete
// is a single statement guarded by ownership, and the purchases FK
// cascades, so the ticket and its purchase row always go together.
// ErrNotFound covers both an unknown ticket and someone else's ticket.
func (r *BookingRepository) RefundTicket(ctx context.Context, ticketID int64, customerEmail string) error {
	res, err := r.db.ExecContext(ctx, constants.RefundOwnedTicket, ticketID, customerEmail)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
