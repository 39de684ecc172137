package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"skyreserve/backend/internal/constants"
	"skyreserve/backend/internal/models/entities"
)

type FlightRepository struct {
	db *sqlx.DB
}

func NewFlightRepository(db *sqlx.DB) *FlightRepository {
	return &FlightRepository{db}
}

func (r *FlightRepository) Get(ctx context.Context, airline string, flightNum int) (*entities.Flight, error) {
	var flight entities.Flight
	err := r.db.QueryRowxContext(ctx, constants.GetFlight, airline, flightNum).StructScan(&flight)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &flight, nil
}

// Search returns flights on a route departing on the given date. When
// airlines is non-empty the result is restricted to those airlines; this
// is how booking-agent searches stay inside the airlines the agent works
// for.
func (r *FlightRepository) Search(ctx context.Context, source, destination string, date time.Time, airlines []string) ([]entities.Flight, error) {
	query := constants.SearchFlights
	args := []interface{}{source, destination, date.Format("2006-01-02")}
	if len(airlines) > 0 {
		query = `
		SELECT airline_name, flight_num, departure_airport, departure_time,
		       arrival_airport, arrival_time, price, status, airplane_id
		FROM flight
		WHERE departure_airport = $1 AND arrival_airport = $2 AND departure_time::date = $3
		  AND airline_name = ANY($4)
		ORDER BY departure_time
		`
		args = append(args, pq.Array(airlines))
	}

	var flights []entities.Flight
	if err := r.db.SelectContext(ctx, &flights, query, args...); err != nil {
		return nil, err
	}
	return flights, nil
}

// ListByAirline returns an airline's flights departing inside the given
// window, for the staff dashboard.
func (r *FlightRepository) ListByAirline(ctx context.Context, airline string, from, to time.Time) ([]entities.Flight, error) {
	const query = `
	SELECT airline_name, flight_num, departure_airport, departure_time,
	       arrival_airport, arrival_time, price, status, airplane_id
	FROM flight
	WHERE airline_name = $1 AND departure_time BETWEEN $2 AND $3
	ORDER BY departure_time
	`
	var flights []entities.Flight
	if err := r.db.SelectContext(ctx, &flights, query, airline, from, to); err != nil {
		return nil, err
	}
	return flights, nil
}

func (r *FlightRepository) Insert(ctx context.Context, flight *entities.Flight) error {
	const query = `
	INSERT INTO flight (airline_name, flight_num, departure_airport, departure_time,
	                    arrival_airport, arrival_time, price, status, airplane_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		flight.AirlineName, flight.FlightNum, flight.DepartureAirport, flight.DepartureTime,
		flight.ArrivalAirport, flight.ArrivalTime, flight.Price, flight.Status, flight.AirplaneID)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *FlightRepository) UpdateStatus(ctx context.Context, airline string, flightNum int, status constants.FlightStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE flight SET status = $1 WHERE airline_name = $2 AND flight_num = $3`,
		status, airline, flightNum)
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

// SoldTickets reports how many seats have been sold for a flight.
func (r *FlightRepository) SoldTickets(ctx context.Context, airline string, flightNum int) (int, error) {
	var count int
	err := r.db.QueryRowxContext(ctx, constants.CountTicketsForFlight, airline, flightNum).Scan(&count)
	return count, err
}

// Delete removes a flight row. The schema cascades the delete through
// tickets and their purchases, so callers must have decided deliberately
// that wiping sold inventory is intended.
func (r *FlightRepository) Delete(ctx context.Context, airline string, flightNum int) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM flight WHERE airline_name = $1 AND flight_num = $2`,
		airline, flightNum)
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

// SweepStatuses advances flight lifecycle states past their scheduled
// times: departed flights become in-progress, landed flights completed.
// Cancelled flights are never touched. Returns rows changed.
func (r *FlightRepository) SweepStatuses(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
	UPDATE flight SET status = 'in-progress'
	WHERE status IN ('upcoming', 'delayed') AND departure_time <= $1 AND arrival_time > $1`, now)
	if err != nil {
		return 0, err
	}
	departed, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	res, err = r.db.ExecContext(ctx, `
	UPDATE flight SET status = 'completed'
	WHERE status IN ('upcoming', 'delayed', 'in-progress') AND arrival_time <= $1`, now)
	if err != nil {
		return departed, err
	}
	landed, err := res.RowsAffected()
	if err != nil {
		return departed, err
	}
	return departed + landed, nil
}

// isUniqueViolation reports whether err is a Postgres unique_violation.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
