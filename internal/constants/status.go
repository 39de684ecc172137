package constants

import (
	"database/sql/driver"
	"fmt"
)

// FlightStatus mirrors the TEXT status column on the flight table.
type FlightStatus string

const (
	StatusUpcoming   FlightStatus = "upcoming"
	StatusDelayed    FlightStatus = "delayed"
	StatusInProgress FlightStatus = "in-progress"
	StatusCompleted  FlightStatus = "completed"
	StatusCancelled  FlightStatus = "cancelled"
)

func (s FlightStatus) String() string { return string(s) }

// Sellable reports whether tickets may still be purchased for a flight
// in this status. Only flights that have not departed and have not been
// cancelled are open for sale.
func (s FlightStatus) Sellable() bool {
	return s == StatusUpcoming || s == StatusDelayed
}

// Valid reports whether s is one of the known lifecycle values.
func (s FlightStatus) Valid() bool {
	switch s {
	case StatusUpcoming, StatusDelayed, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

/* ---------- DB adapters so sqlx (or database/sql) scans/values cleanly ---------- */

// Scan implements the sql.Scanner interface
func (s *FlightStatus) Scan(src interface{}) error {
	if src == nil {
		*s = ""
		return nil
	}
	switch v := src.(type) {
	case string:
		*s = FlightStatus(v)
	case []byte:
		*s = FlightStatus(v)
	default:
		return fmt.Errorf("FlightStatus: cannot scan type %T", src)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (s FlightStatus) Value() (driver.Value, error) { return string(s), nil }
