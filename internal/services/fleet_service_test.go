package services

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"skyreserve/backend/internal/common"
	"skyreserve/backend/internal/constants"
	"skyreserve/backend/internal/db/repositories"
	gormModels "skyreserve/backend/internal/models/gorm"
)

func newTestFleetService(t *testing.T) (*FleetService, *gorm.DB) {
	db := setupTestDB(t)
	svc := NewFleetService(
		nil, // flight repository is not reached by these paths
		repositories.NewReferenceRepository(db),
		repositories.NewPermissionRepository(db),
		repositories.NewAccountRepository(db),
		common.NewCacheService(60, 120),
	)

	db.Create(&gormModels.Airline{AirlineName: "China Eastern"})
	db.Create(&gormModels.AirlineStaff{Username: "admin1", Password: "x", AirlineName: "China Eastern"})
	db.Create(&gormModels.Permission{Username: "admin1", PermissionType: constants.PermissionAdmin})
	return svc, db
}

func TestCreateFlightRejectsSameAirport(t *testing.T) {
	svc, _ := newTestFleetService(t)

	_, err := svc.CreateFlight(context.Background(), "admin1", "China Eastern", NewFlight{
		FlightNum:        100,
		DepartureAirport: "PVG",
		ArrivalAirport:   "PVG",
		DepartureTime:    "2026-09-01T08:00:00Z",
		ArrivalTime:      "2026-09-01T12:00:00Z",
		Price:            300,
		AirplaneID:       1,
	})
	if !errors.Is(err, ErrSameAirport) {
		t.Errorf("Expected ErrSameAirport, got %v", err)
	}
}

func TestCreateFlightRequiresAdmin(t *testing.T) {
	svc, db := newTestFleetService(t)
	db.Create(&gormModels.AirlineStaff{Username: "viewer", Password: "x", AirlineName: "China Eastern"})

	_, err := svc.CreateFlight(context.Background(), "viewer", "China Eastern", NewFlight{
		FlightNum:        100,
		DepartureAirport: "PVG",
		ArrivalAirport:   "JFK",
		DepartureTime:    "2026-09-01T08:00:00Z",
		ArrivalTime:      "2026-09-01T20:00:00Z",
		Price:            300,
		AirplaneID:       1,
	})
	if !errors.Is(err, ErrPermissionRequired) {
		t.Errorf("Expected ErrPermissionRequired, got %v", err)
	}
}

func TestCreateFlightUnknownAirport(t *testing.T) {
	svc, _ := newTestFleetService(t)

	_, err := svc.CreateFlight(context.Background(), "admin1", "China Eastern", NewFlight{
		FlightNum:        100,
		DepartureAirport: "PVG",
		ArrivalAirport:   "JFK",
		DepartureTime:    "2026-09-01T08:00:00Z",
		ArrivalTime:      "2026-09-01T20:00:00Z",
		Price:            300,
		AirplaneID:       1,
	})
	if !errors.Is(err, ErrUnknownReference) {
		t.Errorf("Expected ErrUnknownReference for missing airport, got %v", err)
	}
}

func TestCreateFlightRejectsArrivalBeforeDeparture(t *testing.T) {
	svc, db := newTestFleetService(t)
	db.Create(&gormModels.Airport{AirportName: "PVG", AirportCity: "Shanghai"})
	db.Create(&gormModels.Airport{AirportName: "JFK", AirportCity: "New York"})

	_, err := svc.CreateFlight(context.Background(), "admin1", "China Eastern", NewFlight{
		FlightNum:        100,
		DepartureAirport: "PVG",
		ArrivalAirport:   "JFK",
		DepartureTime:    "2026-09-01T20:00:00Z",
		ArrivalTime:      "2026-09-01T08:00:00Z",
		Price:            300,
		AirplaneID:       1,
	})
	if err == nil {
		t.Error("Expected error for arrival before departure")
	}
}

func TestAddAirplaneAndAirport(t *testing.T) {
	svc, db := newTestFleetService(t)
	ctx := context.Background()

	if err := svc.AddAirport(ctx, "admin1", "PVG", "Shanghai"); err != nil {
		t.Fatalf("AddAirport failed: %v", err)
	}
	if err := svc.AddAirport(ctx, "admin1", "PVG", "Shanghai"); !errors.Is(err, repositories.ErrDuplicate) {
		t.Errorf("Expected duplicate error, got %v", err)
	}

	if err := svc.AddAirplane(ctx, "admin1", "China Eastern", 1, 120); err != nil {
		t.Fatalf("AddAirplane failed: %v", err)
	}
	if err := svc.AddAirplane(ctx, "admin1", "China Eastern", 1, 0); err == nil {
		t.Error("Expected error for non-positive seats")
	}

	var airplane gormModels.Airplane
	if err := db.Where("airline_name = ? AND airplane_id = ?", "China Eastern", 1).First(&airplane).Error; err != nil {
		t.Fatalf("Airplane not persisted: %v", err)
	}
	if airplane.Seats != 120 {
		t.Errorf("Expected 120 seats, got %d", airplane.Seats)
	}
}

func TestGrantPermissionScopedToAirline(t *testing.T) {
	svc, db := newTestFleetService(t)
	ctx := context.Background()

	db.Create(&gormModels.Airline{AirlineName: "Delta"})
	db.Create(&gormModels.AirlineStaff{Username: "ops1", Password: "x", AirlineName: "China Eastern"})
	db.Create(&gormModels.AirlineStaff{Username: "rival", Password: "x", AirlineName: "Delta"})

	if err := svc.GrantPermission(ctx, "admin1", "China Eastern", "ops1", constants.PermissionOperator); err != nil {
		t.Fatalf("Grant to own airline failed: %v", err)
	}
	if err := svc.GrantPermission(ctx, "admin1", "China Eastern", "rival", constants.PermissionOperator); err == nil {
		t.Error("Expected grant to another airline's staff to fail")
	}

	perms := repositories.NewPermissionRepository(db)
	ok, err := perms.Has(ctx, "ops1", constants.PermissionOperator)
	if err != nil || !ok {
		t.Errorf("Expected ops1 to hold Operator, ok=%v err=%v", ok, err)
	}

	// Revoking and re-granting must round-trip.
	if err := svc.RevokePermission(ctx, "admin1", "China Eastern", "ops1", constants.PermissionOperator); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}
	ok, _ = perms.Has(ctx, "ops1", constants.PermissionOperator)
	if ok {
		t.Error("Expected Operator to be revoked")
	}
}

func TestAddAgentAffiliation(t *testing.T) {
	svc, db := newTestFleetService(t)
	ctx := context.Background()

	if err := svc.AddAgentAffiliation(ctx, "admin1", "China Eastern", "ghost@travel.com"); !errors.Is(err, ErrAgentNotFound) {
		t.Errorf("Expected ErrAgentNotFound, got %v", err)
	}

	db.Create(&gormModels.BookingAgent{Email: "agent@travel.com", Password: "x", BookingAgentID: 1})

	if err := svc.AddAgentAffiliation(ctx, "admin1", "China Eastern", "agent@travel.com"); err != nil {
		t.Fatalf("AddAgentAffiliation failed: %v", err)
	}
	// Re-adding the same affiliation is idempotent.
	if err := svc.AddAgentAffiliation(ctx, "admin1", "China Eastern", "agent@travel.com"); err != nil {
		t.Errorf("Expected idempotent affiliation, got %v", err)
	}

	accounts := repositories.NewAccountRepository(db)
	airlines, err := accounts.AgentAirlines(ctx, "agent@travel.com")
	if err != nil || len(airlines) != 1 {
		t.Errorf("Expected one affiliation, got %v err=%v", airlines, err)
	}
}

// newScheduleDB backs the flight repository with an in-memory database
// carrying the flight and ticket tables and their delete cascade.
func newScheduleDB(t *testing.T) *sqlx.DB {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open schedule database: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("Failed to unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	db := sqlx.NewDb(sqlDB, "sqlite3")
	db.MustExec("PRAGMA foreign_keys = ON")
	db.MustExec(`
	CREATE TABLE flight (
		airline_name TEXT    NOT NULL,
		flight_num   INTEGER NOT NULL,
		PRIMARY KEY (airline_name, flight_num)
	)`)
	db.MustExec(`
	CREATE TABLE ticket (
		ticket_id    INTEGER PRIMARY KEY AUTOINCREMENT,
		airline_name TEXT    NOT NULL,
		flight_num   INTEGER NOT NULL,
		FOREIGN KEY (airline_name, flight_num)
			REFERENCES flight (airline_name, flight_num) ON DELETE CASCADE
	)`)
	return db
}

func TestDeleteFlightGuardsSoldTickets(t *testing.T) {
	perms := setupTestDB(t)
	perms.Create(&gormModels.Airline{AirlineName: "China Eastern"})
	perms.Create(&gormModels.AirlineStaff{Username: "admin1", Password: "x", AirlineName: "China Eastern"})
	perms.Create(&gormModels.Permission{Username: "admin1", PermissionType: constants.PermissionAdmin})

	flights := newScheduleDB(t)
	flights.MustExec(`INSERT INTO flight (airline_name, flight_num) VALUES (?, ?)`, "China Eastern", 512)
	flights.MustExec(`INSERT INTO ticket (airline_name, flight_num) VALUES (?, ?)`, "China Eastern", 512)

	svc := NewFleetService(
		repositories.NewFlightRepository(flights),
		repositories.NewReferenceRepository(perms),
		repositories.NewPermissionRepository(perms),
		repositories.NewAccountRepository(perms),
		common.NewCacheService(60, 120),
	)
	ctx := context.Background()

	err := svc.DeleteFlight(ctx, "admin1", "China Eastern", 512, false)
	if !errors.Is(err, ErrTicketsSold) {
		t.Fatalf("Expected ErrTicketsSold for a flight with sold seats, got %v", err)
	}
	var tickets int
	if err := flights.Get(&tickets, "SELECT COUNT(*) FROM ticket"); err != nil || tickets != 1 {
		t.Fatalf("Refused delete must leave tickets, got %d err=%v", tickets, err)
	}

	if err := svc.DeleteFlight(ctx, "admin1", "China Eastern", 512, true); err != nil {
		t.Fatalf("Forced delete failed: %v", err)
	}
	if err := flights.Get(&tickets, "SELECT COUNT(*) FROM ticket"); err != nil || tickets != 0 {
		t.Errorf("Forced delete must cascade tickets away, got %d err=%v", tickets, err)
	}

	if err := svc.DeleteFlight(ctx, "admin1", "China Eastern", 512, false); !errors.Is(err, ErrFlightNotFound) {
		t.Errorf("Expected ErrFlightNotFound for a missing flight, got %v", err)
	}
}
