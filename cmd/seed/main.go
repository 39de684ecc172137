// Command seed loads a demo dataset: four airlines, a dozen airports, a
// small fleet, staff with permissions, agents with affiliations, demo
// customers and a rolling schedule of flights. Safe to re-run; every
// insert is ON CONFLICT DO NOTHING.
package main

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"skyreserve/backend/internal/common"
	"skyreserve/backend/internal/db"
)

func main() {
	if err := db.InitPostgres(); err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	if err := db.EnsureSchema(); err != nil {
		log.Fatalf("apply schema: %v", err)
	}

	pw, err := common.HashPassword("demo1234")
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	for _, airline := range []string{"American Airlines", "China Eastern", "Delta Airlines", "United Airlines"} {
		mustExec(`INSERT INTO airline (airline_name) VALUES ($1) ON CONFLICT DO NOTHING`, airline)
	}

	airports := [][2]string{
		{"ATL", "Atlanta"}, {"BOS", "Boston"}, {"DEN", "Denver"}, {"DFW", "Dallas"},
		{"DXB", "Dubai"}, {"JFK", "New York"}, {"LAX", "Los Angeles"}, {"ORD", "Chicago"},
		{"PVG", "Shanghai"}, {"SEA", "Seattle"}, {"SFO", "San Francisco"}, {"MIA", "Miami"},
	}
	for _, a := range airports {
		mustExec(`INSERT INTO airport (airport_name, airport_city) VALUES ($1, $2) ON CONFLICT DO NOTHING`, a[0], a[1])
	}

	airplanes := []struct {
		airline string
		id      int
		seats   int
	}{
		{"American Airlines", 303, 300},
		{"China Eastern", 1, 200}, {"China Eastern", 2, 300},
		{"Delta Airlines", 202, 250},
		{"United Airlines", 101, 200},
	}
	for _, p := range airplanes {
		mustExec(`INSERT INTO airplane (airline_name, airplane_id, seats) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
			p.airline, p.id, p.seats)
	}

	staff := []struct {
		username, first, last, dob, airline string
	}{
		{"airlinestaff@demo.com", "Alice", "Admin", "1990-01-01", "American Airlines"},
		{"operator@demo.com", "Oscar", "Operator", "1992-02-02", "China Eastern"},
		{"staff@staff.com", "Eve", "Staff", "1995-05-05", "China Eastern"},
	}
	for _, s := range staff {
		mustExec(`INSERT INTO airline_staff (username, password, first_name, last_name, date_of_birth, airline_name)
		          VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT DO NOTHING`,
			s.username, pw, s.first, s.last, s.dob, s.airline)
	}

	perms := [][2]string{
		{"airlinestaff@demo.com", "Admin"},
		{"airlinestaff@demo.com", "Operator"},
		{"operator@demo.com", "Operator"},
	}
	for _, p := range perms {
		mustExec(`INSERT INTO permission (username, permission_type) VALUES ($1, $2) ON CONFLICT DO NOTHING`, p[0], p[1])
	}

	agents := []struct {
		email string
		id    int
	}{
		{"booking@demo.com", 1}, {"b@b.com", 3},
	}
	for _, a := range agents {
		mustExec(`INSERT INTO booking_agent (email, password, booking_agent_id) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
			a.email, pw, a.id)
	}

	links := [][2]string{
		{"booking@demo.com", "China Eastern"},
		{"b@b.com", "China Eastern"},
		{"b@b.com", "American Airlines"},
	}
	for _, l := range links {
		mustExec(`INSERT INTO booking_agent_work_for (email, airline_name) VALUES ($1, $2) ON CONFLICT DO NOTHING`, l[0], l[1])
	}

	customers := []struct {
		email, name string
	}{
		{"customer@demo.com", "Customer Demo"},
		{"janesmith@gmail.com", "Jane Smith"},
		{"johndoe@gmail.com", "John Doe"},
	}
	for _, c := range customers {
		mustExec(`INSERT INTO customer (email, name, password, building_number, street, city, state,
		                                phone_number, passport_number, passport_expiration, passport_country, date_of_birth)
		          VALUES ($1, $2, $3, '123', 'Main St', 'New York', 'NY', '2120000000', 'P123456', '2030-01-01', 'USA', '1995-09-09')
		          ON CONFLICT DO NOTHING`,
			c.email, c.name, pw)
	}

	seedFlights()

	fmt.Println("Seed complete. All demo passwords are demo1234.")
}

type route struct {
	from, to string
	hours    float64
	base     float64
}

func seedFlights() {
	routes := []route{
		{"JFK", "LAX", 6.0, 60}, {"LAX", "JFK", 6.0, 60},
		{"JFK", "ATL", 2.5, 40}, {"ATL", "JFK", 2.5, 40},
		{"ORD", "DEN", 2.5, 40}, {"DEN", "ORD", 2.5, 40},
		{"JFK", "PVG", 14.0, 120}, {"PVG", "JFK", 13.5, 120},
		{"LAX", "ORD", 4.0, 55}, {"ORD", "LAX", 4.0, 55},
	}
	fleets := []struct {
		airline  string
		airplane int
		baseNum  int
	}{
		{"American Airlines", 303, 100},
		{"China Eastern", 1, 800},
		{"Delta Airlines", 202, 200},
		{"United Airlines", 101, 300},
	}

	now := time.Now().UTC().Truncate(time.Hour)
	for _, fleet := range fleets {
		for i, rt := range routes {
			departure := now.AddDate(0, 0, i+1).Add(time.Duration(8+i) * time.Hour)
			arrival := departure.Add(time.Duration(rt.hours * float64(time.Hour)))
			price := rt.base * rt.hours * (0.8 + 0.4*rand.Float64())

			mustExec(`INSERT INTO flight (airline_name, flight_num, departure_airport, departure_time,
			                              arrival_airport, arrival_time, price, status, airplane_id)
			          VALUES ($1, $2, $3, $4, $5, $6, $7, 'upcoming', $8) ON CONFLICT DO NOTHING`,
				fleet.airline, fleet.baseNum+i, rt.from, departure, rt.to, arrival, price, fleet.airplane)
		}
	}
}

func mustExec(query string, args ...interface{}) {
	if _, err := db.DB.Exec(query, args...); err != nil {
		log.Fatalf("seed insert failed: %v", err)
	}
}
