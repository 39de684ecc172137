package entities

import (
	"time"

	"skyreserve/backend/internal/constants"
)

// Flight is keyed by (airline_name, flight_num). The airplane reference
// is composite with the airline, so a flight can only ever fly equipment
// its own airline owns.
type Flight struct {
	AirlineName      string                 `db:"airline_name" json:"airlineName"`
	FlightNum        int                    `db:"flight_num" json:"flightNum"`
	DepartureAirport string                 `db:"departure_airport" json:"departureAirport"`
	DepartureTime    time.Time              `db:"departure_time" json:"departureTime"`
	ArrivalAirport   string                 `db:"arrival_airport" json:"arrivalAirport"`
	ArrivalTime      time.Time              `db:"arrival_time" json:"arrivalTime"`
	Price            float64                `db:"price" json:"price"`
	Status           constants.FlightStatus `db:"status" json:"status"`
	AirplaneID       int                    `db:"airplane_id" json:"airplaneId"`
}
