package dtos

import (
	"time"

	"skyreserve/backend/internal/constants"
)

// MonthlyAmount is one month bucket of a spending or sales series.
type MonthlyAmount struct {
	Month string  `db:"month" json:"month"`
	Total float64 `db:"total" json:"total"`
}

type MonthlyCount struct {
	Month   string `db:"month" json:"month"`
	Tickets int    `db:"tickets_sold" json:"ticketsSold"`
}

// TripRow is a flight a customer purchased, joined with its purchase date.
type TripRow struct {
	AirlineName      string                 `db:"airline_name" json:"airlineName"`
	FlightNum        int                    `db:"flight_num" json:"flightNum"`
	DepartureAirport string                 `db:"departure_airport" json:"departureAirport"`
	DepartureTime    time.Time              `db:"departure_time" json:"departureTime"`
	ArrivalAirport   string                 `db:"arrival_airport" json:"arrivalAirport"`
	ArrivalTime      time.Time              `db:"arrival_time" json:"arrivalTime"`
	Price            float64                `db:"price" json:"price"`
	Status           constants.FlightStatus `db:"status" json:"status"`
	PurchaseDate     time.Time              `db:"purchase_date" json:"purchaseDate"`
}

// CommissionSummary aggregates an agent's earnings over a window.
type CommissionSummary struct {
	TotalCommission float64 `db:"total_commission" json:"totalCommission"`
	TicketsSold     int     `db:"tickets_sold" json:"ticketsSold"`
	AveragePerSale  float64 `json:"averagePerSale"`
}

type CustomerTicketCount struct {
	Email   string `db:"customer_email" json:"email"`
	Tickets int    `db:"tickets" json:"tickets"`
}

type CustomerCommission struct {
	Email      string  `db:"customer_email" json:"email"`
	Commission float64 `db:"commission" json:"commission"`
}

type DestinationCount struct {
	Airport string `db:"arrival_airport" json:"airport"`
	City    string `db:"airport_city" json:"city"`
	Flights int    `db:"num_flights" json:"flights"`
}

type AgentTicketCount struct {
	Email   string `db:"email" json:"email"`
	Tickets int    `db:"tickets_sold" json:"tickets"`
}

type AgentCommissionTotal struct {
	Email      string  `db:"email" json:"email"`
	Commission float64 `db:"commission" json:"commission"`
}

type FrequentCustomer struct {
	Email   string `db:"email" json:"email"`
	Name    string `db:"name" json:"name"`
	Tickets int    `db:"tickets" json:"tickets"`
}

// AttributedSale is one sale with the agent id that decides its channel.
// A nil agent id is a direct sale.
type AttributedSale struct {
	Price          float64 `db:"price"`
	BookingAgentID *int    `db:"booking_agent_id"`
}

// RevenueSplit partitions an airline's revenue by sale channel.
type RevenueSplit struct {
	Direct   float64 `json:"direct"`
	Indirect float64 `json:"indirect"`
	Total    float64 `json:"total"`
}

// ManifestEntry is one passenger on a flight manifest. BookingAgentID is
// nil for directly purchased seats.
type ManifestEntry struct {
	Email          string    `db:"email" json:"email"`
	Name           string    `db:"name" json:"name"`
	PurchaseDate   time.Time `db:"purchase_date" json:"purchaseDate"`
	BookingAgentID *int      `db:"booking_agent_id" json:"bookingAgentId,omitempty"`
}
