package entities

import "time"

// Ticket is one seat instance on one flight. Rows are created at purchase
// time and removed only by flight cascade or explicit voiding.
type Ticket struct {
	TicketID    int64  `db:"ticket_id" json:"ticketId"`
	AirlineName string `db:"airline_name" json:"airlineName"`
	FlightNum   int    `db:"flight_num" json:"flightNum"`
}

// Purchase binds a ticket to the customer holding it. A nil
// BookingAgentID marks a direct sale; reporting must preserve that
// distinction exactly.
type Purchase struct {
	TicketID       int64     `db:"ticket_id" json:"ticketId"`
	CustomerEmail  string    `db:"customer_email" json:"customerEmail"`
	BookingAgentID *int      `db:"booking_agent_id" json:"bookingAgentId,omitempty"`
	PurchaseDate   time.Time `db:"purchase_date" json:"purchaseDate"`
}
