package constants

const (
	// LockFlightForPurchase pins the flight row for the duration of a
	// purchase transaction so concurrent purchases against the same
	// flight serialize on the capacity check.
	LockFlightForPurchase = `
	SELECT f.airline_name, f.flight_num, f.status, f.price, a.seats
	FROM flight f
	JOIN airplane a ON a.airline_name = f.airline_name AND a.airplane_id = f.airplane_id
	WHERE f.airline_name = $1 AND f.flight_num = $2
	FOR UPDATE OF f
	`

	CountTicketsForFlight = `
	SELECT COUNT(*) FROM ticket WHERE airline_name = $1 AND flight_num = $2
	`

	InsertTicket = `
	INSERT INTO ticket (airline_name, flight_num) VALUES ($1, $2)
	RETURNING ticket_id
	`

	InsertPurchase = `
	INSERT INTO purchases (ticket_id, customer_email, booking_agent_id, purchase_date)
	VALUES ($1, $2, $3, $4)
	`

	// RefundOwnedTicket removes a ticket only when the named customer
	// holds its purchase. One statement: either both rows go (the
	// purchases FK cascades off the ticket) or neither does.
	RefundOwnedTicket = `
	DELETE FROM ticket
	WHERE ticket_id = $1
	  AND EXISTS (
		SELECT 1 FROM purchases WHERE ticket_id = $1 AND customer_email = $2
	  )
	`

	CustomerExists = `
	SELECT EXISTS (SELECT 1 FROM customer WHERE email = $1)
	`

	AgentIDByEmail = `
	SELECT booking_agent_id FROM booking_agent WHERE email = $1
	`

	AgentWorksForAirline = `
	SELECT EXISTS (
		SELECT 1 FROM booking_agent_work_for WHERE email = $1 AND airline_name = $2
	)
	`

	GetFlight = `
	SELECT airline_name, flight_num, departure_airport, departure_time,
	       arrival_airport, arrival_time, price, status, airplane_id
	FROM flight
	WHERE airline_name = $1 AND flight_num = $2
	`

	SearchFlights = `
	SELECT airline_name, flight_num, departure_airport, departure_time,
	       arrival_airport, arrival_time, price, status, airplane_id
	FROM flight
	WHERE departure_airport = $1 AND arrival_airport = $2 AND departure_time::date = $3
	ORDER BY departure_time
	`

	// Month buckets use YYYY-MM so rows sort and group chronologically.
	CustomerSpendingByMonth = `
	SELECT to_char(p.purchase_date, 'YYYY-MM') AS month, SUM(f.price) AS total
	FROM purchases p
	JOIN ticket t ON t.ticket_id = p.ticket_id
	JOIN flight f ON f.airline_name = t.airline_name AND f.flight_num = t.flight_num
	WHERE p.customer_email = $1 AND p.purchase_date BETWEEN $2 AND $3
	GROUP BY month
	ORDER BY month
	`

	CustomerTrips = `
	SELECT f.airline_name, f.flight_num, f.departure_airport, f.departure_time,
	       f.arrival_airport, f.arrival_time, f.price, f.status, p.purchase_date
	FROM purchases p
	JOIN ticket t ON t.ticket_id = p.ticket_id
	JOIN flight f ON f.airline_name = t.airline_name AND f.flight_num = t.flight_num
	WHERE p.customer_email = $1 AND (f.status IN ('upcoming', 'delayed')) = $2
	ORDER BY f.departure_time
	`

	AgentCommission = `
	SELECT COALESCE(SUM(f.price * $4), 0) AS total_commission,
	       COUNT(p.ticket_id)             AS tickets_sold
	FROM purchases p
	JOIN ticket t ON t.ticket_id = p.ticket_id
	JOIN flight f ON f.airline_name = t.airline_name AND f.flight_num = t.flight_num
	WHERE p.booking_agent_id = $1 AND p.purchase_date BETWEEN $2 AND $3
	`

	AgentTopCustomersByTickets = `
	SELECT p.customer_email, COUNT(p.ticket_id) AS tickets
	FROM purchases p
	WHERE p.booking_agent_id = $1 AND p.purchase_date >= $2
	GROUP BY p.customer_email
	ORDER BY tickets DESC
	LIMIT $3
	`

	AgentTopCustomersByCommission = `
	SELECT p.customer_email, SUM(f.price * $4) AS commission
	FROM purchases p
	JOIN ticket t ON t.ticket_id = p.ticket_id
	JOIN flight f ON f.airline_name = t.airline_name AND f.flight_num = t.flight_num
	WHERE p.booking_agent_id = $1 AND p.purchase_date >= $2
	GROUP BY p.customer_email
	ORDER BY commission DESC
	LIMIT $3
	`

	AirlineTicketSales = `
	SELECT COUNT(p.ticket_id)
	FROM purchases p
	JOIN ticket t ON t.ticket_id = p.ticket_id
	WHERE t.airline_name = $1 AND p.purchase_date BETWEEN $2 AND $3
	`

	AirlineTicketSalesByMonth = `
	SELECT to_char(p.purchase_date, 'YYYY-MM') AS month, COUNT(p.ticket_id) AS tickets_sold
	FROM purchases p
	JOIN ticket t ON t.ticket_id = p.ticket_id
	WHERE t.airline_name = $1 AND p.purchase_date BETWEEN $2 AND $3
	GROUP BY month
	ORDER BY month
	`

	// Direct vs indirect revenue hinges on booking_agent_id nullability
	// alone; the attribution must never be inferred from affiliation rows.
	// The split itself is computed in services.SplitRevenue.
	AirlineAttributedSales = `
	SELECT f.price, p.booking_agent_id
	FROM purchases p
	JOIN ticket t ON t.ticket_id = p.ticket_id
	JOIN flight f ON f.airline_name = t.airline_name AND f.flight_num = t.flight_num
	WHERE t.airline_name = $1
	  AND p.purchase_date >= $2
	`

	AirlineTopDestinations = `
	SELECT f.arrival_airport, a.airport_city, COUNT(*) AS num_flights
	FROM flight f
	JOIN airport a ON a.airport_name = f.arrival_airport
	WHERE f.airline_name = $1 AND f.departure_time >= $2
	GROUP BY f.arrival_airport, a.airport_city
	ORDER BY num_flights DESC
	LIMIT $3
	`

	AirlineTopAgentsByTickets = `
	SELECT ba.email, COUNT(p.ticket_id) AS tickets_sold
	FROM booking_agent ba
	JOIN purchases p ON p.booking_agent_id = ba.booking_agent_id
	JOIN ticket t ON t.ticket_id = p.ticket_id
	WHERE t.airline_name = $1 AND p.purchase_date >= $2
	GROUP BY ba.email
	ORDER BY tickets_sold DESC
	LIMIT $3
	`

	AirlineTopAgentsByCommission = `
	SELECT ba.email, SUM(f.price * $4) AS commission
	FROM booking_agent ba
	JOIN purchases p ON p.booking_agent_id = ba.booking_agent_id
	JOIN ticket t ON t.ticket_id = p.ticket_id
	JOIN flight f ON f.airline_name = t.airline_name AND f.flight_num = t.flight_num
	WHERE t.airline_name = $1 AND p.purchase_date >= $2
	GROUP BY ba.email
	ORDER BY commission DESC
	LIMIT $3
	`

	AirlineFrequentCustomers = `
	SELECT c.email, c.name, COUNT(p.ticket_id) AS tickets
	FROM customer c
	JOIN purchases p ON p.customer_email = c.email
	JOIN ticket t ON t.ticket_id = p.ticket_id
	WHERE t.airline_name = $1 AND p.purchase_date >= $2
	GROUP BY c.email, c.name
	ORDER BY tickets DESC
	LIMIT $3
	`

	AirlineCustomerFlights = `
	SELECT f.airline_name, f.flight_num, f.departure_airport, f.departure_time,
	       f.arrival_airport, f.arrival_time, f.price, f.status, p.purchase_date
	FROM purchases p
	JOIN ticket t ON t.ticket_id = p.ticket_id
	JOIN flight f ON f.airline_name = t.airline_name AND f.flight_num = t.flight_num
	WHERE t.airline_name = $1 AND p.customer_email = $2
	ORDER BY f.departure_time
	`

	FlightManifest = `
	SELECT c.email, c.name, p.purchase_date, p.booking_agent_id
	FROM purchases p
	JOIN ticket t ON t.ticket_id = p.ticket_id
	JOIN customer c ON c.email = p.customer_email
	WHERE t.airline_name = $1 AND t.flight_num = $2
	ORDER BY p.purchase_date
	`
)
