package constants

type (
	APIStatus   string
	CachePrefix string
)

const (
	APIStatusSuccess APIStatus = "success"
	APIStatusError   APIStatus = "error"

	CachePrefixFlightSearch CachePrefix = "FLIGHT_SEARCH_"
	CachePrefixAirports     CachePrefix = "AIRPORTS"
	CachePrefixAirplanes    CachePrefix = "AIRPLANES_"
)

// CommissionRate is the flat booking-agent commission applied per ticket.
const CommissionRate = 0.05
