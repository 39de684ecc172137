package services

import "errors"

// Domain errors surfaced by the booking and fleet services. Handlers map
// these onto HTTP statuses; nothing below this layer knows about HTTP.
var (
	ErrFlightNotFound     = errors.New("flight not found")
	ErrFlightNotSellable  = errors.New("flight is not open for sale")
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrAgentNotFound      = errors.New("booking agent not found")
	ErrAgentNotAffiliated = errors.New("booking agent does not work for this airline")
	ErrCapacityExceeded   = errors.New("flight is sold out")
	ErrPermissionRequired = errors.New("missing required permission")
	ErrTicketsSold        = errors.New("flight has sold tickets")
	ErrDuplicateAccount   = errors.New("account already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSameAirport        = errors.New("departure and arrival airport must differ")
	ErrUnknownReference   = errors.New("referenced entity does not exist")
)
