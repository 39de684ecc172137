package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"skyreserve/backend/internal/constants"
	"skyreserve/backend/internal/db/repositories"
	"skyreserve/backend/internal/models/dtos/responses"
	"skyreserve/backend/internal/services"
)

func respondWithSuccess[T any](w http.ResponseWriter, statusCode int, data *T) {
	resp := responses.APIResponse[T]{
		Status:    string(constants.APIStatusSuccess),
		Timestamp: time.Now().UTC(),
		Data:      data,
	}

	w.Header().Set("Content-Type", "application/json")

	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(resp)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	resp := responses.APIResponse[any]{
		Status:    string(constants.APIStatusError),
		Timestamp: time.Now().UTC(),
		Error:     message,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	_ = json.NewEncoder(w).Encode(resp)
}

// respondWithDomainError maps service-layer errors onto HTTP statuses.
// Anything unrecognized is a 500 with a generic message so internals do
// not leak.
func respondWithDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrFlightNotFound),
		errors.Is(err, services.ErrCustomerNotFound),
		errors.Is(err, services.ErrAgentNotFound),
		errors.Is(err, services.ErrTicketNotFound),
		errors.Is(err, repositories.ErrNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrCapacityExceeded),
		errors.Is(err, services.ErrFlightNotSellable),
		errors.Is(err, services.ErrTicketsSold),
		errors.Is(err, services.ErrDuplicateAccount),
		errors.Is(err, repositories.ErrDuplicate):
		respondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrAgentNotAffiliated),
		errors.Is(err, services.ErrPermissionRequired):
		respondWithError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		respondWithError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrSameAirport),
		errors.Is(err, services.ErrUnknownReference):
		respondWithError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
