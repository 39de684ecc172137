package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"skyreserve/backend/internal/auth"
	"skyreserve/backend/internal/services"
)

// parseFlightKey pulls the (airline, flight number) key out of the URL.
func parseFlightKey(r *http.Request) (string, int, bool) {
	airline := chi.URLParam(r, "airline")
	flightNum, err := strconv.Atoi(chi.URLParam(r, "flight_num"))
	if airline == "" || err != nil {
		return "", 0, false
	}
	return airline, flightNum, true
}

// SearchFlightsHandler is the public route search. Query parameters:
// source, destination, date (YYYY-MM-DD).
func SearchFlightsHandler(fltSvc *services.FlightsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		source := r.URL.Query().Get("source")
		destination := r.URL.Query().Get("destination")
		if source == "" || destination == "" {
			respondWithError(w, http.StatusBadRequest, "source and destination are required")
			return
		}

		date, err := time.Parse("2006-01-02", r.URL.Query().Get("date"))
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}

		flights, err := fltSvc.Search(r.Context(), source, destination, date)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusOK, &flights)
	}
}

// AgentSearchFlightsHandler restricts search results to the airlines the
// authenticated agent works for.
func AgentSearchFlightsHandler(fltSvc *services.FlightsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetUserClaims(r.Context())
		if claims == nil {
			respondWithError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		source := r.URL.Query().Get("source")
		destination := r.URL.Query().Get("destination")
		if source == "" || destination == "" {
			respondWithError(w, http.StatusBadRequest, "source and destination are required")
			return
		}
		date, err := time.Parse("2006-01-02", r.URL.Query().Get("date"))
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}

		flights, err := fltSvc.SearchForAgent(r.Context(), claims.Email(), source, destination, date)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusOK, &flights)
	}
}

// FlightDetailHandler returns one flight with live seat availability.
func FlightDetailHandler(fltSvc *services.FlightsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		airline, flightNum, ok := parseFlightKey(r)
		if !ok {
			respondWithError(w, http.StatusBadRequest, "invalid flight key")
			return
		}

		detail, err := fltSvc.Get(r.Context(), airline, flightNum)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusOK, detail)
	}
}

// ListAirportsHandler returns the airport reference list.
func ListAirportsHandler(fltSvc *services.FlightsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		airports, err := fltSvc.ListAirports(r.Context())
		if err != nil {
			respondWithDomainError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, &airports)
	}
}

// ListAirplanesHandler returns the authenticated staff member's fleet.
func ListAirplanesHandler(fltSvc *services.FlightsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetUserClaims(r.Context())
		if claims == nil || claims.Airline() == "" {
			respondWithError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		airplanes, err := fltSvc.ListAirplanes(r.Context(), claims.Airline())
		if err != nil {
			respondWithDomainError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, &airplanes)
	}
}
