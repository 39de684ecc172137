package api

import (
	"net/http"
	"time"

	"skyreserve/backend/internal/auth"
	"skyreserve/backend/internal/services"
)

// CustomerDashboardHandler returns spending buckets and upcoming trips
// for the authenticated customer. Optional from/to query parameters
// (YYYY-MM-DD) override the default six month window.
func CustomerDashboardHandler(reportSvc *services.ReportingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetUserClaims(r.Context())
		if claims == nil {
			respondWithError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		now := time.Now()
		from, to := now.AddDate(0, -6, 0), now
		if qs := r.URL.Query().Get("from"); qs != "" {
			parsed, err := time.Parse("2006-01-02", qs)
			if err != nil {
				respondWithError(w, http.StatusBadRequest, "from must be YYYY-MM-DD")
				return
			}
			from = parsed
		}
		if qs := r.URL.Query().Get("to"); qs != "" {
			parsed, err := time.Parse("2006-01-02", qs)
			if err != nil {
				respondWithError(w, http.StatusBadRequest, "to must be YYYY-MM-DD")
				return
			}
			to = parsed
		}

		dashboard, err := reportSvc.CustomerDashboard(r.Context(), claims.Email(), from, to)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusOK, dashboard)
	}
}

// CustomerTripsHandler lists the authenticated customer's flights.
// ?scope=past flips from upcoming to completed travel.
func CustomerTripsHandler(reportSvc *services.ReportingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetUserClaims(r.Context())
		if claims == nil {
			respondWithError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		upcoming := r.URL.Query().Get("scope") != "past"
		trips, err := reportSvc.CustomerTrips(r.Context(), claims.Email(), upcoming)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusOK, &trips)
	}
}

// AgentDashboardHandler returns the authenticated agent's commission
// summary and top customers.
func AgentDashboardHandler(reportSvc *services.ReportingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetUserClaims(r.Context())
		if claims == nil {
			respondWithError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		dashboard, err := reportSvc.AgentDashboard(r.Context(), claims.Email())
		if err != nil {
			respondWithDomainError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusOK, dashboard)
	}
}

// AgentCommissionHandler reports commission over an explicit window.
func AgentCommissionHandler(reportSvc *services.ReportingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetUserClaims(r.Context())
		if claims == nil {
			respondWithError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		from, err := time.Parse("2006-01-02", r.URL.Query().Get("from"))
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "from must be YYYY-MM-DD")
			return
		}
		to, err := time.Parse("2006-01-02", r.URL.Query().Get("to"))
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "to must be YYYY-MM-DD")
			return
		}

		summary, err := reportSvc.AgentCommission(r.Context(), claims.Email(), from, to)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusOK, summary)
	}
}

// StaffDashboardHandler returns the operations dashboard for the staff
// member's airline.
func StaffDashboardHandler(reportSvc *services.ReportingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetUserClaims(r.Context())
		if claims == nil || claims.Airline() == "" {
			respondWithError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		dashboard, err := reportSvc.StaffDashboard(r.Context(), claims.Airline())
		if err != nil {
			respondWithDomainError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusOK, dashboard)
	}
}

// StaffCustomerFlightsHandler lists a customer's history on the staff
// member's airline.
func StaffCustomerFlightsHandler(reportSvc *services.ReportingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetUserClaims(r.Context())
		if claims == nil || claims.Airline() == "" {
			respondWithError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		email := r.URL.Query().Get("email")
		if email == "" {
			respondWithError(w, http.StatusBadRequest, "email is required")
			return
		}

		trips, err := reportSvc.CustomerFlightsForAirline(r.Context(), claims.Airline(), email)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusOK, &trips)
	}
}

// FlightManifestHandler lists the passengers on one of the airline's
// flights.
func FlightManifestHandler(reportSvc *services.ReportingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetUserClaims(r.Context())
		if claims == nil || claims.Airline() == "" {
			respondWithError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		airline, flightNum, ok := parseFlightKey(r)
		if !ok {
			respondWithError(w, http.StatusBadRequest, "invalid flight key")
			return
		}
		if airline != claims.Airline() {
			respondWithError(w, http.StatusForbidden, "flight belongs to another airline")
			return
		}

		manifest, err := reportSvc.FlightManifest(r.Context(), airline, flightNum)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusOK, &manifest)
	}
}
