package api

import (
	"encoding/json"
	"net/http"
	"time"

	"skyreserve/backend/internal/auth"
	"skyreserve/backend/internal/constants"
	"skyreserve/backend/internal/services"
)

func staffClaims(w http.ResponseWriter, r *http.Request) (auth.UserClaims, bool) {
	claims := auth.GetUserClaims(r.Context())
	if claims == nil || claims.Airline() == "" {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}
	return claims, true
}

// CreateFlightHandler schedules a new flight for the staff member's
// airline.
func CreateFlightHandler(fleetSvc *services.FleetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := staffClaims(w, r)
		if !ok {
			return
		}

		var req services.NewFlight
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		flight, err := fleetSvc.CreateFlight(r.Context(), claims.Email(), claims.Airline(), req)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusCreated, flight)
	}
}

type statusChangeRequest struct {
	Status string `json:"status"`
}

// ChangeFlightStatusHandler updates one flight's lifecycle state.
func ChangeFlightStatusHandler(fleetSvc *services.FleetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := staffClaims(w, r)
		if !ok {
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

		var req statusChangeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		err := fleetSvc.ChangeFlightStatus(r.Context(), claims.Email(), airline, flightNum, constants.FlightStatus(req.Status))
		if err != nil {
			respondWithDomainError(w, err)
			return
		}

		msg := "status updated"
		respondWithSuccess(w, http.StatusOK, &msg)
	}
}

// DeleteFlightHandler removes a flight. ?force=true overrides the
// sold-ticket guard and cascades tickets and purchases away.
func DeleteFlightHandler(fleetSvc *services.FleetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := staffClaims(w, r)
		if !ok {
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

		force := r.URL.Query().Get("force") == "true"
		if err := fleetSvc.DeleteFlight(r.Context(), claims.Email(), airline, flightNum, force); err != nil {
			respondWithDomainError(w, err)
			return
		}

		msg := "flight deleted"
		respondWithSuccess(w, http.StatusOK, &msg)
	}
}

// StaffFlightsHandler lists the airline's schedule for the next 30 days
// by default; from/to query parameters widen the window.
func StaffFlightsHandler(fltSvc *services.FlightsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := staffClaims(w, r)
		if !ok {
			return
		}

		now := time.Now()
		from, to := now, now.AddDate(0, 0, 30)
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

		flights, err := fltSvc.ListByAirline(r.Context(), claims.Airline(), from, to)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusOK, &flights)
	}
}

type addAirplaneRequest struct {
	AirplaneID int `json:"airplaneId"`
	Seats      int `json:"seats"`
}

// AddAirplaneHandler registers a new airplane in the fleet.
func AddAirplaneHandler(fleetSvc *services.FleetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := staffClaims(w, r)
		if !ok {
			return
		}

		var req addAirplaneRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := fleetSvc.AddAirplane(r.Context(), claims.Email(), claims.Airline(), req.AirplaneID, req.Seats); err != nil {
			respondWithDomainError(w, err)
			return
		}

		msg := "airplane added"
		respondWithSuccess(w, http.StatusCreated, &msg)
	}
}

type addAirportRequest struct {
	Name string `json:"name"`
	City string `json:"city"`
}

// AddAirportHandler registers a new airport.
func AddAirportHandler(fleetSvc *services.FleetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := staffClaims(w, r)
		if !ok {
			return
		}

		var req addAirportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := fleetSvc.AddAirport(r.Context(), claims.Email(), req.Name, req.City); err != nil {
			respondWithDomainError(w, err)
			return
		}

		msg := "airport added"
		respondWithSuccess(w, http.StatusCreated, &msg)
	}
}

type affiliationRequest struct {
	AgentEmail string `json:"agentEmail"`
}

// AddAffiliationHandler authorizes a booking agent to sell for the staff
// member's airline.
func AddAffiliationHandler(fleetSvc *services.FleetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := staffClaims(w, r)
		if !ok {
			return
		}

		var req affiliationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := fleetSvc.AddAgentAffiliation(r.Context(), claims.Email(), claims.Airline(), req.AgentEmail); err != nil {
			respondWithDomainError(w, err)
			return
		}

		msg := "agent affiliated"
		respondWithSuccess(w, http.StatusCreated, &msg)
	}
}

type permissionRequest struct {
	Username   string `json:"username"`
	Permission string `json:"permission"`
}

// GrantPermissionHandler gives a staff colleague a capability.
func GrantPermissionHandler(fleetSvc *services.FleetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := staffClaims(w, r)
		if !ok {
			return
		}

		var req permissionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		err := fleetSvc.GrantPermission(r.Context(), claims.Email(), claims.Airline(), req.Username, constants.PermissionType(req.Permission))
		if err != nil {
			respondWithDomainError(w, err)
			return
		}

		msg := "permission granted"
		respondWithSuccess(w, http.StatusOK, &msg)
	}
}

// RevokePermissionHandler removes a capability from a staff colleague.
func RevokePermissionHandler(fleetSvc *services.FleetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := staffClaims(w, r)
		if !ok {
			return
		}

		var req permissionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		err := fleetSvc.RevokePermission(r.Context(), claims.Email(), claims.Airline(), req.Username, constants.PermissionType(req.Permission))
		if err != nil {
			respondWithDomainError(w, err)
			return
		}

		msg := "permission revoked"
		respondWithSuccess(w, http.StatusOK, &msg)
	}
}
