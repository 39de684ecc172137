package api

import (
	"encoding/json"
	"net/http"

	"skyreserve/backend/internal/constants"
	"skyreserve/backend/internal/services"
)

// RegisterCustomerHandler handles customer signup
func RegisterCustomerHandler(regSvc *services.RegistrationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req services.CustomerSignup
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := regSvc.RegisterCustomer(r.Context(), req); err != nil {
			respondWithDomainError(w, err)
			return
		}

		msg := "customer registered"
		respondWithSuccess(w, http.StatusCreated, &msg)
	}
}

// RegisterAgentHandler handles booking agent signup
func RegisterAgentHandler(regSvc *services.RegistrationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req services.AgentSignup
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := regSvc.RegisterAgent(r.Context(), req); err != nil {
			respondWithDomainError(w, err)
			return
		}

		msg := "booking agent registered"
		respondWithSuccess(w, http.StatusCreated, &msg)
	}
}

// RegisterStaffHandler handles airline staff signup
func RegisterStaffHandler(regSvc *services.RegistrationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req services.StaffSignup
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := regSvc.RegisterStaff(r.Context(), req); err != nil {
			respondWithDomainError(w, err)
			return
		}

		msg := "airline staff registered"
		respondWithSuccess(w, http.StatusCreated, &msg)
	}
}

type loginRequest struct {
	Role     string `json:"role"`
	Identity string `json:"identity"`
	Password string `json:"password"`
}

// LoginHandler verifies credentials and returns a session token. The
// identity is the email for customers and agents, the username for
// staff.
func LoginHandler(regSvc *services.RegistrationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		role := constants.Role(req.Role)
		switch role {
		case constants.RoleCustomer, constants.RoleBookingAgent, constants.RoleAirlineStaff:
		default:
			respondWithError(w, http.StatusBadRequest, "unknown role")
			return
		}

		result, err := regSvc.Login(r.Context(), role, req.Identity, req.Password)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusOK, result)
	}
}
