package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"skyreserve/backend/internal/auth"
	"skyreserve/backend/internal/constants"
	"skyreserve/backend/internal/services"
)

// PurchaseTicketHandler sells a seat. Customers buy for themselves; a
// booking agent names the customer in the body and the sale is
// attributed to the agent from their session, never from the payload.
func PurchaseTicketHandler(bookingSvc *services.BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetUserClaims(r.Context())
		if claims == nil {
			respondWithError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req services.PurchaseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		switch claims.Role() {
		case constants.RoleCustomer:
			req.CustomerEmail = claims.Email()
			req.AgentEmail = ""
		case constants.RoleBookingAgent:
			if req.CustomerEmail == "" {
				respondWithError(w, http.StatusBadRequest, "customerEmail is required")
				return
			}
			req.AgentEmail = claims.Email()
		default:
			respondWithError(w, http.StatusForbidden, "staff cannot purchase tickets")
			return
		}

		result, err := bookingSvc.Purchase(r.Context(), req)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusCreated, result)
	}
}

// RefundTicketHandler cancels one of the customer's own tickets.
func RefundTicketHandler(bookingSvc *services.BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetUserClaims(r.Context())
		if claims == nil {
			respondWithError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		ticketID, err := strconv.ParseInt(chi.URLParam(r, "ticket_id"), 10, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid ticket id")
			return
		}

		if err := bookingSvc.RefundTicket(r.Context(), ticketID, claims.Email()); err != nil {
			respondWithDomainError(w, err)
			return
		}

		msg := "ticket refunded"
		respondWithSuccess(w, http.StatusOK, &msg)
	}
}
