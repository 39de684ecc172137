package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"skyreserve/backend/internal/auth"
	"skyreserve/backend/internal/constants"
	"skyreserve/backend/internal/db/repositories"
	"skyreserve/backend/internal/services"
)

// stubStore returns canned purchase outcomes so handler behavior can be
// tested without a database.
type stubStore struct {
	flightStatus constants.FlightStatus
	seats        int
	sold         int
	customers    map[string]bool
	agents       map[string]int
	affiliations map[string]bool
	nextTicketID int64
	refundErr    error
}

func (s *stubStore) Begin(ctx context.Context) (services.PurchaseTx, error) {
	return &stubTx{store: s}, nil
}

func (s *stubStore) RefundTicket(ctx context.Context, ticketID int64, customerEmail string) error {
	return s.refundErr
}

type stubTx struct {
	store *stubStore
}

func (t *stubTx) LockFlight(ctx context.Context, airline string, flightNum int) (*repositories.FlightForUpdate, error) {
	if flightNum == 999 {
		return nil, repositories.ErrNotFound
	}
	return &repositories.FlightForUpdate{
		AirlineName: airline,
		FlightNum:   flightNum,
		Status:      t.store.flightStatus,
		Price:       100,
		Seats:       t.store.seats,
	}, nil
}

func (t *stubTx) CountTickets(ctx context.Context, airline string, flightNum int) (int, error) {
	return t.store.sold, nil
}

func (t *stubTx) CustomerExists(ctx context.Context, email string) (bool, error) {
	return t.store.customers[email], nil
}

func (t *stubTx) AgentIDByEmail(ctx context.Context, email string) (int, error) {
	id, ok := t.store.agents[email]
	if !ok {
		return 0, repositories.ErrNotFound
	}
	return id, nil
}

func (t *stubTx) AgentWorksFor(ctx context.Context, email, airline string) (bool, error) {
	return t.store.affiliations[email+"/"+airline], nil
}

func (t *stubTx) InsertTicket(ctx context.Context, airline string, flightNum int) (int64, error) {
	t.store.nextTicketID++
	return t.store.nextTicketID, nil
}

func (t *stubTx) InsertPurchase(ctx context.Context, ticketID int64, customerEmail string, agentID *int, purchaseDate time.Time) error {
	return nil
}

func (t *stubTx) Commit() error   { return nil }
func (t *stubTx) Rollback() error { return nil }

func newStubStore() *stubStore {
	return &stubStore{
		flightStatus: constants.StatusUpcoming,
		seats:        2,
		customers:    map[string]bool{"alice@example.com": true},
		agents:       map[string]int{"agent@travel.com": 7},
		affiliations: map[string]bool{"agent@travel.com/China Eastern": true},
	}
}

func customerClaims() auth.UserClaims {
	return &auth.TokenClaims{EmailValue: "alice@example.com", RoleValue: constants.RoleCustomer}
}

func agentClaims() auth.UserClaims {
	return &auth.TokenClaims{EmailValue: "agent@travel.com", RoleValue: constants.RoleBookingAgent}
}

func doPurchase(t *testing.T, svc *services.BookingService, claims auth.UserClaims, body interface{}) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(payload))
	if claims != nil {
		req = req.WithContext(auth.SetUserClaims(req.Context(), claims))
	}
	rec := httptest.NewRecorder()
	PurchaseTicketHandler(svc)(rec, req)
	return rec
}

func TestPurchaseHandlerCustomer(t *testing.T) {
	svc := services.NewBookingService(newStubStore(), nil)

	rec := doPurchase(t, svc, customerClaims(), map[string]interface{}{
		"airlineName": "China Eastern",
		"flightNum":   512,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var parsed struct {
		Data struct {
			Channel string  `json:"channel"`
			Price   float64 `json:"price"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if parsed.Data.Channel != "direct" {
		t.Errorf("Expected direct channel, got %q", parsed.Data.Channel)
	}
}

func TestPurchaseHandlerAgent(t *testing.T) {
	svc := services.NewBookingService(newStubStore(), nil)

	rec := doPurchase(t, svc, agentClaims(), map[string]interface{}{
		"airlineName":   "China Eastern",
		"flightNum":     512,
		"customerEmail": "alice@example.com",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	// An agent purchase without a customer is rejected before the
	// workflow runs.
	rec = doPurchase(t, svc, agentClaims(), map[string]interface{}{
		"airlineName": "China Eastern",
		"flightNum":   512,
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without customerEmail, got %d", rec.Code)
	}
}

func TestPurchaseHandlerStatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*stubStore)
		body     map[string]interface{}
		wantCode int
	}{
		{
			name:     "flight not found",
			mutate:   func(s *stubStore) {},
			body:     map[string]interface{}{"airlineName": "China Eastern", "flightNum": 999},
			wantCode: http.StatusNotFound,
		},
		{
			name:     "sold out",
			mutate:   func(s *stubStore) { s.sold = 2 },
			body:     map[string]interface{}{"airlineName": "China Eastern", "flightNum": 512},
			wantCode: http.StatusConflict,
		},
		{
			name:     "cancelled flight",
			mutate:   func(s *stubStore) { s.flightStatus = constants.StatusCancelled },
			body:     map[string]interface{}{"airlineName": "China Eastern", "flightNum": 512},
			wantCode: http.StatusConflict,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := newStubStore()
			tc.mutate(store)
			svc := services.NewBookingService(store, nil)

			rec := doPurchase(t, svc, customerClaims(), tc.body)
			if rec.Code != tc.wantCode {
				t.Errorf("Expected %d, got %d: %s", tc.wantCode, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestPurchaseHandlerAgentNotAffiliated(t *testing.T) {
	store := newStubStore()
	delete(store.affiliations, "agent@travel.com/China Eastern")
	svc := services.NewBookingService(store, nil)

	rec := doPurchase(t, svc, agentClaims(), map[string]interface{}{
		"airlineName":   "China Eastern",
		"flightNum":     512,
		"customerEmail": "alice@example.com",
	})
	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for unaffiliated agent, got %d", rec.Code)
	}
}

func doRefund(t *testing.T, svc *services.BookingService, claims auth.UserClaims, ticketID string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Delete("/customer/tickets/{ticket_id}", RefundTicketHandler(svc))

	req := httptest.NewRequest(http.MethodDelete, "/customer/tickets/"+ticketID, nil)
	if claims != nil {
		req = req.WithContext(auth.SetUserClaims(req.Context(), claims))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRefundHandler(t *testing.T) {
	store := newStubStore()
	svc := services.NewBookingService(store, nil)

	rec := doRefund(t, svc, customerClaims(), "12")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	store.refundErr = repositories.ErrNotFound
	rec = doRefund(t, svc, customerClaims(), "12")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown or foreign ticket, got %d", rec.Code)
	}

	rec = doRefund(t, svc, customerClaims(), "not-a-number")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for a bad ticket id, got %d", rec.Code)
	}
}

func TestPurchaseHandlerRejectsStaffAndAnonymous(t *testing.T) {
	svc := services.NewBookingService(newStubStore(), nil)

	staff := &auth.TokenClaims{EmailValue: "ops1", RoleValue: constants.RoleAirlineStaff, AirlineValue: "China Eastern"}
	rec := doPurchase(t, svc, staff, map[string]interface{}{"airlineName": "China Eastern", "flightNum": 512})
	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for staff, got %d", rec.Code)
	}

	rec = doPurchase(t, svc, nil, map[string]interface{}{"airlineName": "China Eastern", "flightNum": 512})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without claims, got %d", rec.Code)
	}
}
