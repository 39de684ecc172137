package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/lib/pq"

	"skyreserve/backend/internal/constants"
	"skyreserve/backend/internal/db/repositories"
)

type fakeFlight struct {
	status constants.FlightStatus
	price  float64
	seats  int
}

// fakeBookingStore emulates the transactional booking surface in memory.
// A store-wide mutex taken at LockFlight and released at Commit/Rollback
// stands in for the database row lock.
type fakeBookingStore struct {
	mu           sync.Mutex
	flights      map[string]*fakeFlight
	customers    map[string]bool
	agents       map[string]int
	affiliations map[string]bool
	sold         map[string]int
	tickets      map[int64]string // ticket id -> flight key
	purchases    map[int64]string // ticket id -> customer email
	nextTicketID int64

	beginErr       error
	refundErr      error
	commitFailures int
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{
		flights:      make(map[string]*fakeFlight),
		customers:    make(map[string]bool),
		agents:       make(map[string]int),
		affiliations: make(map[string]bool),
		sold:         make(map[string]int),
		tickets:      make(map[int64]string),
		purchases:    make(map[int64]string),
	}
}

func flightKey(airline string, num int) string {
	return fmt.Sprintf("%s/%d", airline, num)
}

func (s *fakeBookingStore) Begin(ctx context.Context) (PurchaseTx, error) {
	if s.beginErr != nil {
		return nil, s.beginErr
	}
	return &fakePurchaseTx{store: s}, nil
}

// RefundTicket mirrors the production store: the ticket and purchase
// rows go together or not at all, and failure leaves both untouched.
func (s *fakeBookingStore) RefundTicket(ctx context.Context, ticketID int64, customerEmail string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.refundErr != nil {
		return s.refundErr
	}
	owner, ok := s.purchases[ticketID]
	if !ok || owner != customerEmail {
		return repositories.ErrNotFound
	}
	key := s.tickets[ticketID]
	delete(s.purchases, ticketID)
	delete(s.tickets, ticketID)
	s.sold[key]--
	return nil
}

type pendingSale struct {
	key      string
	ticketID int64
	owner    string
}

type fakePurchaseTx struct {
	store   *fakeBookingStore
	locked  bool
	pending []pendingSale
	done    bool
}

func (t *fakePurchaseTx) LockFlight(ctx context.Context, airline string, flightNum int) (*repositories.FlightForUpdate, error) {
	t.store.mu.Lock()
	t.locked = true
	flight, ok := t.store.flights[flightKey(airline, flightNum)]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &repositories.FlightForUpdate{
		AirlineName: airline,
		FlightNum:   flightNum,
		Status:      flight.status,
		Price:       flight.price,
		Seats:       flight.seats,
	}, nil
}

func (t *fakePurchaseTx) CountTickets(ctx context.Context, airline string, flightNum int) (int, error) {
	return t.store.sold[flightKey(airline, flightNum)], nil
}

func (t *fakePurchaseTx) CustomerExists(ctx context.Context, email string) (bool, error) {
	return t.store.customers[email], nil
}

func (t *fakePurchaseTx) AgentIDByEmail(ctx context.Context, email string) (int, error) {
	id, ok := t.store.agents[email]
	if !ok {
		return 0, repositories.ErrNotFound
	}
	return id, nil
}

func (t *fakePurchaseTx) AgentWorksFor(ctx context.Context, email, airline string) (bool, error) {
	return t.store.affiliations[email+"/"+airline], nil
}

func (t *fakePurchaseTx) InsertTicket(ctx context.Context, airline string, flightNum int) (int64, error) {
	t.store.nextTicketID++
	t.pending = append(t.pending, pendingSale{key: flightKey(airline, flightNum), ticketID: t.store.nextTicketID})
	return t.store.nextTicketID, nil
}

func (t *fakePurchaseTx) InsertPurchase(ctx context.Context, ticketID int64, customerEmail string, agentID *int, purchaseDate time.Time) error {
	for i := range t.pending {
		if t.pending[i].ticketID == ticketID {
			t.pending[i].owner = customerEmail
		}
	}
	return nil
}

func (t *fakePurchaseTx) Commit() error {
	if t.done {
		return nil
	}
	t.done = true
	if t.store.commitFailures > 0 {
		t.store.commitFailures--
		t.unlock()
		return &pq.Error{Code: "40001"}
	}
	for _, sale := range t.pending {
		t.store.sold[sale.key]++
		t.store.tickets[sale.ticketID] = sale.key
		t.store.purchases[sale.ticketID] = sale.owner
	}
	t.unlock()
	return nil
}

func (t *fakePurchaseTx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	t.unlock()
	return nil
}

func (t *fakePurchaseTx) unlock() {
	if t.locked {
		t.locked = false
		t.store.mu.Unlock()
	}
}

func seededStore() *fakeBookingStore {
	store := newFakeBookingStore()
	store.flights[flightKey("China Eastern", 512)] = &fakeFlight{
		status: constants.StatusUpcoming,
		price:  420.50,
		seats:  2,
	}
	store.customers["alice@example.com"] = true
	store.agents["agent@travel.com"] = 7
	store.affiliations["agent@travel.com/China Eastern"] = true
	return store
}

func TestPurchaseDirect(t *testing.T) {
	store := seededStore()
	svc := NewBookingService(store, nil)

	result, err := svc.Purchase(context.Background(), PurchaseRequest{
		AirlineName:   "China Eastern",
		FlightNum:     512,
		CustomerEmail: "alice@example.com",
	})
	if err != nil {
		t.Fatalf("expected purchase to succeed, got %v", err)
	}
	if result.Channel != "direct" {
		t.Errorf("expected direct channel, got %q", result.Channel)
	}
	if result.Price != 420.50 {
		t.Errorf("expected price 420.50, got %v", result.Price)
	}
	if store.sold[flightKey("China Eastern", 512)] != 1 {
		t.Errorf("expected 1 sold ticket, got %d", store.sold[flightKey("China Eastern", 512)])
	}
}

func TestPurchaseViaAgent(t *testing.T) {
	store := seededStore()
	svc := NewBookingService(store, nil)

	result, err := svc.Purchase(context.Background(), PurchaseRequest{
		AirlineName:   "China Eastern",
		FlightNum:     512,
		CustomerEmail: "alice@example.com",
		AgentEmail:    "agent@travel.com",
	})
	if err != nil {
		t.Fatalf("expected agent purchase to succeed, got %v", err)
	}
	if result.Channel != "agent" {
		t.Errorf("expected agent channel, got %q", result.Channel)
	}
}

func TestPurchaseFailures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*fakeBookingStore)
		req     PurchaseRequest
		wantErr error
	}{
		{
			name:    "unknown flight",
			mutate:  func(s *fakeBookingStore) {},
			req:     PurchaseRequest{AirlineName: "China Eastern", FlightNum: 999, CustomerEmail: "alice@example.com"},
			wantErr: ErrFlightNotFound,
		},
		{
			name: "cancelled flight",
			mutate: func(s *fakeBookingStore) {
				s.flights[flightKey("China Eastern", 512)].status = constants.StatusCancelled
			},
			req:     PurchaseRequest{AirlineName: "China Eastern", FlightNum: 512, CustomerEmail: "alice@example.com"},
			wantErr: ErrFlightNotSellable,
		},
		{
			name: "completed flight",
			mutate: func(s *fakeBookingStore) {
				s.flights[flightKey("China Eastern", 512)].status = constants.StatusCompleted
			},
			req:     PurchaseRequest{AirlineName: "China Eastern", FlightNum: 512, CustomerEmail: "alice@example.com"},
			wantErr: ErrFlightNotSellable,
		},
		{
			name:    "unknown customer",
			mutate:  func(s *fakeBookingStore) {},
			req:     PurchaseRequest{AirlineName: "China Eastern", FlightNum: 512, CustomerEmail: "nobody@example.com"},
			wantErr: ErrCustomerNotFound,
		},
		{
			name:    "unknown agent",
			mutate:  func(s *fakeBookingStore) {},
			req:     PurchaseRequest{AirlineName: "China Eastern", FlightNum: 512, CustomerEmail: "alice@example.com", AgentEmail: "ghost@travel.com"},
			wantErr: ErrAgentNotFound,
		},
		{
			name: "agent not affiliated",
			mutate: func(s *fakeBookingStore) {
				delete(s.affiliations, "agent@travel.com/China Eastern")
			},
			req:     PurchaseRequest{AirlineName: "China Eastern", FlightNum: 512, CustomerEmail: "alice@example.com", AgentEmail: "agent@travel.com"},
			wantErr: ErrAgentNotAffiliated,
		},
		{
			name: "sold out",
			mutate: func(s *fakeBookingStore) {
				s.sold[flightKey("China Eastern", 512)] = 2
			},
			req:     PurchaseRequest{AirlineName: "China Eastern", FlightNum: 512, CustomerEmail: "alice@example.com"},
			wantErr: ErrCapacityExceeded,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := seededStore()
			tc.mutate(store)
			svc := NewBookingService(store, nil)

			_, err := svc.Purchase(context.Background(), tc.req)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
			if tc.wantErr != nil && store.sold[flightKey("China Eastern", 512)] != 0 && tc.name != "sold out" {
				t.Errorf("failed purchase must not leave a ticket behind")
			}
		})
	}
}

// Delayed flights stay on sale; only upcoming and delayed do.
func TestPurchaseDelayedFlightStillSellable(t *testing.T) {
	store := seededStore()
	store.flights[flightKey("China Eastern", 512)].status = constants.StatusDelayed
	svc := NewBookingService(store, nil)

	if _, err := svc.Purchase(context.Background(), PurchaseRequest{
		AirlineName:   "China Eastern",
		FlightNum:     512,
		CustomerEmail: "alice@example.com",
	}); err != nil {
		t.Fatalf("delayed flight should be purchasable, got %v", err)
	}
}

// With one seat left and many concurrent buyers, exactly one purchase may
// succeed and the rest must fail with the sold-out error.
func TestPurchaseLastSeatConcurrent(t *testing.T) {
	store := seededStore()
	store.sold[flightKey("China Eastern", 512)] = 1 // one of two seats gone
	svc := NewBookingService(store, nil)

	const buyers = 16
	var wg sync.WaitGroup
	results := make(chan error, buyers)

	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Purchase(context.Background(), PurchaseRequest{
				AirlineName:   "China Eastern",
				FlightNum:     512,
				CustomerEmail: "alice@example.com",
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	successes, soldOut := 0, 0
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrCapacityExceeded):
			soldOut++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if successes != 1 {
		t.Errorf("expected exactly 1 successful purchase, got %d", successes)
	}
	if soldOut != buyers-1 {
		t.Errorf("expected %d sold-out failures, got %d", buyers-1, soldOut)
	}
	if got := store.sold[flightKey("China Eastern", 512)]; got != 2 {
		t.Errorf("expected 2 tickets sold in total, got %d", got)
	}
}

func TestPurchaseRetriesSerializationConflict(t *testing.T) {
	store := seededStore()
	store.commitFailures = 2
	svc := NewBookingService(store, nil)

	if _, err := svc.Purchase(context.Background(), PurchaseRequest{
		AirlineName:   "China Eastern",
		FlightNum:     512,
		CustomerEmail: "alice@example.com",
	}); err != nil {
		t.Fatalf("expected purchase to recover after conflicts, got %v", err)
	}
	if store.sold[flightKey("China Eastern", 512)] != 1 {
		t.Errorf("expected exactly one ticket after retries, got %d", store.sold[flightKey("China Eastern", 512)])
	}
}

func TestRefundFreesSeatAndRemovesPurchase(t *testing.T) {
	store := seededStore()
	svc := NewBookingService(store, nil)
	ctx := context.Background()

	result, err := svc.Purchase(ctx, PurchaseRequest{
		AirlineName:   "China Eastern",
		FlightNum:     512,
		CustomerEmail: "alice@example.com",
	})
	if err != nil {
		t.Fatalf("purchase failed: %v", err)
	}

	if err := svc.RefundTicket(ctx, result.TicketID, "alice@example.com"); err != nil {
		t.Fatalf("refund failed: %v", err)
	}
	if _, ok := store.tickets[result.TicketID]; ok {
		t.Error("ticket row must be gone after refund")
	}
	if _, ok := store.purchases[result.TicketID]; ok {
		t.Error("purchase row must be gone after refund")
	}
	if got := store.sold[flightKey("China Eastern", 512)]; got != 0 {
		t.Errorf("expected the seat back on sale, sold count %d", got)
	}
}

func TestRefundRejectsForeignTicket(t *testing.T) {
	store := seededStore()
	svc := NewBookingService(store, nil)
	ctx := context.Background()

	result, err := svc.Purchase(ctx, PurchaseRequest{
		AirlineName:   "China Eastern",
		FlightNum:     512,
		CustomerEmail: "alice@example.com",
	})
	if err != nil {
		t.Fatalf("purchase failed: %v", err)
	}

	err = svc.RefundTicket(ctx, result.TicketID, "mallory@example.com")
	if !errors.Is(err, ErrTicketNotFound) {
		t.Fatalf("expected ErrTicketNotFound, got %v", err)
	}
	if _, ok := store.tickets[result.TicketID]; !ok {
		t.Error("rejected refund must leave the ticket in place")
	}
	if _, ok := store.purchases[result.TicketID]; !ok {
		t.Error("rejected refund must leave the purchase in place")
	}
}

// A refund that fails mid-flight may not strand an ownerless ticket:
// either both rows survive or both are gone.
func TestRefundFailureLeavesNoOrphanTicket(t *testing.T) {
	store := seededStore()
	svc := NewBookingService(store, nil)
	ctx := context.Background()

	result, err := svc.Purchase(ctx, PurchaseRequest{
		AirlineName:   "China Eastern",
		FlightNum:     512,
		CustomerEmail: "alice@example.com",
	})
	if err != nil {
		t.Fatalf("purchase failed: %v", err)
	}

	store.refundErr = errors.New("connection reset")
	if err := svc.RefundTicket(ctx, result.TicketID, "alice@example.com"); err == nil {
		t.Fatal("expected the refund to fail")
	}

	_, ticketKept := store.tickets[result.TicketID]
	_, purchaseKept := store.purchases[result.TicketID]
	if ticketKept != purchaseKept {
		t.Fatalf("partial write survived failed refund: ticket kept=%v purchase kept=%v", ticketKept, purchaseKept)
	}
	if !ticketKept {
		t.Error("failed refund must leave the purchase intact")
	}

	store.refundErr = nil
	if err := svc.RefundTicket(ctx, result.TicketID, "alice@example.com"); err != nil {
		t.Fatalf("retry after failure should succeed, got %v", err)
	}
}

func TestPurchaseGivesUpAfterMaxAttempts(t *testing.T) {
	store := seededStore()
	store.commitFailures = maxPurchaseAttempts
	svc := NewBookingService(store, nil)

	_, err := svc.Purchase(context.Background(), PurchaseRequest{
		AirlineName:   "China Eastern",
		FlightNum:     512,
		CustomerEmail: "alice@example.com",
	})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if !isSerializationConflict(err) {
		t.Errorf("expected the conflict error to surface, got %v", err)
	}
}
