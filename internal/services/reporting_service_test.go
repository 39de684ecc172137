package services

import (
	"testing"

	"skyreserve/backend/internal/models/dtos"
)

func intPtr(v int) *int { return &v }

func TestSplitRevenue(t *testing.T) {
	sales := []dtos.AttributedSale{
		{Price: 100},                           // direct
		{Price: 250.50, BookingAgentID: nil},   // direct
		{Price: 80, BookingAgentID: intPtr(7)}, // via agent
		{Price: 20, BookingAgentID: intPtr(9)}, // via agent
	}

	split := SplitRevenue(sales)

	if split.Direct != 350.50 {
		t.Errorf("Expected direct 350.50, got %v", split.Direct)
	}
	if split.Indirect != 100 {
		t.Errorf("Expected indirect 100, got %v", split.Indirect)
	}
	if split.Total != 450.50 {
		t.Errorf("Expected total 450.50, got %v", split.Total)
	}
}

func TestSplitRevenueEmpty(t *testing.T) {
	split := SplitRevenue(nil)
	if split.Direct != 0 || split.Indirect != 0 || split.Total != 0 {
		t.Errorf("Expected zero split, got %+v", split)
	}
}

// An agent id of zero is still an agent sale; only nil means direct.
func TestSplitRevenueZeroAgentID(t *testing.T) {
	split := SplitRevenue([]dtos.AttributedSale{{Price: 50, BookingAgentID: intPtr(0)}})
	if split.Direct != 0 {
		t.Errorf("Expected no direct revenue, got %v", split.Direct)
	}
	if split.Indirect != 50 {
		t.Errorf("Expected indirect 50, got %v", split.Indirect)
	}
}
