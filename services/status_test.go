package services

import "testing"

func TestValidStatusTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{OrderStatusPending, OrderStatusProcessing, true},
		{OrderStatusPending, OrderStatusCompleted, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusPending, true},
		{OrderStatusProcessing, OrderStatusCompleted, true},
		{OrderStatusProcessing, OrderStatusCancelled, true},
		{OrderStatusProcessing, OrderStatusPending, true},
		{OrderStatusCompleted, OrderStatusPending, true},
		{OrderStatusCompleted, OrderStatusCancelled, true},
		{OrderStatusCancelled, OrderStatusProcessing, true},
		{"", OrderStatusPending, false},
		{OrderStatusPending, "", false},
		{"shipped", OrderStatusCompleted, false},
		{OrderStatusPending, "done", false},
	}
	for _, tt := range tests {
		got := ValidStatusTransition(tt.from, tt.to)
		if got != tt.want {
			t.Errorf("ValidStatusTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestPendingOrderCanBeCompletedDirectly(t *testing.T) {
	// Counter pickups go straight from pending to completed without
	// passing through processing.
	if !ValidStatusTransition(OrderStatusPending, OrderStatusCompleted) {
		t.Fatal("pending -> completed must be allowed")
	}
}

func TestKnownOrderStatus(t *testing.T) {
	for _, s := range []string{OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled} {
		if !KnownOrderStatus(s) {
			t.Errorf("KnownOrderStatus(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"", "shipped", "PENDING", "done"} {
		if KnownOrderStatus(s) {
			t.Errorf("KnownOrderStatus(%q) = true, want false", s)
		}
	}
}
