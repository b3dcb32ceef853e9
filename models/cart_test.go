package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestTotalAmountsPerSlot(t *testing.T) {
	cart := Cart{Items: []CartItem{
		{CartNumber: 1, Price: 10, Quantity: 2},
		{CartNumber: 1, Price: 5, Quantity: 1},
		{CartNumber: 3, Price: 7.5, Quantity: 4},
	}}

	totals := cart.TotalAmounts()
	if totals[1] != 25 {
		t.Errorf("slot 1: expected 25, got %v", totals[1])
	}
	if totals[3] != 30 {
		t.Errorf("slot 3: expected 30, got %v", totals[3])
	}
	if _, ok := totals[2]; ok {
		t.Error("empty slot must not appear in totals")
	}
}

func TestCombinedItemsCoalescesAcrossSlots(t *testing.T) {
	milk := uuid.New()
	bread := uuid.New()
	cart := Cart{Items: []CartItem{
		{ProductID: milk, CartNumber: 1, Quantity: 2},
		{ProductID: bread, CartNumber: 1, Quantity: 1},
		{ProductID: milk, CartNumber: 2, Quantity: 3},
	}}

	combined := cart.CombinedItems()
	if len(combined) != 2 {
		t.Fatalf("expected 2 combined rows, got %d", len(combined))
	}
	if combined[0].ProductID != milk || combined[0].Quantity != 5 {
		t.Errorf("milk should combine to quantity 5, got %d", combined[0].Quantity)
	}
	// The stored lines stay per-slot.
	if len(cart.Items) != 3 {
		t.Error("combining must not mutate the cart")
	}
}

func TestFindItemMatchesProductAndSlot(t *testing.T) {
	milk := uuid.New()
	cart := Cart{Items: []CartItem{
		{ProductID: milk, CartNumber: 1},
		{ProductID: milk, CartNumber: 2},
	}}

	if i := cart.FindItem(milk, 2); i != 1 {
		t.Errorf("expected index 1, got %d", i)
	}
	if i := cart.FindItem(milk, 3); i != -1 {
		t.Errorf("expected -1 for empty slot, got %d", i)
	}
	if i := cart.FindItem(uuid.New(), 1); i != -1 {
		t.Errorf("expected -1 for unknown product, got %d", i)
	}
}
