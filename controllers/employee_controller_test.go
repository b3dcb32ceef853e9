package controllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"smartcart-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func newEmployeeRouter(ec *EmployeeController) *gin.Engine {
	r := gin.New()
	r.GET("/employee/carts-for-verification", ec.GetCartsForVerification)
	r.PUT("/employee/:id/verify/:cartId", ec.VerifyCart)
	return r
}

func TestVerifyCartIsIdempotent(t *testing.T) {
	carts := newFakeCartRepo()
	customerID := uuid.New()
	cart := &models.Cart{
		ID:                uuid.New(),
		CustomerID:        customerID,
		WantsVerification: true,
		CreatedAt:         time.Now().UTC(),
	}
	carts.put(cart)

	associate := &models.Employee{ID: uuid.New(), Name: "Asha", Role: models.RoleAssociate}
	employees := newFakeEmployeeRepo(associate)
	hub := &fakeBroadcaster{}

	ec := NewEmployeeController(employees, carts, hub, "test-secret")
	r := newEmployeeRouter(ec)

	url := fmt.Sprintf("/employee/%s/verify/%s", associate.ID, cart.ID)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, url, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("first verify should succeed, got %d: %s", w.Code, w.Body.String())
	}
	if len(employees.appended) != 1 {
		t.Errorf("expected one audit entry, got %d", len(employees.appended))
	}

	// A second verify matches no unverified cart.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, url, nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("second verify should 404, got %d", w.Code)
	}
	if len(employees.appended) != 1 {
		t.Errorf("second verify must not add an audit entry, got %d", len(employees.appended))
	}
}

func TestVerifyCartUnknownEmployee(t *testing.T) {
	carts := newFakeCartRepo()
	cart := &models.Cart{ID: uuid.New(), CustomerID: uuid.New(), WantsVerification: true}
	carts.put(cart)

	ec := NewEmployeeController(newFakeEmployeeRepo(), carts, &fakeBroadcaster{}, "test-secret")
	r := newEmployeeRouter(ec)

	url := fmt.Sprintf("/employee/%s/verify/%s", uuid.New(), cart.ID)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, url, nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown employee, got %d", w.Code)
	}
	if saved, _ := carts.GetByID(nil, cart.ID); saved.Verified {
		t.Error("cart must stay unverified when the employee lookup fails")
	}
}

func TestGetCartsForVerificationEmptyQueue(t *testing.T) {
	ec := NewEmployeeController(newFakeEmployeeRepo(), newFakeCartRepo(), &fakeBroadcaster{}, "test-secret")
	r := newEmployeeRouter(ec)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employee/carts-for-verification", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("empty queue should 404, got %d", w.Code)
	}
}

func TestGetCartsForVerificationListsPending(t *testing.T) {
	carts := newFakeCartRepo()
	pending := &models.Cart{
		ID:                uuid.New(),
		CustomerID:        uuid.New(),
		WantsVerification: true,
		Items: []models.CartItem{
			{ID: uuid.New(), CartNumber: 1, ProductID: uuid.New(), Barcode: "111", Quantity: 2, Price: 10},
		},
	}
	carts.put(pending)

	hub := &fakeBroadcaster{}
	ec := NewEmployeeController(newFakeEmployeeRepo(), carts, hub, "test-secret")
	r := newEmployeeRouter(ec)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employee/carts-for-verification", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := hub.eventTypes(); len(got) != 1 || got[0] != "cart-verification-update" {
		t.Errorf("expected a cart-verification-update event, got %v", got)
	}
	queue, ok := hub.lastPayload().([]gin.H)
	if !ok {
		t.Fatalf("event should carry the queue itself, got %T", hub.lastPayload())
	}
	if len(queue) != 1 {
		t.Fatalf("expected 1 queued cart in the event, got %d", len(queue))
	}
	if queue[0]["cart_id"] != pending.ID {
		t.Errorf("event queue has wrong cart: %v", queue[0]["cart_id"])
	}
	if items, ok := queue[0]["items"].([]models.CartItem); !ok || len(items) != 1 {
		t.Errorf("event queue entry should carry the coalesced items, got %v", queue[0]["items"])
	}
}
