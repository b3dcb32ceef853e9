package controllers

import (
	"context"
	"errors"
	"sync"
	"time"

	"smartcart-backend/models"

	"github.com/google/uuid"
)

// In-memory doubles for the storage and service interfaces so handler
// behavior can be exercised without Mongo, Redis or the gateway.

type fakeCartRepo struct {
	mu    sync.Mutex
	carts map[uuid.UUID]*models.Cart // keyed by customer ID
	saves int
	err   error
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: make(map[uuid.UUID]*models.Cart)}
}

func (f *fakeCartRepo) put(cart *models.Cart) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.carts[cart.CustomerID] = cart
}

func (f *fakeCartRepo) GetByCustomer(_ context.Context, customerID uuid.UUID) (*models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	cart, ok := f.carts[customerID]
	if !ok {
		return nil, nil
	}
	copied := *cart
	return &copied, nil
}

func (f *fakeCartRepo) GetByID(_ context.Context, cartID uuid.UUID) (*models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, cart := range f.carts {
		if cart.ID == cartID {
			copied := *cart
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeCartRepo) Create(_ context.Context, cart *models.Cart) error {
	f.put(cart)
	return nil
}

func (f *fakeCartRepo) Save(_ context.Context, cart *models.Cart) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.saves++
	copied := *cart
	f.carts[cart.CustomerID] = &copied
	return nil
}

func (f *fakeCartRepo) DeleteByCustomer(_ context.Context, customerID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.carts[customerID]; !ok {
		return false, nil
	}
	delete(f.carts, customerID)
	return true, nil
}

func (f *fakeCartRepo) DeleteByID(_ context.Context, cartID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for customerID, cart := range f.carts {
		if cart.ID == cartID {
			delete(f.carts, customerID)
			return nil
		}
	}
	return nil
}

func (f *fakeCartRepo) RequestVerification(_ context.Context, customerID uuid.UUID) (*models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cart, ok := f.carts[customerID]
	if !ok || cart.Verified {
		return nil, nil
	}
	cart.WantsVerification = true
	copied := *cart
	return &copied, nil
}

func (f *fakeCartRepo) FindPendingVerification(_ context.Context) ([]models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var pending []models.Cart
	for _, cart := range f.carts {
		if cart.WantsVerification && !cart.Verified {
			pending = append(pending, *cart)
		}
	}
	return pending, nil
}

func (f *fakeCartRepo) MarkVerified(_ context.Context, cartID, employeeID uuid.UUID, at time.Time) (*models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, cart := range f.carts {
		if cart.ID == cartID && !cart.Verified {
			cart.Verified = true
			cart.VerifiedBy = &employeeID
			cart.VerifiedAt = &at
			copied := *cart
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeCartRepo) FindVerifiedByCustomer(_ context.Context, customerID uuid.UUID) (*models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cart, ok := f.carts[customerID]
	if !ok || !cart.Verified {
		return nil, nil
	}
	copied := *cart
	return &copied, nil
}

type fakeProductRepo struct {
	products []models.Product
}

func (f *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	for i := range f.products {
		if f.products[i].ID == id {
			return &f.products[i], nil
		}
	}
	return nil, nil
}

func (f *fakeProductRepo) FindByBarcode(_ context.Context, barcode string) (*models.Product, error) {
	for i := range f.products {
		if f.products[i].Barcode == barcode {
			return &f.products[i], nil
		}
	}
	return nil, nil
}

func (f *fakeProductRepo) FindByBarcodes(_ context.Context, barcodes []string) ([]models.Product, error) {
	var found []models.Product
	for _, barcode := range barcodes {
		for i := range f.products {
			if f.products[i].Barcode == barcode {
				found = append(found, f.products[i])
				break
			}
		}
	}
	return found, nil
}

func (f *fakeProductRepo) RecordSale(_ context.Context, barcode string, quantity int) error {
	for i := range f.products {
		if f.products[i].Barcode == barcode {
			f.products[i].UnitsSold += quantity
			f.products[i].StockQuantity -= quantity
			return nil
		}
	}
	return errors.New("product not found")
}

type fakeEmployeeRepo struct {
	employees map[uuid.UUID]*models.Employee
	appended  []models.VerifiedCartRef
}

func newFakeEmployeeRepo(employees ...*models.Employee) *fakeEmployeeRepo {
	repo := &fakeEmployeeRepo{employees: make(map[uuid.UUID]*models.Employee)}
	for _, e := range employees {
		repo.employees[e.ID] = e
	}
	return repo
}

func (f *fakeEmployeeRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Employee, error) {
	return f.employees[id], nil
}

func (f *fakeEmployeeRepo) AppendVerifiedCart(_ context.Context, _ uuid.UUID, ref models.VerifiedCartRef) error {
	f.appended = append(f.appended, ref)
	return nil
}

type fakeCustomerRepo struct {
	created []*models.Customer
}

func (f *fakeCustomerRepo) Create(_ context.Context, customer *models.Customer) error {
	f.created = append(f.created, customer)
	return nil
}

type fakeOrderRepo struct {
	created []*models.Order
}

func (f *fakeOrderRepo) Create(_ context.Context, order *models.Order) error {
	f.created = append(f.created, order)
	return nil
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments []*models.Payment
}

func (f *fakePaymentRepo) Create(_ context.Context, payment *models.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payments = append(f.payments, payment)
	return nil
}

func (f *fakePaymentRepo) List(_ context.Context) ([]models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Payment, 0, len(f.payments))
	for _, p := range f.payments {
		out = append(out, *p)
	}
	return out, nil
}

type fakeGateway struct {
	validSignature bool
	createErr      error
	lastAmount     int64
}

func (f *fakeGateway) CreateOrder(amountPaise int64, currency, receipt string) (map[string]interface{}, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.lastAmount = amountPaise
	return map[string]interface{}{
		"id":       "order_test_123",
		"amount":   amountPaise,
		"currency": currency,
		"receipt":  receipt,
	}, nil
}

func (f *fakeGateway) VerifySignature(_, _, _ string) bool {
	return f.validSignature
}

type fakeInvoiceSender struct {
	mu     sync.Mutex
	sent   int
	err    error
	called chan struct{}
}

func newFakeInvoiceSender(err error) *fakeInvoiceSender {
	return &fakeInvoiceSender{err: err, called: make(chan struct{}, 1)}
}

func (f *fakeInvoiceSender) SendInvoice(_ context.Context, _ *models.Payment) error {
	f.mu.Lock()
	f.sent++
	f.mu.Unlock()
	select {
	case f.called <- struct{}{}:
	default:
	}
	return f.err
}

type fakeBroadcaster struct {
	mu       sync.Mutex
	events   []string
	payloads []interface{}
}

func (f *fakeBroadcaster) Broadcast(eventType string, data interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, eventType)
	f.payloads = append(f.payloads, data)
}

func (f *fakeBroadcaster) eventTypes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.events...)
}

func (f *fakeBroadcaster) lastPayload() interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.payloads) == 0 {
		return nil
	}
	return f.payloads[len(f.payloads)-1]
}

type fakeQRStore struct {
	mu      sync.Mutex
	current string
}

func (f *fakeQRStore) Current(_ context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current, nil
}

func (f *fakeQRStore) Set(_ context.Context, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = code
	return nil
}

func (f *fakeQRStore) Consume(_ context.Context, code string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current == "" || f.current != code {
		return false, nil
	}
	f.current = ""
	return true, nil
}
