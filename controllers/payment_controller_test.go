package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"smartcart-backend/models"

	"github.com/gin-gonic/gin"
)

func newPaymentRouter(pc *PaymentController) *gin.Engine {
	r := gin.New()
	r.POST("/payment/create-order", pc.CreateOrder)
	r.POST("/payment/verify-payment", pc.VerifyPayment)
	return r
}

func verifyBody() []byte {
	body, _ := json.Marshal(gin.H{
		"razorpay_order_id":   "order_abc",
		"razorpay_payment_id": "pay_xyz",
		"razorpay_signature":  "sig",
		"userName":            "Ravi",
		"phone_number":        "9999999999",
		"amount":              124.50,
		"order_items": []gin.H{
			{"cart_number": 1, "product_barcode": "111", "product_name": "Milk", "quantity": 2, "price": 62.25},
		},
	})
	return body
}

func TestVerifyPaymentSignatureMismatchRecordsFailure(t *testing.T) {
	payments := &fakePaymentRepo{}
	pc := NewPaymentController(&fakeGateway{validSignature: false}, payments, &fakeProductRepo{}, newFakeInvoiceSender(nil))
	r := newPaymentRouter(pc)

	req := httptest.NewRequest(http.MethodPost, "/payment/verify-payment", bytes.NewReader(verifyBody()))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on signature mismatch, got %d", w.Code)
	}
	if len(payments.payments) != 1 {
		t.Fatalf("a failed verification must still be recorded, got %d records", len(payments.payments))
	}
	if payments.payments[0].Status != models.PaymentStatusFailure {
		t.Errorf("expected failure status, got %q", payments.payments[0].Status)
	}
}

func TestVerifyPaymentSuccessSurvivesInvoiceFailure(t *testing.T) {
	payments := &fakePaymentRepo{}
	invoice := newFakeInvoiceSender(errors.New("invoice service down"))
	pc := NewPaymentController(&fakeGateway{validSignature: true}, payments, &fakeProductRepo{}, invoice)
	r := newPaymentRouter(pc)

	req := httptest.NewRequest(http.MethodPost, "/payment/verify-payment", bytes.NewReader(verifyBody()))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(payments.payments) != 1 || payments.payments[0].Status != models.PaymentStatusSuccess {
		t.Fatal("a verified payment must be recorded as success regardless of invoicing")
	}

	select {
	case <-invoice.called:
	case <-time.After(2 * time.Second):
		t.Fatal("invoice sender was never invoked")
	}
}

func TestVerifyPaymentComputesTotalsWhenMissing(t *testing.T) {
	payments := &fakePaymentRepo{}
	pc := NewPaymentController(&fakeGateway{validSignature: true}, payments, &fakeProductRepo{}, nil)
	r := newPaymentRouter(pc)

	req := httptest.NewRequest(http.MethodPost, "/payment/verify-payment", bytes.NewReader(verifyBody()))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	totals := payments.payments[0].TotalAmountPerCart
	if totals[1] != 124.5 {
		t.Errorf("expected slot 1 total 124.5, got %v", totals[1])
	}
}

func TestCreateOrderNoValidProducts(t *testing.T) {
	pc := NewPaymentController(&fakeGateway{}, &fakePaymentRepo{}, &fakeProductRepo{}, nil)
	r := newPaymentRouter(pc)

	body, _ := json.Marshal(gin.H{
		"productIds": []string{"unknown"},
		"quantities": []int{1},
	})
	req := httptest.NewRequest(http.MethodPost, "/payment/create-order", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestCreateOrderUsesCatalogPricesWithoutClientPrices(t *testing.T) {
	products := &fakeProductRepo{products: []models.Product{
		{Barcode: "111", Name: "Milk", Price: 62},
		{Barcode: "222", Name: "Bread", Price: 45},
	}}
	gateway := &fakeGateway{}
	pc := NewPaymentController(gateway, &fakePaymentRepo{}, products, nil)
	r := newPaymentRouter(pc)

	body, _ := json.Marshal(gin.H{
		"productIds": []string{"111", "222"},
		"quantities": []int{2, 1},
	})
	req := httptest.NewRequest(http.MethodPost, "/payment/create-order", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	// 2*62 + 1*45 = 169 rupees = 16900 paise.
	if gateway.lastAmount != 16900 {
		t.Errorf("expected 16900 paise, got %d", gateway.lastAmount)
	}
}
