package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	razorpay "github.com/razorpay/razorpay-go"
)

// PaymentGateway is the slice of the gateway the payment controller needs.
type PaymentGateway interface {
	CreateOrder(amountPaise int64, currency, receipt string) (map[string]interface{}, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

// RazorpayService wraps the Razorpay SDK for order creation and implements
// the gateway's HMAC signature check locally so it needs no network call.
type RazorpayService struct {
	client    *razorpay.Client
	keySecret string
}

func NewRazorpayService(keyID, keySecret string) *RazorpayService {
	return &RazorpayService{
		client:    razorpay.NewClient(keyID, keySecret),
		keySecret: keySecret,
	}
}

func (s *RazorpayService) CreateOrder(amountPaise int64, currency, receipt string) (map[string]interface{}, error) {
	data := map[string]interface{}{
		"amount":   amountPaise,
		"currency": currency,
		"receipt":  receipt,
	}
	return s.client.Order.Create(data, nil)
}

// VerifySignature checks the gateway callback: HMAC-SHA256 over
// "order_id|payment_id" keyed with the shared secret, compared in constant
// time against the signature the client relayed.
func (s *RazorpayService) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(s.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
