package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func signPayload(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignatureAcceptsValid(t *testing.T) {
	svc := NewRazorpayService("rzp_test_key", "secret123")

	sig := signPayload("secret123", "order_abc", "pay_xyz")
	if !svc.VerifySignature("order_abc", "pay_xyz", sig) {
		t.Error("valid signature rejected")
	}
}

func TestVerifySignatureRejectsTampering(t *testing.T) {
	svc := NewRazorpayService("rzp_test_key", "secret123")
	sig := signPayload("secret123", "order_abc", "pay_xyz")

	cases := []struct {
		name      string
		orderID   string
		paymentID string
		signature string
	}{
		{"wrong order id", "order_def", "pay_xyz", sig},
		{"wrong payment id", "order_abc", "pay_other", sig},
		{"wrong secret", "order_abc", "pay_xyz", signPayload("other-secret", "order_abc", "pay_xyz")},
		{"empty signature", "order_abc", "pay_xyz", ""},
		{"truncated signature", "order_abc", "pay_xyz", sig[:10]},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if svc.VerifySignature(tc.orderID, tc.paymentID, tc.signature) {
				t.Error("tampered signature accepted")
			}
		})
	}
}
