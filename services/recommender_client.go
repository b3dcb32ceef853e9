package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"smartcart-backend/models"

	"go.uber.org/zap"
)

// RecommenderClient calls the external recommendation/invoice service. Both
// endpoints are best-effort from the checkout flow's point of view: a dead
// recommender must never block a sale.
type RecommenderClient struct {
	baseURL string
	client  *http.Client
}

func NewRecommenderClient(baseURL string) *RecommenderClient {
	return &RecommenderClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Recommend returns products related to the given cart barcodes.
func (rc *RecommenderClient) Recommend(ctx context.Context, barcodes []string, limit int) (json.RawMessage, error) {
	body, _ := json.Marshal(map[string]interface{}{
		"cart_barcodes":       barcodes,
		"num_recommendations": limit,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rc.baseURL+"/recommend", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := rc.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("recommender request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("recommender returned status %d", resp.StatusCode)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode recommendations: %w", err)
	}
	return raw, nil
}

// SendInvoice asks the service to generate and deliver the receipt for a
// completed payment. Errors are returned for logging only; the caller
// swallows them.
func (rc *RecommenderClient) SendInvoice(ctx context.Context, payment *models.Payment) error {
	body, _ := json.Marshal(map[string]interface{}{
		"userName":              payment.UserName,
		"phone_number":          payment.PhoneNumber,
		"order_items":           payment.OrderItems,
		"total_amount_per_cart": payment.TotalAmountPerCart,
		"amount":                payment.Amount,
		"razorpay_payment_id":   payment.RazorpayPaymentID,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rc.baseURL+"/generate-invoice", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := rc.client.Do(req)
	if err != nil {
		zap.L().Warn("Invoice service call failed", zap.Error(err))
		return fmt.Errorf("invoice request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("invoice service returned status %d", resp.StatusCode)
	}
	return nil
}
