package controllers

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"time"

	"smartcart-backend/database"
	"smartcart-backend/models"
	"smartcart-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const invoiceTimeout = 15 * time.Second

// InvoiceSender dispatches a receipt for a completed payment.
type InvoiceSender interface {
	SendInvoice(ctx context.Context, payment *models.Payment) error
}

type PaymentController struct {
	Gateway  services.PaymentGateway
	Payments database.PaymentRepository
	Products database.ProductRepository
	Invoice  InvoiceSender
}

func NewPaymentController(gateway services.PaymentGateway, payments database.PaymentRepository, products database.ProductRepository, invoice InvoiceSender) *PaymentController {
	return &PaymentController{Gateway: gateway, Payments: payments, Products: products, Invoice: invoice}
}

// CreateOrder opens a gateway order for the scanned items. Client prices
// are honoured only when every line has one; otherwise catalog prices
// win.
func (pc *PaymentController) CreateOrder(c *gin.Context) {
	var req struct {
		ProductIDs []string  `json:"productIds" binding:"required,min=1"`
		Quantities []int     `json:"quantities" binding:"required,min=1"`
		Prices     []float64 `json:"prices"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if len(req.Quantities) != len(req.ProductIDs) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "productIds and quantities must have the same length"})
		return
	}

	ctx := c.Request.Context()

	products, err := pc.Products.FindByBarcodes(ctx, req.ProductIDs)
	if err != nil {
		zap.L().Error("Failed to fetch products", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch products"})
		return
	}
	if len(products) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No valid products found with the provided barcodes!"})
		return
	}

	byBarcode := make(map[string]models.Product, len(products))
	for _, p := range products {
		byBarcode[p.Barcode] = p
	}

	useClientPrices := len(req.Prices) == len(req.ProductIDs)

	var total float64
	lines := make([]gin.H, 0, len(req.ProductIDs))
	for i, barcode := range req.ProductIDs {
		product, ok := byBarcode[barcode]
		if !ok {
			continue
		}
		price := product.Price
		if useClientPrices {
			price = req.Prices[i]
		}
		quantity := req.Quantities[i]
		total += price * float64(quantity)
		lines = append(lines, gin.H{
			"barcode":  barcode,
			"name":     product.Name,
			"price":    price,
			"quantity": quantity,
		})
	}

	amountPaise := int64(math.Round(total * 100))
	receipt := fmt.Sprintf("order_%d", time.Now().Unix())

	order, err := pc.Gateway.CreateOrder(amountPaise, "INR", receipt)
	if err != nil {
		zap.L().Error("Gateway order creation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create payment order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       order["id"],
		"amount":   order["amount"],
		"currency": order["currency"],
		"receipt":  order["receipt"],
		"products": lines,
	})
}

// VerifyPayment checks the gateway signature and records the outcome.
// Exactly one payment document is written whether the signature matches
// or not, so the ledger keeps failed attempts too.
func (pc *PaymentController) VerifyPayment(c *gin.Context) {
	var req struct {
		RazorpayOrderID    string             `json:"razorpay_order_id" binding:"required"`
		RazorpayPaymentID  string             `json:"razorpay_payment_id" binding:"required"`
		RazorpaySignature  string             `json:"razorpay_signature" binding:"required"`
		CustomerID         uuid.UUID          `json:"customer_id"`
		UserName           string             `json:"userName"`
		PhoneNumber        string             `json:"phone_number"`
		OrderItems         []models.OrderItem `json:"order_items"`
		TotalAmountPerCart map[int]float64    `json:"total_amount_per_cart"`
		Amount             float64            `json:"amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	valid := pc.Gateway.VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature)

	totals := req.TotalAmountPerCart
	if totals == nil {
		totals = models.TotalsPerCart(req.OrderItems)
	}

	payment := &models.Payment{
		ID:                 uuid.New(),
		CustomerID:         req.CustomerID,
		UserName:           req.UserName,
		PhoneNumber:        req.PhoneNumber,
		OrderItems:         req.OrderItems,
		TotalAmountPerCart: totals,
		RazorpayOrderID:    req.RazorpayOrderID,
		RazorpayPaymentID:  req.RazorpayPaymentID,
		RazorpaySignature:  req.RazorpaySignature,
		Amount:             req.Amount,
		Status:             models.PaymentStatusFailure,
		CreatedAt:          time.Now().UTC(),
	}
	if valid {
		payment.Status = models.PaymentStatusSuccess
	}

	if err := pc.Payments.Create(c.Request.Context(), payment); err != nil {
		zap.L().Error("Failed to record payment", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to record payment"})
		return
	}

	if !valid {
		zap.L().Warn("Payment signature mismatch",
			zap.String("razorpay_order_id", req.RazorpayOrderID),
			zap.String("razorpay_payment_id", req.RazorpayPaymentID))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Payment verification failed"})
		return
	}

	if pc.Invoice != nil {
		// The customer already paid; a broken invoice service must not
		// fail the request.
		go func(p models.Payment) {
			ctx, cancel := context.WithTimeout(context.Background(), invoiceTimeout)
			defer cancel()
			if err := pc.Invoice.SendInvoice(ctx, &p); err != nil {
				zap.L().Warn("Invoice dispatch failed",
					zap.String("payment_id", p.ID.String()), zap.Error(err))
			}
		}(*payment)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Payment verified successfully", "payment_id": payment.ID})
}

// GetPayments lists the payment ledger, newest first.
func (pc *PaymentController) GetPayments(c *gin.Context) {
	payments, err := pc.Payments.List(c.Request.Context())
	if err != nil {
		zap.L().Error("Failed to fetch payments", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch payments"})
		return
	}

	c.JSON(http.StatusOK, payments)
}
