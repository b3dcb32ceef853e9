package controllers

import (
	"net/http"

	"smartcart-backend/database"
	"smartcart-backend/realtime"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// QRController rotates the shared check-in QR code. The code lives in a
// synchronized store, so concurrent kiosks and server replicas agree on
// which code is live.
type QRController struct {
	Store database.QRStore
	Hub   realtime.Broadcaster
}

func NewQRController(store database.QRStore, hub realtime.Broadcaster) *QRController {
	return &QRController{Store: store, Hub: hub}
}

// UpdateQR stores a freshly generated code and announces it to connected
// displays.
func (qc *QRController) UpdateQR(c *gin.Context) {
	var req struct {
		QRCode string `json:"qrCode"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.QRCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "QR Code is required"})
		return
	}

	if err := qc.Store.Set(c.Request.Context(), req.QRCode); err != nil {
		zap.L().Error("Failed to store QR code", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update QR code"})
		return
	}

	qc.Hub.Broadcast(realtime.EventQRUpdated, req.QRCode)
	c.JSON(http.StatusOK, gin.H{"message": "QR code updated successfully"})
}

// ScanQR validates a scanned code against the current one. A match consumes
// the code atomically, so only one of two racing kiosks wins.
func (qc *QRController) ScanQR(c *gin.Context) {
	var req struct {
		ScannedQRCode string `json:"scannedQRCode"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ScannedQRCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "QR Code is required"})
		return
	}

	ok, err := qc.Store.Consume(c.Request.Context(), req.ScannedQRCode)
	if err != nil {
		zap.L().Error("Failed to consume QR code", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify QR code"})
		return
	}
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"valid": false, "message": "Invalid QR Code"})
		return
	}

	qc.Hub.Broadcast(realtime.EventQRScanned, nil)
	c.JSON(http.StatusOK, gin.H{"valid": true, "message": "QR Code verified, generate new"})
}
