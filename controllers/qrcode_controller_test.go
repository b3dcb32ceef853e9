package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newQRRouter(qc *QRController) *gin.Engine {
	r := gin.New()
	r.POST("/qrcode/update-qr", qc.UpdateQR)
	r.POST("/qrcode/scan-qr", qc.ScanQR)
	return r
}

func postJSON(r *gin.Engine, url string, payload gin.H) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestScanCurrentQRSucceedsOnce(t *testing.T) {
	store := &fakeQRStore{}
	hub := &fakeBroadcaster{}
	r := newQRRouter(NewQRController(store, hub))

	if w := postJSON(r, "/qrcode/update-qr", gin.H{"qrCode": "qr-1"}); w.Code != http.StatusOK {
		t.Fatalf("update failed: %d", w.Code)
	}

	w := postJSON(r, "/qrcode/scan-qr", gin.H{"scannedQRCode": "qr-1"})
	if w.Code != http.StatusOK {
		t.Fatalf("scan of current code should succeed, got %d: %s", w.Code, w.Body.String())
	}

	// The code was consumed; a replay must fail.
	w = postJSON(r, "/qrcode/scan-qr", gin.H{"scannedQRCode": "qr-1"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("replayed scan should fail, got %d", w.Code)
	}

	want := []string{"qr-updated", "qr-scanned"}
	got := hub.eventTypes()
	if len(got) != len(want) {
		t.Fatalf("expected events %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestScanStaleQRLeavesCurrentIntact(t *testing.T) {
	store := &fakeQRStore{current: "qr-2"}
	r := newQRRouter(NewQRController(store, &fakeBroadcaster{}))

	w := postJSON(r, "/qrcode/scan-qr", gin.H{"scannedQRCode": "qr-1"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("stale scan should fail, got %d", w.Code)
	}
	if store.current != "qr-2" {
		t.Errorf("a failed scan must not consume the live code, store holds %q", store.current)
	}
}

func TestUpdateQRRequiresCode(t *testing.T) {
	r := newQRRouter(NewQRController(&fakeQRStore{}, &fakeBroadcaster{}))

	if w := postJSON(r, "/qrcode/update-qr", gin.H{}); w.Code != http.StatusBadRequest {
		t.Fatalf("empty update should be rejected, got %d", w.Code)
	}
}
