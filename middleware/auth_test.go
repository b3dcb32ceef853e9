package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testSecret = "unit-test-secret"

func signToken(t *testing.T, secret, role string, ttl time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"id":   "emp-1",
		"role": role,
		"exp":  time.Now().Add(ttl).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func newProtectedRouter(roles ...string) *gin.Engine {
	r := gin.New()
	handlers := []gin.HandlerFunc{Authenticate(testSecret)}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRole(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/protected", handlers...)
	return r
}

func get(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticateMissingToken(t *testing.T) {
	if w := get(newProtectedRouter(), ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
}

func TestAuthenticateWrongSecret(t *testing.T) {
	token := signToken(t, "other-secret", "admin", time.Hour)
	if w := get(newProtectedRouter(), token); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for forged token, got %d", w.Code)
	}
}

func TestAuthenticateExpiredToken(t *testing.T) {
	token := signToken(t, testSecret, "admin", -time.Minute)
	if w := get(newProtectedRouter(), token); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d", w.Code)
	}
}

func TestRequireRoleAllowsMatching(t *testing.T) {
	token := signToken(t, testSecret, "associate", time.Hour)
	if w := get(newProtectedRouter("admin", "associate"), token); w.Code != http.StatusOK {
		t.Fatalf("expected 200 for associate, got %d", w.Code)
	}
}

func TestRequireRoleRejectsOthers(t *testing.T) {
	token := signToken(t, testSecret, "associate", time.Hour)
	if w := get(newProtectedRouter("admin"), token); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for associate on admin route, got %d", w.Code)
	}
}
