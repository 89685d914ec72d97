package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var authTestKey = []byte("test-jwt-secret-at-least-32-chars!!")

func signToken(t *testing.T, key []byte, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func authedRouter(extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{Auth(authTestKey)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userID": c.GetString("userID"),
			"role":   c.GetString("role"),
		})
	})
	r.GET("/protected", handlers...)
	return r
}

func get(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestAuth_ValidToken_SetsIdentity(t *testing.T) {
	token := signToken(t, authTestKey, jwt.MapClaims{
		"sub":   "u1",
		"email": "a@example.com",
		"role":  "user",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	w := get(authedRouter(), "Bearer "+token)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if body := w.Body.String(); !strings.Contains(body, `"userID":"u1"`) {
		t.Errorf("identity not propagated, body %s", body)
	}
}

func TestAuth_Rejections(t *testing.T) {
	expired := signToken(t, authTestKey, jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	wrongKey := signToken(t, []byte("some-other-signing-key-32-chars!!"), jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	noSubject := signToken(t, authTestKey, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.jwt"},
		{"expired", "Bearer " + expired},
		{"wrong key", "Bearer " + wrongKey},
		{"no subject", "Bearer " + noSubject},
	}

	router := authedRouter()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if w := get(router, tc.header); w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", w.Code)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	router := authedRouter(RequireAdmin())

	adminToken := signToken(t, authTestKey, jwt.MapClaims{
		"sub": "u1", "role": "admin", "exp": time.Now().Add(time.Hour).Unix(),
	})
	if w := get(router, "Bearer "+adminToken); w.Code != http.StatusOK {
		t.Errorf("admin: status = %d, want 200", w.Code)
	}

	userToken := signToken(t, authTestKey, jwt.MapClaims{
		"sub": "u1", "role": "user", "exp": time.Now().Add(time.Hour).Unix(),
	})
	if w := get(router, "Bearer "+userToken); w.Code != http.StatusForbidden {
		t.Errorf("non-admin: status = %d, want 403", w.Code)
	}
}
