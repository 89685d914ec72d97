package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/anhtnguyen/historylab/internal/domain"
	"github.com/anhtnguyen/historylab/internal/usecase"
	"github.com/gin-gonic/gin"
)

type fakeTokenIssuer struct {
	issue  func(ctx context.Context, input usecase.IssueInput) (*usecase.IssueResult, error)
	get    func(ctx context.Context, id string) (*domain.LoginToken, error)
	list   func(ctx context.Context) ([]*domain.LoginToken, error)
	delete func(ctx context.Context, id string) error
}

func (f *fakeTokenIssuer) Issue(ctx context.Context, input usecase.IssueInput) (*usecase.IssueResult, error) {
	return f.issue(ctx, input)
}

func (f *fakeTokenIssuer) Get(ctx context.Context, id string) (*domain.LoginToken, error) {
	return f.get(ctx, id)
}

func (f *fakeTokenIssuer) List(ctx context.Context) ([]*domain.LoginToken, error) {
	return f.list(ctx)
}

func (f *fakeTokenIssuer) Delete(ctx context.Context, id string) error {
	return f.delete(ctx, id)
}

func (f *fakeTokenIssuer) RedemptionURL(id string) string {
	return "http://localhost:8080/qr-login/" + id
}

func tokenRouter(issuer *fakeTokenIssuer, adminID string) *gin.Engine {
	r := gin.New()
	h := NewTokenHandler(issuer, testLogger())
	admin := r.Group("/admin", func(c *gin.Context) {
		c.Set("userID", adminID)
	})
	admin.POST("/tokens", h.Issue)
	admin.GET("/tokens", h.List)
	admin.DELETE("/tokens/:id", h.Delete)
	admin.GET("/tokens/:id/qr", h.QRCode)
	return r
}

func TestIssueToken_Created(t *testing.T) {
	var gotInput usecase.IssueInput
	issuer := &fakeTokenIssuer{
		issue: func(_ context.Context, input usecase.IssueInput) (*usecase.IssueResult, error) {
			gotInput = input
			token := &domain.LoginToken{
				ID: "tok-1", UserID: input.UserID, Email: "alice@example.com",
				Password: input.Password, Name: input.Name,
				CreatedAt: time.Now(), CreatedBy: input.CreatedBy,
			}
			return &usecase.IssueResult{
				Token: token,
				URL:   "http://localhost:8080/qr-login/tok-1",
			}, nil
		},
	}
	router := tokenRouter(issuer, "admin-1")

	body := `{"user_id":"u1","password":"p1","name":"Alice","ttl_seconds":3600,"notify":true}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/tokens", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", w.Code, w.Body.String())
	}

	if gotInput.UserID != "u1" || gotInput.Password != "p1" || !gotInput.Notify {
		t.Errorf("usecase input = %+v", gotInput)
	}
	if gotInput.TTL != time.Hour {
		t.Errorf("ttl = %v, want 1h", gotInput.TTL)
	}
	if gotInput.CreatedBy != "admin-1" {
		t.Errorf("createdBy = %q, want the authenticated admin id", gotInput.CreatedBy)
	}

	if strings.Contains(w.Body.String(), `"p1"`) {
		t.Error("response echoes the password snapshot")
	}

	var resp tokenResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID != "tok-1" || resp.URL == "" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestIssueToken_ValidationErrors(t *testing.T) {
	issuer := &fakeTokenIssuer{
		issue: func(_ context.Context, _ usecase.IssueInput) (*usecase.IssueResult, error) {
			t.Fatal("usecase called despite invalid request body")
			return nil, nil
		},
	}
	router := tokenRouter(issuer, "admin-1")

	cases := []string{
		`{"password":"p1"}`,
		`{"user_id":"u1"}`,
		`{"user_id":"u1","password":"p1","ttl_seconds":0}`,
		`not json`,
	}
	for _, body := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/admin/tokens", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, w.Code)
		}
	}
}

func TestIssueToken_UnknownUser(t *testing.T) {
	issuer := &fakeTokenIssuer{
		issue: func(_ context.Context, _ usecase.IssueInput) (*usecase.IssueResult, error) {
			return nil, domain.ErrUserNotFound
		},
	}
	router := tokenRouter(issuer, "admin-1")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/tokens",
		bytes.NewBufferString(`{"user_id":"nope","password":"p1"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestListTokens_NeverEchoesPasswords(t *testing.T) {
	issuer := &fakeTokenIssuer{
		list: func(_ context.Context) ([]*domain.LoginToken, error) {
			return []*domain.LoginToken{
				{ID: "tok-1", UserID: "u1", Email: "a@example.com", Password: "super-secret", CreatedAt: time.Now()},
			}, nil
		},
	}
	router := tokenRouter(issuer, "admin-1")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/tokens", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if strings.Contains(w.Body.String(), "super-secret") {
		t.Error("list response leaks the password snapshot")
	}
}

func TestDeleteToken(t *testing.T) {
	issuer := &fakeTokenIssuer{
		delete: func(_ context.Context, id string) error {
			if id == "tok-1" {
				return nil
			}
			return domain.ErrTokenNotFound
		},
	}
	router := tokenRouter(issuer, "admin-1")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/admin/tokens/tok-1", nil))
	if w.Code != http.StatusNoContent {
		t.Errorf("delete existing: status = %d, want 204", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/admin/tokens/missing", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("delete missing: status = %d, want 404", w.Code)
	}
}

func TestTokenQRCode_ReturnsPNG(t *testing.T) {
	issuer := &fakeTokenIssuer{
		get: func(_ context.Context, id string) (*domain.LoginToken, error) {
			return &domain.LoginToken{ID: id}, nil
		},
	}
	router := tokenRouter(issuer, "admin-1")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/tokens/tok-1/qr", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q, want image/png", ct)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")) {
		t.Error("body is not a PNG")
	}
}

func TestTokenQRCode_UnknownToken(t *testing.T) {
	issuer := &fakeTokenIssuer{
		get: func(_ context.Context, _ string) (*domain.LoginToken, error) {
			return nil, domain.ErrTokenNotFound
		},
	}
	router := tokenRouter(issuer, "admin-1")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/tokens/missing/qr", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
