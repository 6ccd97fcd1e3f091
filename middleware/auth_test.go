package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"TimeCanvasGo/middleware"
	"TimeCanvasGo/services"
	"TimeCanvasGo/utils"

	"github.com/gin-gonic/gin"
)

// brokenDenylist 模拟 Redis 不可用
type brokenDenylist struct{}

func (brokenDenylist) Revoke(context.Context, string, time.Time) error { return errors.New("down") }
func (brokenDenylist) IsRevoked(context.Context, string) (bool, error) {
	return false, errors.New("down")
}
func (brokenDenylist) Ping(context.Context) error { return errors.New("down") }

func newRouter(tokens *utils.TokenManager, denylist services.TokenDenylist) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.AuthMiddleware(tokens, denylist))
	r.GET("/me", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(middleware.ContextUserID))
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	tokens, err := utils.NewTokenManager("secret")
	if err != nil {
		t.Fatal(err)
	}
	valid, _ := tokens.GenerateToken("u1", "a@example.com")
	revoked, _ := tokens.GenerateToken("u2", "")

	denylist := services.NewMemoryDenylist()
	claims, err := tokens.ParseToken(revoked)
	if err != nil {
		t.Fatal(err)
	}
	_ = denylist.Revoke(context.Background(), claims.ID, claims.ExpiresAt.Time)

	tests := []struct {
		name     string
		denylist services.TokenDenylist
		header   string
		wantCode int
		wantBody string
	}{
		{"missing header", denylist, "", http.StatusUnauthorized, ""},
		{"malformed token", denylist, "Bearer nope", http.StatusUnauthorized, ""},
		{"valid token", denylist, "Bearer " + valid, http.StatusOK, "u1"},
		{"revoked token", denylist, "Bearer " + revoked, http.StatusUnauthorized, ""},
		{"denylist unavailable", brokenDenylist{}, "Bearer " + valid, http.StatusServiceUnavailable, ""},
	}
	for _, tt := range tests {
		r := newRouter(tokens, tt.denylist)
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != tt.wantCode {
			t.Errorf("%s: status = %d, want %d", tt.name, w.Code, tt.wantCode)
		}
		if tt.wantBody != "" && w.Body.String() != tt.wantBody {
			t.Errorf("%s: body = %q, want %q", tt.name, w.Body.String(), tt.wantBody)
		}
	}
}

func TestInternalAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		token    string
		header   string
		wantCode int
	}{
		{"not configured", "", "", http.StatusForbidden},
		{"not configured with header", "", "anything", http.StatusForbidden},
		{"wrong token", "s3cret", "guess", http.StatusForbidden},
		{"right token", "s3cret", "s3cret", http.StatusOK},
	}
	for _, tt := range tests {
		r := gin.New()
		r.Use(middleware.InternalAuthMiddleware(tt.token))
		r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		if tt.header != "" {
			req.Header.Set("X-Internal-Auth", tt.header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != tt.wantCode {
			t.Errorf("%s: status = %d, want %d", tt.name, w.Code, tt.wantCode)
		}
	}
}
