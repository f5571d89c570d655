package webserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func authRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	auth := NewAuth([]byte("test-secret"), "shared-token")
	r.POST("/v1/auth/token", auth.Token)
	secured := r.Group("/v1", JWTMiddleware([]byte("test-secret")))
	secured.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"svc": c.GetString("svc")})
	})
	return r
}

func postToken(r *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/token", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestTokenExchange(t *testing.T) {
	r := authRouter()

	w := postToken(r, `{"token":"shared-token","service":"formbot"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Token == "" {
		t.Fatal("no token in response")
	}

	// The issued JWT passes the middleware.
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/ping", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("secured route status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "formbot") {
		t.Errorf("svc claim missing: %s", w.Body.String())
	}
}

func TestTokenRejected(t *testing.T) {
	r := authRouter()

	tests := []struct {
		name string
		body string
		want int
	}{
		{"wrong token", `{"token":"nope","service":"formbot"}`, http.StatusUnauthorized},
		{"missing service", `{"token":"shared-token"}`, http.StatusBadRequest},
		{"not json", `token=shared-token`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := postToken(r, tt.body); w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestJWTMiddlewareRejects(t *testing.T) {
	r := authRouter()

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/v1/ping", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", w.Code)
			}
		})
	}
}
