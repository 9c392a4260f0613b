package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRateLimitMiddlewarePassThroughWithoutRedis(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", RateLimitMiddleware(nil, RateLimitRule{
		Prefix:        "login",
		WindowSeconds: 60,
		MaxRequests:   5,
	}, KeyByIP), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status_code": 0})
	})

	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d want 200 got %d", i+1, rec.Code)
		}
	}
}

func TestKeyByIPAndJSONFieldRestoresBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	keyFunc := KeyByIPAndJSONField("email")

	var gotKey string
	var gotBody string
	r := gin.New()
	r.POST("/login", func(c *gin.Context) {
		gotKey = keyFunc(c)
		var payload struct {
			Email string `json:"email"`
		}
		if err := c.ShouldBindJSON(&payload); err != nil {
			t.Fatalf("body not restored after key derivation: %v", err)
		}
		gotBody = payload.Email
		c.JSON(http.StatusOK, gin.H{"status_code": 0})
	})

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"Casey@Example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("want 200 got %d", rec.Code)
	}
	if !strings.HasPrefix(gotKey, "casey@example.com|") {
		t.Fatalf("key want email prefix got %q", gotKey)
	}
	if gotBody != "Casey@Example.com" {
		t.Fatalf("handler body want original email got %q", gotBody)
	}
}

func TestResolveAllowedOrigin(t *testing.T) {
	cases := []struct {
		name        string
		origin      string
		allowed     []string
		credentials bool
		want        string
	}{
		{"wildcard", "https://a.example.com", []string{"*"}, false, "*"},
		{"wildcard with credentials echoes", "https://a.example.com", []string{"*"}, true, "https://a.example.com"},
		{"exact match", "https://shop.example.com", []string{"https://shop.example.com"}, false, "https://shop.example.com"},
		{"no match", "https://evil.example.com", []string{"https://shop.example.com"}, false, ""},
		{"empty origin", "", []string{"https://shop.example.com"}, false, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := resolveAllowedOrigin(tc.origin, tc.allowed, tc.credentials)
			if got != tc.want {
				t.Fatalf("want %q got %q", tc.want, got)
			}
		})
	}
}
