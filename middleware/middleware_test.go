package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"zawamu/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestLimiterStore_AllowAndCleanup(t *testing.T) {
	// allow 5 events immediately then the 6th should be rejected
	s := NewLimiterStore(5, 5, 100*time.Millisecond)
	defer s.Stop()

	key := "test@example.com"
	for i := 0; i < 5; i++ {
		if !s.Allow(key) {
			t.Fatalf("expected allow at iteration %d", i)
		}
	}
	if s.Allow(key) {
		t.Fatalf("expected limiter to block after burst consumed")
	}
	if !s.Allow("other@example.com") {
		t.Fatalf("keys should be limited independently")
	}
	s.Stop()
}

func protectedRouter(tokens TokenVerifier) *gin.Engine {
	r := gin.New()
	r.GET("/me", JWTAuth(tokens), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": c.GetString(UserIDKey)})
	})
	return r
}

func TestJWTAuth(t *testing.T) {
	tokens := auth.NewJWTManager("test-secret", time.Hour)
	good, _, err := tokens.Generate("u-42")
	if err != nil {
		t.Fatal(err)
	}
	other, _, _ := auth.NewJWTManager("other-secret", time.Hour).Generate("u-42")

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + good, http.StatusUnauthorized},
		{"bad signature", "Bearer " + other, http.StatusUnauthorized},
		{"garbage", "Bearer abc.def", http.StatusUnauthorized},
		{"valid", "Bearer " + good, http.StatusOK},
	}
	r := protectedRouter(tokens)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)
			if rr.Code != tc.want {
				t.Fatalf("status = %d, want %d (%s)", rr.Code, tc.want, rr.Body.String())
			}
			var body map[string]any
			_ = json.Unmarshal(rr.Body.Bytes(), &body)
			if tc.want == http.StatusOK && body["userId"] != "u-42" {
				t.Fatalf("userId = %v", body["userId"])
			}
			if tc.want == http.StatusUnauthorized && body["message"] == nil {
				t.Fatalf("expected a message in %s", rr.Body.String())
			}
		})
	}
}

func TestLoginRateLimitKeysByEmailAndRestoresBody(t *testing.T) {
	store := NewLimiterStore(2, 2, time.Minute)
	defer store.Stop()

	r := gin.New()
	r.POST("/login", LoginRateLimit(store), func(c *gin.Context) {
		b, _ := io.ReadAll(c.Request.Body)
		c.String(http.StatusOK, string(b))
	})

	post := func(email string) *httptest.ResponseRecorder {
		body := `{"email":"` + email + `","password":"x"}`
		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(body))
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		return rr
	}

	first := post("Admin@Example.com")
	if first.Code != http.StatusOK || !bytes.Contains(first.Body.Bytes(), []byte("password")) {
		t.Fatalf("handler should see the original body, got %d %q", first.Code, first.Body.String())
	}
	post("admin@example.com")
	if rr := post("ADMIN@example.com"); rr.Code != http.StatusTooManyRequests {
		t.Fatalf("third attempt status = %d, want 429", rr.Code)
	}
	if rr := post("someone@example.com"); rr.Code != http.StatusOK {
		t.Fatalf("other account status = %d, want 200", rr.Code)
	}
}

func TestRequestIDAndLogger(t *testing.T) {
	var buf bytes.Buffer
	r := gin.New()
	r.Use(RequestID(), Logger(zerolog.New(&buf)), Metrics())
	r.GET("/api/properties/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	req := httptest.NewRequest(http.MethodGet, "/api/properties/abc", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if got := rr.Header().Get(RequestIDHeader); got != "req-1" {
		t.Fatalf("request id header = %q", got)
	}

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line not JSON: %q", buf.String())
	}
	if line["route"] != "/api/properties/:id" || line["request_id"] != "req-1" || line["level"] != "warn" {
		t.Fatalf("unexpected log line %v", line)
	}
}

func TestRequestIDGenerated(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if len(rr.Header().Get(RequestIDHeader)) != 36 {
		t.Fatalf("expected a uuid, got %q", rr.Header().Get(RequestIDHeader))
	}
}
