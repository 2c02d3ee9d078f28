package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocaleMiddleware(t *testing.T) {
	var got string
	h := LocaleMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = LocaleFromContext(r.Context())
	}))

	for _, tc := range []struct {
		query, accept, want string
	}{
		{"", "", "sw"},
		{"en", "sw", "en"},
		{"", "en-US,en;q=0.9", "en"},
		{"fr", "de", "sw"},
	} {
		req := httptest.NewRequest(http.MethodGet, "/?lang="+tc.query, nil)
		req.Header.Set("Accept-Language", tc.accept)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, tc.want, got, "query=%q accept=%q", tc.query, tc.accept)
		assert.Equal(t, tc.want, rec.Header().Get("Content-Language"))
	}
}

func TestLocaleFromEmptyContext(t *testing.T) {
	assert.Equal(t, "sw", LocaleFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
}

func TestHeaderMiddlewares(t *testing.T) {
	rec := httptest.NewRecorder()
	NoStore(SecureHeaders(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, rec.Header().Get("Cache-Control"), "no-store")
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "Authorization", rec.Header().Get("Vary"))
}

func TestCORSPreflight(t *testing.T) {
	h := CORS([]string{"https://mafunzo.example"})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/responses/", nil)
	req.Header.Set("Origin", "https://mafunzo.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "https://mafunzo.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
