package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name   string
		cfg    Config
		path   string
		header string
		want   int
	}{
		{"disabled", Config{}, "/api/v1/emission", "", http.StatusOK},
		{"no header", Config{Enabled: true, Token: "tok"}, "/api/v1/emission", "", http.StatusUnauthorized},
		{"malformed header", Config{Enabled: true, Token: "tok"}, "/api/v1/emission", "tok", http.StatusUnauthorized},
		{"wrong token", Config{Enabled: true, Token: "tok"}, "/api/v1/emission", "Bearer nope", http.StatusUnauthorized},
		{"correct token", Config{Enabled: true, Token: "tok"}, "/api/v1/emission", "Bearer tok", http.StatusOK},
		{"healthz exempt", Config{Enabled: true, Token: "tok"}, "/healthz", "", http.StatusOK},
		{"readyz exempt", Config{Enabled: true, Token: "tok"}, "/readyz", "", http.StatusOK},
		{"metrics exempt", Config{Enabled: true, Token: "tok"}, "/metrics", "", http.StatusOK},
		{"models exempt", Config{Enabled: true, Token: "tok"}, "/api/v1/models", "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			Middleware(tt.cfg)(next).ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
