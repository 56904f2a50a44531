package platform

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIKeyMiddleware(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	tests := []struct {
		name   string
		key    string
		header string
		want   int
	}{
		{"disabled", "", "", http.StatusOK},
		{"missing header", "s3cret", "", http.StatusUnauthorized},
		{"wrong key", "s3cret", "guess", http.StatusUnauthorized},
		{"right key", "s3cret", "s3cret", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/templates", nil)
			if tt.header != "" {
				req.Header.Set(APIKeyHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			APIKeyMiddleware(tt.key, ok).ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv(EnvPort, "9090")
	assert.Equal(t, 9090, GetEnvInt(EnvPort, 8080))

	t.Setenv(EnvPort, "not-a-port")
	assert.Equal(t, 8080, GetEnvInt(EnvPort, 8080))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", ParseLevel("debug").String())
	assert.Equal(t, "WARN", ParseLevel(" Warning ").String())
	assert.Equal(t, "INFO", ParseLevel("verbose").String())
}
