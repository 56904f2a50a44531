package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pcbuild/decision/parts"
	"pcbuild/decision/policy"
	"pcbuild/decision/scoring"
	"pcbuild/pkg/platform"
)

type fakeCatalog struct {
	catalog scoring.Catalog
	err     error
	asked   []parts.Category
}

func (f *fakeCatalog) LoadCatalog(_ context.Context, categories ...parts.Category) (scoring.Catalog, error) {
	f.asked = categories
	return f.catalog, f.err
}

func (f *fakeCatalog) Ping(context.Context) error { return f.err }

func newTestServer(t *testing.T, source CatalogSource) http.Handler {
	t.Helper()
	config := DefaultConfig()
	config.APIKey = ""
	s, err := NewServer(policy.Default(), source, config, nil)
	require.NoError(t, err)
	return s.Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Code != http.StatusNoContent {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

const mismatchedBuild = `{"build": {
	"cpu": {"name": "Ryzen 7 7700", "socket": "AM5", "tdp": 65},
	"motherboard": {"name": "Z790 Aorus", "socket": "LGA1700"}
}}`

func TestHealth(t *testing.T) {
	rec, body := do(t, newTestServer(t, nil), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])

	id := rec.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, body["request_id"])
}

func TestRequestIDIsPropagated(t *testing.T) {
	h := newTestServer(t, nil)
	id := uuid.NewString()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, id)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, id, rec.Header().Get(RequestIDHeader))
}

func TestRequestIDRejectsGarbage(t *testing.T) {
	h := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "not-an-id")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.NotEqual(t, "not-an-id", rec.Header().Get(RequestIDHeader))
}

func TestReady(t *testing.T) {
	t.Run("no catalog", func(t *testing.T) {
		rec, body := do(t, newTestServer(t, nil), http.MethodGet, "/ready", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "none", body["catalog"])
	})

	t.Run("catalog up", func(t *testing.T) {
		rec, _ := do(t, newTestServer(t, &fakeCatalog{}), http.MethodGet, "/ready", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("catalog down", func(t *testing.T) {
		rec, body := do(t, newTestServer(t, &fakeCatalog{err: errors.New("connection refused")}), http.MethodGet, "/ready", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "database not ready", body["error"])
		assert.NotEmpty(t, body["request_id"])
	})
}

func TestAPIKeyGuardsV1Routes(t *testing.T) {
	config := DefaultConfig()
	config.APIKey = "s3cret"
	s, err := NewServer(policy.Default(), nil, config, nil)
	require.NoError(t, err)
	h := s.Handler()

	rec, _ := do(t, h, http.MethodGet, "/api/v1/templates", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/templates", nil)
	req.Header.Set(platform.APIKeyHeader, "s3cret")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	h := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/compatibility", nil)
	req.Header.Set("Origin", "https://builder.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://builder.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestSpecs(t *testing.T) {
	h := newTestServer(t, nil)

	rec, body := do(t, h, http.MethodGet, "/api/v1/specs?category=CPU", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cpu", body["category"])

	entries, ok := body["specs"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, entries)
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		keys = append(keys, e.(map[string]any)["key"].(string))
	}
	assert.Contains(t, keys, "socket")
	assert.NotContains(t, keys, "wattage")

	rec, body = do(t, h, http.MethodGet, "/api/v1/specs?category=monitor", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["error"], "monitor")

	rec, _ = do(t, h, http.MethodPost, "/api/v1/specs?category=cpu", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestTemplates(t *testing.T) {
	rec, body := do(t, newTestServer(t, nil), http.MethodGet, "/api/v1/templates", "")
	require.Equal(t, http.StatusOK, rec.Code)

	templates, ok := body["templates"].([]any)
	require.True(t, ok)
	names := make([]string, 0, len(templates))
	for _, tmpl := range templates {
		names = append(names, tmpl.(map[string]any)["name"].(string))
	}
	assert.Equal(t, []string{"gaming", "workstation", "budget", "streaming"}, names)
}

func TestCompatibility(t *testing.T) {
	h := newTestServer(t, nil)

	t.Run("socket mismatch is denied", func(t *testing.T) {
		rec, body := do(t, h, http.MethodPost, "/api/v1/compatibility", mismatchedBuild)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		verdict := body["verdict"].(map[string]any)
		assert.Equal(t, string(policy.DecisionDeny), verdict["decision"])

		issues := body["compatibility"].(map[string]any)["issues"].([]any)
		require.Len(t, issues, 1)
		assert.Equal(t, "socket_mismatch", issues[0].(map[string]any)["type"])
		assert.NotEmpty(t, body["request_id"])
	})

	t.Run("matching sockets pass", func(t *testing.T) {
		build := `{"build": {
			"cpu": {"name": "Ryzen 7 7700", "socket": "AM5", "tdp": 65, "price": 299.99},
			"motherboard": {"name": "B650 Tomahawk", "socket": "AM5", "price": 199.99}
		}}`
		rec, body := do(t, h, http.MethodPost, "/api/v1/compatibility", build)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		assert.Equal(t, string(policy.DecisionPass), body["verdict"].(map[string]any)["decision"])
		assert.Equal(t, "499.98", body["total_price"])
	})

	t.Run("empty build", func(t *testing.T) {
		rec, body := do(t, h, http.MethodPost, "/api/v1/compatibility", `{"build": {}}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, body["compatibility"].(map[string]any)["issues"])
	})

	t.Run("malformed body", func(t *testing.T) {
		rec, body := do(t, h, http.MethodPost, "/api/v1/compatibility", `{"build": [`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, body["error"], "invalid request")
	})

	t.Run("unknown category", func(t *testing.T) {
		rec, _ := do(t, h, http.MethodPost, "/api/v1/compatibility", `{"build": {"monitor": {"name": "x"}}}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("wrong method", func(t *testing.T) {
		rec, _ := do(t, h, http.MethodGet, "/api/v1/compatibility", "")
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestPower(t *testing.T) {
	build := `{"build": {
		"cpu": {"name": "Ryzen 7 7700", "tdp": 65},
		"gpu": {"name": "RTX 4070", "tdp": 220},
		"psu": {"name": "CX650", "wattage": 650}
	}}`
	rec, body := do(t, newTestServer(t, nil), http.MethodPost, "/api/v1/power", build)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	budget := body["budget"].(map[string]any)
	assert.Equal(t, 650.0, budget["psu_wattage"])
	assert.Greater(t, budget["recommended_psu"].(float64), 0.0)

	components := budget["components"].([]any)
	require.NotEmpty(t, components)
	assert.Equal(t, "gpu", components[0].(map[string]any)["component"])
}

const boardCatalog = `{
	"motherboard": [
		{"id": "z790", "name": "Z790 Aorus", "socket": "LGA1700", "memory_slots": 4, "price": 100},
		{"id": "a620", "name": "A620M", "socket": "AM5", "memory_slots": 2, "price": 100}
	]
}`

const boardTemplate = `{
	"name": "boards",
	"entries": [{"category": "motherboard", "weight": 1, "priority_specs": [{"key": "memory_slots", "weight": 1}]}]
}`

func TestRecommendInlineCatalog(t *testing.T) {
	body := `{
		"custom_template": ` + boardTemplate + `,
		"catalog": ` + boardCatalog + `,
		"build": {"cpu": {"name": "Ryzen 7 7700", "socket": "AM5"}}
	}`
	rec, out := do(t, newTestServer(t, nil), http.MethodPost, "/api/v1/recommend", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	build := out["build"].(map[string]any)
	assert.Equal(t, "a620", build["motherboard"].(map[string]any)["id"])

	picks := out["report"].(map[string]any)["picks"].([]any)
	require.Len(t, picks, 1)
	pick := picks[0].(map[string]any)
	assert.Equal(t, "a620", pick["chosen"].(map[string]any)["id"])
	assert.Len(t, pick["probed"], 2)

	assert.Equal(t, string(policy.DecisionPass), out["verdict"].(map[string]any)["decision"])
}

func TestRecommendUsesCatalogSource(t *testing.T) {
	source := &fakeCatalog{catalog: scoring.Catalog{
		parts.CategoryMotherboard: {
			parts.MustFromRecord(parts.CategoryMotherboard, parts.Record{"id": "a620", "socket": "AM5", "memory_slots": 2}),
		},
	}}
	body := `{"custom_template": ` + boardTemplate + `, "build": {}}`

	rec, out := do(t, newTestServer(t, source), http.MethodPost, "/api/v1/recommend", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, []parts.Category{parts.CategoryMotherboard}, source.asked)
	assert.Contains(t, out["build"], "motherboard")
}

func TestRecommendErrors(t *testing.T) {
	tests := []struct {
		name   string
		source CatalogSource
		body   string
		status int
		errMsg string
	}{
		{
			name:   "unknown template",
			body:   `{"template": "esports", "catalog": {}}`,
			status: http.StatusBadRequest,
			errMsg: "unknown template",
		},
		{
			name:   "invalid custom template",
			body:   `{"custom_template": {"name": "x", "entries": [{"category": "cpu", "weight": 1, "priority_specs": [{"key": "wattage", "weight": 1}]}]}, "catalog": {}}`,
			status: http.StatusBadRequest,
			errMsg: "does not apply",
		},
		{
			name:   "no catalog anywhere",
			body:   `{"template": "gaming"}`,
			status: http.StatusBadRequest,
			errMsg: "no catalog configured",
		},
		{
			name:   "bad inline catalog",
			body:   `{"template": "gaming", "catalog": {"monitor": []}}`,
			status: http.StatusBadRequest,
			errMsg: "unknown category",
		},
		{
			name:   "store failure is not leaked",
			source: &fakeCatalog{err: errors.New("pq: password authentication failed")},
			body:   `{"template": "gaming"}`,
			status: http.StatusServiceUnavailable,
			errMsg: "catalog unavailable",
		},
		{
			name:   "unreachable store",
			source: &fakeCatalog{err: errors.New("dial tcp: connection refused")},
			body:   `{"template": "gaming"}`,
			status: http.StatusServiceUnavailable,
			errMsg: "catalog unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, out := do(t, newTestServer(t, tt.source), http.MethodPost, "/api/v1/recommend", tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, out["error"], tt.errMsg)
			assert.NotContains(t, out["error"], "pq:")
			assert.NotContains(t, out["error"], "dial tcp")
		})
	}
}

func TestRecommendBuiltInTemplate(t *testing.T) {
	body := `{"template": "Budget", "catalog": ` + boardCatalog + `}`
	rec, out := do(t, newTestServer(t, nil), http.MethodPost, "/api/v1/recommend", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	report := out["report"].(map[string]any)
	assert.Equal(t, "budget", report["template"])
	assert.Len(t, report["picks"], 7)
}
