package swaggerkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	phttp "ipclaim/internal/platform/net/http"
	kit "ipclaim/internal/platform/testkit"

	"github.com/go-chi/chi/v5"
)

func serve(t *testing.T, enabled bool, path string) *httptest.ResponseRecorder {
	t.Helper()
	mux := chi.NewRouter()
	Mount(phttp.AdaptChi(mux), enabled)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestDocJSON_Generated(t *testing.T) {
	kit.Serial(t)
	t.Setenv("CORE_API_DOCS_TITLE_SUFFIX", "(staging)")

	rr := serve(t, true, "/api/docs/doc.json")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var spec map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &spec); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if spec["openapi"] != "3.0.3" {
		t.Fatalf("openapi = %v", spec["openapi"])
	}
	kit.MustContain(t, spec["info"].(map[string]any)["title"].(string), "(staging)")
	servers, _ := spec["servers"].([]any)
	if len(servers) != 1 || servers[0].(map[string]any)["url"] != "/api/v1" {
		t.Fatalf("servers = %v", spec["servers"])
	}
	paths := spec["paths"].(map[string]any)
	for _, p := range []string{"/claims", "/claims/by-hash/{hash}", "/claims/{id}", "/meta/health"} {
		if _, ok := paths[p]; !ok {
			t.Fatalf("missing path %s", p)
		}
	}
	if _, ok := spec["components"].(map[string]any)["schemas"].(map[string]any)["ErrorResponse"]; !ok {
		t.Fatalf("ErrorResponse missing")
	}
	// a documented 500 is kept
	post := paths["/claims"].(map[string]any)["post"].(map[string]any)
	if d := post["responses"].(map[string]any)["500"].(map[string]any)["description"]; d != "Database error or Insert failed" {
		t.Fatalf("500 description = %v", d)
	}
	health := paths["/meta/health"].(map[string]any)["get"].(map[string]any)
	if _, ok := health["responses"].(map[string]any)["500"]; !ok {
		t.Fatalf("default 500 missing")
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   map[string]any
	}{
		{"swagger 2", map[string]any{"swagger": "2.0"}},
		{"oas 3.1", map[string]any{"openapi": "3.1.0"}},
		{"unversioned", map[string]any{"paths": map[string]any{"/x": map[string]any{"get": map[string]any{}, "parameters": []any{}}}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			normalize(tc.in)
			if tc.in["openapi"] != "3.0.3" || tc.in["swagger"] != nil || tc.in["servers"] == nil {
				t.Fatalf("spec = %v", tc.in)
			}
			if paths, ok := tc.in["paths"].(map[string]any); ok {
				get := paths["/x"].(map[string]any)["get"].(map[string]any)
				if get["responses"].(map[string]any)["500"] == nil {
					t.Fatalf("500 not injected: %v", get)
				}
			}
		})
	}
}

func TestDocJSON_BadDoc(t *testing.T) {
	kit.Serial(t)
	kit.Swap(t, &readDoc, func() string { return "{" })

	if rr := serve(t, true, "/api/docs/doc.json"); rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestMount(t *testing.T) {
	kit.Serial(t)

	rr := serve(t, true, "/api/docs")
	if rr.Code != http.StatusMovedPermanently || rr.Header().Get("Location") != "/api/docs/" {
		t.Fatalf("redirect = %d %q", rr.Code, rr.Header().Get("Location"))
	}
	if rr := serve(t, false, "/api/docs/doc.json"); rr.Code != http.StatusNotFound {
		t.Fatalf("disabled docs status = %d", rr.Code)
	}
}
