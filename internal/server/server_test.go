package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ziadkadry99/overcoach/internal/coach"
	"github.com/ziadkadry99/overcoach/internal/db"
	"github.com/ziadkadry99/overcoach/internal/ingest"
	"github.com/ziadkadry99/overcoach/internal/overfast"
)

type mockCoach struct {
	suggestErr error
	counterErr error
	lastReq    coach.CompositionRequest
}

func (m *mockCoach) Suggest(_ context.Context, req coach.CompositionRequest) (*coach.TeamCompositionResult, error) {
	m.lastReq = req
	if m.suggestErr != nil {
		return nil, m.suggestErr
	}
	res := coach.ParseResponse("RECOMMENDED TEAM\nTank: Sigma - absorbs Bastion\nCOUNTER STRATEGY\nPoke.")
	return &res, nil
}

func (m *mockCoach) Counter(_ context.Context, req coach.HeroCounterRequest) (*coach.HeroCounterResult, error) {
	if m.counterErr != nil {
		return nil, m.counterErr
	}
	return &coach.HeroCounterResult{Hero: req.HeroName, Counters: "Genji, Junkrat"}, nil
}

type mockCatalog struct{ err error }

func (m mockCatalog) Heroes(context.Context) ([]overfast.HeroSummary, error) {
	return []overfast.HeroSummary{{Key: "ana", Name: "Ana", Role: "support", Portrait: "x"}}, m.err
}

func (m mockCatalog) Maps(context.Context) ([]overfast.Map, error) {
	return []overfast.Map{{Name: "Ilios", Location: "Greece"}}, m.err
}

type mockIndex struct{ heroes, maps int }

func (m mockIndex) Counts() (int, int) { return m.heroes, m.maps }

type mockPinger struct{ err error }

func (m mockPinger) Ping(context.Context) error { return m.err }

func newTestServer(t *testing.T, deps Deps) *Server {
	t.Helper()
	if deps.Coach == nil {
		deps.Coach = &mockCoach{}
	}
	return New(Config{Port: 0, DataDir: t.TempDir()}, deps)
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestRoot(t *testing.T) {
	w := do(t, newTestServer(t, Deps{}), "GET", "/", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "/health") {
		t.Fatalf("root: %d %s", w.Code, w.Body.String())
	}
}

func TestSuggest(t *testing.T) {
	mc := &mockCoach{}
	srv := newTestServer(t, Deps{Coach: mc})

	w := do(t, srv, "POST", "/suggest", `{"map_name":"King's Row","enemy_team":["Bastion"],"difficulties":"bunker"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if mc.lastReq.MapName != "King's Row" || len(mc.lastReq.EnemyTeam) != 1 || mc.lastReq.Difficulties != "bunker" {
		t.Errorf("request not decoded: %+v", mc.lastReq)
	}

	var res coach.TeamCompositionResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(res.RecommendedTeam) != 1 || res.RecommendedTeam[0].Name != "Sigma" || res.Strategy != "Poke." {
		t.Errorf("unexpected result: %+v", res)
	}
	if !strings.Contains(w.Body.String(), `"alternatives":[]`) {
		t.Errorf("alternatives should encode as []: %s", w.Body.String())
	}
}

func TestSuggest_ErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
		want int
	}{
		{"malformed body", `{"map_name":`, nil, http.StatusBadRequest},
		{"invalid request", `{}`, fmt.Errorf("%w: map_name is required", coach.ErrInvalidRequest), http.StatusBadRequest},
		{"upstream", `{"map_name":"Ilios"}`, fmt.Errorf("%w: completion: refused", coach.ErrUpstreamUnavailable), http.StatusServiceUnavailable},
		{"other", `{"map_name":"Ilios"}`, errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, Deps{Coach: &mockCoach{suggestErr: tt.err}})
			w := do(t, srv, "POST", "/suggest", tt.body)
			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body["error"] == "" {
				t.Errorf("expected JSON error body, got %s", w.Body.String())
			}
		})
	}
}

func TestCounter(t *testing.T) {
	srv := newTestServer(t, Deps{})
	w := do(t, srv, "POST", "/counter", `{"hero_name":"Bastion"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var res coach.HeroCounterResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if res.Hero != "Bastion" || res.Counters != "Genji, Junkrat" {
		t.Errorf("unexpected result: %+v", res)
	}

	srv = newTestServer(t, Deps{Coach: &mockCoach{counterErr: fmt.Errorf("%w: x", coach.ErrUpstreamUnavailable)}})
	if w := do(t, srv, "POST", "/counter", `{"hero_name":"Bastion"}`); w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", w.Code)
	}
}

func TestHealth(t *testing.T) {
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer database.Close()
	runs := ingest.NewStore(database)
	run, err := runs.StartRun(context.Background())
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}

	srv := newTestServer(t, Deps{Index: mockIndex{heroes: 40, maps: 30}, Pinger: mockPinger{}, Runs: runs, ProviderName: "ollama"})
	w := do(t, srv, "GET", "/health", "")

	var resp HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Status != "healthy" || !resp.ProviderConnected || resp.HeroesIndexed != 40 || resp.MapsIndexed != 30 || resp.Provider != "ollama" {
		t.Errorf("unexpected health: %+v", resp)
	}
	if resp.LastIngest == nil || resp.LastIngest.ID != run.ID {
		t.Errorf("last ingest = %+v", resp.LastIngest)
	}

	srv = newTestServer(t, Deps{Pinger: mockPinger{err: errors.New("connection refused")}})
	w = do(t, srv, "GET", "/health", "")
	resp = HealthResponse{}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if w.Code != http.StatusOK || resp.Status != "degraded" || resp.ProviderConnected {
		t.Errorf("expected degraded, got %d %+v", w.Code, resp)
	}
}

func TestListings(t *testing.T) {
	srv := newTestServer(t, Deps{Catalog: mockCatalog{}})

	w := do(t, srv, "GET", "/heroes", "")
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != `[{"key":"ana","name":"Ana","role":"support"}]` {
		t.Errorf("heroes: %d %s", w.Code, w.Body.String())
	}
	w = do(t, srv, "GET", "/maps", "")
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != `[{"name":"Ilios","gamemodes":[],"location":"Greece"}]` {
		t.Errorf("maps: %d %s", w.Code, w.Body.String())
	}

	srv = newTestServer(t, Deps{Catalog: mockCatalog{err: errors.New("503")}})
	if w := do(t, srv, "GET", "/heroes", ""); w.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", w.Code)
	}
	srv = newTestServer(t, Deps{})
	if w := do(t, srv, "GET", "/maps", ""); w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 without catalog, got %d", w.Code)
	}
}

func TestDocument(t *testing.T) {
	dataDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dataDir, "heroes"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dataDir, "heroes", "ana.md"), []byte("# Ana\n\n- **Role**: support\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	srv := New(Config{DataDir: dataDir}, Deps{Coach: &mockCoach{}})

	w := do(t, srv, "GET", "/docs/heroes/ana", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "<h1>Ana</h1>") {
		t.Errorf("doc: %d %s", w.Code, w.Body.String())
	}
	for _, path := range []string{"/docs/heroes/mercy", "/docs/skins/ana", "/docs/heroes/..%2Fsecret"} {
		if w := do(t, srv, "GET", path, ""); w.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", path, w.Code)
		}
	}
}

func TestCORSHeaders(t *testing.T) {
	srv := New(Config{AllowAll: true}, Deps{Coach: &mockCoach{}})

	req := httptest.NewRequest("OPTIONS", "/suggest", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}
