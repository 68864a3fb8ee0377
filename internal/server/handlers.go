package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/overcoach/internal/coach"
	"github.com/ziadkadry99/overcoach/internal/ingest"
)

const maxBodyBytes = 1 << 20

// HealthResponse is the /health payload.
type HealthResponse struct {
	Status            string      `json:"status"`
	Provider          string      `json:"provider,omitempty"`
	ProviderConnected bool        `json:"provider_connected"`
	HeroesIndexed     int         `json:"heroes_indexed"`
	MapsIndexed       int         `json:"maps_indexed"`
	LastIngest        *ingest.Run `json:"last_ingest,omitempty"`
}

// HeroSimple is one /heroes entry.
type HeroSimple struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// MapSimple is one /maps entry.
type MapSimple struct {
	Name      string   `json:"name"`
	Gamemodes []string `json:"gamemodes"`
	Location  string   `json:"location,omitempty"`
}

func handleRoot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "Overcoach - Overwatch team composition coach",
			"health":  "/health",
			"suggest": "POST /suggest",
			"counter": "POST /counter",
			"heroes":  "/heroes",
			"maps":    "/maps",
			"docs":    "/docs/{heroes|maps}/{key}",
			"session": "/ws/coach",
		})
	}
}

func handleHealth(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{Provider: deps.ProviderName, ProviderConnected: true}

		if deps.Pinger != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
			resp.ProviderConnected = deps.Pinger.Ping(ctx) == nil
			cancel()
		}
		if deps.Index != nil {
			resp.HeroesIndexed, resp.MapsIndexed = deps.Index.Counts()
		}
		if deps.Runs != nil {
			if run, err := deps.Runs.LatestRun(r.Context()); err == nil {
				resp.LastIngest = run
			}
		}

		resp.Status = "healthy"
		if !resp.ProviderConnected {
			resp.Status = "degraded"
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleSuggest(c Coach) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req coach.CompositionRequest
		if !decodeBody(w, r, &req) {
			return
		}

		res, err := c.Suggest(r.Context(), req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func handleCounter(c Coach) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req coach.HeroCounterRequest
		if !decodeBody(w, r, &req) {
			return
		}

		res, err := c.Counter(r.Context(), req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func handleListHeroes(catalog Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if catalog == nil {
			writeJSONError(w, http.StatusServiceUnavailable, "hero catalog not configured")
			return
		}
		heroes, err := catalog.Heroes(r.Context())
		if err != nil {
			writeJSONError(w, http.StatusBadGateway, "fetching heroes: "+err.Error())
			return
		}
		out := make([]HeroSimple, 0, len(heroes))
		for _, h := range heroes {
			out = append(out, HeroSimple{Key: h.Key, Name: h.Name, Role: h.Role})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func handleListMaps(catalog Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if catalog == nil {
			writeJSONError(w, http.StatusServiceUnavailable, "map catalog not configured")
			return
		}
		maps, err := catalog.Maps(r.Context())
		if err != nil {
			writeJSONError(w, http.StatusBadGateway, "fetching maps: "+err.Error())
			return
		}
		out := make([]MapSimple, 0, len(maps))
		for _, m := range maps {
			modes := m.Gamemodes
			if modes == nil {
				modes = []string{}
			}
			out = append(out, MapSimple{Name: m.Name, Gamemodes: modes, Location: m.Location})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

var docKeyRe = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

var docDirs = map[string]string{"heroes": "heroes", "maps": "maps"}

func handleDocument(dataDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dir, ok := docDirs[chi.URLParam(r, "kind")]
		key := chi.URLParam(r, "key")
		if !ok || !docKeyRe.MatchString(key) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}

		src, err := os.ReadFile(filepath.Join(dataDir, dir, key+".md"))
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		html, err := ingest.RenderHTML(src)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(html)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// statusFor maps coach errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, coach.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, coach.ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSONError(w, statusFor(err), err.Error())
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
