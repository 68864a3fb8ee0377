package embeddings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/ziadkadry99/overcoach/internal/config"
)

func keyEnv(k string) func(string) string {
	return func(name string) string {
		if name == k {
			return "key"
		}
		return ""
	}
}

func TestNewDefaultsToOllama(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.EmbeddingProvider = ""

	e, err := New(cfg, func(string) string { return "" })
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	oe, ok := e.(*OllamaEmbedder)
	if !ok {
		t.Fatalf("expected *OllamaEmbedder, got %T", e)
	}
	if oe.Dimensions() != 768 {
		t.Errorf("expected 768 dims for nomic-embed-text, got %d", oe.Dimensions())
	}
	if oe.baseURL != defaultOllamaBaseURL {
		t.Errorf("expected default base url, got %q", oe.baseURL)
	}
}

func TestNewRequiresKeys(t *testing.T) {
	for _, p := range []config.ProviderType{config.ProviderOpenAI, config.ProviderGoogle} {
		cfg := config.DefaultConfig()
		cfg.EmbeddingProvider = p
		if _, err := New(cfg, func(string) string { return "" }); err == nil {
			t.Errorf("expected error for %s without API key", p)
		}
	}
}

func TestNewDimensions(t *testing.T) {
	tests := []struct {
		provider config.ProviderType
		model    string
		env      string
		wantName string
		wantDims int
	}{
		{config.ProviderOpenAI, "", "OPENAI_API_KEY", "openai/text-embedding-3-small", 1536},
		{config.ProviderOpenAI, "text-embedding-3-large", "OPENAI_API_KEY", "openai/text-embedding-3-large", 3072},
		{config.ProviderGoogle, "text-embedding-004", "GOOGLE_API_KEY", "google/text-embedding-004", 768},
		{config.ProviderOllama, "mxbai-embed-large", "", "ollama/mxbai-embed-large", 1024},
		{config.ProviderOllama, "custom-model", "", "ollama/custom-model", 768},
	}

	for _, tt := range tests {
		t.Run(tt.wantName, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.EmbeddingProvider = tt.provider
			cfg.EmbeddingModel = tt.model
			e, err := New(cfg, keyEnv(tt.env))
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if e.Name() != tt.wantName || e.Dimensions() != tt.wantDims {
				t.Errorf("got %s/%d, want %s/%d", e.Name(), e.Dimensions(), tt.wantName, tt.wantDims)
			}
		})
	}
}

func TestClipKeepsRunesWhole(t *testing.T) {
	// "ú" is two bytes; place it across the limit.
	text := strings.Repeat("a", maxInputBytes-1) + "úcio"
	got := clip(text)
	if !utf8.ValidString(got) {
		t.Fatalf("clipped text is not valid UTF-8: %q", got[len(got)-4:])
	}
	if len(got) != maxInputBytes-1 {
		t.Errorf("len = %d, want %d", len(got), maxInputBytes-1)
	}

	if short := "Torbjörn"; clip(short) != short {
		t.Errorf("short text changed: %q", clip(short))
	}
}

func TestOllamaEmbed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var req ollamaEmbedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		if len(req.Input) != 2 {
			t.Errorf("expected one batched request with 2 inputs, got %d", len(req.Input))
		}
		for _, in := range req.Input {
			if len(in) > maxInputBytes || !utf8.ValidString(in) {
				t.Errorf("input not clipped cleanly: %d bytes", len(in))
			}
		}
		w.Write([]byte(`{"embeddings":[[0.1,0.2,0.3],[0.4,0.5,0.6]]}`))
	}))
	defer srv.Close()

	e := NewOllamaEmbedder("nomic-embed-text", 3, srv.URL)
	vecs, err := e.Embed(context.Background(), []string{"Reinhardt", strings.Repeat("ö", maxInputBytes)})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vecs) != 2 || vecs[1][0] != 0.4 {
		t.Errorf("unexpected vectors: %v", vecs)
	}
}

func TestOllamaEmbedCountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"embeddings":[[0.1]]}`))
	}))
	defer srv.Close()

	e := NewOllamaEmbedder("nomic-embed-text", 1, srv.URL)
	if _, err := e.Embed(context.Background(), []string{"Ana", "Baptiste"}); err == nil {
		t.Error("expected error when fewer embeddings are returned")
	}
}

func TestOpenAIEmbedOrdersByIndex(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/embeddings") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"object":"list","data":[
			{"object":"embedding","index":1,"embedding":[2,2]},
			{"object":"embedding","index":0,"embedding":[1,1]}
		],"model":"text-embedding-3-small"}`))
	}))
	defer srv.Close()

	e := NewOpenAIEmbedder("key", "text-embedding-3-small", 2, srv.URL+"/v1")
	vecs, err := e.Embed(context.Background(), []string{"Ana", "Kiriko"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if vecs[0][0] != 1 || vecs[1][0] != 2 {
		t.Errorf("vectors not in input order: %v", vecs)
	}
}

func TestGoogleEmbedBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/gemini-embedding-001:batchEmbedContents" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "key" {
			t.Error("api key header missing")
		}
		if r.URL.Query().Get("key") != "" {
			t.Error("api key must not be sent in the URL")
		}
		var req googleBatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		if len(req.Requests) != 2 || req.Requests[0].Model != "models/gemini-embedding-001" {
			t.Errorf("unexpected batch: %+v", req)
		}
		w.Write([]byte(`{"embeddings":[{"values":[0.1]},{"values":[0.2]}]}`))
	}))
	defer srv.Close()

	e := NewGoogleEmbedder("key", "gemini-embedding-001", 1)
	e.baseURL = srv.URL
	vecs, err := e.Embed(context.Background(), []string{"Ana", "Lúcio"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vecs) != 2 || vecs[1][0] != 0.2 {
		t.Errorf("unexpected vectors: %v", vecs)
	}
}

func TestGoogleEmbedError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":"bad key"}`))
	}))
	defer srv.Close()

	e := NewGoogleEmbedder("key", "gemini-embedding-001", 3072)
	e.baseURL = srv.URL
	if _, err := e.Embed(context.Background(), []string{"Ana"}); err == nil {
		t.Error("expected error")
	}
}

type fixedEmbedder struct{ vecs [][]float32 }

func (f fixedEmbedder) Embed(context.Context, []string) ([][]float32, error) { return f.vecs, nil }
func (f fixedEmbedder) Dimensions() int                                       { return 2 }
func (f fixedEmbedder) Name() string                                          { return "fixed" }

func TestToChromemFunc(t *testing.T) {
	fn := ToChromemFunc(fixedEmbedder{vecs: [][]float32{{1, 0}}})
	v, err := fn(context.Background(), "Lucio")
	if err != nil || len(v) != 2 {
		t.Fatalf("unexpected result %v, %v", v, err)
	}

	empty := ToChromemFunc(fixedEmbedder{})
	if _, err := empty(context.Background(), "Lucio"); err == nil {
		t.Error("expected error for empty embedding result")
	}
}
