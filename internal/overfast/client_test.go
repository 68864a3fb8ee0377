package overfast

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/heroes", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"key":"ana","name":"Ana","role":"support"},{"key":"dva","name":"D.Va","role":"tank"}]`)
	})
	mux.HandleFunc("/heroes/ana", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"name":"Ana","role":"support","location":"Cairo, Egypt",
			"hitpoints":{"health":250,"armor":0,"shields":0,"total":250},
			"abilities":[{"name":"Biotic Rifle","description":"Heals allies.","icon":"https://x/rifle.png"}],
			"story":{"summary":"A founding member of Overwatch."}}`)
	})
	mux.HandleFunc("/heroes/busy", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	})
	mux.HandleFunc("/maps", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"name":"King's Row","gamemodes":["hybrid"],"location":"London, United Kingdom","country_code":"UK","screenshot":"https://x/kr.jpg"}]`)
	})
	mux.HandleFunc("/gamemodes", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"key":"hybrid","name":"Hybrid"}]`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Heroes(t *testing.T) {
	c := NewClient(newTestServer(t).URL + "/")

	heroes, err := c.Heroes(context.Background())
	if err != nil {
		t.Fatalf("Heroes: %v", err)
	}
	if len(heroes) != 2 || heroes[1].Key != "dva" || heroes[1].Role != "tank" {
		t.Errorf("unexpected heroes: %+v", heroes)
	}
}

func TestClient_Hero(t *testing.T) {
	c := NewClient(newTestServer(t).URL)

	hero, err := c.Hero(context.Background(), "ana")
	if err != nil {
		t.Fatalf("Hero: %v", err)
	}
	if hero.Name != "Ana" || hero.Location != "Cairo, Egypt" {
		t.Errorf("unexpected hero: %+v", hero)
	}
	if hero.Story == nil || hero.Story.Summary != "A founding member of Overwatch." {
		t.Errorf("story = %+v", hero.Story)
	}
	if hero.Hitpoints == nil || len(*hero.Hitpoints) != 4 || (*hero.Hitpoints)[0].Kind != "health" || (*hero.Hitpoints)[3].Value != 250 {
		t.Errorf("hitpoints = %+v", hero.Hitpoints)
	}
	if len(hero.Abilities) != 1 || hero.Abilities[0].Icon == "" {
		t.Errorf("abilities = %+v", hero.Abilities)
	}
	if !strings.Contains(string(hero.Raw), "Biotic Rifle") {
		t.Error("raw body not retained")
	}
}

func TestClient_RateLimited(t *testing.T) {
	c := NewClient(newTestServer(t).URL)

	_, err := c.Hero(context.Background(), "busy")
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsRateLimited(err) {
		t.Errorf("IsRateLimited(%v) = false", err)
	}
	if IsRateLimited(fmt.Errorf("wrapped: %w", &StatusError{StatusCode: 500})) {
		t.Error("500 reported as rate limited")
	}
}

func TestClient_MapsAndGamemodes(t *testing.T) {
	c := NewClient(newTestServer(t).URL)

	maps, err := c.Maps(context.Background())
	if err != nil {
		t.Fatalf("Maps: %v", err)
	}
	if len(maps) != 1 || maps[0].CountryCode != "UK" || maps[0].Gamemodes[0] != "hybrid" {
		t.Errorf("unexpected maps: %+v", maps)
	}
	if !strings.Contains(string(maps[0].Raw), "King's Row") {
		t.Error("raw map not retained")
	}

	modes, err := c.Gamemodes(context.Background())
	if err != nil {
		t.Fatalf("Gamemodes: %v", err)
	}
	if len(modes) != 1 || modes[0].Name != "Hybrid" {
		t.Errorf("unexpected gamemodes: %+v", modes)
	}
}

func TestStoryAndHitpointVariants(t *testing.T) {
	c := NewClient("")
	if c.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %q", c.baseURL)
	}

	var s Story
	if err := s.UnmarshalJSON([]byte(`"plain lore"`)); err != nil || s.Summary != "plain lore" {
		t.Errorf("string story = %+v, %v", s, err)
	}

	var h Hitpoints
	if err := h.UnmarshalJSON([]byte(`600`)); err != nil || len(h) != 1 || h[0].Kind != "total" || h[0].Value != 600 {
		t.Errorf("bare hitpoints = %+v, %v", h, err)
	}
	if err := h.UnmarshalJSON([]byte(`{"health":200,"armor":null}`)); err != nil || len(h) != 1 {
		t.Errorf("null pool not skipped: %+v, %v", h, err)
	}
}
