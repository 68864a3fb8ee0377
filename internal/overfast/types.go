package overfast

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// HeroSummary is one entry of the /heroes listing.
type HeroSummary struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Portrait string `json:"portrait,omitempty"`
	Role     string `json:"role"`
}

// HeroDetail is the /heroes/{key} payload. Raw holds the response body as
// received.
type HeroDetail struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Portrait    string          `json:"portrait,omitempty"`
	Role        string          `json:"role"`
	Location    string          `json:"location,omitempty"`
	Hitpoints   *Hitpoints      `json:"hitpoints,omitempty"`
	Abilities   []Ability       `json:"abilities,omitempty"`
	Story       *Story          `json:"story,omitempty"`
	Raw         json.RawMessage `json:"-"`
}

// Ability is a hero ability.
type Ability struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon,omitempty"`
}

// Story is a hero's lore. The API sends either an object with a summary or
// a bare string; both decode into Summary.
type Story struct {
	Summary string `json:"summary"`
}

func (s *Story) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &s.Summary)
	}
	var obj struct {
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	s.Summary = obj.Summary
	return nil
}

// HitpointValue is one hitpoint pool, e.g. health or armor.
type HitpointValue struct {
	Kind  string
	Value float64
}

// Hitpoints keeps the pools in the order the API lists them. A bare number
// decodes as a single "total" pool.
type Hitpoints []HitpointValue

func (h *Hitpoints) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] != '{' {
		var total float64
		if err := json.Unmarshal(data, &total); err != nil {
			return fmt.Errorf("hitpoints: %w", err)
		}
		*h = Hitpoints{{Kind: "total", Value: total}}
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return err
	}
	var out Hitpoints
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		kind, _ := tok.(string)
		var v *float64
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("hitpoints %s: %w", kind, err)
		}
		if v != nil {
			out = append(out, HitpointValue{Kind: kind, Value: *v})
		}
	}
	*h = out
	return nil
}

// Map is one entry of the /maps listing. Raw holds the entry as received.
type Map struct {
	Key         string          `json:"key,omitempty"`
	Name        string          `json:"name"`
	Screenshot  string          `json:"screenshot,omitempty"`
	Gamemodes   []string        `json:"gamemodes,omitempty"`
	Location    string          `json:"location,omitempty"`
	CountryCode string          `json:"country_code,omitempty"`
	Raw         json.RawMessage `json:"-"`
}

// Gamemode is one entry of the /gamemodes listing.
type Gamemode struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Icon        string `json:"icon,omitempty"`
	Description string `json:"description,omitempty"`
	Screenshot  string `json:"screenshot,omitempty"`
}
